package app

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"arena-quiz-service/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// MaxDraftQuestions caps how many questions a single quiz may carry.
const MaxDraftQuestions = 10

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	// Report wire names so messages match what the client sent.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *PublicationService) validateDraft(draft domain.Draft) error {
	verr := &domain.ValidationError{}
	if len(draft) == 0 {
		verr.Add("questions", "at least one question is required")
		return verr
	}
	if len(draft) > MaxDraftQuestions {
		verr.Add("questions", fmt.Sprintf("at most %d questions are allowed", MaxDraftQuestions))
	}

	head := draft[0]
	for i, rec := range draft {
		prefix := fmt.Sprintf("[%d].", i)
		if err := s.validate.Struct(rec); err != nil {
			var fieldErrs validator.ValidationErrors
			if !errors.As(err, &fieldErrs) {
				return err
			}
			for _, fe := range fieldErrs {
				verr.Add(prefix+fe.Field(), describeFieldError(fe))
			}
		}
		if i > 0 {
			checkSameGame(verr, prefix, head, rec)
		}
		if rec.Kind == domain.KindMCQ {
			checkDistractors(verr, prefix, rec)
		}
	}
	return verr.OrNil()
}

func checkSameGame(verr *domain.ValidationError, prefix string, head, rec domain.DraftRecord) {
	const msg = "must match the first question"
	if rec.GameName != head.GameName {
		verr.Add(prefix+"GameName", msg)
	}
	if rec.Kind != head.Kind {
		verr.Add(prefix+"type", msg)
	}
	if rec.Creator != head.Creator {
		verr.Add(prefix+"Creater", msg)
	}
	if rec.Topic != head.Topic {
		verr.Add(prefix+"topic", msg)
	}
	if rec.Mode != head.Mode {
		verr.Add(prefix+"mode", msg)
	}
	if rec.JoinCode != head.JoinCode {
		verr.Add(prefix+"nanoid", msg)
	}
}

func checkDistractors(verr *domain.ValidationError, prefix string, rec domain.DraftRecord) {
	if len(rec.Options) != domain.MaxDistractors {
		verr.Add(prefix+"options", fmt.Sprintf("mcq questions need exactly %d options", domain.MaxDistractors))
		return
	}
	for j, opt := range rec.Options {
		field := fmt.Sprintf("%soptions[%d]", prefix, j)
		switch {
		case strings.TrimSpace(opt) == "":
			verr.Add(field, "must not be empty")
		case opt == rec.Answer:
			verr.Add(field, "must differ from the answer")
		}
	}
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "alphanum":
		return "must contain only letters and digits"
	default:
		return "is invalid"
	}
}
