package domain

import (
	"errors"
	"fmt"
	"strings"
)

// MaxDistractors is how many wrong options an author may add to an mcq question.
const MaxDistractors = 3

// ErrEditOutOfRange is returned when an edit targets a question or option that does not exist.
var ErrEditOutOfRange = errors.New("edit targets a missing question or option")

// AuthoringMeta holds the game-level settings chosen before questions are written.
type AuthoringMeta struct {
	GameName string
	Topic    string
	Kind     Kind
	Mode     Mode
	Creator  string
	JoinCode string
}

// AuthoringQuestion is one question being written.
type AuthoringQuestion struct {
	Prompt      string
	Answer      string
	Distractors []string
}

// Authoring is an immutable quiz draft. Every edit returns a new value and leaves
// the receiver untouched, so earlier values can be kept for undo.
type Authoring struct {
	Meta      AuthoringMeta
	questions []AuthoringQuestion
}

// NewAuthoring starts a draft with amount empty questions.
func NewAuthoring(meta AuthoringMeta, amount int) Authoring {
	if amount < 0 {
		amount = 0
	}
	return Authoring{Meta: meta, questions: make([]AuthoringQuestion, amount)}
}

// Questions returns a copy of the questions.
func (a Authoring) Questions() []AuthoringQuestion {
	return a.clone().questions
}

// Edit is a single change to a draft.
type Edit interface {
	apply(a *Authoring) error
}

// SetPrompt replaces the prompt of question Index.
type SetPrompt struct {
	Index int
	Value string
}

// SetAnswer replaces the answer of question Index.
type SetAnswer struct {
	Index int
	Value string
}

// AddOption appends an empty distractor to question Index, up to MaxDistractors.
type AddOption struct {
	Index int
}

// SetOption replaces distractor Option of question Index.
type SetOption struct {
	Index  int
	Option int
	Value  string
}

// Apply returns a new draft with e applied.
func (a Authoring) Apply(e Edit) (Authoring, error) {
	next := a.clone()
	if err := e.apply(&next); err != nil {
		return a, err
	}
	return next, nil
}

func (e SetPrompt) apply(a *Authoring) error {
	q, err := a.question(e.Index)
	if err != nil {
		return err
	}
	q.Prompt = e.Value
	return nil
}

func (e SetAnswer) apply(a *Authoring) error {
	q, err := a.question(e.Index)
	if err != nil {
		return err
	}
	q.Answer = e.Value
	return nil
}

func (e AddOption) apply(a *Authoring) error {
	q, err := a.question(e.Index)
	if err != nil {
		return err
	}
	if len(q.Distractors) < MaxDistractors {
		q.Distractors = append(q.Distractors, "")
	}
	return nil
}

func (e SetOption) apply(a *Authoring) error {
	q, err := a.question(e.Index)
	if err != nil {
		return err
	}
	if e.Option < 0 || e.Option >= len(q.Distractors) {
		return ErrEditOutOfRange
	}
	q.Distractors[e.Option] = e.Value
	return nil
}

func (a *Authoring) question(i int) (*AuthoringQuestion, error) {
	if i < 0 || i >= len(a.questions) {
		return nil, ErrEditOutOfRange
	}
	return &a.questions[i], nil
}

func (a Authoring) clone() Authoring {
	questions := make([]AuthoringQuestion, len(a.questions))
	for i, q := range a.questions {
		q.Distractors = append([]string(nil), q.Distractors...)
		questions[i] = q
	}
	return Authoring{Meta: a.Meta, questions: questions}
}

// Validate runs the checks the authoring form performs before submitting.
func (a Authoring) Validate() error {
	verr := &ValidationError{}
	if len(a.questions) == 0 {
		verr.Add("questions", "at least one question is required")
	}
	for i, q := range a.questions {
		field := fmt.Sprintf("questions[%d]", i)
		if strings.TrimSpace(q.Prompt) == "" {
			verr.Add(field+".question", "all questions must be filled out")
		}
		if strings.TrimSpace(q.Answer) == "" {
			verr.Add(field+".answer", "each question must have an answer")
		}
		if a.Meta.Kind != KindMCQ {
			continue
		}
		if len(q.Distractors) < 1 {
			verr.Add(field+".options", "at least 1 option should be there")
		}
		for j, d := range q.Distractors {
			if strings.TrimSpace(d) == "" {
				verr.Add(fmt.Sprintf("%s.options[%d]", field, j), "option must not be empty")
			}
		}
	}
	return verr.OrNil()
}

// Draft converts the authoring state into publish records.
func (a Authoring) Draft() Draft {
	draft := make(Draft, 0, len(a.questions))
	for _, q := range a.questions {
		rec := DraftRecord{
			Prompt:   q.Prompt,
			Answer:   q.Answer,
			GameName: a.Meta.GameName,
			Kind:     a.Meta.Kind,
			Creator:  a.Meta.Creator,
			Topic:    a.Meta.Topic,
			Mode:     a.Meta.Mode,
			JoinCode: a.Meta.JoinCode,
		}
		if a.Meta.Kind == KindMCQ {
			rec.Options = append([]string(nil), q.Distractors...)
		}
		draft = append(draft, rec)
	}
	return draft
}
