package app_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"arena-quiz-service/internal/app"
	"arena-quiz-service/internal/domain"
	"arena-quiz-service/internal/infra/memory"
)

var alice = domain.Caller{ID: "u1", DisplayName: "Alice"}

func mcqRecord(question, answer string, options ...string) domain.DraftRecord {
	return domain.DraftRecord{
		Prompt:   question,
		Answer:   answer,
		Options:  options,
		GameName: "Math Night",
		Kind:     domain.KindMCQ,
		Creator:  "user",
		Topic:    "math",
		Mode:     domain.ModePublic,
		JoinCode: "abc123",
	}
}

func openRecord(question, answer string) domain.DraftRecord {
	return domain.DraftRecord{
		Prompt:   question,
		Answer:   answer,
		GameName: "Science Trivia",
		Kind:     domain.KindOpenEnded,
		Creator:  "Ms. Frizzle",
		Topic:    "science",
		Mode:     domain.ModePrivate,
		JoinCode: "sci42",
	}
}

func TestPublishMCQShufflesAnswerIntoOptions(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewGameRepository()
	svc := app.NewPublicationService(repo)

	draft := domain.Draft{mcqRecord("2+2?", "4", "3", "5", "22")}
	published, err := svc.Publish(ctx, alice, draft)
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if published.JoinCode != "abc123" || published.GameID == "" {
		t.Fatalf("unexpected result %+v", published)
	}

	game, err := repo.FindGameByJoinCode(ctx, "abc123")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if game.Creator != "Alice" || game.CreatorID != "u1" {
		t.Fatalf("expected creator resolved to caller, got %q/%q", game.Creator, game.CreatorID)
	}
	if game.Slug != "math-night" {
		t.Fatalf("unexpected slug %q", game.Slug)
	}
	if len(game.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(game.Questions))
	}
	opts := append([]string(nil), game.Questions[0].Options...)
	sort.Strings(opts)
	want := []string{"22", "3", "4", "5"}
	if len(opts) != len(want) {
		t.Fatalf("expected %d options, got %v", len(want), opts)
	}
	for i := range want {
		if opts[i] != want[i] {
			t.Fatalf("expected options %v, got %v", want, opts)
		}
	}
	if repo.TopicCount("math") != 1 {
		t.Fatalf("expected topic count 1, got %d", repo.TopicCount("math"))
	}
}

func TestPublishUsesInjectedShuffle(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewGameRepository()
	reverse := func(n int, swap func(i, j int)) {
		for i := 0; i < n/2; i++ {
			swap(i, n-1-i)
		}
	}
	svc := app.NewPublicationService(repo).WithShuffle(reverse)

	if _, err := svc.Publish(ctx, alice, domain.Draft{mcqRecord("2+2?", "4", "3", "5", "22")}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	game, _ := repo.FindGameByJoinCode(ctx, "abc123")
	got := game.Questions[0].Options
	want := []string{"4", "22", "5", "3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestPublishOpenEndedStoresNoOptions(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewGameRepository()
	svc := app.NewPublicationService(repo)

	rec := openRecord("What is H2O?", "water")
	rec.Options = []string{"ignored"}
	draft := domain.Draft{rec, openRecord("Closest star?", "the sun"), openRecord("Boiling point?", "100C")}
	if _, err := svc.Publish(ctx, alice, draft); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	game, err := repo.FindGameByJoinCode(ctx, "sci42")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if game.Creator != "Ms. Frizzle" {
		t.Fatalf("expected custom creator label, got %q", game.Creator)
	}
	if len(game.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(game.Questions))
	}
	for i, q := range game.Questions {
		if q.Options != nil {
			t.Fatalf("question %d: expected no options, got %v", i, q.Options)
		}
		if q.GameID != game.ID || q.Position != i {
			t.Fatalf("question %d: unexpected game/position %q/%d", i, q.GameID, q.Position)
		}
	}
}

func TestPublishRequiresCaller(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewGameRepository()
	svc := app.NewPublicationService(repo)

	_, err := svc.Publish(ctx, domain.Caller{}, domain.Draft{openRecord("q", "a")})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if repo.GameCount() != 0 || repo.QuestionCount() != 0 || repo.TopicCount("science") != 0 {
		t.Fatalf("expected nothing written")
	}
}

func TestPublishIncrementsTopicPerGame(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewGameRepository()
	svc := app.NewPublicationService(repo)

	first := openRecord("q1", "a1")
	second := openRecord("q2", "a2")
	second.JoinCode = "sci43"
	for _, rec := range []domain.DraftRecord{first, second} {
		if _, err := svc.Publish(ctx, alice, domain.Draft{rec}); err != nil {
			t.Fatalf("publish failed: %v", err)
		}
	}
	if repo.TopicCount("science") != 2 {
		t.Fatalf("expected science count 2, got %d", repo.TopicCount("science"))
	}
}

func TestPublishRejectsInvalidDraft(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name  string
		draft domain.Draft
		field string
	}{
		{name: "empty", draft: domain.Draft{}, field: "questions"},
		{name: "blank question", draft: domain.Draft{openRecord("   ", "water")}, field: "[0].question"},
		{name: "blank answer", draft: domain.Draft{openRecord("What is H2O?", " \t ")}, field: "[0].answer"},
		{name: "blank creator", draft: func() domain.Draft {
			r := openRecord("q", "a")
			r.Creator = "  "
			return domain.Draft{r}
		}(), field: "[0].Creater"},
		{name: "short topic", draft: func() domain.Draft {
			r := openRecord("q", "a")
			r.Topic = "sci"
			return domain.Draft{r}
		}(), field: "[0].topic"},
		{name: "bad kind", draft: func() domain.Draft {
			r := openRecord("q", "a")
			r.Kind = "essay"
			return domain.Draft{r}
		}(), field: "[0].type"},
		{name: "mixed topics", draft: func() domain.Draft {
			r := openRecord("q2", "a2")
			r.Topic = "biology"
			return domain.Draft{openRecord("q1", "a1"), r}
		}(), field: "[1].topic"},
		{name: "missing distractor", draft: domain.Draft{mcqRecord("2+2?", "4", "3", "5")}, field: "[0].options"},
		{name: "distractor equals answer", draft: domain.Draft{mcqRecord("2+2?", "4", "3", "4", "5")}, field: "[0].options[1]"},
		{name: "too many", draft: func() domain.Draft {
			d := make(domain.Draft, app.MaxDraftQuestions+1)
			for i := range d {
				d[i] = openRecord("q", "a")
			}
			return d
		}(), field: "questions"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := memory.NewGameRepository()
			svc := app.NewPublicationService(repo)
			_, err := svc.Publish(ctx, alice, tc.draft)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			found := false
			for _, issue := range verr.Issues {
				if issue.Field == tc.field {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected issue on %q, got %+v", tc.field, verr.Issues)
			}
			if repo.GameCount() != 0 {
				t.Fatalf("expected nothing written")
			}
		})
	}
}

func TestPublishConflictingJoinCode(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewGameRepository()
	svc := app.NewPublicationService(repo)

	if _, err := svc.Publish(ctx, alice, domain.Draft{openRecord("q", "a")}); err != nil {
		t.Fatalf("first publish failed: %v", err)
	}
	_, err := svc.Publish(ctx, alice, domain.Draft{openRecord("q", "a")})
	if !errors.Is(err, domain.ErrJoinCodeTaken) {
		t.Fatalf("expected join code conflict, got %v", err)
	}
	if domain.KindOf(err) != domain.KindConflict {
		t.Fatalf("expected Conflict kind, got %s", domain.KindOf(err))
	}
	if repo.GameCount() != 1 || repo.TopicCount("science") != 1 {
		t.Fatalf("expected second publish to leave no trace")
	}
}

func TestPublishGeneratesJoinCode(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewGameRepository()
	svc := app.NewPublicationService(repo)

	rec := openRecord("q", "a")
	rec.JoinCode = ""
	published, err := svc.Publish(ctx, alice, domain.Draft{rec})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if len(published.JoinCode) != 6 {
		t.Fatalf("expected 6 char join code, got %q", published.JoinCode)
	}
	for _, r := range published.JoinCode {
		if !strings.ContainsRune("0123456789abcdef", r) {
			t.Fatalf("expected hex join code, got %q", published.JoinCode)
		}
	}
	if _, err := repo.FindGameByJoinCode(ctx, published.JoinCode); err != nil {
		t.Fatalf("expected game under generated code: %v", err)
	}
}

// failingStore runs the real transaction but fails the question insert.
type failingStore struct {
	*memory.GameRepository
}

type failingWriter struct {
	app.GameWriter
}

func (failingWriter) CreateQuestions(context.Context, []domain.Question) error {
	return errors.New("disk full")
}

func (s failingStore) WithinTx(ctx context.Context, fn func(ctx context.Context, w app.GameWriter) error) error {
	return s.GameRepository.WithinTx(ctx, func(ctx context.Context, w app.GameWriter) error {
		return fn(ctx, failingWriter{GameWriter: w})
	})
}

func TestPublishRollsBackOnQuestionFailure(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewGameRepository()
	svc := app.NewPublicationService(failingStore{GameRepository: repo})

	_, err := svc.Publish(ctx, alice, domain.Draft{openRecord("q", "a")})
	if err == nil {
		t.Fatalf("expected publish to fail")
	}
	if domain.KindOf(err) != domain.KindPersistence {
		t.Fatalf("expected persistence kind, got %s", domain.KindOf(err))
	}
	if repo.GameCount() != 0 || repo.TopicCount("science") != 0 {
		t.Fatalf("expected rollback, games=%d topic=%d", repo.GameCount(), repo.TopicCount("science"))
	}
}
