package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	mrand "math/rand"
	"time"

	"arena-quiz-service/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// GameWriter is the set of writes a publication performs. Implementations are
// scoped to one transaction.
type GameWriter interface {
	CreateGame(ctx context.Context, game *domain.Game) error
	IncrementTopic(ctx context.Context, topic string) error
	CreateQuestions(ctx context.Context, questions []domain.Question) error
}

// GameStore runs fn as a single unit of work. If fn returns an error nothing it wrote is kept.
type GameStore interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, w GameWriter) error) error
}

// PublicationService validates and persists newly authored quizzes.
type PublicationService struct {
	store    GameStore
	validate *validator.Validate
	now      func() time.Time
	newID    func() string
	shuffle  func(n int, swap func(i, j int))
}

func NewPublicationService(store GameStore) *PublicationService {
	return &PublicationService{
		store:    store,
		validate: newValidator(),
		now:      time.Now,
		newID:    uuid.NewString,
		shuffle:  mrand.Shuffle,
	}
}

// WithShuffle replaces the option shuffler; tests use it for deterministic order.
func (s *PublicationService) WithShuffle(shuffle func(n int, swap func(i, j int))) *PublicationService {
	s.shuffle = shuffle
	return s
}

// Publish creates a game and its questions from draft on behalf of caller.
func (s *PublicationService) Publish(ctx context.Context, caller domain.Caller, draft domain.Draft) (domain.PublishedGame, error) {
	if !caller.Authenticated() {
		return domain.PublishedGame{}, domain.ErrUnauthorized
	}
	if err := s.validateDraft(draft); err != nil {
		return domain.PublishedGame{}, err
	}

	head := draft[0]
	joinCode := head.JoinCode
	if joinCode == "" {
		code, err := newJoinCode()
		if err != nil {
			return domain.PublishedGame{}, fmt.Errorf("generate join code: %w", err)
		}
		joinCode = code
	}

	game := domain.Game{
		ID:        s.newID(),
		JoinCode:  joinCode,
		Name:      head.GameName,
		Kind:      head.Kind,
		Mode:      head.Mode,
		Creator:   domain.ParseCreator(head.Creator).Label(caller),
		CreatorID: caller.ID,
		Topic:     head.Topic,
		Slug:      slug.Make(head.GameName),
		CreatedAt: s.now().UTC(),
	}
	questions := s.buildQuestions(game, draft)

	err := s.store.WithinTx(ctx, func(ctx context.Context, w GameWriter) error {
		if err := w.CreateGame(ctx, &game); err != nil {
			return fmt.Errorf("create game: %w", err)
		}
		if err := w.IncrementTopic(ctx, game.Topic); err != nil {
			return fmt.Errorf("count topic: %w", err)
		}
		if err := w.CreateQuestions(ctx, questions); err != nil {
			return fmt.Errorf("create questions: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.PublishedGame{}, fmt.Errorf("publish game: %w", err)
	}
	return domain.PublishedGame{GameID: game.ID, JoinCode: game.JoinCode}, nil
}

func (s *PublicationService) buildQuestions(game domain.Game, draft domain.Draft) []domain.Question {
	questions := make([]domain.Question, 0, len(draft))
	for i, rec := range draft {
		q := domain.Question{
			GameID:   game.ID,
			Position: i,
			Prompt:   rec.Prompt,
			Answer:   rec.Answer,
			Kind:     game.Kind,
		}
		if game.Kind == domain.KindMCQ {
			q.Options = shuffledOptions(rec.Options, rec.Answer, s.shuffle)
		}
		questions = append(questions, q)
	}
	return questions
}

// shuffledOptions mixes the answer into the distractors with a uniform shuffle.
func shuffledOptions(distractors []string, answer string, shuffle func(n int, swap func(i, j int))) []string {
	options := make([]string, 0, domain.MCQOptionCount)
	options = append(options, distractors[:domain.MaxDistractors]...)
	options = append(options, answer)
	shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

// newJoinCode returns 6 lowercase hex characters, the length and alphabet the join form expects.
func newJoinCode() (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
