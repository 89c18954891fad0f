package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"arena-quiz-service/internal/app"
	"arena-quiz-service/internal/domain"
)

// GameRepository keeps games, questions and topic counters in process memory.
// Used when no database is configured and in tests.
type GameRepository struct {
	mu     sync.RWMutex
	games  []domain.Game
	byCode map[string]int
	topics map[string]int64
}

func NewGameRepository() *GameRepository {
	return &GameRepository{
		byCode: make(map[string]int),
		topics: make(map[string]int64),
	}
}

// WithinTx stages every write made by fn and applies them only if fn succeeds.
// Transactions are serialised.
func (r *GameRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, w app.GameWriter) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := &stagedTx{repo: r, topics: make(map[string]int64)}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func (r *GameRepository) ListPublicGames(_ context.Context) ([]domain.GameSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.GameSummary, 0, len(r.games))
	for _, g := range r.games {
		if g.Mode != domain.ModePublic {
			continue
		}
		out = append(out, domain.GameSummary{
			ID:      g.ID,
			Name:    g.Name,
			Creator: g.Creator,
			Kind:    g.Kind,
			Topic:   g.Topic,
			Slug:    g.Slug,
		})
	}
	return out, nil
}

func (r *GameRepository) FindGameByJoinCode(_ context.Context, code string) (domain.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byCode[code]
	if !ok {
		return domain.Game{}, domain.ErrGameNotFound
	}
	return copyGame(r.games[idx]), nil
}

func (r *GameRepository) TopTopics(_ context.Context, limit int) ([]domain.TopicCount, error) {
	r.mu.RLock()
	out := make([]domain.TopicCount, 0, len(r.topics))
	for topic, count := range r.topics {
		out = append(out, domain.TopicCount{Topic: topic, Count: count})
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Topic < out[j].Topic
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// TopicCount returns the counter for topic, zero when it was never published.
func (r *GameRepository) TopicCount(topic string) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.topics[topic]
}

// GameCount returns how many games are stored.
func (r *GameRepository) GameCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// QuestionCount returns how many questions are stored across all games.
func (r *GameRepository) QuestionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.questionTotal()
}

type stagedTx struct {
	repo      *GameRepository
	games     []domain.Game
	topics    map[string]int64
	questions []domain.Question
}

func (tx *stagedTx) CreateGame(_ context.Context, game *domain.Game) error {
	if _, ok := tx.repo.byCode[game.JoinCode]; ok {
		return domain.ErrJoinCodeTaken
	}
	for _, g := range tx.games {
		if g.JoinCode == game.JoinCode {
			return domain.ErrJoinCodeTaken
		}
	}
	staged := *game
	staged.Questions = nil
	tx.games = append(tx.games, staged)
	return nil
}

func (tx *stagedTx) IncrementTopic(_ context.Context, topic string) error {
	tx.topics[topic]++
	return nil
}

func (tx *stagedTx) CreateQuestions(_ context.Context, questions []domain.Question) error {
	for i := range questions {
		if !tx.gameExists(questions[i].GameID) {
			return fmt.Errorf("question references unknown game %q", questions[i].GameID)
		}
	}
	for i := range questions {
		q := questions[i]
		if q.Options != nil {
			q.Options = append([]string(nil), q.Options...)
		}
		tx.questions = append(tx.questions, q)
	}
	return nil
}

func (tx *stagedTx) gameExists(id string) bool {
	for _, g := range tx.games {
		if g.ID == id {
			return true
		}
	}
	for _, g := range tx.repo.games {
		if g.ID == id {
			return true
		}
	}
	return false
}

// commit runs with the repository write lock held.
func (tx *stagedTx) commit() {
	r := tx.repo
	for _, g := range tx.games {
		r.byCode[g.JoinCode] = len(r.games)
		r.games = append(r.games, g)
	}
	for topic, n := range tx.topics {
		r.topics[topic] += n
	}

	nextID := int64(r.questionTotal())
	for _, q := range tx.questions {
		nextID++
		q.ID = nextID
		for i := range r.games {
			if r.games[i].ID == q.GameID {
				r.games[i].Questions = append(r.games[i].Questions, q)
				break
			}
		}
	}
	for i := range r.games {
		qs := r.games[i].Questions
		sort.SliceStable(qs, func(a, b int) bool { return qs[a].Position < qs[b].Position })
	}
}

func (r *GameRepository) questionTotal() int {
	n := 0
	for _, g := range r.games {
		n += len(g.Questions)
	}
	return n
}

func copyGame(g domain.Game) domain.Game {
	out := g
	out.Questions = make([]domain.Question, len(g.Questions))
	for i, q := range g.Questions {
		if q.Options != nil {
			q.Options = append([]string(nil), q.Options...)
		}
		out.Questions[i] = q
	}
	return out
}
