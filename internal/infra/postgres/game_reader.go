package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"arena-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// GameReader serves discovery queries straight from a pgx pool.
type GameReader struct {
	pool *pgxpool.Pool
}

func NewGameReader(pool *pgxpool.Pool) *GameReader {
	return &GameReader{pool: pool}
}

func (r *GameReader) ListPublicGames(ctx context.Context) ([]domain.GameSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, name, creator, kind, topic, slug
		FROM games
		WHERE mode = 'public'
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query public games: %w", err)
	}
	defer rows.Close()

	games := []domain.GameSummary{}
	for rows.Next() {
		var g domain.GameSummary
		var kind string
		if err := rows.Scan(&g.ID, &g.Name, &g.Creator, &kind, &g.Topic, &g.Slug); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		g.Kind = domain.Kind(kind)
		games = append(games, g)
	}
	return games, rows.Err()
}

func (r *GameReader) FindGameByJoinCode(ctx context.Context, code string) (domain.Game, error) {
	var (
		g          domain.Game
		kind, mode string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, join_code, name, kind, mode, creator, creator_id, topic, slug, created_at
		FROM games
		WHERE join_code = $1`, code).
		Scan(&g.ID, &g.JoinCode, &g.Name, &kind, &mode, &g.Creator, &g.CreatorID, &g.Topic, &g.Slug, &g.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Game{}, domain.ErrGameNotFound
	}
	if err != nil {
		return domain.Game{}, fmt.Errorf("load game: %w", err)
	}
	g.Kind = domain.Kind(kind)
	g.Mode = domain.Mode(mode)

	questions, err := r.loadQuestions(ctx, g.ID)
	if err != nil {
		return domain.Game{}, err
	}
	g.Questions = questions
	return g, nil
}

func (r *GameReader) loadQuestions(ctx context.Context, gameID string) ([]domain.Question, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, game_id::text, position, prompt, answer, options, kind
		FROM questions
		WHERE game_id = $1
		ORDER BY position`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	questions := []domain.Question{}
	for rows.Next() {
		var (
			q    domain.Question
			raw  []byte
			kind string
		)
		if err := rows.Scan(&q.ID, &q.GameID, &q.Position, &q.Prompt, &q.Answer, &raw, &kind); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &q.Options); err != nil {
				return nil, fmt.Errorf("unmarshal options: %w", err)
			}
		}
		q.Kind = domain.Kind(kind)
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
