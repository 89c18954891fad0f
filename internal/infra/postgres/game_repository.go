package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"arena-quiz-service/internal/app"
	"arena-quiz-service/internal/domain"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

const uniqueViolation = "23505"

// GameRepository writes games through bun. Every publication runs in one transaction.
type GameRepository struct {
	db *bun.DB
}

func NewGameRepository(db *bun.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, w app.GameWriter) error) error {
	return r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &gameWriter{db: tx})
	})
}

// TopTopics returns topic counters, highest first.
func (r *GameRepository) TopTopics(ctx context.Context, limit int) ([]domain.TopicCount, error) {
	var rows []topicCountRow
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr("count DESC, topic ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select topics: %w", err)
	}
	out := make([]domain.TopicCount, len(rows))
	for i, row := range rows {
		out[i] = domain.TopicCount{Topic: row.Topic, Count: row.Count}
	}
	return out, nil
}

type gameWriter struct {
	db bun.IDB
}

func (w *gameWriter) CreateGame(ctx context.Context, game *domain.Game) error {
	_, err := w.db.NewInsert().Model(newGameRow(game)).Exec(ctx)
	if isUniqueViolation(err) {
		return domain.ErrJoinCodeTaken
	}
	return err
}

func (w *gameWriter) IncrementTopic(ctx context.Context, topic string) error {
	row := &topicCountRow{Topic: topic, Count: 1}
	_, err := w.db.NewInsert().
		Model(row).
		On("CONFLICT (topic) DO UPDATE").
		Set("count = ?TableAlias.count + 1").
		Exec(ctx)
	return err
}

func (w *gameWriter) CreateQuestions(ctx context.Context, questions []domain.Question) error {
	if len(questions) == 0 {
		return nil
	}
	rows := newQuestionRows(questions)
	_, err := w.db.NewInsert().Model(&rows).Exec(ctx)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == uniqueViolation
}
