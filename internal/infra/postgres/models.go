package postgres

import (
	"time"

	"arena-quiz-service/internal/domain"
	"github.com/uptrace/bun"
)

type gameRow struct {
	bun.BaseModel `bun:"table:games,alias:g"`

	ID        string    `bun:"id,pk,type:uuid"`
	JoinCode  string    `bun:"join_code,notnull"`
	Name      string    `bun:"name,notnull"`
	Kind      string    `bun:"kind,notnull"`
	Mode      string    `bun:"mode,notnull"`
	Creator   string    `bun:"creator,notnull"`
	CreatorID string    `bun:"creator_id,notnull"`
	Topic     string    `bun:"topic,notnull"`
	Slug      string    `bun:"slug,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

type questionRow struct {
	bun.BaseModel `bun:"table:questions,alias:q"`

	ID       int64    `bun:"id,pk,autoincrement"`
	GameID   string   `bun:"game_id,type:uuid,notnull"`
	Position int      `bun:"position,notnull"`
	Prompt   string   `bun:"prompt,notnull"`
	Answer   string   `bun:"answer,notnull"`
	Options  []string `bun:"options,type:jsonb,nullzero"`
	Kind     string   `bun:"kind,notnull"`
}

type topicCountRow struct {
	bun.BaseModel `bun:"table:topic_counts,alias:tc"`

	Topic string `bun:"topic,pk"`
	Count int64  `bun:"count,notnull"`
}

func newGameRow(g *domain.Game) *gameRow {
	return &gameRow{
		ID:        g.ID,
		JoinCode:  g.JoinCode,
		Name:      g.Name,
		Kind:      string(g.Kind),
		Mode:      string(g.Mode),
		Creator:   g.Creator,
		CreatorID: g.CreatorID,
		Topic:     g.Topic,
		Slug:      g.Slug,
		CreatedAt: g.CreatedAt,
	}
}

func newQuestionRows(questions []domain.Question) []questionRow {
	rows := make([]questionRow, len(questions))
	for i, q := range questions {
		rows[i] = questionRow{
			GameID:   q.GameID,
			Position: q.Position,
			Prompt:   q.Prompt,
			Answer:   q.Answer,
			Options:  q.Options,
			Kind:     string(q.Kind),
		}
	}
	return rows
}
