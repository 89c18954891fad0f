package domain

import "time"

// Kind is the quiz flavour shared by a Game and all of its questions.
type Kind string

const (
	KindMCQ       Kind = "mcq"
	KindOpenEnded Kind = "open_ended"
)

// Valid reports whether k is one of the known quiz kinds.
func (k Kind) Valid() bool {
	return k == KindMCQ || k == KindOpenEnded
}

// Mode controls whether a Game shows up in public listings.
type Mode string

const (
	ModePublic  Mode = "public"
	ModePrivate Mode = "private"
)

// Valid reports whether m is one of the known visibility modes.
func (m Mode) Valid() bool {
	return m == ModePublic || m == ModePrivate
}

// MCQOptionCount is the number of options stored for a multiple-choice question:
// three distractors plus the correct answer.
const MCQOptionCount = 4

// Caller is the identity resolved for the current request. The zero value is anonymous.
type Caller struct {
	ID          string
	DisplayName string
}

// Authenticated reports whether the caller was resolved to a user.
func (c Caller) Authenticated() bool {
	return c.ID != ""
}

// Game is a published quiz together with its questions.
type Game struct {
	ID        string     `json:"id"`
	JoinCode  string     `json:"joinCode"`
	Name      string     `json:"name"`
	Kind      Kind       `json:"type"`
	Mode      Mode       `json:"mode"`
	Creator   string     `json:"creator"`
	CreatorID string     `json:"creatorId"`
	Topic     string     `json:"topic"`
	Slug      string     `json:"slug"`
	CreatedAt time.Time  `json:"createdAt"`
	Questions []Question `json:"questions"`
}

// Question is one prompt of a Game. Options is nil for open-ended questions.
type Question struct {
	ID       int64    `json:"id"`
	GameID   string   `json:"gameId"`
	Position int      `json:"position"`
	Prompt   string   `json:"question"`
	Answer   string   `json:"answer"`
	Options  []string `json:"options,omitempty"`
	Kind     Kind     `json:"type"`
}

// GameSummary is the projection used by public listings.
type GameSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Creator string `json:"creator"`
	Kind    Kind   `json:"type"`
	Topic   string `json:"topic"`
	Slug    string `json:"slug"`
}

// TopicCount tracks how many games were published for a topic.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int64  `json:"count"`
}

// PublishedGame is returned after a successful publication.
type PublishedGame struct {
	GameID   string `json:"gameId"`
	JoinCode string `json:"joinCode"`
}

// DraftRecord is one question of a quiz being published. Every record of a draft
// repeats the game-level fields; the wire names follow the authoring client.
type DraftRecord struct {
	Prompt   string   `json:"question" yaml:"question" validate:"notblank"`
	Answer   string   `json:"answer" yaml:"answer" validate:"notblank"`
	Options  []string `json:"options,omitempty" yaml:"options,omitempty"`
	GameName string   `json:"GameName" yaml:"GameName" validate:"notblank,min=4,max=50"`
	Kind     Kind     `json:"type" yaml:"type" validate:"required,oneof=mcq open_ended"`
	Creator  string   `json:"Creater" yaml:"Creater" validate:"notblank"`
	Topic    string   `json:"topic" yaml:"topic" validate:"notblank,min=4,max=50"`
	Mode     Mode     `json:"mode" yaml:"mode" validate:"required,oneof=public private"`
	JoinCode string   `json:"nanoid,omitempty" yaml:"nanoid,omitempty" validate:"omitempty,alphanum,max=32"`
}

// Draft is an ordered list of question records describing a single Game.
type Draft []DraftRecord
