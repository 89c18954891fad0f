package app

import (
	"context"
	"fmt"
	"strings"

	"arena-quiz-service/internal/domain"
)

const (
	defaultTopicLimit = 10
	maxTopicLimit     = 50
)

// GameFinder reads published games.
type GameFinder interface {
	ListPublicGames(ctx context.Context) ([]domain.GameSummary, error)
	// FindGameByJoinCode returns domain.ErrGameNotFound when no game uses code.
	FindGameByJoinCode(ctx context.Context, code string) (domain.Game, error)
}

// TopicReader reads topic popularity counters.
type TopicReader interface {
	TopTopics(ctx context.Context, limit int) ([]domain.TopicCount, error)
}

// DiscoveryService lists public games and resolves join codes.
type DiscoveryService struct {
	games  GameFinder
	topics TopicReader
}

func NewDiscoveryService(games GameFinder, topics TopicReader) *DiscoveryService {
	return &DiscoveryService{games: games, topics: topics}
}

// ListPublic returns every public game. Filtering by name or topic is left to the client.
func (s *DiscoveryService) ListPublic(ctx context.Context, caller domain.Caller) ([]domain.GameSummary, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	games, err := s.games.ListPublicGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list public games: %w", err)
	}
	if games == nil {
		games = []domain.GameSummary{}
	}
	return games, nil
}

// FindByJoinCode returns the game published with code, including its questions.
func (s *DiscoveryService) FindByJoinCode(ctx context.Context, caller domain.Caller, code string) (domain.Game, error) {
	if !caller.Authenticated() {
		return domain.Game{}, domain.ErrUnauthorized
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.Game{}, fmt.Errorf("%w: join code is required", domain.ErrBadRequest)
	}
	game, err := s.games.FindGameByJoinCode(ctx, code)
	if err != nil {
		return domain.Game{}, fmt.Errorf("find game %q: %w", code, err)
	}
	return game, nil
}

// PopularTopics returns the most published topics, most popular first.
// A non-positive limit selects the default.
func (s *DiscoveryService) PopularTopics(ctx context.Context, caller domain.Caller, limit int) ([]domain.TopicCount, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	if limit <= 0 {
		limit = defaultTopicLimit
	}
	if limit > maxTopicLimit {
		limit = maxTopicLimit
	}
	topics, err := s.topics.TopTopics(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("top topics: %w", err)
	}
	if topics == nil {
		topics = []domain.TopicCount{}
	}
	return topics, nil
}
