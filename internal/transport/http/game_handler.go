package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"arena-quiz-service/internal/app"
	"arena-quiz-service/internal/domain"
)

const maxDraftBody = 1 << 20

type GameHandler struct {
	publication *app.PublicationService
	discovery   *app.DiscoveryService
}

func NewGameHandler(publication *app.PublicationService, discovery *app.DiscoveryService) *GameHandler {
	return &GameHandler{publication: publication, discovery: discovery}
}

// Publish accepts a JSON array of question records.
func (h *GameHandler) Publish(w http.ResponseWriter, r *http.Request) {
	caller := CallerFrom(r.Context())
	if !caller.Authenticated() {
		writeServiceError(w, domain.ErrUnauthorized)
		return
	}

	var draft domain.Draft
	dec := json.NewDecoder(io.LimitReader(r.Body, maxDraftBody))
	if err := dec.Decode(&draft); err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, domain.KindBadRequest, "request body is required")
			return
		}
		writeError(w, http.StatusBadRequest, domain.KindBadRequest, "invalid request body")
		return
	}

	published, err := h.publication.Publish(r.Context(), caller, draft)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, published)
}

func (h *GameHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	if mode := r.URL.Query().Get("mode"); mode != "" && domain.Mode(mode) != domain.ModePublic {
		writeError(w, http.StatusBadRequest, domain.KindBadRequest, "only public games can be listed")
		return
	}
	games, err := h.discovery.ListPublic(r.Context(), CallerFrom(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"games": games})
}

// FindByCode looks a game up by ?code=, accepting ?nanoid= from older clients.
func (h *GameHandler) FindByCode(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	code := q.Get("code")
	if code == "" {
		code = q.Get("nanoid")
	}
	game, err := h.discovery.FindByJoinCode(r.Context(), CallerFrom(r.Context()), code)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"game": game})
}

func (h *GameHandler) PopularTopics(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, domain.KindBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	topics, err := h.discovery.PopularTopics(r.Context(), CallerFrom(r.Context()), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"topics": topics})
}
