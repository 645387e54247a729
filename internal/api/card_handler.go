package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lingodeck/internal/api/shared"
	"github.com/phrazzld/lingodeck/internal/domain"
	"github.com/phrazzld/lingodeck/internal/platform/logger"
)

// CardHandler handles flashcard HTTP requests.
type CardHandler struct {
	cards  CardService
	logger *slog.Logger
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(cards CardService, logger *slog.Logger) *CardHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CardHandler")
	}
	return &CardHandler{
		cards:  cards,
		logger: logger.With(slog.String("component", "card_handler")),
	}
}

// GetNextCard handles GET /api/cards/next.
// It responds 204 when no card matches the level and category.
func (h *CardHandler) GetNextCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	level, category, err := getFilter(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	card, ok, err := h.cards.NextCard(level, category)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get next card")
		return
	}
	if !ok {
		log.Debug("no cards for filter",
			slog.Int("level", int(level)),
			slog.String("category", string(category)))
		w.WriteHeader(http.StatusNoContent)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, h.cardToResponse(card))
}

// ListCards handles GET /api/catalog.
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	level, category, err := getFilter(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	level, category, err = h.cards.ResolveFilter(level, category)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	cards, err := h.cards.Cards(level, category)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list cards")
		return
	}

	resp := CatalogResponse{
		Level:       level,
		Category:    category,
		Count:       len(cards),
		LevelCounts: h.cards.LevelCounts(),
		Cards:       make([]CardResponse, 0, len(cards)),
	}
	for _, c := range cards {
		resp.Cards = append(resp.Cards, h.cardToResponse(c))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// SubmitAnswer handles POST /api/cards/{id}/answer.
func (h *CardHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cardID, err := getPathCardID(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Card ID is required")
		return
	}

	var req AnswerCardRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	stats, err := h.cards.AnswerCard(r.Context(), cardID, *req.Correct)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit answer")
		return
	}

	log.Debug("flashcard answered",
		slog.String("card_id", cardID),
		slog.Bool("correct", *req.Correct))
	shared.RespondWithJSON(w, r, http.StatusOK, statsToResponse(cardID, stats))
}

func (h *CardHandler) cardToResponse(c domain.Card) CardResponse {
	resp := CardResponse{
		ID:       c.ID,
		Level:    c.Level,
		Category: c.Category,
		Source:   c.Source,
		Target:   c.Target,
		Hint:     c.Hint,
		Tags:     c.Tags,
		Favorite: h.cards.IsFavorite(c.ID),
	}
	if stats, ok := h.cards.CardStats(c.ID); ok {
		resp.Stats = &stats
	}
	return resp
}
