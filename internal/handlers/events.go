package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/spontan/internal/ledger"
	"github.com/example/spontan/internal/middleware"
	"github.com/example/spontan/internal/models"
	"github.com/example/spontan/internal/store"
)

// EventsHandler manages event check-ins.
type EventsHandler struct {
	store  store.Store
	tokens *ledger.Tokens
}

// NewEventsHandler constructs EventsHandler.
func NewEventsHandler(s store.Store, tokens *ledger.Tokens) *EventsHandler {
	return &EventsHandler{store: s, tokens: tokens}
}

type checkInRequest struct {
	QRCode string `json:"qr_code"`
}

// CheckIn validates a scanned event code, debits one token and records the
// check-in.
func (h *EventsHandler) CheckIn(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req checkInRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	event, err := h.store.GetEventByCode(c.Context(), req.QRCode)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "invalid or expired event code")
		}
		return err
	}

	if !event.Active || time.Now().After(event.EndsAt) {
		return fiber.NewError(fiber.StatusNotFound, "invalid or expired event code")
	}

	if _, err := h.tokens.TryDebit(c.Context(), userID, 1); err != nil {
		if errors.Is(err, store.ErrInsufficientTokens) {
			return insufficientTokens(c, "not enough tokens to check in")
		}
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	checkin := &models.EventCheckin{EventID: event.ID, UserID: userID}
	if err := h.store.CreateCheckin(c.Context(), checkin); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"event_name": event.Name,
	})
}
