package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/spontan/internal/ledger"
	"github.com/example/spontan/internal/middleware"
	"github.com/example/spontan/internal/parser"
	"github.com/example/spontan/internal/store"
)

// ChatHandler turns chat messages into drink intents.
type ChatHandler struct {
	tokens *ledger.Tokens
}

// NewChatHandler constructs ChatHandler.
func NewChatHandler(tokens *ledger.Tokens) *ChatHandler {
	return &ChatHandler{tokens: tokens}
}

type parseMessageRequest struct {
	Message string `json:"message"`
}

// ParseMessage extracts a drink and options from the message. Users with an
// empty token balance are redirected to the top-up flow before any parsing
// happens.
func (h *ChatHandler) ParseMessage(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req parseMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	balance, err := h.tokens.Balance(c.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}
	if balance <= 0 {
		return insufficientTokens(c, "not enough tokens to place an order")
	}

	intent, err := parser.Parse(req.Message)
	if err != nil {
		if errors.Is(err, parser.ErrUnrecognizedDrink) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"success": false,
				"error":   "could not identify the drink, please specify what you would like to order",
			})
		}
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"drink":   intent.Drink,
		"options": intent.Options,
	})
}
