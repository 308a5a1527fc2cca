package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/spontan/internal/ledger"
	"github.com/example/spontan/internal/middleware"
	"github.com/example/spontan/internal/store"
	"github.com/example/spontan/internal/utils"
)

// TokensHandler manages token balance and purchase endpoints.
type TokensHandler struct {
	tokens *ledger.Tokens
}

// NewTokensHandler constructs TokensHandler.
func NewTokensHandler(tokens *ledger.Tokens) *TokensHandler {
	return &TokensHandler{tokens: tokens}
}

// GetBalance returns the authenticated user's token balance.
func (h *TokensHandler) GetBalance(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	balance, err := h.tokens.Balance(c.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "tokens": balance})
}

// ListPackages returns the fixed token price list.
func (h *TokensHandler) ListPackages(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "packages": ledger.Packages()})
}

type purchaseRequest struct {
	PackageID string `json:"package_id"`
}

// Purchase credits the user with a token package.
func (h *TokensHandler) Purchase(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req purchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	purchase, err := h.tokens.Purchase(c.Context(), userID, req.PackageID)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidPackage) {
			return fiber.NewError(fiber.StatusBadRequest, "unknown token package")
		}
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	balance, err := h.tokens.Balance(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"purchase": purchase,
		"tokens":   balance,
	})
}

// ListPurchases returns the user's purchase history, newest first.
func (h *TokensHandler) ListPurchases(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	purchases, err := h.tokens.Purchases(c.Context(), userID)
	if err != nil {
		return err
	}

	// The ledger stores purchases in creation order; display wants the most
	// recent first.
	for i, j := 0, len(purchases)-1; i < j; i, j = i+1, j-1 {
		purchases[i], purchases[j] = purchases[j], purchases[i]
	}

	pg := utils.ParsePagination(c)
	start, end := pg.Window(len(purchases))

	return c.JSON(fiber.Map{
		"success":    true,
		"purchases":  purchases[start:end],
		"pagination": pg.Envelope(len(purchases)),
	})
}
