package handlers

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/spontan/internal/ledger"
	"github.com/example/spontan/internal/middleware"
	"github.com/example/spontan/internal/models"
	"github.com/example/spontan/internal/services"
	"github.com/example/spontan/internal/store"
)

// OrdersHandler manages order endpoints.
type OrdersHandler struct {
	store    store.Store
	orders   *ledger.Orders
	telegram *services.TelegramService
}

// NewOrdersHandler constructs OrdersHandler.
func NewOrdersHandler(s store.Store, orders *ledger.Orders, telegram *services.TelegramService) *OrdersHandler {
	return &OrdersHandler{store: s, orders: orders, telegram: telegram}
}

type createOrderRequest struct {
	Drink   string `json:"drink"`
	Options struct {
		Size     string   `json:"size"`
		Ice      *bool    `json:"ice"`
		Strength string   `json:"strength"`
		Extras   []string `json:"extras"`
	} `json:"options"`
}

// CreateOrder debits one token and places a pending order.
func (h *OrdersHandler) CreateOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Drink == "" {
		return fiber.NewError(fiber.StatusBadRequest, "drink is required")
	}

	options := models.OrderOptions{
		Size:     req.Options.Size,
		Ice:      true,
		Strength: req.Options.Strength,
		Extras:   req.Options.Extras,
	}
	if req.Options.Ice != nil {
		options.Ice = *req.Options.Ice
	}

	order, err := h.orders.Create(c.Context(), userID, req.Drink, options)
	if err != nil {
		if errors.Is(err, store.ErrInsufficientTokens) {
			return insufficientTokens(c, "not enough tokens to place an order")
		}
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	go h.notifyBarman(userID, order)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"order":   order,
	})
}

func (h *OrdersHandler) notifyBarman(userID uuid.UUID, order *models.Order) {
	if h.telegram == nil {
		return
	}

	notification := services.OrderNotification{
		Drink:      order.Drink,
		Size:       order.Options.Size,
		Ice:        order.Options.Ice,
		Strength:   order.Options.Strength,
		PickupCode: order.PickupCode,
	}
	// Detached from the request: the fiber context is recycled once the
	// handler returns.
	if user, err := h.store.GetUser(context.Background(), userID); err == nil {
		notification.UserName = user.Name
		notification.UserPhone = user.Phone
	}

	if err := h.telegram.NotifyNewOrder(notification); err != nil {
		log.Printf("[Orders] Telegram notification failed: %v", err)
	}
}

// ListOrders returns orders, newest first. Barmen see every order; clients
// only their own.
func (h *OrdersHandler) ListOrders(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	user, err := h.store.GetUser(c.Context(), userID)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unknown user")
	}

	filter := store.OrderFilter{}
	if status := c.Query("status"); status != "" {
		for _, s := range strings.Split(status, ",") {
			s = strings.TrimSpace(s)
			if !models.IsValidStatus(s) {
				return fiber.NewError(fiber.StatusBadRequest, "invalid status filter")
			}
			filter.Statuses = append(filter.Statuses, s)
		}
	}
	if user.Role != models.RoleBarman {
		filter.UserID = &userID
	}

	orders, err := h.orders.List(c.Context(), filter)
	if err != nil {
		return err
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].PlacedAt.After(orders[j].PlacedAt)
	})

	return c.JSON(fiber.Map{"success": true, "orders": orders})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus transitions an order through the state machine.
func (h *OrdersHandler) UpdateStatus(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
	}

	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if !models.IsValidStatus(req.Status) {
		return fiber.NewError(fiber.StatusBadRequest, "unknown status")
	}

	order, err := h.orders.Transition(c.Context(), orderID, req.Status)
	if err != nil {
		var invalid *ledger.InvalidTransitionError
		if errors.As(err, &invalid) {
			return fiber.NewError(fiber.StatusConflict, invalid.Error())
		}
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if order.Status == models.OrderStatusReady && h.telegram != nil {
		go func() {
			if err := h.telegram.NotifyOrderReady(order.Drink, order.PickupCode); err != nil {
				log.Printf("[Orders] Telegram notification failed: %v", err)
			}
		}()
	}

	return c.JSON(fiber.Map{"success": true, "order": order})
}

type verifyPickupRequest struct {
	Code string `json:"code"`
}

// VerifyPickup matches a presented pickup code against ready orders. It does
// not transition the order; the barman confirms the handover with a separate
// status update.
func (h *OrdersHandler) VerifyPickup(c *fiber.Ctx) error {
	var req verifyPickupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "code is required")
	}

	order, err := h.orders.VerifyPickup(c.Context(), req.Code)
	if err != nil {
		if errors.Is(err, ledger.ErrCodeMismatch) || errors.Is(err, ledger.ErrOrderNotReady) {
			return fiber.NewError(fiber.StatusNotFound, "invalid code or order unavailable")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "order": order})
}
