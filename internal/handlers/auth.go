package handlers

import (
	"crypto/rand"
	"errors"
	"log"
	"math/big"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/spontan/internal/config"
	"github.com/example/spontan/internal/middleware"
	"github.com/example/spontan/internal/models"
	"github.com/example/spontan/internal/store"
	"github.com/example/spontan/internal/utils"
)

const minPhoneDigits = 9

// AuthHandler bundles dependencies for the phone/OTP authentication flow.
type AuthHandler struct {
	store store.Store
	cfg   *config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(s store.Store, cfg *config.Config) *AuthHandler {
	return &AuthHandler{store: s, cfg: cfg}
}

type startRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Start creates-or-fetches an account by email. New accounts begin
// unverified with the client role and an empty token balance.
func (h *AuthHandler) Start(c *fiber.Ctx) error {
	var req startRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Email == "" || req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email and name are required")
	}

	existing, err := h.store.GetUserByEmail(c.Context(), req.Email)
	if err == nil {
		return c.JSON(fiber.Map{"success": true, "user": userResponse(existing)})
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Verified: false,
		Role:     models.RoleClient,
	}
	if err := h.store.CreateUser(c.Context(), user); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user":    userResponse(user),
	})
}

type sendOtpRequest struct {
	Phone string `json:"phone"`
}

// SendOtp generates a one-time code for the phone number. There is no SMS
// gateway wired up; the code is logged for development.
func (h *AuthHandler) SendOtp(c *fiber.Ctx) error {
	var req sendOtpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if len(req.Phone) < minPhoneDigits {
		return fiber.NewError(fiber.StatusBadRequest, "invalid phone number")
	}

	code, err := generateOtpCode()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate code")
	}
	log.Printf("[DEBUG] OTP for %s: %s", req.Phone, code)

	codeHash, err := utils.HashCode(code)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to store code")
	}

	verification := &models.SMSVerification{
		Phone:     req.Phone,
		CodeHash:  codeHash,
		ExpiresAt: time.Now().Add(h.cfg.OTPExpires),
	}
	if err := h.store.CreateVerification(c.Context(), verification); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}

type verifyOtpRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// VerifyOtp validates the latest code for the phone, marks the account
// verified and issues a session token.
func (h *AuthHandler) VerifyOtp(c *fiber.Ctx) error {
	var req verifyOtpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	verification, err := h.store.LatestVerification(c.Context(), req.Phone)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "no code was generated for this number")
		}
		return err
	}

	if verification.UsedAt != nil {
		return fiber.NewError(fiber.StatusBadRequest, "code already used")
	}

	if verification.ExpiresAt.Before(time.Now()) {
		return fiber.NewError(fiber.StatusBadRequest, "code expired, please request a new one")
	}

	if !utils.CheckCode(verification.CodeHash, req.Code) {
		return fiber.NewError(fiber.StatusBadRequest, "incorrect code")
	}

	if err := h.store.MarkVerificationUsed(c.Context(), verification.ID); err != nil {
		return err
	}

	user, err := h.store.VerifyUserByPhone(c.Context(), req.Phone)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "no account for this phone number")
		}
		return err
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate session token")
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"session_token": token,
		"user":          userResponse(user),
	})
}

// Session resolves the bearer token back to its user.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	user, err := h.store.GetUser(c.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "unknown user")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "user": userResponse(user)})
}

func userResponse(user *models.User) fiber.Map {
	return fiber.Map{
		"id":               user.ID,
		"name":             user.Name,
		"email":            user.Email,
		"phone":            user.Phone,
		"verified":         user.Verified,
		"role":             user.Role,
		"payment_verified": user.PaymentVerified,
		"tokens":           user.Tokens,
	}
}

func generateOtpCode() (string, error) {
	// 4-digit code in the 1000-9999 range.
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return big.NewInt(1000 + n.Int64()).String(), nil
}
