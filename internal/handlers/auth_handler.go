package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"catalog-admin/internal/dashboard"
)

type AuthHandler struct {
	sessions *Sessions
	renderer *Renderer
	logger   *logrus.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(sessions *Sessions, renderer *Renderer, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, renderer: renderer, logger: logger}
}

type loginData struct {
	Error string
}

var loginReasons = map[string]string{
	"expired": dashboard.ErrTokenExpired.Error(),
}

func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	return h.renderer.RenderPage(c, fiber.StatusOK, "login.html", loginData{
		Error: loginReasons[c.Query("reason")],
	})
}

// Login stores a pasted backend token under a fresh session. The token is
// not verified here; the backend rejects bad ones on the first call.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.FormValue("token"))
	token = strings.TrimPrefix(token, "Bearer ")
	if token == "" {
		return h.renderer.RenderPage(c, fiber.StatusUnprocessableEntity, "login.html", loginData{Error: "Access token is required"})
	}

	user, err := dashboard.UserFromToken(token, time.Now())
	if err != nil {
		msg := "Access token is not a valid JWT"
		if errors.Is(err, dashboard.ErrTokenExpired) {
			msg = dashboard.ErrTokenExpired.Error()
		}
		h.logger.WithError(err).Debug("Rejected login token")
		return h.renderer.RenderPage(c, fiber.StatusUnprocessableEntity, "login.html", loginData{Error: msg})
	}

	if err := h.sessions.Start(c, token); err != nil {
		h.logger.WithError(err).Error("Failed to start session")
		return fiber.NewError(fiber.StatusServiceUnavailable, "Session store unavailable")
	}

	h.logger.WithFields(logrus.Fields{
		"user": user.DisplayName(),
		"role": user.Role,
	}).Info("Console sign-in")
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.sessions.End(c)
	return c.Redirect("/login", fiber.StatusSeeOther)
}
