package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"catalog-admin/internal/credentials"
	"catalog-admin/internal/dashboard"
	"catalog-admin/internal/pages"
)

const (
	localSessionID = "sessionID"
	localUser      = "user"
	localWorkspace = "workspace"
)

// Sessions ties the cookie, the redis token store and the in-memory
// workspaces together.
type Sessions struct {
	store      *credentials.SessionStore
	workspaces *dashboard.Workspaces
	cookieName string
	ttl        time.Duration
	secure     bool
	logger     *logrus.Logger
	now        func() time.Time
}

type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

func NewSessions(store *credentials.SessionStore, workspaces *dashboard.Workspaces, cfg SessionConfig, logger *logrus.Logger) *Sessions {
	return &Sessions{
		store:      store,
		workspaces: workspaces,
		cookieName: cfg.CookieName,
		ttl:        cfg.TTL,
		secure:     cfg.Secure,
		logger:     logger,
		now:        time.Now,
	}
}

// Require loads the session of the request or sends the browser to /login.
// API routes get a 401 instead of a redirect.
func (s *Sessions) Require(c *fiber.Ctx) error {
	sessionID := c.Cookies(s.cookieName)
	if sessionID == "" {
		return s.reject(c, "")
	}

	token, err := s.store.Token(c.UserContext(), sessionID)
	if err != nil {
		if !errors.Is(err, credentials.ErrNoToken) {
			s.logger.WithError(err).Error("Failed to read session")
			return fiber.NewError(fiber.StatusServiceUnavailable, "Session store unavailable")
		}
		s.clearCookie(c)
		return s.reject(c, "")
	}

	user, err := dashboard.UserFromToken(token, s.now())
	if err != nil {
		s.end(c, sessionID)
		if errors.Is(err, dashboard.ErrTokenExpired) {
			return s.reject(c, "expired")
		}
		return s.reject(c, "")
	}

	ws := s.workspaces.Get(sessionID, user)
	c.Locals(localSessionID, sessionID)
	c.Locals(localUser, user)
	c.Locals(localWorkspace, ws)
	c.SetUserContext(pages.WithActor(c.UserContext(), user.DisplayName()))
	return c.Next()
}

func (s *Sessions) reject(c *fiber.Ctx, reason string) error {
	if isAPI(c) {
		return fiber.NewError(fiber.StatusUnauthorized, "Please sign in")
	}
	target := "/login"
	if reason != "" {
		target += "?reason=" + reason
	}
	return c.Redirect(target, fiber.StatusSeeOther)
}

// Start persists token under a new session and sets the cookie.
func (s *Sessions) Start(c *fiber.Ctx, token string) error {
	sessionID, err := s.store.NewSessionID()
	if err != nil {
		return err
	}
	if err := s.store.SaveToken(c.UserContext(), sessionID, token); err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     s.cookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

// End drops the token and the workspace of the current session.
func (s *Sessions) End(c *fiber.Ctx) {
	if sessionID := c.Cookies(s.cookieName); sessionID != "" {
		s.end(c, sessionID)
	}
}

func (s *Sessions) end(c *fiber.Ctx, sessionID string) {
	if err := s.store.Delete(c.UserContext(), sessionID); err != nil {
		s.logger.WithError(err).Warn("Failed to delete session")
	}
	s.workspaces.Drop(sessionID)
	s.clearCookie(c)
}

func (s *Sessions) clearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func isAPI(c *fiber.Ctx) bool {
	return len(c.Path()) >= 5 && c.Path()[:5] == "/api/"
}

func currentUser(c *fiber.Ctx) *dashboard.User {
	u, _ := c.Locals(localUser).(*dashboard.User)
	return u
}

func currentWorkspace(c *fiber.Ctx) *dashboard.Workspace {
	ws, _ := c.Locals(localWorkspace).(*dashboard.Workspace)
	return ws
}
