package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"catalog-admin/internal/dashboard"
	"catalog-admin/internal/forms"
	"catalog-admin/internal/pages"
	"catalog-admin/internal/utils"
)

// ConsoleHandler serves the dashboard shell and the resource pages. Every
// action mutates the mounted page of the session and redirects back to it.
type ConsoleHandler struct {
	nav      *dashboard.Navigation
	renderer *Renderer
	logger   *logrus.Logger
}

// NewConsoleHandler creates a new console handler.
func NewConsoleHandler(nav *dashboard.Navigation, renderer *Renderer, logger *logrus.Logger) *ConsoleHandler {
	return &ConsoleHandler{nav: nav, renderer: renderer, logger: logger}
}

type layoutData struct {
	Title  string
	User   *dashboard.User
	Nav    []dashboard.NavSection
	Active string
}

type resourcePageData struct {
	layoutData
	Page      pages.View
	CanManage bool
}

type errorPageData struct {
	layoutData
	Status  int
	Message string
}

func (h *ConsoleHandler) layout(c *fiber.Ctx, title, active string) layoutData {
	user := currentUser(c)
	return layoutData{Title: title, User: user, Nav: h.nav.For(user), Active: active}
}

// ErrorPage renders browser-facing errors inside the layout.
func (h *ConsoleHandler) ErrorPage(c *fiber.Ctx, code int, message string) error {
	return h.renderer.RenderPage(c, code, "error.html", errorPageData{
		layoutData: h.layout(c, strconv.Itoa(code), ""),
		Status:     code,
		Message:    message,
	})
}

// Home unmounts whatever page the session had open.
func (h *ConsoleHandler) Home(c *fiber.Ctx) error {
	if ws := currentWorkspace(c); ws != nil {
		ws.Unmount()
	}
	return h.renderer.RenderPage(c, fiber.StatusOK, "dashboard.html", h.layout(c, "Dashboard", "/"))
}

// authorize resolves the navigation entry of a resource and checks the
// signed-in user may read it, and manage it when manage is set.
func (h *ConsoleHandler) authorize(c *fiber.Ctx, manage bool) (dashboard.NavItem, error) {
	name := c.Params("resource")
	item, ok := h.nav.Item(name)
	if !ok {
		return item, fiber.NewError(fiber.StatusNotFound, "Unknown resource "+name)
	}
	user := currentUser(c)
	if !h.nav.HasCapability(user, item.Capability) {
		return item, fiber.NewError(fiber.StatusForbidden, "You do not have access to "+item.Label)
	}
	if manage && !h.nav.HasCapability(user, item.Resource+".manage") {
		return item, fiber.NewError(fiber.StatusForbidden, "You cannot modify "+item.Label)
	}
	return item, nil
}

func (h *ConsoleHandler) screen(c *fiber.Ctx, item dashboard.NavItem) (pages.Screen, error) {
	ws := currentWorkspace(c)
	if ws == nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Please sign in")
	}
	screen, err := ws.Open(c.UserContext(), item.Resource)
	if screen == nil {
		h.logger.WithError(err).WithField("resource", item.Resource).Error("Failed to open resource page")
		return nil, fiber.NewError(fiber.StatusNotFound, "Unknown resource "+item.Resource)
	}
	if err != nil {
		// The failure is already on the page banner.
		h.logger.WithError(err).WithField("resource", item.Resource).Warn("Initial fetch failed")
	}
	return screen, nil
}

// Resource renders the mounted page of a resource, mounting it first when
// the session had another page open.
func (h *ConsoleHandler) Resource(c *fiber.Ctx) error {
	item, err := h.authorize(c, false)
	if err != nil {
		return err
	}
	screen, err := h.screen(c, item)
	if err != nil {
		return err
	}
	return h.renderer.RenderPage(c, fiber.StatusOK, "resource.html", resourcePageData{
		layoutData: h.layout(c, screen.Title(), item.Href()),
		Page:       screen.View(),
		CanManage:  h.nav.HasCapability(currentUser(c), item.Resource+".manage"),
	})
}

// manageActions open or submit dialogs.
var manageActions = map[string]bool{
	"new": true, "edit": true, "delete": true, "submit": true, "confirm": true,
}

// Action applies one user interaction to the mounted page and redirects to
// it. Errors of the interaction itself are shown on the page, not here.
func (h *ConsoleHandler) Action(c *fiber.Ctx) error {
	action := c.Params("action")
	item, err := h.authorize(c, manageActions[action])
	if err != nil {
		return err
	}
	screen, err := h.screen(c, item)
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	switch action {
	case "search":
		err = screen.Search(ctx, c.FormValue("search"))
	case "filter":
		err = screen.FilterStatus(ctx, c.FormValue("status"))
	case "sort":
		err = screen.SortBy(ctx, c.FormValue("field"))
	case "page":
		n, convErr := strconv.Atoi(c.FormValue("page"))
		if convErr != nil {
			return fiber.NewError(fiber.StatusBadRequest, "page must be a number")
		}
		err = screen.SetPage(ctx, n)
	case "limit":
		n, convErr := strconv.Atoi(c.FormValue("limit"))
		if convErr != nil {
			return fiber.NewError(fiber.StatusBadRequest, "limit must be a number")
		}
		err = screen.SetLimit(ctx, n)
	case "refresh":
		err = screen.Refresh(ctx)
	case "dismiss":
		screen.DismissError()
	case "close":
		screen.CloseModal()
	case "new":
		err = screen.OpenCreate(ctx)
	case "edit":
		err = screen.OpenEdit(ctx, c.FormValue("id"))
	case "delete":
		err = screen.OpenDelete(c.FormValue("id"))
	case "submit":
		var in forms.Input
		in, err = formInput(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		screen.BindForm(in)
		if in.Get("intent") != "preview" {
			err = screen.SubmitForm(ctx)
		}
	case "confirm":
		err = screen.ConfirmDelete(ctx)
	default:
		return fiber.NewError(fiber.StatusNotFound, "Unknown action "+action)
	}

	if err != nil {
		entry := h.logger.WithError(err).WithFields(logrus.Fields{
			"resource": item.Resource,
			"action":   action,
		})
		var ve *forms.ValidationError
		if errors.As(err, &ve) || errors.Is(err, forms.ErrSubmitting) {
			entry.Debug("Form rejected")
		} else {
			entry.Warn("Page action failed")
		}
	}
	return c.Redirect(item.Href(), fiber.StatusSeeOther)
}

// ResourceState godoc
// @Summary Current state of a resource page
// @Description Returns the view model of the session's mounted page, mounting it first if needed
// @Tags Console
// @Produce json
// @Param resource path string true "Resource name" Enums(movies, cast, countries, genres, tags)
// @Success 200 {object} utils.StandardResponse{data=pages.View}
// @Failure 401 {object} utils.StandardResponse
// @Failure 403 {object} utils.StandardResponse
// @Failure 404 {object} utils.StandardResponse
// @Router /resources/{resource} [get]
func (h *ConsoleHandler) ResourceState(c *fiber.Ctx) error {
	item, err := h.authorize(c, false)
	if err != nil {
		return err
	}
	screen, err := h.screen(c, item)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Page retrieved successfully", screen.View())
}
