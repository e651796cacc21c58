package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"catalog-admin/internal/dashboard"
	"catalog-admin/internal/models"
	"catalog-admin/internal/pages"
	"catalog-admin/internal/repository"
	"catalog-admin/internal/services"
	"catalog-admin/internal/utils"
)

const auditCapability = "audit.read"

type AuditLister interface {
	List(ctx context.Context, page, limit int, filter repository.AuditFilter) ([]models.AuditEntry, int64, error)
}

type AuditHandler struct {
	audit    AuditLister
	nav      *dashboard.Navigation
	renderer *Renderer
	console  *ConsoleHandler
	logger   *logrus.Logger
}

// NewAuditHandler creates a new audit handler sharing the console's navigation and templates.
func NewAuditHandler(audit AuditLister, console *ConsoleHandler, logger *logrus.Logger) *AuditHandler {
	return &AuditHandler{
		audit:    audit,
		nav:      console.nav,
		renderer: console.renderer,
		console:  console,
		logger:   logger,
	}
}

type auditPageData struct {
	layoutData
	Entries   []models.AuditEntry
	Resources []string
	Resource  string
	Meta      utils.PaginationMeta
	Error     string
}

func auditFilter(c *fiber.Ctx) repository.AuditFilter {
	return repository.AuditFilter{
		Resource: c.Query("resource"),
		Action:   c.Query("action"),
		Status:   c.Query("status"),
		Actor:    c.Query("actor"),
	}
}

// auditPaging mirrors the clamping AuditService applies.
func auditPaging(c *fiber.Ctx) (int, int) {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func (h *AuditHandler) authorize(c *fiber.Ctx) error {
	if !h.nav.HasCapability(currentUser(c), auditCapability) {
		return fiber.NewError(fiber.StatusForbidden, "You do not have access to the audit trail")
	}
	return nil
}

// Page renders recent console mutations.
func (h *AuditHandler) Page(c *fiber.Ctx) error {
	if err := h.authorize(c); err != nil {
		return err
	}

	page, limit := auditPaging(c)
	filter := auditFilter(c)

	data := auditPageData{
		layoutData: h.console.layout(c, "Audit trail", "/audit"),
		Resources:  pages.Resources,
		Resource:   filter.Resource,
		Meta:       utils.CreatePaginationMeta(1, limit, 0),
	}

	entries, total, err := h.audit.List(c.UserContext(), page, limit, filter)
	switch {
	case errors.Is(err, services.ErrAuditDisabled):
		data.Error = "The audit trail is disabled. Set AUDIT_ENABLED to record console changes."
	case err != nil:
		h.logger.WithError(err).Warn("Audit page rendered without entries")
		data.Error = "Failed to load audit entries"
	default:
		data.Entries = entries
		data.Meta = utils.CreatePaginationMeta(page, limit, total)
	}
	return h.renderer.RenderPage(c, fiber.StatusOK, "audit.html", data)
}

// ListAudit godoc
// @Summary List audit entries
// @Description Recent create, update and delete operations made through the console
// @Tags Audit
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param resource query string false "Filter by resource"
// @Param action query string false "Filter by action" Enums(create, update, delete)
// @Param status query string false "Filter by outcome" Enums(success, failure)
// @Param actor query string false "Filter by actor"
// @Success 200 {object} utils.StandardResponse{data=[]models.AuditEntry,meta=utils.PaginationMeta}
// @Failure 403 {object} utils.StandardResponse
// @Failure 503 {object} utils.StandardResponse
// @Router /audit [get]
func (h *AuditHandler) ListAudit(c *fiber.Ctx) error {
	if err := h.authorize(c); err != nil {
		return err
	}

	page, limit := auditPaging(c)

	entries, total, err := h.audit.List(c.UserContext(), page, limit, auditFilter(c))
	if errors.Is(err, services.ErrAuditDisabled) {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Audit trail is disabled")
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve audit entries")
	}

	meta := utils.CreatePaginationMeta(page, limit, total)
	return utils.SuccessWithMetaResponse(c, fiber.StatusOK, "Audit entries retrieved successfully", entries, meta)
}
