package handlers

import (
	"context"
	"path/filepath"
	"strings"

	"catalog-admin/internal/dashboard"
	"catalog-admin/internal/services"
	"catalog-admin/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ObjectStore is the part of MinIOService the upload endpoints use.
type ObjectStore interface {
	Presign(ctx context.Context, category, filename string) (*services.PresignedUpload, error)
	Delete(ctx context.Context, ref string) error
}

const uploadCapability = "uploads.manage"

type UploadHandler struct {
	store  ObjectStore
	nav    *dashboard.Navigation
	logger *logrus.Logger
}

// NewUploadHandler accepts a nil store; the endpoints then answer 503.
func NewUploadHandler(store ObjectStore, nav *dashboard.Navigation, logger *logrus.Logger) *UploadHandler {
	return &UploadHandler{
		store:  store,
		nav:    nav,
		logger: logger,
	}
}

func (h *UploadHandler) authorize(c *fiber.Ctx) error {
	if !h.nav.HasCapability(currentUser(c), uploadCapability) {
		return fiber.NewError(fiber.StatusForbidden, "You cannot upload attachments")
	}
	return nil
}

var uploadCategories = map[string]bool{"image": true, "video": true}

// GetPresignedURL godoc
// @Summary Get presigned URL for an attachment upload
// @Description Generate a presigned PUT URL so the browser can upload a poster, logo, cast image or video directly to object storage
// @Tags Upload
// @Produce json
// @Param filename query string true "Filename"
// @Param category query string false "Attachment category" Enums(image, video) default(image)
// @Success 200 {object} utils.StandardResponse{data=services.PresignedUpload}
// @Failure 400 {object} utils.StandardResponse
// @Failure 403 {object} utils.StandardResponse
// @Failure 503 {object} utils.StandardResponse
// @Router /uploads/presign [get]
func (h *UploadHandler) GetPresignedURL(c *fiber.Ctx) error {
	if err := h.authorize(c); err != nil {
		return err
	}
	if h.store == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Object storage is not configured")
	}

	filename := strings.TrimSpace(c.Query("filename"))
	if filename == "" || filepath.Ext(filename) == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "filename with an extension is required")
	}
	category := c.Query("category", "image")
	if !uploadCategories[category] {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "category must be one of: image, video")
	}

	upload, err := h.store.Presign(c.UserContext(), category, filename)
	if err != nil {
		h.logger.WithError(err).WithField("filename", filename).Error("Failed to generate presigned URL")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate presigned URL")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Presigned URL generated successfully", upload)
}

// DeleteUpload godoc
// @Summary Discard an uploaded attachment
// @Description Remove an object that was uploaded but never saved on an entity
// @Tags Upload
// @Produce json
// @Param ref query string true "Object key or public URL"
// @Success 200 {object} utils.StandardResponse
// @Failure 400 {object} utils.StandardResponse
// @Failure 403 {object} utils.StandardResponse
// @Failure 503 {object} utils.StandardResponse
// @Router /uploads [delete]
func (h *UploadHandler) DeleteUpload(c *fiber.Ctx) error {
	if err := h.authorize(c); err != nil {
		return err
	}
	if h.store == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Object storage is not configured")
	}

	ref := strings.TrimSpace(c.Query("ref"))
	if ref == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "ref is required")
	}

	if err := h.store.Delete(c.UserContext(), ref); err != nil {
		h.logger.WithError(err).WithField("ref", ref).Error("Failed to delete upload")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete file")
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "File deleted successfully", nil)
}
