package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-admin/internal/models"
	"catalog-admin/internal/pages"
	"catalog-admin/internal/repository"

	"github.com/sirupsen/logrus"
)

var ErrAuditDisabled = errors.New("audit trail is disabled")

const (
	AuditStatusSuccess = "success"
	AuditStatusFailure = "failure"
)

// AuditService records console mutations. Without a repository it only logs.
type AuditService struct {
	repo   repository.AuditRepository
	logger *logrus.Logger
}

// NewAuditService creates the audit service. A nil repo disables it.
func NewAuditService(repo repository.AuditRepository, logger *logrus.Logger) *AuditService {
	return &AuditService{repo: repo, logger: logger}
}

func (s *AuditService) Enabled() bool {
	return s.repo != nil
}

// Observe implements pages.Observer. Recording failures are logged and never
// reach the page.
func (s *AuditService) Observe(ctx context.Context, e pages.Event) {
	entry := &models.AuditEntry{
		Resource:   e.Resource,
		Action:     string(e.Action),
		EntityID:   e.EntityID,
		Actor:      e.Actor,
		Status:     AuditStatusSuccess,
		OccurredAt: e.OccurredAt,
	}
	if e.Err != nil {
		entry.Status = AuditStatusFailure
		entry.Message = pages.Describe(e.Err)
	}

	fields := logrus.Fields{
		"resource": entry.Resource,
		"action":   entry.Action,
		"id":       entry.EntityID,
		"actor":    entry.Actor,
		"status":   entry.Status,
	}
	s.logger.WithFields(fields).Info("Catalog mutation")

	if s.repo == nil {
		return
	}
	if err := s.repo.Create(context.WithoutCancel(ctx), entry); err != nil {
		s.logger.WithError(err).WithFields(fields).Error("Failed to record audit entry")
	}
}

// List returns recent entries, newest first.
func (s *AuditService) List(ctx context.Context, page, limit int, filter repository.AuditFilter) ([]models.AuditEntry, int64, error) {
	if s.repo == nil {
		return nil, 0, ErrAuditDisabled
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	entries, total, err := s.repo.FindAll(ctx, page, limit, filter)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list audit entries")
		return nil, 0, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, total, nil
}

// Prune drops entries older than the retention window.
func (s *AuditService) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	if s.repo == nil {
		return 0, ErrAuditDisabled
	}
	n, err := s.repo.DeleteOlderThan(ctx, time.Now().UTC().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("failed to prune audit entries: %w", err)
	}
	s.logger.WithField("deleted", n).Info("Pruned audit entries")
	return n, nil
}
