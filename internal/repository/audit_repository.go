package repository

import (
	"context"
	"time"

	"catalog-admin/internal/database"
	"catalog-admin/internal/models"
)

// AuditFilter narrows FindAll; zero values match everything.
type AuditFilter struct {
	Resource string
	Action   string
	Status   string
	Actor    string
}

type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditEntry) error
	FindAll(ctx context.Context, page, limit int, filter AuditFilter) ([]models.AuditEntry, int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type auditRepository struct {
	db      *database.Database
	timeout time.Duration
}

// NewAuditRepository creates a new audit repository.
func NewAuditRepository(db *database.Database) AuditRepository {
	return &auditRepository{
		db:      db,
		timeout: db.GetQueryTimeout(),
	}
}

func (r *auditRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *auditRepository) Create(ctx context.Context, entry *models.AuditEntry) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Create(entry).Error
}

// FindAll retrieves entries with pagination and filters.
func (r *auditRepository) FindAll(ctx context.Context, page, limit int, filter AuditFilter) ([]models.AuditEntry, int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var entries []models.AuditEntry
	var total int64

	query := r.db.WithContext(ctx).Model(&models.AuditEntry{})

	if filter.Resource != "" {
		query = query.Where("resource = ?", filter.Resource)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Actor != "" {
		query = query.Where("actor ILIKE ?", "%"+filter.Actor+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("occurred_at DESC").Order("id DESC").Offset(offset).Limit(limit).Find(&entries).Error
	return entries, total, err
}

// DeleteOlderThan removes entries recorded before cutoff.
func (r *auditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).Where("occurred_at < ?", cutoff).Delete(&models.AuditEntry{})
	return res.RowsAffected, res.Error
}
