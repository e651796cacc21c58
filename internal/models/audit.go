package models

import "time"

// AuditEntry records one mutation performed through the console.
type AuditEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id" example:"1"`
	Resource   string    `gorm:"index;not null;size:32" json:"resource" example:"genres"`
	Action     string    `gorm:"index;not null;size:16" json:"action" example:"create"`
	EntityID   string    `gorm:"index;size:64" json:"entity_id" example:"b7f3c0de"`
	Actor      string    `gorm:"index;size:128" json:"actor" example:"admin@example.com"`
	Status     string    `gorm:"index;size:16" json:"status" example:"success"`
	Message    string    `gorm:"type:text" json:"message,omitempty"`
	OccurredAt time.Time `gorm:"index" json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func (AuditEntry) TableName() string {
	return "admin_audit_entries"
}
