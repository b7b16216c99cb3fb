package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Card priorities as stored in the priority column.
const (
	PriorityNone   = "none"
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Derived card statuses.
const (
	StatusOpen = "open"
	StatusDone = "done"
)

type Card struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ColumnID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"column_id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	SortOrder   float64    `gorm:"column:sort_order;not null" json:"sort_order"`
	Priority    string     `gorm:"not null;default:none" json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Labels    []Label `gorm:"many2many:card_labels" json:"labels"`
	Assignees []User  `gorm:"many2many:card_assignees" json:"assignees"`
}

// Status is derived: a card is done once completed or while it sits in a
// column titled "done" or "completed".
func (c Card) Status(columnTitle string) string {
	if c.CompletedAt != nil {
		return StatusDone
	}
	switch strings.ToLower(strings.TrimSpace(columnTitle)) {
	case "done", "completed":
		return StatusDone
	}
	return StatusOpen
}

func ValidPriority(p string) bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}
