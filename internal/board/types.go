// Package board holds the client-side board engine: order key allocation,
// the view pipeline, the column cache and the optimistic move coordinator.
package board

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Priority string

const (
	PriorityNone   Priority = "none"
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Priorities lists every priority from most to least severe.
var Priorities = []Priority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow, PriorityNone}

// Severity ranks priorities; higher is more severe. Unknown values rank as none.
func (p Priority) Severity() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// ParsePriority accepts any casing; an empty string is PriorityNone.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return PriorityNone, nil
	}
	for _, known := range Priorities {
		if p == known {
			return p, nil
		}
	}
	return PriorityNone, fmt.Errorf("unknown priority %q", s)
}

type Status string

const (
	StatusOpen      Status = "open"
	StatusCompleted Status = "completed"
	StatusDone      Status = "done"
)

func (s Status) Completed() bool {
	return s == StatusCompleted || s == StatusDone
}

type Assignee struct {
	ID   uuid.UUID `json:"id" yaml:"id"`
	Name string    `json:"name" yaml:"name"`
}

// Card is the cached replica of a server card.
type Card struct {
	ID          uuid.UUID  `json:"id" yaml:"id"`
	ColumnID    uuid.UUID  `json:"column_id" yaml:"column_id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Order       float64    `json:"order" yaml:"order"`
	Priority    Priority   `json:"priority" yaml:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	Labels      []string   `json:"labels" yaml:"labels"`
	Assignees   []Assignee `json:"assignees" yaml:"assignees"`
	Status      Status     `json:"status" yaml:"status"`
}

// Clone returns a copy sharing no mutable state with c.
func (c Card) Clone() Card {
	out := c
	if c.DueDate != nil {
		due := *c.DueDate
		out.DueDate = &due
	}
	if c.Labels != nil {
		out.Labels = append([]string(nil), c.Labels...)
	}
	if c.Assignees != nil {
		out.Assignees = append([]Assignee(nil), c.Assignees...)
	}
	return out
}

func (c Card) HasLabel(name string) bool {
	for _, l := range c.Labels {
		if strings.EqualFold(l, name) {
			return true
		}
	}
	return false
}

func (c Card) AssignedTo(id uuid.UUID) bool {
	for _, a := range c.Assignees {
		if a.ID == id {
			return true
		}
	}
	return false
}

type Column struct {
	ID      uuid.UUID `json:"id" yaml:"id"`
	BoardID uuid.UUID `json:"board_id" yaml:"board_id"`
	Title   string    `json:"title" yaml:"title"`
	Order   int       `json:"order" yaml:"order"`
	Cards   []Card    `json:"cards" yaml:"cards"`
}

func (c Column) Clone() Column {
	out := c
	if c.Cards != nil {
		out.Cards = make([]Card, len(c.Cards))
		for i, card := range c.Cards {
			out.Cards[i] = card.Clone()
		}
	}
	return out
}

// CloneColumns deep-copies a column set.
func CloneColumns(columns []Column) []Column {
	if columns == nil {
		return nil
	}
	out := make([]Column, len(columns))
	for i, col := range columns {
		out[i] = col.Clone()
	}
	return out
}

// AllCards flattens columns into one slice in column order.
func AllCards(columns []Column) []Card {
	var out []Card
	for _, col := range columns {
		out = append(out, col.Cards...)
	}
	return out
}
