package model

import (
	"github.com/google/uuid"
)

type Label struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BoardID uuid.UUID `gorm:"type:uuid;not null;index" json:"board_id"`
	Name    string    `gorm:"not null" json:"name"`
	Color   string    `gorm:"not null" json:"color"`
}
