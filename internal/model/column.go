package model

import (
	"github.com/google/uuid"
)

type Column struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BoardID  uuid.UUID `gorm:"type:uuid;not null;index" json:"board_id"`
	Title    string    `gorm:"not null" json:"title"`
	Position int       `gorm:"not null" json:"position"`

	Cards []Card `gorm:"foreignKey:ColumnID;constraint:OnDelete:CASCADE" json:"cards"`
}
