package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"boardsync/internal/model"
)

type LabelRepository struct {
	db *gorm.DB
}

func NewLabelRepository(db *gorm.DB) *LabelRepository {
	return &LabelRepository{db: db}
}

// Create adds a new label to the database
func (r *LabelRepository) Create(ctx context.Context, label *model.Label) error {
	return r.db.WithContext(ctx).Create(label).Error
}

// GetByBoardID retrieves all labels of a board ordered by name
func (r *LabelRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Label, error) {
	var labels []model.Label
	result := r.db.WithContext(ctx).Where("board_id = ?", boardID).Order("name").Find(&labels)
	if result.Error != nil {
		return nil, result.Error
	}
	return labels, nil
}

// FindByIDs retrieves the labels among ids that belong to the board
func (r *LabelRepository) FindByIDs(ctx context.Context, boardID uuid.UUID, ids []uuid.UUID) ([]model.Label, error) {
	var labels []model.Label
	if len(ids) == 0 {
		return labels, nil
	}
	result := r.db.WithContext(ctx).Where("board_id = ? AND id IN ?", boardID, ids).Find(&labels)
	if result.Error != nil {
		return nil, result.Error
	}
	return labels, nil
}
