package repository

import (
	"context"
	"errors"

	"boardsync/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ColumnRepository struct {
	db *gorm.DB
}

func NewColumnRepository(db *gorm.DB) *ColumnRepository {
	return &ColumnRepository{db: db}
}

func (r *ColumnRepository) Create(ctx context.Context, column *model.Column) error {
	return r.db.WithContext(ctx).Create(column).Error
}

// GetByID returns ErrColumnNotFound for unknown ids.
func (r *ColumnRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Column, error) {
	var column model.Column
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&column).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrColumnNotFound
		}
		return nil, err
	}
	return &column, nil
}

// GetBoardColumns loads a board's columns by position with their cards
// ordered by sort key, labels and assignees included.
func (r *ColumnRepository) GetBoardColumns(ctx context.Context, boardID uuid.UUID) ([]model.Column, error) {
	var columns []model.Column
	err := r.db.WithContext(ctx).
		Preload("Cards", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order")
		}).
		Preload("Cards.Labels").
		Preload("Cards.Assignees").
		Where("board_id = ?", boardID).
		Order("position").
		Find(&columns).Error
	return columns, err
}

func (r *ColumnRepository) GetMaxPosition(ctx context.Context, boardID uuid.UUID) (int, error) {
	var maxPosition struct {
		Max int
	}
	err := r.db.WithContext(ctx).Model(&model.Column{}).
		Select("COALESCE(MAX(position), 0) as max").
		Where("board_id = ?", boardID).
		Scan(&maxPosition).Error

	return maxPosition.Max, err
}

// ReorderColumns gives the columns positions 1..n in the order of ids, which
// must name every column of the board exactly once.
func (r *ColumnRepository) ReorderColumns(ctx context.Context, boardID uuid.UUID, ids []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Column{}).Where("board_id = ?", boardID).Count(&count).Error; err != nil {
			return err
		}
		if count != int64(len(ids)) {
			return ErrColumnOrderMismatch
		}

		for i, id := range ids {
			result := tx.Model(&model.Column{}).
				Where("id = ? AND board_id = ?", id, boardID).
				Update("position", i+1)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrColumnOrderMismatch
			}
		}
		return nil
	})
}
