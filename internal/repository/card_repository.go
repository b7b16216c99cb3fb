package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"boardsync/internal/model"
)

type CardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{db: db}
}

// Create inserts the card and its label/assignee links. Linked labels and
// users must already exist; they are referenced, never upserted.
func (r *CardRepository) Create(ctx context.Context, card *model.Card) error {
	return r.db.WithContext(ctx).Omit("Labels.*", "Assignees.*").Create(card).Error
}

// GetByID retrieves a card with its labels and assignees
func (r *CardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	var card model.Card
	result := r.db.WithContext(ctx).
		Preload("Labels").
		Preload("Assignees").
		First(&card, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, result.Error
	}
	return &card, nil
}

// MaxOrder returns the largest sort key in a column, 0 when it is empty
func (r *CardRepository) MaxOrder(ctx context.Context, columnID uuid.UUID) (float64, error) {
	var max struct {
		Max float64
	}
	err := r.db.WithContext(ctx).Model(&model.Card{}).
		Select("COALESCE(MAX(sort_order), 0) as max").
		Where("column_id = ?", columnID).
		Scan(&max).Error
	return max.Max, err
}

// UpdateColumn reassigns a card to another column, keeping its sort key
func (r *CardRepository) UpdateColumn(ctx context.Context, id, columnID uuid.UUID) error {
	return r.updateField(ctx, id, "column_id", columnID)
}

// UpdateOrder sets a card's sort key
func (r *CardRepository) UpdateOrder(ctx context.Context, id uuid.UUID, order float64) error {
	return r.updateField(ctx, id, "sort_order", order)
}

func (r *CardRepository) updateField(ctx context.Context, id uuid.UUID, field string, value any) error {
	result := r.db.WithContext(ctx).Model(&model.Card{}).
		Where("id = ?", id).
		Update(field, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}
