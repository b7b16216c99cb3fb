package handler

import (
	"context"

	"boardsync/internal/model"

	"github.com/google/uuid"
)

// The handlers depend on these narrow views of the repositories so tests can
// substitute mocks.

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type AssigneeFinder interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.User, error)
}

type BoardStore interface {
	Create(ctx context.Context, board *model.Board) error
	GetOwned(ctx context.Context, ownerID uuid.UUID) ([]model.Board, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error)
}

type ColumnStore interface {
	Create(ctx context.Context, column *model.Column) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Column, error)
	GetMaxPosition(ctx context.Context, boardID uuid.UUID) (int, error)
	ReorderColumns(ctx context.Context, boardID uuid.UUID, ids []uuid.UUID) error
}

// BoardColumns reads a board's columns with nested cards and drops cached
// copies after writes.
type BoardColumns interface {
	GetBoardColumns(ctx context.Context, boardID uuid.UUID) ([]model.Column, error)
	Evict(ctx context.Context, boardID uuid.UUID)
}

type CardStore interface {
	Create(ctx context.Context, card *model.Card) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error)
	MaxOrder(ctx context.Context, columnID uuid.UUID) (float64, error)
	UpdateColumn(ctx context.Context, id, columnID uuid.UUID) error
	UpdateOrder(ctx context.Context, id uuid.UUID, order float64) error
}

type LabelStore interface {
	Create(ctx context.Context, label *model.Label) error
	GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Label, error)
	FindByIDs(ctx context.Context, boardID uuid.UUID, ids []uuid.UUID) ([]model.Label, error)
}
