package handler_test

import (
	"context"

	"boardsync/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockBoardStore struct{ mock.Mock }

func (m *MockBoardStore) Create(ctx context.Context, b *model.Board) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBoardStore) GetOwned(ctx context.Context, ownerID uuid.UUID) ([]model.Board, error) {
	args := m.Called(ctx, ownerID)
	boards, _ := args.Get(0).([]model.Board)
	return boards, args.Error(1)
}

func (m *MockBoardStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*model.Board)
	return b, args.Error(1)
}

type MockColumnStore struct{ mock.Mock }

func (m *MockColumnStore) Create(ctx context.Context, column *model.Column) error {
	return m.Called(ctx, column).Error(0)
}

func (m *MockColumnStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Column, error) {
	args := m.Called(ctx, id)
	column, _ := args.Get(0).(*model.Column)
	return column, args.Error(1)
}

func (m *MockColumnStore) GetMaxPosition(ctx context.Context, boardID uuid.UUID) (int, error) {
	args := m.Called(ctx, boardID)
	return args.Int(0), args.Error(1)
}

func (m *MockColumnStore) ReorderColumns(ctx context.Context, boardID uuid.UUID, ids []uuid.UUID) error {
	return m.Called(ctx, boardID, ids).Error(0)
}

type MockBoardColumns struct{ mock.Mock }

func (m *MockBoardColumns) GetBoardColumns(ctx context.Context, boardID uuid.UUID) ([]model.Column, error) {
	args := m.Called(ctx, boardID)
	columns, _ := args.Get(0).([]model.Column)
	return columns, args.Error(1)
}

func (m *MockBoardColumns) Evict(ctx context.Context, boardID uuid.UUID) {
	m.Called(ctx, boardID)
}

type MockCardStore struct{ mock.Mock }

func (m *MockCardStore) Create(ctx context.Context, card *model.Card) error {
	return m.Called(ctx, card).Error(0)
}

func (m *MockCardStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	args := m.Called(ctx, id)
	card, _ := args.Get(0).(*model.Card)
	return card, args.Error(1)
}

func (m *MockCardStore) MaxOrder(ctx context.Context, columnID uuid.UUID) (float64, error) {
	args := m.Called(ctx, columnID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockCardStore) UpdateColumn(ctx context.Context, id, columnID uuid.UUID) error {
	return m.Called(ctx, id, columnID).Error(0)
}

func (m *MockCardStore) UpdateOrder(ctx context.Context, id uuid.UUID, order float64) error {
	return m.Called(ctx, id, order).Error(0)
}

type MockLabelStore struct{ mock.Mock }

func (m *MockLabelStore) Create(ctx context.Context, label *model.Label) error {
	return m.Called(ctx, label).Error(0)
}

func (m *MockLabelStore) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Label, error) {
	args := m.Called(ctx, boardID)
	labels, _ := args.Get(0).([]model.Label)
	return labels, args.Error(1)
}

func (m *MockLabelStore) FindByIDs(ctx context.Context, boardID uuid.UUID, ids []uuid.UUID) ([]model.Label, error) {
	args := m.Called(ctx, boardID, ids)
	labels, _ := args.Get(0).([]model.Label)
	return labels, args.Error(1)
}

type MockAssigneeFinder struct{ mock.Mock }

func (m *MockAssigneeFinder) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.User, error) {
	args := m.Called(ctx, ids)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}
