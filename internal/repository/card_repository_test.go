package repository_test

import (
	"context"
	"testing"

	"boardsync/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestCardRepository_UpdateOrder(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewCardRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "cards" SET "sort_order"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := repo.UpdateOrder(context.Background(), uuid.New(), 1500)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_UpdateColumn_UnknownCard(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewCardRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "cards" SET "column_id"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateColumn(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, repository.ErrCardNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_UpdateOrder_DatabaseError(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewCardRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "cards"`).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.UpdateOrder(context.Background(), uuid.New(), 2000)

	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_MaxOrder(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewCardRepository(gormDB)

	mock.ExpectQuery(`SELECT COALESCE\(MAX\(sort_order\), 0\) as max FROM "cards" WHERE column_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(3000.0))

	max, err := repo.MaxOrder(context.Background(), uuid.New())

	assert.NoError(t, err)
	assert.Equal(t, 3000.0, max)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_GetByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewCardRepository(gormDB)

	mock.ExpectQuery(`SELECT .* FROM "cards" WHERE id = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)

	card, err := repo.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, repository.ErrCardNotFound)
	assert.Nil(t, card)
	assert.NoError(t, mock.ExpectationsWereMet())
}
