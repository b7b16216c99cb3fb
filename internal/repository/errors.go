package repository

import "errors"

// Common repository errors
var (
	// ErrBoardNotFound is returned when a board is not found
	ErrBoardNotFound = errors.New("board not found")

	// ErrColumnNotFound is returned when a column is not found
	ErrColumnNotFound = errors.New("column not found")

	// ErrColumnOrderMismatch is returned when a reorder does not name every
	// column of the board exactly once
	ErrColumnOrderMismatch = errors.New("column ids do not match the board's columns")

	// ErrCardNotFound is returned when a card is not found
	ErrCardNotFound = errors.New("card not found")
)
