package handler

import (
	"errors"
	"net/http"

	"boardsync/internal/board"
	"boardsync/internal/model"
	"boardsync/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ColumnHandler struct {
	columnRepo ColumnStore
	boardRepo  BoardStore
	columns    BoardColumns
}

func NewColumnHandler(columnRepo ColumnStore, boardRepo BoardStore, columns BoardColumns) *ColumnHandler {
	return &ColumnHandler{
		columnRepo: columnRepo,
		boardRepo:  boardRepo,
		columns:    columns,
	}
}

type CreateColumnRequest struct {
	Title    string `json:"title" binding:"required"`
	BoardID  string `json:"board_id" binding:"required"`
	Position int    `json:"position"`
}

// ReorderColumnsRequest lists every column of the board in display order.
type ReorderColumnsRequest struct {
	ColumnIDs []string `json:"column_ids" binding:"required,min=1"`
}

func (h *ColumnHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	boardID, ok := parseID(c, req.BoardID, "board")
	if !ok {
		return
	}
	if _, ok := ownedBoard(c, h.boardRepo, boardID, userID); !ok {
		return
	}

	position := req.Position
	if position == 0 {
		maxPosition, err := h.columnRepo.GetMaxPosition(c.Request.Context(), boardID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to determine column position"})
			return
		}
		position = maxPosition + 1
	}

	column := &model.Column{
		BoardID:  boardID,
		Title:    req.Title,
		Position: position,
	}
	if err := h.columnRepo.Create(c.Request.Context(), column); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create column"})
		return
	}
	h.columns.Evict(c.Request.Context(), boardID)

	c.JSON(http.StatusCreated, toColumn(*column))
}

// GetByBoard returns the board's columns ordered by position, each holding
// its cards ordered by sort key.
func (h *ColumnHandler) GetByBoard(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := parseID(c, c.Param("id"), "board")
	if !ok {
		return
	}
	if _, ok := ownedBoard(c, h.boardRepo, boardID, userID); !ok {
		return
	}

	h.respondColumns(c, boardID)
}

// Reorder renumbers the board's columns to the submitted order and returns
// the board in its new layout.
func (h *ColumnHandler) Reorder(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := parseID(c, c.Param("id"), "board")
	if !ok {
		return
	}
	if _, ok := ownedBoard(c, h.boardRepo, boardID, userID); !ok {
		return
	}

	var req ReorderColumnsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	ids, ok := parseIDs(c, req.ColumnIDs, "column")
	if !ok {
		return
	}
	if len(ids) != len(req.ColumnIDs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Column ids must not repeat"})
		return
	}

	if err := h.columnRepo.ReorderColumns(c.Request.Context(), boardID, ids); err != nil {
		if errors.Is(err, repository.ErrColumnOrderMismatch) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Column ids must list every column of the board"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reorder columns"})
		return
	}
	h.columns.Evict(c.Request.Context(), boardID)

	h.respondColumns(c, boardID)
}

func (h *ColumnHandler) respondColumns(c *gin.Context, boardID uuid.UUID) {
	columns, err := h.columns.GetBoardColumns(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve columns"})
		return
	}

	response := make([]board.Column, len(columns))
	for i, column := range columns {
		response[i] = toColumn(column)
	}
	c.JSON(http.StatusOK, response)
}
