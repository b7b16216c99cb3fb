package handler

import (
	"errors"
	"math"
	"net/http"
	"time"

	"boardsync/internal/board"
	"boardsync/internal/model"
	"boardsync/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type CardHandler struct {
	cardRepo   CardStore
	columnRepo ColumnStore
	boardRepo  BoardStore
	labelRepo  LabelStore
	userRepo   AssigneeFinder
	columns    BoardColumns
	log        *logrus.Logger
}

func NewCardHandler(
	cardRepo CardStore,
	columnRepo ColumnStore,
	boardRepo BoardStore,
	labelRepo LabelStore,
	userRepo AssigneeFinder,
	columns BoardColumns,
	log *logrus.Logger,
) *CardHandler {
	return &CardHandler{
		cardRepo:   cardRepo,
		columnRepo: columnRepo,
		boardRepo:  boardRepo,
		labelRepo:  labelRepo,
		userRepo:   userRepo,
		columns:    columns,
		log:        log,
	}
}

type CreateCardRequest struct {
	ColumnID    string     `json:"column_id" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	Order       *float64   `json:"order"`
	LabelIDs    []string   `json:"label_ids"`
	AssigneeIDs []string   `json:"assignee_ids"`
}

type UpdateCardColumnRequest struct {
	ColumnID string `json:"column_id" binding:"required"`
}

type UpdateCardOrderRequest struct {
	Order *float64 `json:"order" binding:"required"`
}

func validOrder(order float64) bool {
	return order > 0 && !math.IsInf(order, 0) && !math.IsNaN(order)
}

func (h *CardHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	columnID, ok := parseID(c, req.ColumnID, "column")
	if !ok {
		return
	}
	priority, err := board.ParsePriority(req.Priority)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
		return
	}
	if req.Order != nil && !validOrder(*req.Order) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order must be a positive number"})
		return
	}
	labelIDs, ok := parseIDs(c, req.LabelIDs, "label")
	if !ok {
		return
	}
	assigneeIDs, ok := parseIDs(c, req.AssigneeIDs, "user")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	column, ok := h.column(c, columnID)
	if !ok {
		return
	}
	if _, ok := ownedBoard(c, h.boardRepo, column.BoardID, userID); !ok {
		return
	}

	labels, err := h.labelRepo.FindByIDs(ctx, column.BoardID, labelIDs)
	if err != nil {
		h.internal(c, err, "Failed to retrieve labels")
		return
	}
	if len(labels) != len(labelIDs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown label for this board"})
		return
	}
	assignees, err := h.userRepo.FindByIDs(ctx, assigneeIDs)
	if err != nil {
		h.internal(c, err, "Failed to retrieve assignees")
		return
	}
	if len(assignees) != len(assigneeIDs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown assignee"})
		return
	}

	var order float64
	if req.Order != nil {
		order = *req.Order
	} else {
		last, err := h.cardRepo.MaxOrder(ctx, columnID)
		if err != nil {
			h.internal(c, err, "Failed to determine card order")
			return
		}
		order = last + board.BaseOrder
	}

	card := &model.Card{
		ColumnID:    columnID,
		Title:       req.Title,
		Description: req.Description,
		SortOrder:   order,
		Priority:    string(priority),
		DueDate:     req.DueDate,
		CreatedBy:   userID,
		Labels:      labels,
		Assignees:   assignees,
	}
	if err := h.cardRepo.Create(ctx, card); err != nil {
		h.internal(c, err, "Failed to create card")
		return
	}
	h.columns.Evict(ctx, column.BoardID)

	c.JSON(http.StatusCreated, toCard(*card, column.Title))
}

func (h *CardHandler) GetByID(c *gin.Context) {
	card, column, ok := h.authorizedCard(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toCard(*card, column.Title))
}

// UpdateColumn moves a card to another column of the same board. The sort
// key is left alone; clients follow up with UpdateOrder.
func (h *CardHandler) UpdateColumn(c *gin.Context) {
	card, source, ok := h.authorizedCard(c)
	if !ok {
		return
	}

	var req UpdateCardColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	columnID, ok := parseID(c, req.ColumnID, "column")
	if !ok {
		return
	}
	target, ok := h.column(c, columnID)
	if !ok {
		return
	}
	if target.BoardID != source.BoardID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Column belongs to another board"})
		return
	}

	if err := h.cardRepo.UpdateColumn(c.Request.Context(), card.ID, target.ID); err != nil {
		h.writeFailed(c, card.ID, err)
		return
	}
	h.columns.Evict(c.Request.Context(), source.BoardID)

	card.ColumnID = target.ID
	c.JSON(http.StatusOK, toCard(*card, target.Title))
}

func (h *CardHandler) UpdateOrder(c *gin.Context) {
	card, column, ok := h.authorizedCard(c)
	if !ok {
		return
	}

	var req UpdateCardOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if !validOrder(*req.Order) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order must be a positive number"})
		return
	}

	if err := h.cardRepo.UpdateOrder(c.Request.Context(), card.ID, *req.Order); err != nil {
		h.writeFailed(c, card.ID, err)
		return
	}
	h.columns.Evict(c.Request.Context(), column.BoardID)

	card.SortOrder = *req.Order
	c.JSON(http.StatusOK, toCard(*card, column.Title))
}

// authorizedCard resolves the :id card and its column, checking the caller
// owns the board.
func (h *CardHandler) authorizedCard(c *gin.Context) (*model.Card, *model.Column, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return nil, nil, false
	}
	cardID, ok := parseID(c, c.Param("id"), "card")
	if !ok {
		return nil, nil, false
	}

	card, err := h.cardRepo.GetByID(c.Request.Context(), cardID)
	if errors.Is(err, repository.ErrCardNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
		return nil, nil, false
	}
	if err != nil {
		h.internal(c, err, "Failed to retrieve card")
		return nil, nil, false
	}

	column, ok := h.column(c, card.ColumnID)
	if !ok {
		return nil, nil, false
	}
	if _, ok := ownedBoard(c, h.boardRepo, column.BoardID, userID); !ok {
		return nil, nil, false
	}
	return card, column, true
}

func (h *CardHandler) column(c *gin.Context, id uuid.UUID) (*model.Column, bool) {
	column, err := h.columnRepo.GetByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrColumnNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Column not found"})
		return nil, false
	}
	if err != nil {
		h.internal(c, err, "Failed to retrieve column")
		return nil, false
	}
	return column, true
}

func (h *CardHandler) writeFailed(c *gin.Context, cardID uuid.UUID, err error) {
	if errors.Is(err, repository.ErrCardNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
		return
	}
	h.log.WithError(err).WithField("card_id", cardID).Error("card update failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update card"})
}

func (h *CardHandler) internal(c *gin.Context, err error, message string) {
	h.log.WithError(err).WithField("path", c.FullPath()).Error(message)
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}

func parseIDs(c *gin.Context, raw []string, what string) ([]uuid.UUID, bool) {
	seen := make(map[uuid.UUID]struct{}, len(raw))
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, ok := parseID(c, s, what)
		if !ok {
			return nil, false
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, true
}
