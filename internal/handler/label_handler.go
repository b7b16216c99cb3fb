package handler

import (
	"net/http"

	"boardsync/internal/model"

	"github.com/gin-gonic/gin"
)

type LabelHandler struct {
	labelRepo LabelStore
	boardRepo BoardStore
}

func NewLabelHandler(labelRepo LabelStore, boardRepo BoardStore) *LabelHandler {
	return &LabelHandler{labelRepo: labelRepo, boardRepo: boardRepo}
}

type CreateLabelRequest struct {
	BoardID string `json:"board_id" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Color   string `json:"color" binding:"required,hexcolor"`
}

func (h *LabelHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateLabelRequest
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

	label := &model.Label{BoardID: boardID, Name: req.Name, Color: req.Color}
	if err := h.labelRepo.Create(c.Request.Context(), label); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create label"})
		return
	}
	c.JSON(http.StatusCreated, label)
}

func (h *LabelHandler) GetByBoardID(c *gin.Context) {
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

	labels, err := h.labelRepo.GetByBoardID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve labels"})
		return
	}
	c.JSON(http.StatusOK, labels)
}
