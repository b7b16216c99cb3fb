package handler

import (
	"net/http"
	"time"

	"boardsync/internal/model"

	"github.com/gin-gonic/gin"
)

type BoardHandler struct {
	boardRepo BoardStore
}

func NewBoardHandler(boardRepo BoardStore) *BoardHandler {
	return &BoardHandler{boardRepo: boardRepo}
}

type CreateBoardRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type BoardResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func boardResponse(b *model.Board) BoardResponse {
	return BoardResponse{
		ID:          b.ID.String(),
		Title:       b.Title,
		Description: b.Description,
		OwnerID:     b.OwnerID.String(),
		CreatedAt:   b.CreatedAt,
	}
}

func (h *BoardHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	b := &model.Board{
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     userID,
	}
	if err := h.boardRepo.Create(c.Request.Context(), b); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create board"})
		return
	}

	c.JSON(http.StatusCreated, boardResponse(b))
}

func (h *BoardHandler) GetAll(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	boards, err := h.boardRepo.GetOwned(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve boards"})
		return
	}

	response := make([]BoardResponse, len(boards))
	for i := range boards {
		response[i] = boardResponse(&boards[i])
	}
	c.JSON(http.StatusOK, response)
}

func (h *BoardHandler) GetByID(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := parseID(c, c.Param("id"), "board")
	if !ok {
		return
	}

	b, ok := ownedBoard(c, h.boardRepo, boardID, userID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, boardResponse(b))
}
