package handler

import (
	"errors"
	"net/http"

	"boardsync/internal/middleware"
	"boardsync/internal/model"
	"boardsync/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return uuid.Nil, false
	}
	return userID, true
}

func parseID(c *gin.Context, raw, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + what + " ID format"})
		return uuid.Nil, false
	}
	return id, true
}

// ownedBoard loads a board and checks the caller owns it, writing the error
// response when it does not.
func ownedBoard(c *gin.Context, boards BoardStore, boardID, userID uuid.UUID) (*model.Board, bool) {
	b, err := boards.GetByID(c.Request.Context(), boardID)
	if errors.Is(err, repository.ErrBoardNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return nil, false
	}
	if b.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have access to this board"})
		return nil, false
	}
	return b, true
}
