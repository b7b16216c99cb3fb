package board

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CardService is the remote card collaborator the engine confirms moves with.
type CardService interface {
	UpdateCardColumn(ctx context.Context, cardID, columnID uuid.UUID) (Card, error)
	UpdateCardOrder(ctx context.Context, cardID uuid.UUID, order float64) (Card, error)
	FetchColumnsForBoard(ctx context.Context, boardID uuid.UUID) ([]Column, error)
}

type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// Notice is a transient user-facing message.
type Notice struct {
	Level   NoticeLevel
	Title   string
	Message string
	BoardID uuid.UUID
	CardID  uuid.UUID
}

type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// LogNotifier writes notices to a logrus logger.
type LogNotifier struct {
	Logger *logrus.Logger
}

func (n LogNotifier) Notify(notice Notice) {
	logger := n.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	entry := logger.WithFields(logrus.Fields{
		"board_id": notice.BoardID,
		"card_id":  notice.CardID,
	})
	if notice.Level == NoticeError {
		entry.Errorf("%s: %s", notice.Title, notice.Message)
		return
	}
	entry.Infof("%s: %s", notice.Title, notice.Message)
}
