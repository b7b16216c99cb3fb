package board_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"boardsync/internal/board"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	boardID  = uuid.MustParse("00000000-0000-0000-0000-0000000000b1")
	todoID   = uuid.MustParse("00000000-0000-0000-0000-0000000000c1")
	doingID  = uuid.MustParse("00000000-0000-0000-0000-0000000000c2")
	doneID   = uuid.MustParse("00000000-0000-0000-0000-0000000000c3")
	cardA    = uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	cardB    = uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	cardC    = uuid.MustParse("00000000-0000-0000-0000-00000000000c")
	cardD    = uuid.MustParse("00000000-0000-0000-0000-00000000000d")
	aliceID  = uuid.MustParse("00000000-0000-0000-0000-0000000000e1")
	bobID    = uuid.MustParse("00000000-0000-0000-0000-0000000000e2")
	errNet   = errors.New("network unreachable")
	quietLog = newQuietLogger()
)

func newQuietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func due(s string) *time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return &t
}

// sampleColumns is a three-column board: To do (A, B), Doing (C), Done (D).
func sampleColumns() []board.Column {
	return []board.Column{
		{
			ID: todoID, BoardID: boardID, Title: "To do", Order: 1,
			Cards: []board.Card{
				{ID: cardA, ColumnID: todoID, Title: "Write docs", Order: 1000, Priority: board.PriorityLow,
					Labels: []string{"docs"}, Assignees: []board.Assignee{{ID: aliceID, Name: "Alice"}}, Status: board.StatusOpen},
				{ID: cardB, ColumnID: todoID, Title: "Fix login", Order: 2000, Priority: board.PriorityUrgent,
					DueDate: due("2026-11-01"), Labels: []string{"bug", "auth"}, Status: board.StatusOpen},
			},
		},
		{
			ID: doingID, BoardID: boardID, Title: "Doing", Order: 2,
			Cards: []board.Card{
				{ID: cardC, ColumnID: doingID, Title: "Ship release", Order: 1000, Priority: board.PriorityHigh,
					DueDate: due("2026-10-25"), Labels: []string{"bug"},
					Assignees: []board.Assignee{{ID: aliceID, Name: "Alice"}, {ID: bobID, Name: "Bob"}}, Status: board.StatusOpen},
			},
		},
		{
			ID: doneID, BoardID: boardID, Title: "Done", Order: 3,
			Cards: []board.Card{
				{ID: cardD, ColumnID: doneID, Title: "Set up CI", Order: 1000, Priority: board.PriorityMedium,
					Labels: []string{"infra"}, Status: board.StatusDone},
			},
		},
	}
}

type call struct {
	method   string
	cardID   uuid.UUID
	columnID uuid.UUID
	order    float64
}

// stubService records calls and delegates to optional hooks.
type stubService struct {
	mu    sync.Mutex
	calls []call

	updateColumnFn func(ctx context.Context, cardID, columnID uuid.UUID) error
	updateOrderFn  func(ctx context.Context, cardID uuid.UUID, order float64) error
	fetchFn        func(ctx context.Context, boardID uuid.UUID) ([]board.Column, error)
}

func (s *stubService) record(c call) {
	s.mu.Lock()
	s.calls = append(s.calls, c)
	s.mu.Unlock()
}

func (s *stubService) Calls() []call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]call(nil), s.calls...)
}

func (s *stubService) UpdateCardColumn(ctx context.Context, cardID, columnID uuid.UUID) (board.Card, error) {
	s.record(call{method: "column", cardID: cardID, columnID: columnID})
	if s.updateColumnFn != nil {
		if err := s.updateColumnFn(ctx, cardID, columnID); err != nil {
			return board.Card{}, err
		}
	}
	return board.Card{ID: cardID, ColumnID: columnID}, nil
}

func (s *stubService) UpdateCardOrder(ctx context.Context, cardID uuid.UUID, order float64) (board.Card, error) {
	s.record(call{method: "order", cardID: cardID, order: order})
	if s.updateOrderFn != nil {
		if err := s.updateOrderFn(ctx, cardID, order); err != nil {
			return board.Card{}, err
		}
	}
	return board.Card{ID: cardID, Order: order}, nil
}

func (s *stubService) FetchColumnsForBoard(ctx context.Context, id uuid.UUID) ([]board.Column, error) {
	if s.fetchFn != nil {
		return s.fetchFn(ctx, id)
	}
	return sampleColumns(), nil
}

type noticeRecorder struct {
	mu      sync.Mutex
	notices []board.Notice
}

func (r *noticeRecorder) Notify(n board.Notice) {
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()
}

func (r *noticeRecorder) Notices() []board.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]board.Notice(nil), r.notices...)
}

// newHarness wires a primed cache, coordinator and controller around svc.
func newHarness(svc *stubService, delay time.Duration) (*board.Cache, *board.Coordinator, *board.Controller, *noticeRecorder) {
	cache := board.NewCache(svc.FetchColumnsForBoard, quietLog)
	cache.Set(board.ColumnsKey(boardID), sampleColumns())
	notices := &noticeRecorder{}
	coordinator := board.NewCoordinator(cache, svc, notices, quietLog, delay)
	controller := board.NewController(boardID, cache, coordinator, quietLog)
	return cache, coordinator, controller, notices
}

func cardsOf(t *testing.T, columns []board.Column, columnID uuid.UUID) []board.Card {
	for _, col := range columns {
		if col.ID == columnID {
			return col.Cards
		}
	}
	t.Helper()
	t.Fatalf("column %s not found", columnID)
	return nil
}
