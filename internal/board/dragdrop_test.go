package board_test

import (
	"context"
	"testing"
	"time"

	"boardsync/internal/board"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drop(card uuid.UUID, from uuid.UUID, fromIdx int, to uuid.UUID, toIdx int) board.DragEnd {
	return board.DragEnd{
		CardID:      card.String(),
		Source:      board.Location{ColumnID: from.String(), Index: fromIdx},
		Destination: &board.Location{ColumnID: to.String(), Index: toIdx},
	}
}

func TestOnDragEnd_NoDestination(t *testing.T) {
	svc := &stubService{}
	_, _, controller, _ := newHarness(svc, time.Hour)

	outcome := controller.OnDragEnd(context.Background(), board.DragEnd{
		CardID: cardA.String(),
		Source: board.Location{ColumnID: todoID.String(), Index: 0},
	})

	assert.Equal(t, board.ResultIgnored, outcome.Result)
	assert.Empty(t, svc.Calls())
}

func TestOnDragEnd_SamePositionLeavesCacheUntouched(t *testing.T) {
	svc := &stubService{}
	cache, _, controller, notices := newHarness(svc, time.Hour)
	before, _ := cache.Get(board.ColumnsKey(boardID))

	outcome := controller.OnDragEnd(context.Background(), drop(cardB, todoID, 1, todoID, 1))

	assert.Equal(t, board.ResultIgnored, outcome.Result)
	after, _ := cache.Get(board.ColumnsKey(boardID))
	assert.Equal(t, before, after)
	assert.Empty(t, svc.Calls())
	assert.Empty(t, notices.Notices())
}

func TestOnDragEnd_InvalidGestures(t *testing.T) {
	cases := map[string]board.DragEnd{
		"malformed card id": {
			CardID:      "not-a-uuid",
			Source:      board.Location{ColumnID: todoID.String(), Index: 0},
			Destination: &board.Location{ColumnID: doingID.String(), Index: 0},
		},
		"malformed column id": {
			CardID:      cardA.String(),
			Source:      board.Location{ColumnID: todoID.String(), Index: 0},
			Destination: &board.Location{ColumnID: "column-7", Index: 0},
		},
		"unknown column":        drop(cardA, todoID, 0, uuid.New(), 0),
		"card not in source":    drop(cardC, todoID, 0, doneID, 0),
		"negative target index": drop(cardA, todoID, 0, doingID, -1),
	}

	for name, gesture := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &stubService{}
			cache, _, controller, notices := newHarness(svc, time.Hour)
			before, _ := cache.Get(board.ColumnsKey(boardID))

			outcome := controller.OnDragEnd(context.Background(), gesture)

			assert.Equal(t, board.ResultIgnored, outcome.Result)
			after, _ := cache.Get(board.ColumnsKey(boardID))
			assert.Equal(t, before, after)
			assert.Empty(t, svc.Calls())
			assert.Empty(t, notices.Notices())
		})
	}
}

func TestOnDragEnd_DropBetweenSiblingsUsesMidpoint(t *testing.T) {
	svc := &stubService{}
	cache, _, controller, _ := newHarness(svc, time.Hour)

	outcome := controller.OnDragEnd(context.Background(), drop(cardC, doingID, 0, todoID, 1))

	require.Equal(t, board.ResultCommitted, outcome.Result)
	assert.Equal(t, []call{
		{method: "column", cardID: cardC, columnID: todoID},
		{method: "order", cardID: cardC, order: 1500},
	}, svc.Calls())
	columns, _ := cache.Get(board.ColumnsKey(boardID))
	assert.Equal(t, []uuid.UUID{cardA, cardC, cardB}, ids(cardsOf(t, columns, todoID)))
	assert.Empty(t, cardsOf(t, columns, doingID))
}

func TestOnDragEnd_IntoEmptyColumnUsesBaseOrder(t *testing.T) {
	svc := &stubService{}
	_, _, controller, _ := newHarness(svc, time.Hour)
	require.Equal(t, board.ResultCommitted,
		controller.OnDragEnd(context.Background(), drop(cardC, doingID, 0, todoID, 2)).Result)

	outcome := controller.OnDragEnd(context.Background(), drop(cardA, todoID, 0, doingID, 0))

	require.Equal(t, board.ResultCommitted, outcome.Result)
	calls := svc.Calls()
	assert.Equal(t, call{method: "order", cardID: cardA, order: 1000}, calls[len(calls)-1])
}

func TestOnDragEnd_ReorderWithinColumnExcludesDraggedCard(t *testing.T) {
	svc := &stubService{}
	cache, _, controller, _ := newHarness(svc, time.Hour)

	outcome := controller.OnDragEnd(context.Background(), drop(cardA, todoID, 0, todoID, 1))

	require.Equal(t, board.ResultCommitted, outcome.Result)
	assert.Equal(t, call{method: "order", cardID: cardA, order: 3000}, svc.Calls()[1])
	columns, _ := cache.Get(board.ColumnsKey(boardID))
	assert.Equal(t, []uuid.UUID{cardB, cardA}, ids(cardsOf(t, columns, todoID)))
}

func TestOnDragEnd_ConvergedKeysTriggerRenumber(t *testing.T) {
	svc := &stubService{}
	cache, _, controller, _ := newHarness(svc, time.Hour)
	key := board.ColumnsKey(boardID)
	columns, _ := cache.Get(key)
	columns[0].Cards[1].Order = 1001
	cache.Set(key, columns)

	outcome := controller.OnDragEnd(context.Background(), drop(cardC, doingID, 0, todoID, 1))

	require.Equal(t, board.ResultCommitted, outcome.Result)
	assert.Equal(t, []call{
		{method: "column", cardID: cardC, columnID: todoID},
		{method: "order", cardID: cardC, order: 2000},
		{method: "order", cardID: cardB, order: 3000},
	}, svc.Calls())
	after, _ := cache.Get(key)
	todo := cardsOf(t, after, todoID)
	assert.Equal(t, []uuid.UUID{cardA, cardC, cardB}, ids(todo))
	for i := 1; i < len(todo); i++ {
		assert.Less(t, todo[i-1].Order, todo[i].Order)
	}
}

func TestOnDragEnd_NetworkFailureRestoresCard(t *testing.T) {
	svc := &stubService{
		updateColumnFn: func(ctx context.Context, cardID, columnID uuid.UUID) error { return errNet },
	}
	cache, _, controller, notices := newHarness(svc, time.Hour)

	outcome := controller.OnDragEnd(context.Background(), drop(cardA, todoID, 0, doingID, 1))

	assert.Equal(t, board.ResultRolledBack, outcome.Result)
	columns, _ := cache.Get(board.ColumnsKey(boardID))
	todo := cardsOf(t, columns, todoID)
	assert.Equal(t, []uuid.UUID{cardA, cardB}, ids(todo))
	assert.Equal(t, 1000.0, todo[0].Order)
	assert.Len(t, notices.Notices(), 1)
}

func TestOnDragEnd_SecondGestureWhileSettlingIsDropped(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	svc := &stubService{
		updateOrderFn: func(ctx context.Context, cardID uuid.UUID, order float64) error {
			if cardID == cardA {
				close(started)
				<-release
			}
			return nil
		},
	}
	_, _, controller, notices := newHarness(svc, time.Hour)

	first := make(chan board.Outcome, 1)
	go func() { first <- controller.OnDragEnd(context.Background(), drop(cardA, todoID, 0, doingID, 1)) }()
	<-started

	second := controller.OnDragEnd(context.Background(), drop(cardC, doingID, 0, doneID, 0))

	assert.Equal(t, board.ResultRejected, second.Result)
	assert.Empty(t, notices.Notices())
	close(release)
	assert.Equal(t, board.ResultCommitted, (<-first).Result)
}
