package board

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultInvalidateDelay postpones the post-commit refetch so the server's
// derived fields arrive without the card visibly jumping back and forth.
const DefaultInvalidateDelay = 500 * time.Millisecond

type MoveState int

const (
	StateIdle MoveState = iota
	StateOptimisticallyApplied
	StateSettling
	StateCommitted
	StateRolledBack
)

func (s MoveState) String() string {
	switch s {
	case StateOptimisticallyApplied:
		return "optimistically_applied"
	case StateSettling:
		return "settling"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled_back"
	default:
		return "idle"
	}
}

func (s MoveState) inFlight() bool {
	return s == StateOptimisticallyApplied || s == StateSettling
}

type Result int

const (
	ResultCommitted Result = iota
	ResultRolledBack
	ResultRejected
	ResultIgnored
)

func (r Result) String() string {
	switch r {
	case ResultCommitted:
		return "committed"
	case ResultRolledBack:
		return "rolled_back"
	case ResultRejected:
		return "rejected"
	default:
		return "ignored"
	}
}

// Outcome is how a move ended. Err is set for rollbacks and for moves
// ignored because the cache did not know the card or column.
type Outcome struct {
	Result Result
	Err    error
}

type MoveRequest struct {
	BoardID  uuid.UUID
	CardID   uuid.UUID
	ColumnID uuid.UUID
	Order    float64
	// Renumbered re-keys destination siblings; see Place.
	Renumbered []OrderChange
}

// Coordinator applies card moves optimistically to the cache and confirms
// them with the card service. One move is in flight at a time.
type Coordinator struct {
	cache           *Cache
	service         CardService
	notifier        Notifier
	log             *logrus.Entry
	invalidateDelay time.Duration

	mu    sync.Mutex
	state MoveState
}

func NewCoordinator(cache *Cache, service CardService, notifier Notifier, logger *logrus.Logger, invalidateDelay time.Duration) *Coordinator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if notifier == nil {
		notifier = LogNotifier{Logger: logger}
	}
	if invalidateDelay <= 0 {
		invalidateDelay = DefaultInvalidateDelay
	}
	return &Coordinator{
		cache:           cache,
		service:         service,
		notifier:        notifier,
		log:             logger.WithField("component", "coordinator"),
		invalidateDelay: invalidateDelay,
	}
}

func (c *Coordinator) State() MoveState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether a move currently holds the slot.
func (c *Coordinator) Busy() bool {
	return c.State().inFlight()
}

func (c *Coordinator) setState(s MoveState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// acquire claims the single move slot.
func (c *Coordinator) acquire() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.inFlight() {
		return false
	}
	c.state = StateOptimisticallyApplied
	return true
}

// Move blocks until the move is committed or rolled back. A move requested
// while another is in flight is rejected without side effects. Failures
// never escape as errors: they are rolled back and reported through the
// notifier and the returned Outcome.
//
// The board's cache entry is held from the optimistic write until the move
// settles, so no refetch can replace the unconfirmed state.
func (c *Coordinator) Move(ctx context.Context, req MoveRequest) Outcome {
	log := c.log.WithFields(logrus.Fields{
		"board_id":  req.BoardID,
		"card_id":   req.CardID,
		"column_id": req.ColumnID,
		"order":     req.Order,
	})

	if !c.acquire() {
		log.Debug("move rejected: another move is in flight")
		return Outcome{Result: ResultRejected}
	}

	key := ColumnsKey(req.BoardID)
	c.cache.Hold(key)
	outcome := c.move(ctx, key, req, log)
	c.cache.Release(key)

	switch {
	case outcome.Result == ResultCommitted:
		c.scheduleInvalidation(req.BoardID)
	case outcome.Result == ResultRolledBack && c.cache.Stale(key):
		// an invalidation was dropped while the entry was held
		c.scheduleInvalidation(req.BoardID)
	}
	return outcome
}

func (c *Coordinator) move(ctx context.Context, key Key, req MoveRequest, log *logrus.Entry) Outcome {
	snapshot := c.cache.Snapshot(key)

	from, ok := locate(snapshot.columns, req.CardID)
	if !ok {
		c.setState(StateIdle)
		log.Warn("move ignored: card not in cache")
		return Outcome{Result: ResultIgnored, Err: ErrCardNotInCache}
	}

	if err := c.cache.Update(key, func(columns []Column) ([]Column, error) {
		return applyMove(columns, req)
	}); err != nil {
		c.setState(StateIdle)
		log.WithError(err).Warn("move ignored")
		return Outcome{Result: ResultIgnored, Err: err}
	}
	log.Debug("move applied optimistically")

	c.setState(StateSettling)
	if err := c.settle(ctx, req, from, snapshot.columns); err != nil {
		c.cache.Restore(snapshot)
		c.setState(StateRolledBack)
		log.WithError(err).Error("move rolled back")
		c.notifier.Notify(Notice{
			Level:   NoticeError,
			Title:   "Failed to move card",
			Message: err.Error(),
			BoardID: req.BoardID,
			CardID:  req.CardID,
		})
		return Outcome{Result: ResultRolledBack, Err: err}
	}

	c.setState(StateCommitted)
	log.Info("move committed")
	return Outcome{Result: ResultCommitted}
}

// origin is where the moved card was before the move.
type origin struct {
	columnID uuid.UUID
	order    float64
}

func locate(columns []Column, cardID uuid.UUID) (origin, bool) {
	for _, col := range columns {
		for _, card := range col.Cards {
			if card.ID == cardID {
				return origin{columnID: col.ID, order: card.Order}, true
			}
		}
	}
	return origin{}, false
}

// settle confirms the move: column first, then order, then sibling re-keys.
// Steps that already succeeded are compensated when a later one fails.
func (c *Coordinator) settle(ctx context.Context, req MoveRequest, from origin, before []Column) error {
	var (
		columnDone bool
		orderDone  bool
		rekeyed    []OrderChange
	)

	fail := func(step string, err error) error {
		c.compensate(ctx, req, from, before, columnDone, orderDone, rekeyed)
		return fmt.Errorf("%s: %w", step, err)
	}

	if _, err := c.service.UpdateCardColumn(ctx, req.CardID, req.ColumnID); err != nil {
		return fail("update card column", err)
	}
	columnDone = true

	if _, err := c.service.UpdateCardOrder(ctx, req.CardID, req.Order); err != nil {
		return fail("update card order", err)
	}
	orderDone = true

	for _, change := range req.Renumbered {
		if _, err := c.service.UpdateCardOrder(ctx, change.CardID, change.Order); err != nil {
			return fail("renumber column", err)
		}
		rekeyed = append(rekeyed, change)
	}
	return nil
}

// compensate reverts server-side steps of a failed move, most recent first.
// It is best effort: failures are logged and the cache rollback proceeds.
func (c *Coordinator) compensate(ctx context.Context, req MoveRequest, from origin, before []Column, columnDone, orderDone bool, rekeyed []OrderChange) {
	if !columnDone {
		return
	}
	ctx = context.WithoutCancel(ctx)
	log := c.log.WithFields(logrus.Fields{"board_id": req.BoardID, "card_id": req.CardID})

	for i := len(rekeyed) - 1; i >= 0; i-- {
		id := rekeyed[i].CardID
		prev, ok := locate(before, id)
		if !ok {
			continue
		}
		if _, err := c.service.UpdateCardOrder(ctx, id, prev.order); err != nil {
			log.WithError(err).WithField("sibling_id", id).Warn("compensation: restore sibling order failed")
		}
	}
	if orderDone {
		if _, err := c.service.UpdateCardOrder(ctx, req.CardID, from.order); err != nil {
			log.WithError(err).Warn("compensation: restore card order failed")
		}
	}
	if from.columnID != req.ColumnID {
		if _, err := c.service.UpdateCardColumn(ctx, req.CardID, from.columnID); err != nil {
			log.WithError(err).Warn("compensation: restore card column failed")
		}
	}
}

func (c *Coordinator) scheduleInvalidation(boardID uuid.UUID) {
	time.AfterFunc(c.invalidateDelay, func() {
		err := c.cache.Invalidate(context.Background(), boardID)
		if err != nil && !errors.Is(err, ErrRefetchCancelled) {
			c.log.WithError(err).WithField("board_id", boardID).Warn("deferred invalidation failed")
		}
	})
}

// applyMove moves a card between columns of a private copy and re-sorts the
// destination by order.
func applyMove(columns []Column, req MoveRequest) ([]Column, error) {
	dst := slices.IndexFunc(columns, func(col Column) bool { return col.ID == req.ColumnID })
	if dst < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, req.ColumnID)
	}

	var (
		moved Card
		found bool
	)
	for i := range columns {
		idx := slices.IndexFunc(columns[i].Cards, func(card Card) bool { return card.ID == req.CardID })
		if idx < 0 {
			continue
		}
		moved = columns[i].Cards[idx]
		columns[i].Cards = slices.Delete(columns[i].Cards, idx, idx+1)
		found = true
		break
	}
	if !found {
		return nil, ErrCardNotInCache
	}

	moved.ColumnID = req.ColumnID
	moved.Order = req.Order

	rekey := make(map[uuid.UUID]float64, len(req.Renumbered))
	for _, change := range req.Renumbered {
		rekey[change.CardID] = change.Order
	}
	cards := columns[dst].Cards
	for i := range cards {
		if order, ok := rekey[cards[i].ID]; ok {
			cards[i].Order = order
		}
	}
	cards = append(cards, moved)
	slices.SortStableFunc(cards, func(a, b Card) int { return cmp.Compare(a.Order, b.Order) })
	columns[dst].Cards = cards
	return columns, nil
}
