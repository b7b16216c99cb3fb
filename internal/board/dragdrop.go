package board

import (
	"cmp"
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Location is a slot in a column as reported by the drag source.
type Location struct {
	ColumnID string
	Index    int
}

// DragEnd is a raw drop gesture. Destination is nil when the card was
// dropped outside any column.
type DragEnd struct {
	CardID      string
	Source      Location
	Destination *Location
}

// Controller turns drop gestures on one board into coordinated moves.
type Controller struct {
	boardID     uuid.UUID
	cache       *Cache
	coordinator *Coordinator
	log         *logrus.Entry
}

func NewController(boardID uuid.UUID, cache *Cache, coordinator *Coordinator, logger *logrus.Logger) *Controller {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Controller{
		boardID:     boardID,
		cache:       cache,
		coordinator: coordinator,
		log:         logger.WithFields(logrus.Fields{"component": "dragdrop", "board_id": boardID}),
	}
}

// OnDragEnd validates the gesture and hands it to the coordinator.
// Invalid gestures are ignored and only logged.
func (c *Controller) OnDragEnd(ctx context.Context, e DragEnd) Outcome {
	log := c.log.WithField("card_id", e.CardID)

	if e.Destination == nil {
		log.Debug("drop ignored: no destination")
		return Outcome{Result: ResultIgnored}
	}
	dest := *e.Destination
	if dest.ColumnID == e.Source.ColumnID && dest.Index == e.Source.Index {
		log.Debug("drop ignored: position unchanged")
		return Outcome{Result: ResultIgnored}
	}
	if dest.Index < 0 || e.Source.Index < 0 {
		log.Debug("drop ignored: negative index")
		return Outcome{Result: ResultIgnored}
	}

	cardID, err1 := uuid.Parse(e.CardID)
	sourceID, err2 := uuid.Parse(e.Source.ColumnID)
	destID, err3 := uuid.Parse(dest.ColumnID)
	if err1 != nil || err2 != nil || err3 != nil {
		log.Debug("drop ignored: malformed identifiers")
		return Outcome{Result: ResultIgnored}
	}

	if c.coordinator.Busy() {
		log.Debug("drop dropped: move in flight")
		return Outcome{Result: ResultRejected}
	}

	columns, ok := c.cache.Get(ColumnsKey(c.boardID))
	if !ok {
		log.Debug("drop ignored: board not cached")
		return Outcome{Result: ResultIgnored}
	}
	source, okSource := findColumn(columns, sourceID)
	target, okTarget := findColumn(columns, destID)
	if !okSource || !okTarget {
		log.Debug("drop ignored: unknown column")
		return Outcome{Result: ResultIgnored}
	}
	if !slices.ContainsFunc(source.Cards, func(card Card) bool { return card.ID == cardID }) {
		log.Debug("drop ignored: card not in source column")
		return Outcome{Result: ResultIgnored}
	}

	siblings := make([]Card, 0, len(target.Cards))
	for _, card := range target.Cards {
		if card.ID != cardID {
			siblings = append(siblings, card)
		}
	}
	slices.SortStableFunc(siblings, func(a, b Card) int { return cmp.Compare(a.Order, b.Order) })

	placement := Place(siblings, dest.Index, cardID)
	return c.coordinator.Move(ctx, MoveRequest{
		BoardID:    c.boardID,
		CardID:     cardID,
		ColumnID:   destID,
		Order:      placement.Order,
		Renumbered: placement.Renumbered,
	})
}

func findColumn(columns []Column, id uuid.UUID) (Column, bool) {
	for _, col := range columns {
		if col.ID == id {
			return col, true
		}
	}
	return Column{}, false
}
