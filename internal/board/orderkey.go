package board

import (
	"math"

	"github.com/google/uuid"
)

const (
	// BaseOrder is the key given to the first card of an empty column and
	// the spacing used when keys are appended or renumbered.
	BaseOrder = 1000.0

	// repairGap re-opens room above prev once neighbouring keys converge.
	repairGap = 500.0

	// MinGap is the smallest distance between adjacent keys that Place
	// tolerates before renumbering the whole column.
	MinGap = 1e-6
)

// ComputeOrder returns the order key for a card inserted at targetIndex
// among siblings, which must already be sorted ascending by Order.
func ComputeOrder(siblings []Card, targetIndex int) float64 {
	if len(siblings) == 0 {
		return BaseOrder
	}
	if targetIndex <= 0 {
		return math.Max(1, siblings[0].Order-BaseOrder)
	}
	if targetIndex >= len(siblings) {
		return siblings[len(siblings)-1].Order + BaseOrder
	}

	prev := siblings[targetIndex-1].Order
	next := siblings[targetIndex].Order
	if next-prev < 2 {
		return prev + repairGap
	}
	return (prev + next) / 2
}

// OrderChange is a new key for an existing card.
type OrderChange struct {
	CardID uuid.UUID
	Order  float64
}

// Placement is where a moved card lands. Renumbered is non-empty only when
// the destination column had to be re-keyed to keep keys strictly increasing.
type Placement struct {
	Order      float64
	Renumbered []OrderChange
}

// Place computes the key for movedID at targetIndex. When ComputeOrder's
// result would not sort strictly between its neighbours, or leaves a gap
// smaller than MinGap, the column is renumbered at BaseOrder spacing.
func Place(siblings []Card, targetIndex int, movedID uuid.UUID) Placement {
	if targetIndex < 0 {
		targetIndex = 0
	}
	if targetIndex > len(siblings) {
		targetIndex = len(siblings)
	}

	order := ComputeOrder(siblings, targetIndex)
	if fitsBetween(siblings, targetIndex, order) {
		return Placement{Order: order}
	}

	sequence := make([]Card, 0, len(siblings)+1)
	sequence = append(sequence, siblings[:targetIndex]...)
	sequence = append(sequence, Card{ID: movedID})
	sequence = append(sequence, siblings[targetIndex:]...)

	placement := Placement{}
	for _, change := range Renumber(sequence) {
		if change.CardID == movedID {
			placement.Order = change.Order
			continue
		}
		placement.Renumbered = append(placement.Renumbered, change)
	}
	return placement
}

// Renumber re-keys cards at BaseOrder spacing in their current sequence
// and returns the changes for cards whose key actually moved.
func Renumber(cards []Card) []OrderChange {
	var changes []OrderChange
	for i, c := range cards {
		order := float64(i+1) * BaseOrder
		if c.Order != order {
			changes = append(changes, OrderChange{CardID: c.ID, Order: order})
		}
	}
	return changes
}

func fitsBetween(siblings []Card, idx int, order float64) bool {
	if idx > 0 {
		prev := siblings[idx-1].Order
		if order <= prev || order-prev < MinGap {
			return false
		}
	}
	if idx < len(siblings) {
		next := siblings[idx].Order
		if order >= next || next-order < MinGap {
			return false
		}
	}
	return true
}
