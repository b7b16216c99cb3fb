package handler

import (
	"boardsync/internal/board"
	"boardsync/internal/model"
)

// toCard renders a stored card in the wire shape the board client caches.
func toCard(c model.Card, columnTitle string) board.Card {
	priority, err := board.ParsePriority(c.Priority)
	if err != nil {
		priority = board.PriorityNone
	}

	labels := make([]string, len(c.Labels))
	for i, l := range c.Labels {
		labels[i] = l.Name
	}
	assignees := make([]board.Assignee, len(c.Assignees))
	for i, u := range c.Assignees {
		assignees[i] = board.Assignee{ID: u.ID, Name: u.Name}
	}

	return board.Card{
		ID:          c.ID,
		ColumnID:    c.ColumnID,
		Title:       c.Title,
		Description: c.Description,
		Order:       c.SortOrder,
		Priority:    priority,
		DueDate:     c.DueDate,
		Labels:      labels,
		Assignees:   assignees,
		Status:      board.Status(c.Status(columnTitle)),
	}
}

func toColumn(c model.Column) board.Column {
	cards := make([]board.Card, len(c.Cards))
	for i, card := range c.Cards {
		cards[i] = toCard(card, c.Title)
	}
	return board.Column{
		ID:      c.ID,
		BoardID: c.BoardID,
		Title:   c.Title,
		Order:   c.Position,
		Cards:   cards,
	}
}
