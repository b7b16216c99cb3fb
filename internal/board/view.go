package board

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ViewMode string

const (
	ViewKanban ViewMode = "kanban"
	ViewList   ViewMode = "list"
)

type GroupBy string

const (
	GroupByColumn   GroupBy = "column"
	GroupByAssignee GroupBy = "assignee"
	GroupByLabel    GroupBy = "label"
	GroupByPriority GroupBy = "priority"
	GroupByNone     GroupBy = "none"
)

type OrderBy string

const (
	OrderByOrder    OrderBy = "order"
	OrderByDueDate  OrderBy = "dueDate"
	OrderByPriority OrderBy = "priority"
	OrderByTitle    OrderBy = "title"
)

type FilterKind string

const (
	FilterPriority  FilterKind = "priority"
	FilterLabel     FilterKind = "label"
	FilterAssignee  FilterKind = "assignee"
	FilterDueBefore FilterKind = "dueBefore"
	FilterText      FilterKind = "text"
)

// Filter is one active predicate of a view. Value is interpreted per Kind:
// a priority name, a label name, an assignee id or name, a due date
// (RFC 3339 or YYYY-MM-DD) or a case-insensitive substring.
type Filter struct {
	Kind  FilterKind `json:"kind" yaml:"kind"`
	Value string     `json:"value" yaml:"value"`
}

func (f Filter) Validate() error {
	switch f.Kind {
	case FilterPriority:
		_, err := ParsePriority(f.Value)
		return err
	case FilterLabel, FilterAssignee, FilterText:
		if strings.TrimSpace(f.Value) == "" {
			return fmt.Errorf("filter %s: empty value", f.Kind)
		}
		return nil
	case FilterDueBefore:
		_, err := parseDate(f.Value)
		return err
	default:
		return fmt.Errorf("unknown filter kind %q", f.Kind)
	}
}

// Match reports whether c satisfies the predicate. Invalid filters match nothing.
func (f Filter) Match(c Card) bool {
	switch f.Kind {
	case FilterPriority:
		p, err := ParsePriority(f.Value)
		return err == nil && c.Priority == p
	case FilterLabel:
		return c.HasLabel(f.Value)
	case FilterAssignee:
		if id, err := uuid.Parse(f.Value); err == nil {
			return c.AssignedTo(id)
		}
		for _, a := range c.Assignees {
			if strings.EqualFold(a.Name, f.Value) {
				return true
			}
		}
		return false
	case FilterDueBefore:
		limit, err := parseDate(f.Value)
		if err != nil || c.DueDate == nil {
			return false
		}
		return c.DueDate.Before(limit)
	case FilterText:
		needle := strings.ToLower(f.Value)
		return strings.Contains(strings.ToLower(c.Title), needle) ||
			strings.Contains(strings.ToLower(c.Description), needle)
	default:
		return false
	}
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}

// ViewOptions is always replaced as a whole; there is no partial update.
type ViewOptions struct {
	GroupBy            GroupBy  `json:"group_by" yaml:"group_by"`
	OrderBy            OrderBy  `json:"order_by" yaml:"order_by"`
	ActiveFilters      []Filter `json:"active_filters" yaml:"active_filters"`
	ShowEmptyColumns   bool     `json:"show_empty_columns" yaml:"show_empty_columns"`
	ShowCompletedCards bool     `json:"show_completed_cards" yaml:"show_completed_cards"`
}

func DefaultViewOptions() ViewOptions {
	return ViewOptions{
		GroupBy:            GroupByColumn,
		OrderBy:            OrderByOrder,
		ShowEmptyColumns:   true,
		ShowCompletedCards: false,
	}
}

func (o ViewOptions) Validate() error {
	switch o.GroupBy {
	case GroupByColumn, GroupByAssignee, GroupByLabel, GroupByPriority, GroupByNone:
	default:
		return fmt.Errorf("unknown group_by %q", o.GroupBy)
	}
	switch o.OrderBy {
	case OrderByOrder, OrderByDueDate, OrderByPriority, OrderByTitle:
	default:
		return fmt.Errorf("unknown order_by %q", o.OrderBy)
	}
	for _, f := range o.ActiveFilters {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// FilterCards keeps the cards that satisfy every active filter. Completed
// cards are dropped unless ShowCompletedCards is set.
func FilterCards(cards []Card, opts ViewOptions) []Card {
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		if !opts.ShowCompletedCards && c.Status.Completed() {
			continue
		}
		if matchesAll(c, opts.ActiveFilters) {
			out = append(out, c)
		}
	}
	return out
}

func matchesAll(c Card, filters []Filter) bool {
	for _, f := range filters {
		if !f.Match(c) {
			return false
		}
	}
	return true
}

// OrderCards returns a stably sorted copy of cards.
func OrderCards(cards []Card, opts ViewOptions) []Card {
	out := slices.Clone(cards)
	slices.SortStableFunc(out, comparator(opts.OrderBy))
	return out
}

func comparator(by OrderBy) func(a, b Card) int {
	switch by {
	case OrderByDueDate:
		return func(a, b Card) int {
			switch {
			case a.DueDate == nil && b.DueDate == nil:
				return 0
			case a.DueDate == nil:
				return 1
			case b.DueDate == nil:
				return -1
			}
			return a.DueDate.Compare(*b.DueDate)
		}
	case OrderByPriority:
		return func(a, b Card) int {
			return cmp.Compare(b.Priority.Severity(), a.Priority.Severity())
		}
	case OrderByTitle:
		return func(a, b Card) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		}
	default:
		return func(a, b Card) int {
			return cmp.Compare(a.Order, b.Order)
		}
	}
}

// Group is a named bucket of the list view.
type Group struct {
	Key   string `json:"key" yaml:"key"`
	Title string `json:"title" yaml:"title"`
	Cards []Card `json:"cards" yaml:"cards"`
}

// Empty marks a placeholder bucket rendered as "no items".
func (g Group) Empty() bool {
	return len(g.Cards) == 0
}

const (
	noLabelKey    = "label:none"
	unassignedKey = "assignee:none"
)

// GroupCards partitions already filtered and ordered cards into buckets.
// Bucket sets are derived from columns, not from cards, so a bucket whose
// cards were all filtered out is kept as an empty placeholder.
func GroupCards(cards []Card, columns []Column, opts ViewOptions) []Group {
	switch opts.GroupBy {
	case GroupByAssignee:
		return groupByAssignee(cards, columns)
	case GroupByLabel:
		return groupByLabel(cards, columns)
	case GroupByPriority:
		return groupByPriority(cards)
	case GroupByNone:
		return []Group{{Key: "all", Title: "All cards", Cards: slices.Clone(cards)}}
	default:
		return groupByColumn(cards, columns)
	}
}

func sortedColumns(columns []Column) []Column {
	out := slices.Clone(columns)
	slices.SortStableFunc(out, func(a, b Column) int { return cmp.Compare(a.Order, b.Order) })
	return out
}

func groupByColumn(cards []Card, columns []Column) []Group {
	groups := make([]Group, 0, len(columns))
	for _, col := range sortedColumns(columns) {
		g := Group{Key: "column:" + col.ID.String(), Title: col.Title, Cards: []Card{}}
		for _, c := range cards {
			if c.ColumnID == col.ID {
				g.Cards = append(g.Cards, c)
			}
		}
		groups = append(groups, g)
	}
	return groups
}

func groupByPriority(cards []Card) []Group {
	groups := make([]Group, 0, len(Priorities))
	for _, p := range Priorities {
		g := Group{Key: "priority:" + string(p), Title: string(p), Cards: []Card{}}
		for _, c := range cards {
			if c.Priority.Severity() == p.Severity() {
				g.Cards = append(g.Cards, c)
			}
		}
		groups = append(groups, g)
	}
	return groups
}

func groupByLabel(cards []Card, columns []Column) []Group {
	titles := map[string]string{}
	for _, c := range AllCards(columns) {
		for _, l := range c.Labels {
			key := "label:" + strings.ToLower(l)
			if _, ok := titles[key]; !ok {
				titles[key] = l
			}
		}
	}
	groups := namedGroups(titles)
	none := Group{Key: noLabelKey, Title: "No label", Cards: []Card{}}
	for _, c := range cards {
		if len(c.Labels) == 0 {
			none.Cards = append(none.Cards, c)
			continue
		}
		for i := range groups {
			if c.HasLabel(groups[i].Title) {
				groups[i].Cards = append(groups[i].Cards, c)
			}
		}
	}
	return append(groups, none)
}

func groupByAssignee(cards []Card, columns []Column) []Group {
	titles := map[string]string{}
	for _, c := range AllCards(columns) {
		for _, a := range c.Assignees {
			key := "assignee:" + a.ID.String()
			if _, ok := titles[key]; !ok {
				name := a.Name
				if name == "" {
					name = a.ID.String()
				}
				titles[key] = name
			}
		}
	}
	groups := namedGroups(titles)
	none := Group{Key: unassignedKey, Title: "Unassigned", Cards: []Card{}}
	for _, c := range cards {
		if len(c.Assignees) == 0 {
			none.Cards = append(none.Cards, c)
			continue
		}
		for _, a := range c.Assignees {
			key := "assignee:" + a.ID.String()
			for i := range groups {
				if groups[i].Key == key {
					groups[i].Cards = append(groups[i].Cards, c)
				}
			}
		}
	}
	return append(groups, none)
}

// namedGroups builds empty buckets sorted by title, then key.
func namedGroups(titles map[string]string) []Group {
	groups := make([]Group, 0, len(titles)+1)
	for key, title := range titles {
		groups = append(groups, Group{Key: key, Title: title, Cards: []Card{}})
	}
	slices.SortFunc(groups, func(a, b Group) int {
		if c := strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)); c != 0 {
			return c
		}
		return strings.Compare(a.Key, b.Key)
	})
	return groups
}

// Kanban materializes per-column card lists. Columns left without cards
// are dropped unless ShowEmptyColumns is set.
func Kanban(columns []Column, opts ViewOptions) []Column {
	out := make([]Column, 0, len(columns))
	for _, col := range sortedColumns(columns) {
		cards := OrderCards(FilterCards(col.Cards, opts), opts)
		if len(cards) == 0 && !opts.ShowEmptyColumns {
			continue
		}
		view := col
		view.Cards = cards
		out = append(out, view)
	}
	return out
}

// List materializes the flat grouped list view.
func List(columns []Column, opts ViewOptions) []Group {
	cards := OrderCards(FilterCards(AllCards(columns), opts), opts)
	return GroupCards(cards, columns, opts)
}

// View is one materialization of a board.
type View struct {
	Mode    ViewMode `json:"mode" yaml:"mode"`
	Columns []Column `json:"columns,omitempty" yaml:"columns,omitempty"`
	Groups  []Group  `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// Materialize derives the view for mode from columns and opts.
func Materialize(mode ViewMode, columns []Column, opts ViewOptions) View {
	if mode == ViewList {
		return View{Mode: ViewList, Groups: List(columns, opts)}
	}
	return View{Mode: ViewKanban, Columns: Kanban(columns, opts)}
}
