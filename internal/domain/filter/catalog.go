package filter

import "github.com/samber/lo"

// Catalog holds the action labels that shape the selectable action list.
// It is configuration data: deployments may extend either list.
type Catalog struct {
	// Excluded are non-analytical labels never offered for selection.
	Excluded []string
	// Priority is the canonical order of selectable actions. Actions absent
	// from it are not selectable.
	Priority []string
}

// DefaultExcludedActions are administrative and period-marker labels.
func DefaultExcludedActions() []string {
	return []string{
		"Defensive Exits", "Defensive Action", "Counter Attack", "Lineout Take",
		"Period", "Ref Review", "Sub In", "Sub Out", "Card",
	}
}

// DefaultActionPriority is the canonical action order.
func DefaultActionPriority() []string {
	return []string{
		"Kick", "Attacking Qualities", "Penalty Conceded", "Goal Kick", "Tackle",
		"Missed Tackle", "Carry", "Ruck", "Ruck OOA", "Playmaker Options",
		"Attacking 22 Entry", "Possession", "Restart", "Collection", "Pass",
		"Turnover", "Sequences", "Scrum", "Lineout Throw", "Try", "Maul",
	}
}

// DefaultCatalog returns the stock catalog.
func DefaultCatalog() Catalog {
	return Catalog{Excluded: DefaultExcludedActions(), Priority: DefaultActionPriority()}
}

// Selectable filters present action names down to the selectable universe:
// excluded labels removed, then restricted to and ordered by Priority.
func (c Catalog) Selectable(present []string) []string {
	have := lo.Without(lo.Uniq(present), c.Excluded...)
	return lo.Uniq(lo.Filter(c.Priority, func(a string, _ int) bool {
		return lo.Contains(have, a)
	}))
}
