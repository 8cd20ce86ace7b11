package site

import "time"

// Evaluator answers simultaneous-capacity questions over a set of sites and
// a company-configured limit. It is pure: callers materialize the site list
// and supply the wall-clock date themselves. Every surface that renders a
// capacity warning (dashboard, kanban, list, calendar) must go through it so
// they all reach the same verdict for the same data and date.
type Evaluator struct {
	Sites []Site
	Limit int
}

// NewEvaluator builds an evaluator. A limit of zero (or negative) means no
// limit is enforced.
func NewEvaluator(sites []Site, limit int) Evaluator {
	return Evaluator{Sites: sites, Limit: limit}
}

// CountActiveOn returns how many non-archived sites are active on the given
// date. Well-defined for any date; dates outside every site's range yield 0.
func (e Evaluator) CountActiveOn(date time.Time) int {
	n := 0
	for _, s := range e.Sites {
		if s.ActiveOn(date) {
			n++
		}
	}
	return n
}

// IsOverLimitOn reports whether the given date is at or over capacity.
func (e Evaluator) IsOverLimitOn(date time.Time) bool {
	if e.Limit <= 0 {
		return false
	}
	return e.CountActiveOn(date) >= e.Limit
}

// IsSiteOverLimitToday reports whether the given site should carry a
// capacity warning right now. A site that is not itself active today never
// warns, even if some other date in its range is at capacity: the warning is
// a "right now" signal, not a lifetime one.
func (e Evaluator) IsSiteOverLimitToday(s Site, today time.Time) bool {
	if !s.ActiveOn(today) {
		return false
	}
	return e.IsOverLimitOn(today)
}
