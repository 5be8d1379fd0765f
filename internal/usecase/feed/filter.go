package feed

import (
	"strings"

	"github.com/lwindle/MeetMoment/internal/domain"
)

// ApplyFilter applies the filter predicate over a profile collection. It is
// pure and order-preserving: no side effects, no network access, so callers
// may run it synchronously on every keystroke.
func ApplyFilter(profiles []domain.Profile, filter domain.FilterState) []domain.Profile {
	if filter.IsZero() {
		return profiles
	}

	term := strings.ToLower(strings.TrimSpace(filter.Search))
	filtered := make([]domain.Profile, 0, len(profiles))
	for _, p := range profiles {
		if matches(p, filter, term) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func matches(p domain.Profile, filter domain.FilterState, term string) bool {
	if term != "" && !matchesTerm(p, term) {
		return false
	}
	if filter.City != "" && p.City != filter.City {
		return false
	}
	if filter.MinAge != nil && p.Age < *filter.MinAge {
		return false
	}
	if filter.MaxAge != nil && p.Age > *filter.MaxAge {
		return false
	}
	return true
}

// matchesTerm checks a case-insensitive substring match against name,
// occupation, city and interest tags.
func matchesTerm(p domain.Profile, term string) bool {
	if strings.Contains(strings.ToLower(p.Nickname), term) ||
		strings.Contains(strings.ToLower(p.Occupation), term) ||
		strings.Contains(strings.ToLower(p.City), term) {
		return true
	}
	for _, tag := range p.Interests {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}
