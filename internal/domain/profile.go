package domain

// Profile is a recommendation-feed entry as produced by the external profile
// source. The core never mutates or persists profiles.
type Profile struct {
	ID         uint     `json:"id" db:"id"`
	Nickname   string   `json:"nickname" db:"nickname"`
	Gender     int      `json:"gender" db:"gender"`
	Age        int      `json:"age" db:"age"`
	City       string   `json:"city" db:"city"`
	Occupation string   `json:"occupation" db:"occupation"`
	Bio        string   `json:"bio" db:"bio"`
	Interests  []string `json:"interests"`
	Avatar     string   `json:"avatar" db:"avatar"`
	IsOnline   bool     `json:"is_online" db:"is_online"`
	Verified   bool     `json:"verified" db:"verified"`
	AIScore    int      `json:"ai_score" db:"ai_score"`
	IsAI       bool     `json:"is_ai" db:"is_ai"`
}

// FilterState is the feed filter predicate. Zero value means unfiltered.
type FilterState struct {
	Search string `json:"search" form:"search"`
	City   string `json:"city" form:"city"`
	MinAge *int   `json:"min_age" form:"min_age" binding:"omitempty,min=18,max=100"`
	MaxAge *int   `json:"max_age" form:"max_age" binding:"omitempty,min=18,max=100"`
}

// IsZero reports whether no predicate is active.
func (f FilterState) IsZero() bool {
	return f.Search == "" && f.City == "" && f.MinAge == nil && f.MaxAge == nil
}

// Equal compares filters by value, dereferencing the optional age bounds.
func (f FilterState) Equal(other FilterState) bool {
	return f.Search == other.Search &&
		f.City == other.City &&
		intPtrEqual(f.MinAge, other.MinAge) &&
		intPtrEqual(f.MaxAge, other.MaxAge)
}

// Validate checks the min ≤ max invariant when both bounds are present.
func (f FilterState) Validate() error {
	if f.MinAge != nil && f.MaxAge != nil && *f.MinAge > *f.MaxAge {
		return ErrValidation
	}
	return nil
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// FeedPage is one page of the recommendation feed. Profiles never repeat
// across pages of the same filter state within a session.
type FeedPage struct {
	Profiles   []Profile `json:"profiles"`
	Page       int       `json:"page"`
	TotalCount int       `json:"total_count"`
	HasMore    bool      `json:"has_more"`
	// Degraded is set when the page was served from the static default
	// set after a source failure.
	Degraded bool `json:"degraded"`
}
