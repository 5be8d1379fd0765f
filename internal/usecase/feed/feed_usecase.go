// Package feed implements the paginated recommendation feed: offset
// pagination over the profile source, per-user dedup across pages, client
// side filtering and a static fallback when the source is unavailable.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lwindle/MeetMoment/internal/domain"
	"github.com/lwindle/MeetMoment/internal/event"
	"github.com/lwindle/MeetMoment/internal/repository"
)

// PageSize is the fixed number of profiles requested per page.
const PageSize = 20

// UseCase owns one feed cursor per authenticated user. A cursor remembers
// which profile IDs were already handed out under the current filter state
// so repeated IDs coming back from offset pagination are dropped.
type UseCase struct {
	profiles  repository.ProfileSource
	interests repository.InterestSource
	bus       *event.Bus
	gender    int

	mu      sync.Mutex
	cursors map[uint]*cursor
}

type cursor struct {
	mu sync.Mutex

	owner       uint
	filter      domain.FilterState
	generation  uint64
	seen        map[uint]struct{}
	accumulated int
	total       int
	degraded    bool
	fellBack    bool
	inflight    *inflightFetch
}

// inflightFetch lets concurrent requests for the same cursor share a single
// upstream call instead of racing duplicate queries.
type inflightFetch struct {
	done chan struct{}
	page *domain.FeedPage
	err  error
}

func NewUseCase(profiles repository.ProfileSource, interests repository.InterestSource, bus *event.Bus, gender int) *UseCase {
	return &UseCase{
		profiles:  profiles,
		interests: interests,
		bus:       bus,
		gender:    gender,
		cursors:   make(map[uint]*cursor),
	}
}

// FetchPage loads one feed page for the user. Changing the filter state
// resets the cursor before fetching. A failure on the first page falls back
// to the static default profiles; failures on later pages return an empty
// degraded page so the profiles already shown stay usable.
func (uc *UseCase) FetchPage(ctx context.Context, userID uint, filter domain.FilterState, page int) (*domain.FeedPage, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page index must be at least 1, got %d", domain.ErrValidation, page)
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	cur := uc.cursor(userID)

	cur.mu.Lock()
	if !cur.filter.Equal(filter) {
		cur.reset(filter)
	}
	// Coalescing is scoped to the current filter state: reset detaches the
	// inflight handle, so a request made under a new filter never receives
	// a page fetched for the old one.
	if inflight := cur.inflight; inflight != nil {
		cur.mu.Unlock()
		select {
		case <-inflight.done:
			return inflight.page, inflight.err
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", domain.ErrFeedFetch, ctx.Err())
		}
	}
	inflight := &inflightFetch{done: make(chan struct{})}
	cur.inflight = inflight
	generation := cur.generation
	cur.mu.Unlock()

	result, err := uc.fetch(ctx, cur, generation, filter, page)

	cur.mu.Lock()
	if cur.inflight == inflight {
		cur.inflight = nil
	}
	cur.mu.Unlock()

	inflight.page, inflight.err = result, err
	close(inflight.done)
	return result, err
}

func (uc *UseCase) fetch(ctx context.Context, cur *cursor, generation uint64, filter domain.FilterState, page int) (*domain.FeedPage, error) {
	query := repository.ProfileQuery{
		Gender: uc.gender,
		Limit:  PageSize,
		Offset: (page - 1) * PageSize,
	}
	items, total, err := uc.profiles.ListProfiles(ctx, query)
	if err != nil {
		return uc.recover(cur, generation, filter, page, err)
	}
	uc.attachInterests(ctx, items)

	cur.mu.Lock()
	defer cur.mu.Unlock()

	if cur.generation != generation {
		// The filter changed while this fetch was out. Serve the result to
		// its caller but leave the freshly reset cursor untouched.
		return &domain.FeedPage{
			Profiles:   ApplyFilter(items, filter),
			Page:       page,
			TotalCount: total,
			HasMore:    false,
		}, nil
	}

	fresh := make([]domain.Profile, 0, len(items))
	for _, p := range items {
		if _, dup := cur.seen[p.ID]; dup {
			continue
		}
		cur.seen[p.ID] = struct{}{}
		fresh = append(fresh, p)
	}
	cur.accumulated += len(fresh)
	cur.total = total

	hasMore := len(items) == PageSize && cur.accumulated < total

	result := &domain.FeedPage{
		Profiles:   ApplyFilter(fresh, filter),
		Page:       page,
		TotalCount: total,
		HasMore:    hasMore,
		Degraded:   cur.degraded,
	}
	uc.bus.Publish(event.Event{
		Type:    event.FeedPageLoaded,
		UserID:  cur.owner,
		At:      time.Now(),
		Payload: map[string]int{"page": page, "count": len(result.Profiles)},
	})
	return result, nil
}

// recover applies the degradation policy after a source failure. The first
// page falls back to the static defaults exactly once per filter state;
// every other failure yields an empty page with pagination stopped.
func (uc *UseCase) recover(cur *cursor, generation uint64, filter domain.FilterState, page int, cause error) (*domain.FeedPage, error) {
	slog.Warn("feed fetch failed", "user_id", cur.owner, "page", page, "error", cause)

	cur.mu.Lock()
	defer cur.mu.Unlock()

	if cur.generation != generation {
		return nil, fmt.Errorf("%w: %v", domain.ErrFeedFetch, cause)
	}

	cur.degraded = true

	if page == 1 && !cur.fellBack {
		cur.fellBack = true
		fresh := make([]domain.Profile, 0, 3)
		for _, p := range DefaultProfiles() {
			if _, dup := cur.seen[p.ID]; dup {
				continue
			}
			cur.seen[p.ID] = struct{}{}
			fresh = append(fresh, p)
		}
		cur.accumulated += len(fresh)
		cur.total = cur.accumulated

		uc.bus.Publish(event.Event{
			Type:    event.FeedPageLoaded,
			UserID:  cur.owner,
			At:      time.Now(),
			Payload: map[string]int{"page": page, "count": len(fresh)},
		})
		return &domain.FeedPage{
			Profiles:   ApplyFilter(fresh, filter),
			Page:       page,
			TotalCount: cur.total,
			HasMore:    false,
			Degraded:   true,
		}, nil
	}

	return &domain.FeedPage{
		Profiles:   []domain.Profile{},
		Page:       page,
		TotalCount: cur.total,
		HasMore:    false,
		Degraded:   true,
	}, nil
}

// attachInterests loads interest tags for each profile concurrently. A
// failed lookup leaves that profile with an empty tag list rather than
// failing the page.
func (uc *UseCase) attachInterests(ctx context.Context, items []domain.Profile) {
	var wg sync.WaitGroup
	for i := range items {
		wg.Add(1)
		go func(p *domain.Profile) {
			defer wg.Done()
			tags, err := uc.interests.ListInterests(ctx, p.ID)
			if err != nil {
				p.Interests = []string{}
				return
			}
			p.Interests = tags
		}(&items[i])
	}
	wg.Wait()
}

// Reset discards the user's cursor state and installs the given filter, so
// the next FetchPage starts from page one with an empty dedup set.
func (uc *UseCase) Reset(userID uint, filter domain.FilterState) {
	cur := uc.cursor(userID)
	cur.mu.Lock()
	cur.reset(filter)
	cur.mu.Unlock()
}

// EndSession drops all feed state held for the user.
func (uc *UseCase) EndSession(userID uint) {
	uc.mu.Lock()
	delete(uc.cursors, userID)
	uc.mu.Unlock()
}

func (uc *UseCase) cursor(userID uint) *cursor {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	cur, ok := uc.cursors[userID]
	if !ok {
		cur = &cursor{owner: userID, seen: make(map[uint]struct{})}
		uc.cursors[userID] = cur
	}
	return cur
}

// reset must be called with cur.mu held. Bumping the generation makes any
// fetch still in flight unable to write into the new cursor state, and
// detaching the inflight handle keeps later requests from joining a fetch
// issued under the old filter.
func (c *cursor) reset(filter domain.FilterState) {
	c.generation++
	c.filter = filter
	c.seen = make(map[uint]struct{})
	c.accumulated = 0
	c.total = 0
	c.degraded = false
	c.fellBack = false
	c.inflight = nil
}
