package dashboard

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/godilite/csat-server/internal/gauge"
	"github.com/godilite/csat-server/internal/repository/models"
)

// State is one consistent view of the active dashboard. Slices and maps in a
// State are never mutated after it is published; transitions replace them.
type State struct {
	Dashboards      []models.Dashboard
	Current         *models.Dashboard
	Gauges          []gauge.Definition
	Records         []gauge.Record
	LastUpdated     time.Time
	Filters         gauge.FilterState
	ExpandedGaugeID string
	Loading         bool
	Err             error
	Version         uint64
}

// Gauge finds a gauge of the active dashboard by id.
func (s State) Gauge(id string) (gauge.Definition, bool) {
	for _, g := range s.Gauges {
		if g.ID == id {
			return g, true
		}
	}
	return gauge.Definition{}, false
}

// ErrInvalidRange is returned when a filter update would leave the start date
// after the end of the end date's day.
var ErrInvalidRange = errors.New("start date after end date")

// FilterUpdate is a partial filter change. Nil dates are left as they are; a
// pointer to the zero time clears that side of the range. A field mapped to an
// empty slice removes that field's filter.
type FilterUpdate struct {
	StartDate    *time.Time
	EndDate      *time.Time
	FieldFilters map[string][]string
}

// Store owns the dashboard state. Every transition replaces the affected
// sub-state under the lock and bumps Version.
type Store struct {
	mu       sync.RWMutex
	state    State
	fetchSeq uint64

	memoMu      sync.Mutex
	memoVersion uint64
	memoValid   bool
	memo        []gauge.Record
}

func NewStore() *Store {
	return &Store{}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	if st.Current != nil {
		cur := *st.Current
		st.Current = &cur
	}
	return st
}

func (s *Store) update(fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
	s.state.Version++
}

func (s *Store) SetDashboards(ds []models.Dashboard) {
	s.update(func(st *State) { st.Dashboards = ds })
}

// SelectDashboard makes d current. Records, gauges, the expanded gauge and any
// error are cleared, and fetches dispatched for the previous dashboard can no
// longer apply.
func (s *Store) SelectDashboard(d models.Dashboard) {
	s.update(func(st *State) {
		st.Current = &d
		st.Gauges = nil
		st.Records = nil
		st.LastUpdated = time.Time{}
		st.ExpandedGaugeID = ""
		st.Err = nil
		st.Loading = true
		s.fetchSeq++
	})
}

func (s *Store) SetGauges(defs []gauge.Definition) {
	s.update(func(st *State) { st.Gauges = defs })
}

// BeginFetch marks a fetch for dashboardID as dispatched and returns its
// sequence number. It reports false when dashboardID is no longer current.
func (s *Store) BeginFetch(dashboardID string) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Current == nil || s.state.Current.ID != dashboardID {
		return 0, false
	}
	s.fetchSeq++
	s.state.Loading = true
	s.state.Version++
	return s.fetchSeq, true
}

// CompleteFetch replaces the records if seq is the most recently dispatched
// fetch. It reports whether the records were applied.
func (s *Store) CompleteFetch(seq uint64, records []gauge.Record, at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.fetchSeq {
		return false
	}
	s.state.Records = records
	s.state.LastUpdated = at
	s.state.Loading = false
	s.state.Err = nil
	s.state.Version++
	return true
}

// FailFetch records err for the most recently dispatched fetch. Records already
// loaded are kept.
func (s *Store) FailFetch(seq uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.fetchSeq {
		return false
	}
	s.state.Loading = false
	s.state.Err = err
	s.state.Version++
	return true
}

// SetFilters merges u into the current filters and returns the result. An
// update that would invert the date range is rejected and nothing changes.
func (s *Store) SetFilters(u FilterUpdate) (gauge.FilterState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.state.Filters
	next := gauge.FilterState{
		StartDate:    cur.StartDate,
		EndDate:      cur.EndDate,
		FieldFilters: make(map[string][]string, len(cur.FieldFilters)+len(u.FieldFilters)),
	}
	if u.StartDate != nil {
		next.StartDate = *u.StartDate
	}
	if u.EndDate != nil {
		next.EndDate = *u.EndDate
	}
	if !next.StartDate.IsZero() && !next.EndDate.IsZero() && next.StartDate.After(gauge.EndOfDay(next.EndDate)) {
		return cur, fmt.Errorf("%w: %s > %s", ErrInvalidRange,
			next.StartDate.Format(time.DateOnly), next.EndDate.Format(time.DateOnly))
	}
	for k, v := range cur.FieldFilters {
		next.FieldFilters[k] = v
	}
	for k, v := range u.FieldFilters {
		if len(v) == 0 {
			delete(next.FieldFilters, k)
			continue
		}
		next.FieldFilters[k] = append([]string(nil), v...)
	}

	s.state.Filters = next
	s.state.Version++
	return next, nil
}

func (s *Store) ResetFilters() {
	s.update(func(st *State) { st.Filters = gauge.FilterState{} })
}

// ToggleExpanded expands id, or collapses it when it is already expanded. It
// returns the expanded gauge id afterwards.
func (s *Store) ToggleExpanded(id string) string {
	var out string
	s.update(func(st *State) {
		if st.ExpandedGaugeID == id {
			st.ExpandedGaugeID = ""
		} else {
			st.ExpandedGaugeID = id
		}
		out = st.ExpandedGaugeID
	})
	return out
}

func (s *Store) Collapse() {
	s.update(func(st *State) { st.ExpandedGaugeID = "" })
}

// Filtered returns the current records after the current filters.
func (s *Store) Filtered() []gauge.Record {
	_, filtered := s.View()
	return filtered
}

// View returns a snapshot together with its filtered records, both taken at the
// same state version. The filtered set is computed once per version.
func (s *Store) View() (State, []gauge.Record) {
	st := s.Snapshot()

	s.memoMu.Lock()
	defer s.memoMu.Unlock()
	if !s.memoValid || s.memoVersion != st.Version {
		s.memo = gauge.Filter(st.Records, st.Filters)
		s.memoVersion = st.Version
		s.memoValid = true
	}
	return st, s.memo
}
