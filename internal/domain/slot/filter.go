package slot

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Query is the store-side part of a view filter. Stores are not time-aware.
type Query struct {
	ProviderID *uuid.UUID
	SeekerID   *uuid.UUID
	Status     *Status
}

func (q Query) matchesImage(img *Image) bool {
	if img == nil {
		return false
	}
	if q.ProviderID != nil && img.ProviderID != *q.ProviderID {
		return false
	}
	if q.SeekerID != nil && (img.SeekerID == nil || *img.SeekerID != *q.SeekerID) {
		return false
	}
	if q.Status != nil && img.Status != *q.Status {
		return false
	}
	return true
}

// Filter is a complete view predicate: the store query plus the
// projection-side time cut-off.
type Filter struct {
	Query     Query
	NotBefore *time.Time
}

func statusPtr(s Status) *Status { return &s }

// FilterFor builds the filter for a viewer. The role check lives with the caller.
func FilterFor(mode ViewMode, viewerID uuid.UUID, now time.Time) (Filter, error) {
	id := viewerID
	switch mode {
	case ViewProviderAgenda:
		return Filter{Query: Query{ProviderID: &id, Status: statusPtr(StatusBooked)}}, nil
	case ViewProviderSlots:
		return Filter{Query: Query{ProviderID: &id}}, nil
	case ViewMarketplace:
		cutoff := now
		return Filter{Query: Query{Status: statusPtr(StatusAvailable)}, NotBefore: &cutoff}, nil
	case ViewMyBookings:
		return Filter{Query: Query{SeekerID: &id, Status: statusPtr(StatusBooked)}}, nil
	default:
		return Filter{}, ErrInvalidViewMode
	}
}

func (f Filter) Matches(s *Slot) bool {
	if !f.Query.matchesImage(ImageOf(s)) {
		return false
	}
	if f.NotBefore != nil && s.StartTime().Before(*f.NotBefore) {
		return false
	}
	return true
}

// Relevant reports whether a change can alter the filtered set. A change is
// relevant when the row matched before or matches after.
func (f Filter) Relevant(c Change) bool {
	if c.Op == OpResync {
		return true
	}
	return f.Query.matchesImage(c.Before) || f.Query.matchesImage(c.After)
}

// Apply filters and orders slots by start time, ties broken by id.
func (f Filter) Apply(slots []*Slot) []*Slot {
	out := make([]*Slot, 0, len(slots))
	for _, s := range slots {
		if f.Matches(s) {
			out = append(out, s)
		}
	}
	SortByStartTime(out)
	return out
}

func SortByStartTime(slots []*Slot) {
	sort.SliceStable(slots, func(i, j int) bool {
		a, b := slots[i], slots[j]
		if !a.StartTime().Equal(b.StartTime()) {
			return a.StartTime().Before(b.StartTime())
		}
		return a.ID().String() < b.ID().String()
	})
}
