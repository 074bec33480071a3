package slot

import "github.com/google/uuid"

type ChangeOp string

const (
	OpInsert ChangeOp = "INSERT"
	OpUpdate ChangeOp = "UPDATE"
	OpDelete ChangeOp = "DELETE"
	// OpResync means changes may have been lost; every view must recompute.
	OpResync ChangeOp = "RESYNC"
)

// Image is the part of a slot row needed to decide which views a change touches.
type Image struct {
	ID         uuid.UUID  `json:"id"`
	ProviderID uuid.UUID  `json:"provider_id"`
	SeekerID   *uuid.UUID `json:"seeker_id"`
	Status     Status     `json:"status"`
}

type Change struct {
	Op     ChangeOp `json:"op"`
	Before *Image   `json:"before,omitempty"`
	After  *Image   `json:"after,omitempty"`
}

func ImageOf(s *Slot) *Image {
	return &Image{
		ID:         s.ID(),
		ProviderID: s.ProviderID(),
		SeekerID:   s.SeekerID(),
		Status:     s.Status(),
	}
}

func Inserted(s *Slot) Change {
	return Change{Op: OpInsert, After: ImageOf(s)}
}

func Updated(before, after *Slot) Change {
	return Change{Op: OpUpdate, Before: ImageOf(before), After: ImageOf(after)}
}

func Deleted(s *Slot) Change {
	return Change{Op: OpDelete, Before: ImageOf(s)}
}

func Resync() Change {
	return Change{Op: OpResync}
}
