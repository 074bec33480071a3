package slot

import "errors"

var (
	ErrInvalidSlotTime       = errors.New("slot start time must be in the future")
	ErrUnauthorized          = errors.New("not authorized for this slot")
	ErrSlotAlreadyBooked     = errors.New("slot already booked")
	ErrSlotNoLongerAvailable = errors.New("slot no longer available")
	ErrSlotNotFound          = errors.New("slot not found")
	ErrInvalidStatus         = errors.New("invalid slot status")
	ErrInconsistentBooking   = errors.New("booking fields inconsistent with status")
	ErrInvalidViewMode       = errors.New("invalid view mode")
	ErrViewNotPermitted      = errors.New("view not permitted for role")
	ErrMissingProvider       = errors.New("provider id is required")
)
