package slot

type Status string

const (
	StatusAvailable Status = "available"
	StatusBooked    Status = "booked"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusBooked:
		return true
	default:
		return false
	}
}

func NewStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

type ViewMode string

const (
	ViewProviderAgenda ViewMode = "providerAgenda"
	ViewProviderSlots  ViewMode = "providerSlots"
	ViewMarketplace    ViewMode = "marketplace"
	ViewMyBookings     ViewMode = "myBookings"
)

func (m ViewMode) String() string {
	return string(m)
}

func ParseViewMode(s string) (ViewMode, error) {
	m := ViewMode(s)
	switch m {
	case ViewProviderAgenda, ViewProviderSlots, ViewMarketplace, ViewMyBookings:
		return m, nil
	default:
		return "", ErrInvalidViewMode
	}
}

// ProviderStats backs the provider dashboard counters.
type ProviderStats struct {
	Booked            int
	AvailableUpcoming int
	DistinctSeekers   int
}
