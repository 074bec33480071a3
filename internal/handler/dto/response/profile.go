package response

import (
	"time"

	"slotbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ProfileResponse struct {
	ID          uuid.UUID `json:"id"`
	Role        string    `json:"role"`
	DisplayName string    `json:"display_name"`
	Specialty   string    `json:"specialty,omitempty"`
	StampedName string    `json:"stamped_name"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func FromProfileView(v *queries.ProfileView) (*ProfileResponse, error) {
	res := &ProfileResponse{}
	if err := copier.Copy(res, v); err != nil {
		return nil, err
	}
	return res, nil
}

type ProviderStatsResponse struct {
	ProviderID        uuid.UUID `json:"provider_id"`
	Booked            int       `json:"booked"`
	AvailableUpcoming int       `json:"available_upcoming"`
	DistinctSeekers   int       `json:"distinct_seekers"`
}

func FromProviderStatsView(v *queries.ProviderStatsView) (*ProviderStatsResponse, error) {
	res := &ProviderStatsResponse{}
	if err := copier.Copy(res, v); err != nil {
		return nil, err
	}
	return res, nil
}
