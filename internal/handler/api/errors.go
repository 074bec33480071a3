package api

import (
	"net/http"

	"slotbook/internal/domain/profile"
	"slotbook/internal/domain/slot"
	"slotbook/internal/handler/httperr"
	"slotbook/internal/pkg/errs"
	"slotbook/internal/usecase/shared"

	"github.com/gin-gonic/gin"
)

var errMissingActor = errs.New("actor not set on context")

type errorMapping struct {
	target  error
	status  int
	message string
}

var errorMappings = []errorMapping{
	{slot.ErrInvalidSlotTime, http.StatusUnprocessableEntity, "Slot start time must be in the future"},
	{slot.ErrUnauthorized, http.StatusForbidden, "Not authorized for this slot"},
	{slot.ErrSlotAlreadyBooked, http.StatusConflict, "Slot already booked"},
	{slot.ErrSlotNoLongerAvailable, http.StatusConflict, "Slot no longer available"},
	{slot.ErrSlotNotFound, http.StatusNotFound, "Slot not found"},
	{slot.ErrInvalidViewMode, http.StatusBadRequest, "Invalid view"},
	{slot.ErrViewNotPermitted, http.StatusForbidden, "View not permitted for role"},
	{profile.ErrProfileNotFound, http.StatusNotFound, "Profile not found"},
	{profile.ErrDisplayNameTooLong, http.StatusUnprocessableEntity, "Display name too long"},
	{profile.ErrSpecialtyTooLong, http.StatusUnprocessableEntity, "Specialty too long"},
	{profile.ErrSpecialtyNotAllowed, http.StatusUnprocessableEntity, "Specialty is only allowed for providers"},
	{shared.ErrTransportFailure, http.StatusServiceUnavailable, "Storage temporarily unavailable"},
}

// abortWithDomainError maps use case errors onto HTTP statuses. Unknown
// errors become 500.
func abortWithDomainError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errs.Is(err, m.target) {
			httperr.AbortWithError(c, m.status, err, m.message, nil)
			return
		}
	}
	httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
}
