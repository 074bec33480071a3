package middleware

import "slotbook/internal/pkg/errs"

var (
	errMissingToken = errs.New("missing access token")
	errMissingActor = errs.New("actor not set on context")
	errRoleMismatch = errs.New("role not permitted")
)
