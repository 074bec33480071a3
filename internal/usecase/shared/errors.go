package shared

import "slotbook/internal/pkg/errs"

// ErrTransportFailure marks any storage or network failure. The original
// cause stays attached for logging; callers are expected to retry manually.
var ErrTransportFailure = errs.New("transport failure")

func TransportFailure(err error, msg string) error {
	return errs.Mark(errs.Wrap(err, msg), ErrTransportFailure)
}
