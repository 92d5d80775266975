package services

import "errors"

// Error taxonomy shared by every service. Handlers translate these
// into HTTP statuses; missing records surface as store.ErrNotFound.
var (
	ErrValidation      = errors.New("validation failed")
	ErrIllegalState    = errors.New("illegal state")
	ErrExternalService = errors.New("external service failure")
)
