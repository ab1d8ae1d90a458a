package services

import "errors"

// Error kinds surfaced by the engine. Controllers map these to HTTP statuses;
// everything except ErrConcurrentConflict is terminal for the request.
var (
	ErrNotFound           = errors.New("not_found")
	ErrValidation         = errors.New("validation_error")
	ErrRoomFull           = errors.New("room_full")
	ErrGenderMismatch     = errors.New("gender_mismatch")
	ErrAlreadyResident    = errors.New("already_resident")
	ErrAlreadyDecided     = errors.New("already_decided")
	ErrConcurrentConflict = errors.New("concurrent_conflict")
)
