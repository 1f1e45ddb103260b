package errors

import "errors"

var (
	ErrInvalidResource        = errors.New("invalid resource")
	ErrInvalidAction          = errors.New("invalid action")
	ErrInvalidCondition       = errors.New("invalid permission condition")
	ErrInvalidScope           = errors.New("invalid permission scope")
	ErrInvalidSettings        = errors.New("invalid permission settings")
	ErrInvalidPermission      = errors.New("invalid permission")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrPermissionNotFound     = errors.New("permission not found")
	ErrNotDeletable           = errors.New("permission cannot be deleted")
	ErrNotModifiable          = errors.New("permission cannot be modified")
	ErrForbidden              = errors.New("forbidden")
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	ErrIdempotencyConflict    = errors.New("idempotency key conflict")
	ErrInvalidTenantID        = errors.New("invalid tenant id")
	ErrInvalidActorID         = errors.New("invalid actor id")
)
