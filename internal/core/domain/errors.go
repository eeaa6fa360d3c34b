package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInternalServer     = errors.New("internal server error")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// Workflow errors shared by the disablement and transfer coordinators.
// Conflict: a duplicate active workflow for the same club/user.
// InvalidState: an operation attempted from a state that forbids it.
// CapacityExceeded: destination club full at mutation time.
var (
	ErrConflict         = errors.New("active workflow already exists")
	ErrInvalidState     = errors.New("operation not allowed in current state")
	ErrCapacityExceeded = errors.New("club capacity exceeded")
)

// UserErrors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrInvalidPassword   = errors.New("invalid password")
)

// ClubErrors
var (
	ErrClubNotFound = errors.New("club not found")
	ErrClubInactive = errors.New("club is not active")
)

// RobotErrors
var (
	ErrRobotNotFound    = errors.New("robot not found")
	ErrCategoryNotFound = errors.New("robot category not found")
)
