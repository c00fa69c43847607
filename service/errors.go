package service

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrEmployeeNotFound  = errors.New("Employee ID not found in master records.")
	ErrInvalidTransition = errors.New("submission status cannot change from its current state")
	ErrInvalidAction     = errors.New("unsupported approval action")
	ErrReasonRequired    = errors.New("Rejection requires a valid reason.")
	ErrForbidden         = errors.New("action not permitted for this role")
	ErrDuplicate         = errors.New("record already exists")
	ErrInvalidSubmission = errors.New("invalid submission")
	ErrBadCredentials    = errors.New("Access Denied: Incorrect password.")
)
