package timesheet

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found or inactive")
	ErrInvalidStatus    = errors.New("invalid entry status")
	ErrInvalidDate      = errors.New("invalid entry date")
)
