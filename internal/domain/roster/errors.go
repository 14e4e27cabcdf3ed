package roster

import "errors"

var (
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrWorkplaceNotFound = errors.New("workplace not found")
)
