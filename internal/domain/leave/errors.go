package leave

import "errors"

var (
	ErrNotFound       = errors.New("leave request not found")
	ErrInvalidRange   = errors.New("leave end date before start date")
	ErrInvalidType    = errors.New("invalid leave type")
	ErrAlreadyDecided = errors.New("leave request already decided")
)
