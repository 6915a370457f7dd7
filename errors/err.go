package errors

import (
	"fmt"
)

var (
	ErrInvalidConfig = fmt.Errorf("caremem: invalid config")
	ErrService       = fmt.Errorf("caremem: service error")
	ErrValidation    = fmt.Errorf("caremem: validation error")
	ErrStorage       = fmt.Errorf("caremem: storage error")
	ErrNotFound      = fmt.Errorf("caremem: not found")
)
