package domain

import "errors"

var (
	ErrInvalidPreference  = errors.New("invalid preference")
	ErrInvalidBudget      = errors.New("budget must be positive")
	ErrCatalogUnavailable = errors.New("destination catalog unavailable")
)
