package models

import "errors"

// Custom errors
var (
	ErrNotFound         = errors.New("record not found")
	ErrInsufficientData = errors.New("insufficient data")
)
