package models

import "errors"

var (
	// ErrValidation is the single submit-time error for a missing selection or
	// date. It carries no field detail.
	ErrValidation = errors.New("selection and date range required")

	ErrUnknownMetric   = errors.New("unknown metric")
	ErrSessionNotFound = errors.New("session not found")
	ErrNothingToRender = errors.New("nothing to render")
)
