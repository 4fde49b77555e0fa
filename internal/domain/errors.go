package domain

import "errors"

var (
	// ErrStationNotFound is returned when an identifier has no station record.
	ErrStationNotFound = errors.New("station not found")

	// ErrOutOfRange is returned when the next stop is farther than one full charge.
	ErrOutOfRange = errors.New("next station is out of range")

	// ErrAlreadyVisited is returned when a route would revisit a station.
	ErrAlreadyVisited = errors.New("station already visited")
)
