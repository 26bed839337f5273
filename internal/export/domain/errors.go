package domain

import "errors"

var (
	// ErrJobNotFound is returned by the HTTP layer when a job id is
	// unknown to the store. Store methods themselves return (nil, nil)
	// for missing ids so that polling reads never throw.
	ErrJobNotFound = errors.New("export job not found")

	// ErrInvalidFormat is returned when a requested format is neither
	// xlsx nor csv.
	ErrInvalidFormat = errors.New("invalid export format")
)
