package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// ErrInsufficientData is returned when a group lacks enough observations
	// for the requested statistic.
	ErrInsufficientData = errors.New("insufficient data for analysis")

	// ErrInvalidGroupCount is returned when a two-group procedure is invoked
	// on a sample that does not contain exactly two groups.
	ErrInvalidGroupCount = errors.New("invalid group count")

	// ErrDegenerateGroups is returned when zero-variance groups break a
	// variance-weighting formula.
	ErrDegenerateGroups = errors.New("degenerate groups")

	// ErrInvalidConfiguration is returned for out-of-range parameters such as
	// a trim proportion >= 0.5 or a resample count < 1.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// Error constructors with context

func NewInsufficientDataError(group string, have, need int) error {
	return fmt.Errorf("%w: group %q has %d observations, need %d", ErrInsufficientData, group, have, need)
}

func NewInvalidGroupCountError(have int) error {
	return fmt.Errorf("%w: need exactly 2 groups, got %d", ErrInvalidGroupCount, have)
}

func NewDegenerateGroupsError(groups []string) error {
	return fmt.Errorf("%w: zero variance in %v", ErrDegenerateGroups, groups)
}

func NewConfigurationError(field string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidConfiguration, field, reason)
}

// Error checking helpers

func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

func IsInvalidGroupCount(err error) bool {
	return errors.Is(err, ErrInvalidGroupCount)
}

func IsDegenerateGroups(err error) bool {
	return errors.Is(err, ErrDegenerateGroups)
}

func IsInvalidConfiguration(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration)
}
