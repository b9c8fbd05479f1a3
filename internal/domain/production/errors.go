package production

import (
	"errors"
	"fmt"
)

var (
	ErrCardNotFound = errors.New("production: card not found")
	ErrPlanNotFound = errors.New("production: plan not found")
	ErrInvalidDate  = errors.New("production: invalid date")
)

// ImmutablePlanError rejects a change to a closed day.
type ImmutablePlanError struct {
	Date string
	Op   string
}

func (e *ImmutablePlanError) Error() string {
	return fmt.Sprintf("production: day %s is closed, cannot %s", e.Date, e.Op)
}

// DateConflictError means another plan already owns the date.
type DateConflictError struct {
	Date string
}

func (e *DateConflictError) Error() string {
	return fmt.Sprintf("production: a plan for %s already exists", e.Date)
}

// DayNumberConflictError means the day number was handed to another plan
// between allocation and insert.
type DayNumberConflictError struct {
	Date      string
	DayNumber int
}

func (e *DayNumberConflictError) Error() string {
	return fmt.Sprintf("production: day number %d for %s is already taken", e.DayNumber, e.Date)
}
