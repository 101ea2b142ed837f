package tracking

import (
	"fmt"

	"backend-runclub/internal/shared/apperr"
)

const (
	reasonAlreadyBegun = "The race has already begun"
	reasonAlreadyOver  = "The race is already over"
	reasonNotStarted   = "The race has not started yet"
)

// Start returns the status after starting a run. Only init runs can start.
func (s Status) Start() (Status, error) {
	switch s {
	case StatusInit:
		return StatusInProgress, nil
	case StatusInProgress:
		return s, apperr.Transition(reasonAlreadyBegun)
	case StatusFinished:
		return s, apperr.Transition(reasonAlreadyOver)
	}
	return s, fmt.Errorf("unknown run status %q", s)
}

// Stop returns the status after stopping a run. Only in-progress runs can stop.
func (s Status) Stop() (Status, error) {
	switch s {
	case StatusInProgress:
		return StatusFinished, nil
	case StatusInit:
		return s, apperr.Transition(reasonNotStarted)
	case StatusFinished:
		return s, apperr.Transition(reasonAlreadyOver)
	}
	return s, fmt.Errorf("unknown run status %q", s)
}
