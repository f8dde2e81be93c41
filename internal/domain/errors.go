package domain

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrCounterNotApplied reports that a review was persisted but the
	// parent service's review counter update matched zero rows (the
	// service no longer exists). The review is NOT rolled back.
	ErrCounterNotApplied = errors.New("review stored but service counter not applied")
)
