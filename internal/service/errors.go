package service

import "errors"

var (
	// ErrDispatchBusy is returned when another instance holds the dispatch lock.
	ErrDispatchBusy = errors.New("dispatch in progress, retry later")
)
