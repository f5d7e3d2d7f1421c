package entity

import "errors"

var (
	ErrWaitTimeout   = errors.New("wait timed out")
	ErrNoSuchElement = errors.New("no such element")
	ErrStaleElement  = errors.New("stale element reference")
	ErrNoSuchOption  = errors.New("no such option")
	ErrNotSelect     = errors.New("element is not a select")
	ErrAssertion     = errors.New("page assertion failed")
	ErrDriverClosed  = errors.New("driver is closed")
)
