// Package eos is the public surface of the onboard anomaly-detection
// core: an arena-backed, allocation-free-at-steady-state library for
// scoring thermal, spectral and particle-spectrometer observations from
// a single spacecraft. It mirrors the original eos.h/eos.c entry points
// one-for-one; internal/* carries the algorithms (§4 of the design
// spec), this file and its siblings carry the contract.
package eos

import "fmt"

// Status is the single enumeration returned by every fallible public
// call, mirroring EosStatus in the original source.
type Status int

const (
	StatusSuccess Status = iota
	StatusError
	StatusInsufficientMemory
	StatusNotInitialized
	StatusLogInitializationFailed
	StatusLIFOViolation
	StatusAssertError
	StatusParamError
	StatusValueError
	StatusETMLoadError
	StatusETMVersionError
	StatusMISELoadError
	StatusMISEVersionError
	StatusPIMSLoadError
	StatusPIMSVersionError
	StatusPIMSNotInitialized
	StatusPIMSBinsMismatch
	StatusPIMSQueueEmpty
	StatusPIMSQueueFull
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	case StatusInsufficientMemory:
		return "insufficient memory"
	case StatusNotInitialized:
		return "not initialized"
	case StatusLogInitializationFailed:
		return "log initialization failed"
	case StatusLIFOViolation:
		return "lifo violation"
	case StatusAssertError:
		return "assertion failure"
	case StatusParamError:
		return "parameter error"
	case StatusValueError:
		return "value error"
	case StatusETMLoadError:
		return "thermal load error"
	case StatusETMVersionError:
		return "thermal version error"
	case StatusMISELoadError:
		return "spectral load error"
	case StatusMISEVersionError:
		return "spectral version error"
	case StatusPIMSLoadError:
		return "particle load error"
	case StatusPIMSVersionError:
		return "particle version error"
	case StatusPIMSNotInitialized:
		return "particle detector not initialized"
	case StatusPIMSBinsMismatch:
		return "particle bins mismatch"
	case StatusPIMSQueueEmpty:
		return "particle queue empty"
	case StatusPIMSQueueFull:
		return "particle queue full"
	default:
		return fmt.Sprintf("eos.Status(%d)", int(s))
	}
}

// Error pairs a Status with a human-readable message. The message is
// also sent to the log sink at the point of failure; callers branch on
// Status, not on the message text.
type Error struct {
	Status  Status
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Status.String()
	}
	return fmt.Sprintf("%s: %s", e.Status, e.Message)
}

func statusErrorf(status Status, format string, args ...any) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}
