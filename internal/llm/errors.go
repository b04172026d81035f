package llm

import (
	"context"
	"errors"
	"net"
)

// Failure sentinels returned by Generate. Callers match with errors.Is.
var (
	ErrBackendUnavailable = errors.New("llm backend unavailable")
	ErrTimeout            = errors.New("llm request timed out")
	ErrBackendStatus      = errors.New("llm backend returned an error status")
	ErrInvalidOutput      = errors.New("invalid llm output format")
)

// failureCodes pairs each sentinel with the short code written to call logs.
var failureCodes = []struct {
	err  error
	code string
}{
	{ErrTimeout, "TIMEOUT"},
	{ErrBackendUnavailable, "UNAVAILABLE"},
	{ErrBackendStatus, "STATUS"},
	{ErrInvalidOutput, "INVALID_OUTPUT"},
	{context.Canceled, "CANCELED"},
}

// classify maps transport-level failures onto the sentinels. ctx is the
// per-call context, so its state decides between timeout and cancellation.
func classify(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ErrBackendUnavailable
	}
	return err
}

func errorCode(err error) string {
	if err == nil {
		return ""
	}
	for _, fc := range failureCodes {
		if errors.Is(err, fc.err) {
			return fc.code
		}
	}
	return "UNKNOWN"
}
