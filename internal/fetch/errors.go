package fetch

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNetwork marks transient transport failures (connection errors,
	// timeouts, 5xx responses) that are worth retrying.
	ErrNetwork = errors.New("network failure")
	// ErrUpstreamFormat marks responses the parser cannot decode and
	// 4xx-class rejections. These are not retried.
	ErrUpstreamFormat = errors.New("upstream format error")
)

// Failure records one substance (or directory) fetch that was given up on.
// Tag is zero when the source's directory listing itself failed.
type Failure struct {
	Source string
	Tag    int
	Err    error
}

func (f Failure) Error() string {
	if f.Tag == 0 {
		return fmt.Sprintf("%s: directory: %v", f.Source, f.Err)
	}
	return fmt.Sprintf("%s: species tag %d: %v", f.Source, f.Tag, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// retryable reports whether an error is transient. Context cancellation is
// never retried.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return errors.Is(err, ErrNetwork)
}
