package payload

import "errors"

// ErrTruncatedPayload is returned by Decode when fewer than Size bytes are
// available at the requested offset. Callers should treat it as index
// corruption rather than substituting the default annotation.
var ErrTruncatedPayload = errors.New("truncated context payload")
