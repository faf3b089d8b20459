package scoring

import "errors"

// ErrInvalidMonth indicates a month outside January..December.
var ErrInvalidMonth = errors.New("invalid month")
