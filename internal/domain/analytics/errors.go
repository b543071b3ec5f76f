package analytics

import "errors"

var ErrInvalidTimeRange = errors.New("invalid time range")
