package common

import "time"

// DefaultRequestTimeout bounds a single state query so a hung request cannot
// stall the fixed polling cadence.
const DefaultRequestTimeout = 30 * time.Second
