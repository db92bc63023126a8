package refill

import "errors"

// ErrStoreNotFound is terminal for the request; retrying will not help.
var ErrStoreNotFound = errors.New("store not found")
