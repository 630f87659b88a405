package costing

import "errors"

// ErrNoPurchaseHistory signals that an item has never appeared on a purchase
// line. It is distinguishable so callers can skip propagation instead of
// writing a zero cost.
var ErrNoPurchaseHistory = errors.New("item has no purchase history")
