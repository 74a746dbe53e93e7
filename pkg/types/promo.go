package types

// DiscountMessages carries the ordered, human-readable explanation of the
// benefits applied to a cart or order. Persisted as JSONB.
type DiscountMessages []string
