package services

// InRange reports whether price lies within [min, max]. An absent price is
// never in range.
func InRange(price *int, min, max int) bool {
	if price == nil {
		return false
	}
	return *price >= min && *price <= max
}
