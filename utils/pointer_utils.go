package utils

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}

// Deref returns the pointed-to value or the zero value for nil
func Deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// NilIfEmpty maps "" to nil, for optional foreign keys
func NilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
