package utils

func PtrTo[T any](v T) *T {
	return &v
}

// ValueOr dereferences v, falling back to fallback when v is nil.
func ValueOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}

	return *v
}
