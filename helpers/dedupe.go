package helpers

// DedupeBy collapses items by a caller-supplied key, keeping the first
// occurrence of each key and preserving input order. Items whose key is
// empty are kept as-is; an empty key carries no identity to collapse on.
func DedupeBy[T any](items []T, key func(T) string) []T {
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if k != "" {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
		}
		out = append(out, item)
	}
	return out
}
