package utils

import "github.com/rs/zerolog/log"

// DedupeByID drops later occurrences of an id, keeping the first seen.
// Used defensively before ledger/report rendering in case duplicate rows
// reached the client.
func DedupeByID[T any](items []T, id func(T) string) []T {
	return DedupeByKey(items, id)
}

// DedupeByKey removes items whose key was already seen, keeping the first.
// Order of survivors is stable.
func DedupeByKey[T any](items []T, key func(T) string) []T {
	seen := make(map[string]struct{}, len(items))
	out := items[:0:0]
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			log.Warn().Str("key", k).Msg("duplicate row removed")
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}
