// Package strings provides string manipulation utilities.
package strings

import (
	"strings"
)

// SplitList splits a separated setting such as KAFKA_BROKERS into its
// trimmed, non-empty, distinct elements. Order is preserved.
//
// Example:
//
//	SplitList(" a:9092, b:9092,,a:9092 ", ",")
//	// Returns: []string{"a:9092", "b:9092"}
func SplitList(s, sep string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, sep)
	seen := make(map[string]struct{}, len(parts))
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}
