// Package fields turns user supplied field names and values into typed
// project field updates.
package fields

import (
	"strings"
)

// FieldUpdate is a requested value for the project field named Key
type FieldUpdate struct {
	Key   string
	Value string
}

// ParseFieldMap pairs comma-separated keys with comma-separated values by position.
// Keys without a value, or with an empty one, are dropped; surplus values are ignored.
// A repeated key keeps its first position and takes the last value.
func ParseFieldMap(fieldKeys, fieldValues string) []FieldUpdate {
	keys := strings.Split(fieldKeys, ",")
	values := strings.Split(fieldValues, ",")

	updates := make([]FieldUpdate, 0, len(keys))
	positions := make(map[string]int, len(keys))
	for i, key := range keys {
		if i >= len(values) || values[i] == "" {
			continue
		}
		if pos, ok := positions[key]; ok {
			updates[pos].Value = values[i]
			continue
		}
		positions[key] = len(updates)
		updates = append(updates, FieldUpdate{Key: key, Value: values[i]})
	}
	return updates
}
