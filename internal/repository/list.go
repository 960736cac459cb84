package repository

import (
	"strconv"
	"strings"
)

// splitList parses comma separated columns such as billboard_ids or the
// array_to_string projection of TEXT[] columns.
func splitList(raw string) []string {
	raw = strings.Trim(strings.TrimSpace(raw), "{}")
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.Trim(strings.TrimSpace(item), `"`)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}

func parseIDList(raw string) []int64 {
	items := splitList(raw)
	result := make([]int64, 0, len(items))
	for _, item := range items {
		id, err := strconv.ParseInt(item, 10, 64)
		if err != nil {
			continue
		}
		result = append(result, id)
	}
	return result
}
