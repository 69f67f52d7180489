package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseID converts a raw identifier token to an int.
// Surrounding whitespace is ignored; anything else that is not a base-10
// integer is rejected.
func ParseID(token string) (int, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return 0, fmt.Errorf("empty identifier")
	}
	id, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("identifier %q is not an integer", token)
	}
	return id, nil
}
