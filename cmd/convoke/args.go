// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseArgPairs turns repeated --arg name=value flags into a named argument
// map. Values are decoded as JSON when possible (numbers, booleans, lists,
// maps, quoted strings); anything that is not valid JSON stays a plain
// string, so --arg step=2 yields a number while --arg note=hello yields a
// string.
func parseArgPairs(pairs []string) (map[string]any, error) {
	args := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, raw, found := strings.Cut(pair, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid --arg %q: expected name=value", pair)
		}
		if _, dup := args[name]; dup {
			return nil, fmt.Errorf("duplicate --arg %q", name)
		}
		args[name] = sniffValue(raw)
	}
	return args, nil
}

func sniffValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}
