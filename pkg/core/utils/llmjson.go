// Package utils holds the parsing helpers for model output: JSON that
// may arrive slightly broken, and markdown that may arrive fenced.
package utils

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// RepairJSON fixes the common model output defects: single quotes,
// unquoted keys, trailing commas, unclosed brackets, fenced code blocks.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("json repair failed: %w", err)
	}
	return repaired, nil
}

// SmartParse extracts a value of the schema's shape from model output,
// trying strict JSON, then repair, then HJSON. Returns the normalized
// JSON that parsed.
func SmartParse(input string, schema interface{}) (string, error) {
	if err := json.Unmarshal([]byte(input), schema); err == nil {
		return input, nil
	}

	if repaired, err := RepairJSON(input); err == nil {
		if err := json.Unmarshal([]byte(repaired), schema); err == nil {
			return repaired, nil
		}
	}

	// HJSON last: it tolerates unquoted strings and comments, which
	// covers the chattiest outputs.
	var loose interface{}
	if err := hjson.Unmarshal([]byte(input), &loose); err == nil {
		if normalized, err := json.Marshal(loose); err == nil {
			if err := json.Unmarshal(normalized, schema); err == nil {
				return string(normalized), nil
			}
		}
	}

	return "", fmt.Errorf("no parsing strategy produced valid JSON")
}
