// cmd/tools/audit-cli/input.go
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"checklist-audit-workers/internal/models"
)

// readLists decodes a file holding either one list instance or an array.
func readLists(path string) ([]models.ListInstance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}

	if trimmed[0] == '[' {
		var lists []models.ListInstance
		if err := json.Unmarshal(trimmed, &lists); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return lists, nil
	}

	var list models.ListInstance
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return []models.ListInstance{list}, nil
}
