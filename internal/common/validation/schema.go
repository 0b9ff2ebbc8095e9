package validation

import (
	"fmt"
	"sort"

	"github.com/xeipuuv/gojsonschema"

	"checklist-audit-workers/internal/common/errors"
	"checklist-audit-workers/pkg/registry"
)

// Validator checks job variables against the input schemas of the activity
// registry. Schemas are compiled once.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

// NewValidator compiles the input schema of every registered activity.
func NewValidator(reg *registry.ActivityRegistry) (*Validator, error) {
	v := &Validator{schemas: make(map[string]*gojsonschema.Schema)}
	if reg == nil {
		return v, nil
	}
	for _, act := range reg.Activities {
		if len(act.InputSchema) == 0 {
			continue
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(act.InputSchema))
		if err != nil {
			return nil, fmt.Errorf("input schema for %s: %w", act.TaskType, err)
		}
		v.schemas[act.TaskType] = schema
	}
	return v, nil
}

// ValidateJSON validates raw job variables for taskType. Task types without a
// schema always pass. Violations come back as CHECKLIST_SCHEMA_INVALID.
func (v *Validator) ValidateJSON(taskType, raw string) error {
	if v == nil {
		return nil
	}
	schema, ok := v.schemas[taskType]
	if !ok {
		return nil
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return errors.NewChecklistParseFailedError(err)
	}
	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	sort.Strings(violations)
	return errors.NewChecklistSchemaInvalidError(violations)
}

// Has reports whether a schema is registered for taskType.
func (v *Validator) Has(taskType string) bool {
	if v == nil {
		return false
	}
	_, ok := v.schemas[taskType]
	return ok
}
