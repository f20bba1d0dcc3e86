package types

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
)

// Patch is a partial update: field name → new value. A nil value sets the
// field to null. Fields missing from the map are left untouched.
type Patch map[string]*string

// NewStudentPatch builds a Patch from a decoded JSON object, keeping only
// Student fields.
func NewStudentPatch(raw map[string]any) (Patch, error) {
	return newPatch(raw, StudentFields)
}

// NewAdminPatch builds a Patch from a decoded JSON object, keeping only
// Admin fields.
func NewAdminPatch(raw map[string]any) (Patch, error) {
	return newPatch(raw, AdminFields)
}

// newPatch drops unknown keys (including "_id", which is never writable)
// and coerces scalar values to strings. Objects and arrays cannot be cast
// to a text field and fail the whole patch.
func newPatch(raw map[string]any, allowed []string) (Patch, error) {
	patch := make(Patch, len(raw))

	for field, value := range raw {
		if !slices.Contains(allowed, field) {
			continue
		}

		text, err := coerce(value)
		if err != nil {
			return nil, fmt.Errorf("cast to string failed for value %v at path %q: %w", value, field, err)
		}
		patch[field] = text
	}

	return patch, nil
}

// coerce accepts numbers both as json.Number and as the float64 produced
// by a decoder without UseNumber.
func coerce(value any) (*string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return &v, nil
	case json.Number:
		return StringPtr(v.String()), nil
	case float64:
		return StringPtr(strconv.FormatFloat(v, 'f', -1, 64)), nil
	case bool:
		return StringPtr(strconv.FormatBool(v)), nil
	default:
		return nil, fmt.Errorf("unsupported type %T", value)
	}
}
