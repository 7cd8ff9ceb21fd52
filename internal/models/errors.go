package models

import "fmt"

// SchemaError reports a raw record whose required structure is absent,
// distinct from an individual field being null. Affected records are logged
// and skipped, never fatal for the surrounding batch.
type SchemaError struct {
	Kind  string
	Field string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s record missing required field %s", e.Kind, e.Field)
}
