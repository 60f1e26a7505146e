// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package component

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownVariant is returned for a type tag that is not registered.
	ErrUnknownVariant = errors.New("unknown component type")

	// ErrSchemaViolation is the sentinel matched by every *SchemaViolation.
	ErrSchemaViolation = errors.New("schema violation")
)

// SchemaViolation reports the first field of a payload that failed validation.
// Field is a dotted path into the payload ("features.1.title"); it is empty
// when the payload as a whole has the wrong shape.
type SchemaViolation struct {
	Type   Type
	Field  string
	Reason string
}

func (e *SchemaViolation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: invalid %s data: %s", ErrSchemaViolation, e.Type, e.Reason)
	}
	return fmt.Sprintf("%s: %s.%s: %s", ErrSchemaViolation, e.Type, e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrSchemaViolation) match.
func (e *SchemaViolation) Is(target error) bool {
	return target == ErrSchemaViolation
}

func unknownVariant(t Type) error {
	return fmt.Errorf("%w: %q", ErrUnknownVariant, string(t))
}
