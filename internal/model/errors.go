// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the engine, the publishing machine and the
// persistence layer. Typed errors below match them through errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrQuotaExceeded    = errors.New("quota exceeded")
	ErrValidationFailed = errors.New("validation failed")
	ErrSlugConflict     = errors.New("slug is already used by a published page")
	ErrPermissionDenied = errors.New("permission denied")
	ErrUnavailable      = errors.New("service unavailable")
)

// NotFoundError names the missing entity: Kind is "block", "page" or "user".
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// QuotaExceededError is returned when an operation would take a page past
// the owner's plan limit. A Limit of 0 means the feature is not available on
// the plan at all.
type QuotaExceededError struct {
	Resource string
	Limit    int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("%s: %s (limit %d)", ErrQuotaExceeded, e.Resource, e.Limit)
}

func (e *QuotaExceededError) Is(target error) bool { return target == ErrQuotaExceeded }

// ValidationError carries a human readable reason for a rejected operation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidationFailed, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", ErrValidationFailed, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidationFailed }
