// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate collects field-level failures for chapter uploads, manga
// searches and volume lookups, and reports them as one VALIDATION_ERROR.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/apperr"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/pkg/uuid"
)

var (
	// languageRegex matches ISO 639-1 codes with an optional region ("en", "pt-br", "es-la").
	languageRegex = regexp.MustCompile(`^[a-z]{2,3}(?:-[a-z]{2,4})?$`)

	// ErrInvalidJSON is returned when the request body cannot be decoded.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")
)

// Validator is a per-call, chainable collector. The zero value is ready to use.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// ChapterNumber fails if the value is neither empty (oneshot) nor a non-negative number.
func (v *Validator) ChapterNumber(field, value string) *Validator {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return v
	}
	number, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || number < 0 {
		v.add(field, "Must be a non-negative number or empty for a oneshot")
	}
	return v
}

// Language fails if the value is not a lowercase language code such as "en" or "pt-br".
func (v *Validator) Language(field, value string) *Validator {
	if !languageRegex.MatchString(value) {
		v.add(field, "Must be a language code such as en or pt-br")
	}
	return v
}

// UUID fails unless value is a MangaDex style hyphenated UUID.
func (v *Validator) UUID(field, value string) *Validator {
	if !uuid.Valid(value) {
		v.add(field, "Must be a valid UUID")
	}
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
// # Example
//
//	v.Custom("pages", len(pages) == 0, "At least one page is required")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns nil when every rule passed.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// RequiredError builds a single-field validation error outside of a chain.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{
		Field:   field,
		Message: message,
	})
}
