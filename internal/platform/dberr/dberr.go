// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/apperr"
)

// IsNoRows reports whether err means the query matched nothing.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// Constraint violations become client errors; everything else is returned as a
// plain wrapped error so the response layer reports it as a 500.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	var pgError *pgconn.PgError
	if !errors.As(err, &pgError) {
		return fmt.Errorf("postgres: %s: %w", action, err)
	}

	switch pgError.Code {
	case pgerrcode.UniqueViolation:
		conflict := apperr.Conflict("A record with the same identity already exists")
		conflict.Cause = err
		return conflict

	case pgerrcode.ForeignKeyViolation:
		unprocessable := apperr.Unprocessable("A referenced record does not exist")
		unprocessable.Cause = err
		return unprocessable

	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
		invalid := apperr.ValidationError("A value violates a data constraint")
		invalid.Cause = err
		return invalid
	}

	return fmt.Errorf("postgres: %s: %w", action, err)
}
