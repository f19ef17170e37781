// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/apperr"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/dberr"
)

/*
TestWrap_ClassifiesSQLState maps constraint violations onto client error codes.
*/
func TestWrap_ClassifiesSQLState(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		wantCode string
	}{
		{"unique", pgerrcode.UniqueViolation, "CONFLICT"},
		{"foreign_key", pgerrcode.ForeignKeyViolation, "UNPROCESSABLE"},
		{"check", pgerrcode.CheckViolation, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cause := fmt.Errorf("exec: %w", &pgconn.PgError{Code: tt.code})
			err := dberr.Wrap(cause, "insert chapter")

			assert.True(t, apperr.HasCode(err, tt.wantCode))
			var pgError *pgconn.PgError
			assert.True(t, errors.As(err, &pgError), "cause chain must stay inspectable")
		})
	}
}

func TestWrap_UnknownErrorsStayInternal(t *testing.T) {
	err := dberr.Wrap(&pgconn.PgError{Code: pgerrcode.DeadlockDetected}, "append pages")
	assert.False(t, apperr.IsAppError(err))
	assert.ErrorContains(t, err, "postgres: append pages")

	assert.NoError(t, dberr.Wrap(nil, "noop"))
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, dberr.IsNoRows(fmt.Errorf("scan: %w", pgx.ErrNoRows)))
	assert.False(t, dberr.IsNoRows(errors.New("other")))
}
