package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/oceaninsight/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	otherErr := errors.New("connection reset")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{name: "nil", in: nil, want: nil},
		{name: "no rows", in: sql.ErrNoRows, want: store.ErrSlotNotFound},
		{name: "wrapped no rows", in: fmt.Errorf("scan: %w", sql.ErrNoRows), want: store.ErrNotFound},
		{name: "check violation", in: &pgconn.PgError{Code: checkViolationCode, ConstraintName: "memory_slots_key_check"}, want: store.ErrInvalidKey},
		{name: "not null", in: &pgconn.PgError{Code: notNullViolationCode, ColumnName: "value"}, want: ErrInvalidValue},
		{name: "bad json", in: &pgconn.PgError{Code: invalidTextRepresentationCode}, want: ErrInvalidValue},
		{name: "unmapped", in: otherErr, want: otherErr},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := MapError(tc.in)
			if tc.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tc.want)
		})
	}
}

func TestMapErrorKeepsOriginal(t *testing.T) {
	pgErr := &pgconn.PgError{Code: checkViolationCode, ConstraintName: "memory_slots_key_check"}
	got := MapError(pgErr)

	var unwrapped *pgconn.PgError
	assert.False(t, errors.As(got, &unwrapped), "original pg error is formatted, not wrapped")
	assert.Contains(t, got.Error(), "memory_slots_key_check")
}

func TestNewPostgresSlotStorePanicsOnNilDB(t *testing.T) {
	assert.Panics(t, func() { NewPostgresSlotStore(nil, nil) })
}
