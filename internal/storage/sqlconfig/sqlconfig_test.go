package sqlconfig

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	assert.NoError(t, MapError(nil))
	assert.ErrorIs(t, MapError(sql.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, MapError(&pq.Error{Code: "23505", Message: "duplicate key"}), ErrConflict)
	assert.ErrorIs(t, MapError(&pq.Error{Code: "23503", Message: "violates foreign key"}), ErrConflict)

	other := errors.New("connection reset")
	assert.Equal(t, other, MapError(other))
	assert.NotErrorIs(t, MapError(&pq.Error{Code: "42P01"}), ErrConflict)
}

func TestTimestamp(t *testing.T) {
	kyiv := time.FixedZone("EET", 2*60*60)
	in := time.Date(2025, time.March, 5, 14, 30, 1, 123456789, kyiv)

	got := Timestamp(in)
	assert.Equal(t, time.Date(2025, time.March, 5, 14, 30, 1, 123456000, time.UTC), got)
	assert.Equal(t, got, Timestamp(got))
}
