package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/suplementos-api/internal/domain"
)

func TestFilter_Placeholders(t *testing.T) {
	var f filter
	f.eq("store_id", "s1")
	f.eq("product_id", "")
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f.between("created_at", &from, nil)
	f.add("(from_store_id = ? OR to_store_id = ?)", "a", "a")

	assert.Equal(t, " WHERE store_id = $1 AND created_at >= $2 AND (from_store_id = $3 OR to_store_id = $4)", f.where())
	assert.Equal(t, " LIMIT $5 OFFSET $6", f.page(10, 20))
	assert.Len(t, f.args, 6)
}

func TestFilter_SinCondiciones(t *testing.T) {
	var f filter
	assert.Empty(t, f.where())
	assert.Empty(t, f.page(0, 0))
	assert.Empty(t, f.args)
}

func TestWrapWrite(t *testing.T) {
	err := wrapWrite(&pgconn.PgError{Code: "23505"}, "insert store", "store.code", "CTR")
	assert.ErrorIs(t, err, domain.ErrConflict)

	err = wrapWrite(errors.New("boom"), "insert store", "store.code", "CTR")
	assert.NotErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), "insert store: boom")
}
