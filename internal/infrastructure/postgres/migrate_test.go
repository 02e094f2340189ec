package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/pos?sslmode=disable", migrateURL("postgres://u:p@db:5432/pos?sslmode=disable"))
	assert.Equal(t, "pgx5://u@db/pos", migrateURL("postgresql://u@db/pos"))
	assert.Equal(t, "pgx5://db/pos", migrateURL("pgx5://db/pos"))
}
