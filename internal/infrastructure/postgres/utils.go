package postgres

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/suplementos-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// wrapWrite traduce 23505 a ConflictError y envuelve el resto con la operación.
func wrapWrite(err error, op, resource, key string) error {
	if isUniqueViolation(err) {
		return domain.NewConflictError(resource, key)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// filter acumula condiciones AND con placeholders numerados ($1, $2, ...).
type filter struct {
	conds []string
	args  []any
}

// add agrega una condición; cada "?" se reemplaza por el siguiente placeholder.
func (f *filter) add(cond string, args ...any) {
	for _, a := range args {
		f.args = append(f.args, a)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(f.args)), 1)
	}
	f.conds = append(f.conds, cond)
}

func (f *filter) eq(column, value string) {
	if value != "" {
		f.add(column+" = ?", value)
	}
}

func (f *filter) between(column string, from, to *time.Time) {
	if from != nil {
		f.add(column+" >= ?", *from)
	}
	if to != nil {
		f.add(column+" <= ?", *to)
	}
}

func (f *filter) where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

// page agrega LIMIT/OFFSET; limit <= 0 significa sin límite.
func (f *filter) page(limit, offset int) string {
	out := ""
	if limit > 0 {
		f.args = append(f.args, limit)
		out += fmt.Sprintf(" LIMIT $%d", len(f.args))
	}
	if offset > 0 {
		f.args = append(f.args, offset)
		out += fmt.Sprintf(" OFFSET $%d", len(f.args))
	}
	return out
}
