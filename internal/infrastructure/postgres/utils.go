package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// Códigos SQLSTATE que indican que la unidad de trabajo puede reintentarse completa.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03" // lock_timeout
	codeCheckViolation       = "23514"
)

// wrapErr envuelve err con la operación y traduce los códigos de concurrencia a domain.ErrConcurrencyConflict.
func wrapErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
			return fmt.Errorf("%s: %w (%s: %s)", op, domain.ErrConcurrencyConflict, pgErr.Code, pgErr.Message)
		case codeCheckViolation:
			return fmt.Errorf("%s: %w (%s)", op, domain.ErrInvalidInput, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// sqlFilter arma cláusulas WHERE y LIMIT/OFFSET con placeholders numerados.
type sqlFilter struct {
	conds []string
	args  []any
}

// add agrega una condición; cond debe contener un solo %d para el placeholder (ej. "store_id = $%d").
func (f *sqlFilter) add(cond string, arg any) {
	f.args = append(f.args, arg)
	f.conds = append(f.conds, fmt.Sprintf(cond, len(f.args)))
}

func (f *sqlFilter) where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

// page agrega LIMIT (si limit > 0) y OFFSET (si offset > 0).
func (f *sqlFilter) page(limit, offset int) string {
	var sb strings.Builder
	if limit > 0 {
		f.args = append(f.args, limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(f.args))
	}
	if offset > 0 {
		f.args = append(f.args, offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(f.args))
	}
	return sb.String()
}
