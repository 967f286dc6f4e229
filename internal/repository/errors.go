package repository

import (
	"errors"
	"fmt"
	"strings"

	"inventory-api/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE for unique_violation.
const uniqueViolationCode = "23505"

// storeError marks err as a persistence failure while keeping the driver error
// in the chain.
func storeError(op string, err error) error {
	return fmt.Errorf("failed to %s: %w: %w", op, domain.ErrStore, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns a literal search term into an ILIKE pattern that
// matches it anywhere in the column.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
