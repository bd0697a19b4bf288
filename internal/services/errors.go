package services

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// isUniqueConstraintError reports whether err is a uniqueness violation
// from one of the supported stores. The unique index on users.email is
// the arbiter for concurrent first-time logins, so a lost insert race
// has to be recognisable here and nowhere else.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}

	// The sqlite driver reports violations as plain text. Match its
	// exact prefix so foreign-key failures are not misclassified.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
