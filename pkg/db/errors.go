package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a unique constraint violation.
// When constraintName is set only that constraint matches. sqlite errors are
// recognised by message so repository tests exercise the same path.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code == uniqueViolationCode &&
			(constraintName == "" || pgxErr.ConstraintName == constraintName)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolationCode &&
			(constraintName == "" || pqErr.Constraint == constraintName)
	}

	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value") && !strings.Contains(msg, sqliteUniquePrefix) {
		return false
	}
	return constraintName == "" ||
		strings.Contains(msg, constraintName) ||
		sqliteConstraintName(msg) == constraintName
}

const sqliteUniquePrefix = "UNIQUE constraint failed: "

// sqliteConstraintName turns "UNIQUE constraint failed: stores.owner_id" into
// the Postgres default name "stores_owner_id_key".
func sqliteConstraintName(msg string) string {
	idx := strings.Index(msg, sqliteUniquePrefix)
	if idx < 0 {
		return ""
	}
	column := strings.TrimSpace(msg[idx+len(sqliteUniquePrefix):])
	if strings.Contains(column, ",") {
		return ""
	}
	return strings.ReplaceAll(column, ".", "_") + "_key"
}

// IsNotFound reports whether err is gorm's record-not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
