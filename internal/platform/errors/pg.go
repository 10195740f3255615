package errors

// Postgres helpers: SQLSTATE to ErrorCode mapping, field extraction, retry semantics

import (
	"context"
	stderrs "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes we classify
const (
	pgErrUniqueViolation           = "23505"
	pgErrForeignKeyViolation       = "23503"
	pgErrNotNullViolation          = "23502"
	pgErrCheckViolation            = "23514"
	pgErrStringDataRightTruncation = "22001"
	pgErrInvalidTextRepresentation = "22P02"

	pgErrSerializationFailure   = "40001"
	pgErrDeadlockDetected       = "40P01"
	pgErrLockNotAvailable       = "55P03"
	pgErrReadOnlySQLTransaction = "25006"
	pgErrCannotConnectNow       = "57P03" // i.e. startup in progress
)

// codeBySQLState classifies the SQLSTATEs we recognize.
// A foreign key violation means input referenced a missing row, so invalid input.
// Contention states stay ErrorCodeDB and are picked up by IsRetryable
var codeBySQLState = map[string]ErrorCode{
	pgErrUniqueViolation:           ErrorCodeDuplicateKey,
	pgErrForeignKeyViolation:       ErrorCodeInvalidArgument,
	pgErrNotNullViolation:          ErrorCodeValidation,
	pgErrCheckViolation:            ErrorCodeValidation,
	pgErrStringDataRightTruncation: ErrorCodeInvalidArgument,
	pgErrInvalidTextRepresentation: ErrorCodeInvalidArgument,
	pgErrSerializationFailure:      ErrorCodeDB,
	pgErrDeadlockDetected:          ErrorCodeDB,
	pgErrLockNotAvailable:          ErrorCodeDB,
	pgErrReadOnlySQLTransaction:    ErrorCodeUnavailable,
	pgErrCannotConnectNow:          ErrorCodeUnavailable,
}

// ExtractPgError returns (*pgconn.PgError, true) if the root cause is a PgError
func ExtractPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(Root(err), &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsSQLState reports whether the error is a Postgres error with the given SQLSTATE code
func IsSQLState(err error, code string) bool {
	pgErr, ok := ExtractPgError(err)
	return ok && pgErr.Code == code
}

// IsDuplicateKey reports whether the error is a unique constraint violation
func IsDuplicateKey(err error) bool { return IsSQLState(err, pgErrUniqueViolation) }

// IsForeignKeyViolation reports whether the error is a foreign key constraint violation
func IsForeignKeyViolation(err error) bool { return IsSQLState(err, pgErrForeignKeyViolation) }

// IsConnectionUnavailable reports whether the error is a "cannot connect now" error
func IsConnectionUnavailable(err error) bool { return IsSQLState(err, pgErrCannotConnectNow) }

// DBErrorCode maps a Postgres error to an ErrorCode with an ok flag
// !ok means err wasn't a PgError; caller may fall back to generic handling
func DBErrorCode(err error) (ErrorCode, bool) {
	var pgErr *pgconn.PgError
	if !stderrs.As(err, &pgErr) {
		return ErrorCodeUnknown, false
	}
	if code, ok := codeBySQLState[pgErr.Code]; ok {
		return code, true
	}
	// unrecognized SQLSTATE, still a DB error
	return ErrorCodeDB, true
}

// FromPostgres wraps a pg error with a mapped ErrorCode and message.
// If err is nil, returns nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, ok := DBErrorCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	return Wrap(err, code, msg)
}

// FromPostgresf is the formatted variant of FromPostgres
func FromPostgresf(err error, format string, a ...any) error {
	if err == nil {
		return nil
	}
	return FromPostgres(err, fmt.Sprintf(format, a...))
}

// fieldFromConstraint derives a likely column name from a constraint name,
// e.g. subscriber_email_key -> email
func fieldFromConstraint(c string) string {
	c = strings.TrimSuffix(strings.TrimSpace(c), "_key")
	if i := strings.LastIndex(c, "_"); i >= 0 && i+1 < len(c) {
		return c[i+1:]
	}
	return c
}

// AttachFieldFromPg tries to enrich an error with a field name derived from PgError.
// ColumnName wins over the constraint name. Returns err unchanged if nothing can be inferred
func AttachFieldFromPg(err error) error {
	pgErr, ok := ExtractPgError(err)
	if !ok {
		return err
	}
	if col := strings.TrimSpace(pgErr.ColumnName); col != "" {
		return WithField(err, col)
	}
	if tok := fieldFromConstraint(pgErr.ConstraintName); tok != "" {
		return WithField(err, tok)
	}
	return err
}

// FromPostgresWithField wraps the error (like FromPostgres) and then attempts to
// attach a field name if discoverable from the PgError metadata
func FromPostgresWithField(err error, msg string) error {
	return AttachFieldFromPg(FromPostgres(err, msg))
}

// retryableSQLState marks server-side contention worth retrying
var retryableSQLState = map[string]bool{
	pgErrSerializationFailure: true,
	pgErrDeadlockDetected:     true,
	pgErrLockNotAvailable:     true,
}

// retryableText matches the generic pgx/driver strings seen on commit or abort
// when no structured PgError survives
var retryableText = []string{
	"commit unexpectedly resulted in rollback",
	"deadlock detected",
	"could not serialize access",
	"serialization failure",
	"canceling statement due to statement timeout",
	"canceling statement due to lock timeout",
	"could not obtain lock on row",
	"terminating connection due to administrator command",
}

// IsRetryable reports whether a database error represents a transient condition
// worth retrying
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// local cancellations/timeouts are the caller's problem, not the server's
	if stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}

	root := Root(err)

	var pgErr *pgconn.PgError
	if stderrs.As(root, &pgErr) {
		return retryableSQLState[pgErr.Code]
	}

	s := strings.ToLower(root.Error())
	for _, pat := range retryableText {
		if strings.Contains(s, pat) {
			return true
		}
	}
	return false
}
