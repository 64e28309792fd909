package repository

import (
	"errors"
	"strings"

	apperrors "github.com/coursetrans/coursetrans/internal/errors"
	"github.com/jackc/pgx/v5/pgconn"
)

// handlePostgreSQLError converts PostgreSQL-specific errors to appropriate AppError codes
func handlePostgreSQLError(err error, operation string) *apperrors.AppError {
	if err == nil {
		return nil
	}

	// Check if it's a PostgreSQL error
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		// Not a PostgreSQL error, return generic internal error
		return apperrors.Wrap(err, apperrors.CodeInternal, operation)
	}

	// Map PostgreSQL error codes to AppError codes
	switch pgErr.Code {
	case "23505": // UNIQUE_VIOLATION
		return handleUniqueViolation(pgErr, operation)

	case "23503": // FOREIGN_KEY_VIOLATION
		return handleForeignKeyViolation(pgErr, operation)

	case "23502": // NOT_NULL_VIOLATION
		return apperrors.Wrap(err, apperrors.CodeInvalidArg, "required field is missing")

	case "23514": // CHECK_VIOLATION
		return apperrors.Wrap(err, apperrors.CodeInvalidArg, "data violates check constraint")

	case "42P01": // UNDEFINED_TABLE
		return apperrors.Wrap(err, apperrors.CodeInternal, "database schema error: table not found")

	case "42703": // UNDEFINED_COLUMN
		return apperrors.Wrap(err, apperrors.CodeInternal, "database schema error: column not found")

	case "08000", "08003", "08006": // CONNECTION_EXCEPTION variants
		return apperrors.Wrap(err, apperrors.CodeInternal, "database connection error")

	case "53300": // TOO_MANY_CONNECTIONS
		return apperrors.Wrap(err, apperrors.CodeInternal, "database connection limit reached")

	default:
		// Unknown PostgreSQL error, return with error code for debugging
		message := "database error (PostgreSQL code: " + pgErr.Code + ")"
		return apperrors.Wrap(err, apperrors.CodeInternal, message)
	}
}

// handleUniqueViolation provides specific error messages for different unique constraints
func handleUniqueViolation(pgErr *pgconn.PgError, operation string) *apperrors.AppError {
	constraintName := pgErr.ConstraintName

	// Provide user-friendly messages based on constraint
	switch {
	case strings.Contains(constraintName, "translation_keys_component_key"):
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, "key already exists for this component")

	case strings.Contains(constraintName, "translations_key_id_lang"):
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, "translation already exists for this key and language")

	case strings.Contains(constraintName, "key_course_associations_key_id_course_id"):
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, "key is already associated with this course")

	case strings.Contains(constraintName, "pkey"):
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, "resource with this ID already exists")

	default:
		// Generic unique violation
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, "resource already exists")
	}
}

// handleForeignKeyViolation provides specific error messages for foreign key constraints
func handleForeignKeyViolation(pgErr *pgconn.PgError, operation string) *apperrors.AppError {
	constraintName := pgErr.ConstraintName

	// Provide user-friendly messages based on foreign key constraint
	switch {
	case strings.Contains(constraintName, "key_id"):
		return apperrors.Wrap(pgErr, apperrors.CodeDependency, "referenced translation key does not exist")

	default:
		// Generic foreign key violation
		return apperrors.Wrap(pgErr, apperrors.CodeDependency, "referenced resource does not exist")
	}
}
