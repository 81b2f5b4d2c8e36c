package sqlerr

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/querylab/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// ErrCode returns the Code of the first *Error in err's chain, or Other.
func ErrCode(err error) Code {
	var pgerr *Error
	if errors.As(err, &pgerr) {
		return pgerr.Code
	}
	return Other
}

// ConvertPgError classifies a raw PostgreSQL error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// generateErrorCode builds <SUBJECT>_INVALID codes such as LIMIT_INVALID.
func generateErrorCode(columnName string) string {
	if columnName == "" {
		columnName = "value"
	}
	return strings.ToUpper(columnName) + "_INVALID"
}

// formatUserFriendlyMessage describes a data exception without echoing the
// server message, which quotes the rejected input.
func formatUserFriendlyMessage(sqlErr *Error) string {
	subject := humanizeText(sqlErr.ColumnName)
	if subject == "" {
		subject = "value"
	}

	switch sqlErr.Code {
	case InvalidTextRepresentation:
		if sqlErr.DataTypeName != "" {
			return fmt.Sprintf("The %s is not a valid %s", subject, sqlErr.DataTypeName)
		}
		return fmt.Sprintf("The %s has an invalid format", subject)

	case NumericValueOutOfRange:
		return fmt.Sprintf("The %s is out of range", subject)

	default:
		return fmt.Sprintf("The %s cannot be used in this query", subject)
	}
}

// humanizeText turns "first_name" into "First Name".
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// HandleError converts a database error into an *errs.HTTPError.
//
//   - *errs.HTTPError is returned unchanged.
//   - Data exceptions (SQLSTATE class 22) raised by query parameters become 400s.
//   - Cancelled queries, timeouts and lost connections become 503s.
//   - pgx.ErrNoRows, sql.ErrNoRows and gorm.ErrRecordNotFound become 404s.
//   - Anything else, including a write attempted inside a read-only
//     session, is a 500.
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		sqlErr := ConvertPgError(pgerr)

		switch sqlErr.Code {
		case InvalidTextRepresentation, NumericValueOutOfRange, DataException:
			errorCode := generateErrorCode(sqlErr.ColumnName)
			userMessage := formatUserFriendlyMessage(sqlErr)

			var fieldErrors []errs.FieldError
			if sqlErr.ColumnName != "" {
				fieldErrors = []errs.FieldError{{
					Field: strings.ToLower(sqlErr.ColumnName),
					Error: "is invalid",
				}}
			}
			return errs.NewBadRequestError(userMessage, true, &errorCode, fieldErrors)

		case QueryCanceled, ConnectionException, InsufficientResources, AdminShutdown:
			return errs.NewServiceUnavailableError("The database is temporarily unavailable")

		default:
			return errs.NewInternalServerError()
		}
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return errs.NewServiceUnavailableError("The database is temporarily unavailable")
	}

	switch {
	case errors.Is(err, pgx.ErrNoRows),
		errors.Is(err, sql.ErrNoRows),
		errors.Is(err, gorm.ErrRecordNotFound):
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}
