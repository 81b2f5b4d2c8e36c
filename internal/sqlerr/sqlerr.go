// Package sqlerr classifies database driver errors.
//
// It maps PostgreSQL SQLSTATE codes into a small set of categories and turns
// them, together with the "no rows" sentinels of pgx, database/sql and gorm,
// into errs.HTTPError values the HTTP layer can return.
package sqlerr

import (
	"fmt"
	"strings"
)

// Code is a coarse category of database error.
type Code string

const (
	Other                     Code = "other"
	DataException             Code = "data_exception"
	InvalidTextRepresentation Code = "invalid_text_representation"
	NumericValueOutOfRange    Code = "numeric_value_out_of_range"
	ReadOnlyTransaction       Code = "read_only_sql_transaction"
	QueryCanceled             Code = "query_canceled"
	UndefinedTable            Code = "undefined_table"
	UndefinedColumn           Code = "undefined_column"
	ConnectionException       Code = "connection_exception"
	InsufficientResources     Code = "insufficient_resources"
	AdminShutdown             Code = "admin_shutdown"
)

// Severity mirrors the PostgreSQL message severity.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

var codes = map[string]Code{
	"22P02": InvalidTextRepresentation,
	"22003": NumericValueOutOfRange,
	"25006": ReadOnlyTransaction,
	"57014": QueryCanceled,
	"42P01": UndefinedTable,
	"42703": UndefinedColumn,
	"57P01": AdminShutdown,
}

// MapCode maps a SQLSTATE to a Code. Whole classes are matched for data
// (22), connection (08) and resource (53) failures.
func MapCode(sqlState string) Code {
	if code, ok := codes[sqlState]; ok {
		return code
	}

	switch {
	case strings.HasPrefix(sqlState, "22"):
		return DataException
	case strings.HasPrefix(sqlState, "08"):
		return ConnectionException
	case strings.HasPrefix(sqlState, "53"):
		return InsufficientResources
	}
	return Other
}

// MapSeverity maps the severity string sent by the server. Unknown values
// are treated as errors.
func MapSeverity(severity string) Severity {
	switch s := Severity(strings.ToUpper(severity)); s {
	case SeverityError, SeverityFatal, SeverityPanic, SeverityWarning,
		SeverityNotice, SeverityDebug, SeverityInfo, SeverityLog:
		return s
	default:
		return SeverityError
	}
}

// Error is a classified PostgreSQL error. The driver error stays reachable
// through Unwrap.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string
	driverErr      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (SQLSTATE %s)", e.Severity, e.Message, e.DatabaseCode)
}

func (e *Error) Unwrap() error {
	return e.driverErr
}
