package sqlerr

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/querylab/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestMapCode(t *testing.T) {
	tests := map[string]Code{
		"22P02": InvalidTextRepresentation,
		"22003": NumericValueOutOfRange,
		"22007": DataException,
		"25006": ReadOnlyTransaction,
		"57014": QueryCanceled,
		"42P01": UndefinedTable,
		"08006": ConnectionException,
		"53300": InsufficientResources,
		"XX000": Other,
	}

	for state, want := range tests {
		if got := MapCode(state); got != want {
			t.Errorf("MapCode(%q) = %q, want %q", state, got, want)
		}
	}
}

func TestMapSeverity(t *testing.T) {
	if got := MapSeverity("fatal"); got != SeverityFatal {
		t.Errorf("MapSeverity(fatal) = %q", got)
	}
	if got := MapSeverity("bogus"); got != SeverityError {
		t.Errorf("MapSeverity(bogus) = %q", got)
	}
}

func TestConvertPgErrorKeepsDriverError(t *testing.T) {
	src := &pgconn.PgError{Code: "22P02", Severity: "ERROR", Message: "invalid input syntax for type bigint", TableName: "users"}
	converted := ConvertPgError(src)

	if converted.Code != InvalidTextRepresentation || converted.TableName != "users" {
		t.Fatalf("converted = %+v", converted)
	}

	var pgerr *pgconn.PgError
	if !errors.As(converted, &pgerr) || pgerr != src {
		t.Fatal("driver error not reachable through Unwrap")
	}
	if ErrCode(fmt.Errorf("wrapped: %w", converted)) != InvalidTextRepresentation {
		t.Fatal("ErrCode did not find the classified error")
	}
	if ErrCode(errors.New("plain")) != Other {
		t.Fatal("ErrCode of a plain error should be Other")
	}
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "invalid text representation",
			err:         fmt.Errorf("find companies in chat: %w", &pgconn.PgError{Code: "22P02", ColumnName: "chat_id", DataTypeName: "bigint"}),
			wantStatus:  http.StatusBadRequest,
			wantCode:    "CHAT_ID_INVALID",
			wantMessage: "The Chat Id is not a valid bigint",
		},
		{
			name:        "invalid text without column",
			err:         &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type date: "soon"`},
			wantStatus:  http.StatusBadRequest,
			wantCode:    "VALUE_INVALID",
			wantMessage: "The value has an invalid format",
		},
		{
			name:        "numeric out of range",
			err:         &pgconn.PgError{Code: "22003", ColumnName: "amount"},
			wantStatus:  http.StatusBadRequest,
			wantCode:    "AMOUNT_INVALID",
			wantMessage: "The Amount is out of range",
		},
		{
			name:       "write in read-only session",
			err:        &pgconn.PgError{Code: "25006"},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
		},
		{
			name:       "query canceled",
			err:        &pgconn.PgError{Code: "57014"},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "SERVICE_UNAVAILABLE",
		},
		{
			name:       "deadline",
			err:        fmt.Errorf("find all users: %w", context.DeadlineExceeded),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "SERVICE_UNAVAILABLE",
		},
		{
			name:       "pgx no rows",
			err:        pgx.ErrNoRows,
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "sql no rows",
			err:        sql.ErrNoRows,
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "gorm record not found",
			err:        fmt.Errorf("find: %w", gorm.ErrRecordNotFound),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "unknown sqlstate",
			err:        &pgconn.PgError{Code: "XX000"},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var httpErr *errs.HTTPError
			if !errors.As(HandleError(tt.err), &httpErr) {
				t.Fatalf("HandleError did not return an HTTPError")
			}
			if httpErr.Status != tt.wantStatus {
				t.Errorf("status = %d, want %d", httpErr.Status, tt.wantStatus)
			}
			if httpErr.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", httpErr.Code, tt.wantCode)
			}
			if tt.wantMessage != "" && httpErr.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", httpErr.Message, tt.wantMessage)
			}
		})
	}
}

func TestHandleErrorKeepsHTTPError(t *testing.T) {
	in := errs.NewNotFoundError("No payments", true, nil)
	if out := HandleError(in); out != error(in) {
		t.Fatalf("HandleError replaced %v with %v", in, out)
	}
}

func TestHandleErrorFieldErrors(t *testing.T) {
	var httpErr *errs.HTTPError
	if !errors.As(HandleError(&pgconn.PgError{Code: "22P02", ColumnName: "chat_id"}), &httpErr) {
		t.Fatal("HandleError did not return an HTTPError")
	}
	if !httpErr.Override || len(httpErr.Errors) != 1 || httpErr.Errors[0].Field != "chat_id" {
		t.Fatalf("httpErr = %+v", httpErr)
	}

	if !errors.As(HandleError(&pgconn.PgError{Code: "22P02"}), &httpErr) || httpErr.Errors != nil {
		t.Fatalf("errors without a column = %+v", httpErr.Errors)
	}
}
