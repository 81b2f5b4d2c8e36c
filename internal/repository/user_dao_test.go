package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/deppfellow/querylab/internal/entity"
	"github.com/jackc/pgx/v5"
)

var errQuery = errors.New("query failed")

type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

// fakeQuerier records the last statement and answers with canned results.
type fakeQuerier struct {
	sql  string
	args pgx.NamedArgs
	row  fakeRow
}

func (q *fakeQuerier) record(sql string, args []any) {
	q.sql = sql
	q.args = nil
	if len(args) == 1 {
		if named, ok := args[0].(pgx.NamedArgs); ok {
			q.args = named
		}
	}
}

func (q *fakeQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.record(sql, args)
	return nil, errQuery
}

func (q *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.record(sql, args)
	if q.row.scan == nil {
		return fakeRow{scan: func(...any) error { return errQuery }}
	}
	return q.row
}

func TestUserDaoNamedArgs(t *testing.T) {
	ctx := context.Background()
	dao := NewUserDao()

	tests := []struct {
		name     string
		run      func(q Querier) error
		fragment string
		args     pgx.NamedArgs
	}{
		{
			name: "find all",
			run: func(q Querier) error {
				_, err := dao.FindAll(ctx, q)
				return err
			},
			fragment: "ORDER BY u.id",
		},
		{
			name: "by first name",
			run: func(q Querier) error {
				_, err := dao.FindAllByFirstName(ctx, q, "Bill")
				return err
			},
			fragment: "u.first_name = @first_name",
			args:     pgx.NamedArgs{"first_name": "Bill"},
		},
		{
			name: "by username prefix",
			run: func(q Querier) error {
				_, err := dao.FindAllByUsernamePrefix(ctx, q, "a_b")
				return err
			},
			fragment: "u.username LIKE @pattern",
			args:     pgx.NamedArgs{"pattern": `a\_b%`},
		},
		{
			name: "oldest first",
			run: func(q Querier) error {
				_, err := dao.FindLimitedUsersOrderedByBirthday(ctx, q, 3)
				return err
			},
			fragment: "ORDER BY u.birth_date ASC NULLS LAST, u.id",
			args:     pgx.NamedArgs{"limit": 3},
		},
		{
			name: "by company",
			run: func(q Querier) error {
				_, err := dao.FindAllByCompanyName(ctx, q, "Google")
				return err
			},
			fragment: "c.name = @company_name",
			args:     pgx.NamedArgs{"company_name": "Google"},
		},
		{
			name: "payments by company",
			run: func(q Querier) error {
				_, err := dao.FindAllPaymentsByCompanyName(ctx, q, "Apple")
				return err
			},
			fragment: "ORDER BY u.first_name, p.amount, p.id",
			args:     pgx.NamedArgs{"company_name": "Apple"},
		},
		{
			name: "average by names",
			run: func(q Querier) error {
				_, err := dao.FindAveragePaymentAmountByFirstAndLastNames(ctx, q, "Bill", "Gates")
				return err
			},
			fragment: "AVG(p.amount)::float8",
			args:     pgx.NamedArgs{"first_name": "Bill", "last_name": "Gates"},
		},
		{
			name: "company averages",
			run: func(q Querier) error {
				_, err := dao.FindCompanyNamesWithAvgUserPaymentsOrderedByCompanyName(ctx, q)
				return err
			},
			fragment: "GROUP BY c.id, c.name",
		},
		{
			name: "above overall average",
			run: func(q Querier) error {
				_, err := dao.IsItPossible(ctx, q)
				return err
			},
			fragment: "HAVING AVG(p.amount) > (SELECT AVG(p2.amount) FROM payment p2)",
		},
		{
			name: "chat counts",
			run: func(q Querier) error {
				_, err := dao.FindUsersCountInChats(ctx, q)
				return err
			},
			fragment: "COUNT(uc.id) AS users_count",
		},
		{
			name: "by language",
			run: func(q Querier) error {
				_, err := dao.FindUsersByLanguage(ctx, q, "en")
				return err
			},
			fragment: "pr.language = @language",
			args:     pgx.NamedArgs{"language": "en"},
		},
		{
			name: "biggest payment",
			run: func(q Querier) error {
				_, err := dao.FindBiggestPayment(ctx, q)
				return err
			},
			fragment: "ORDER BY p.amount DESC, p.id",
		},
		{
			name: "with name",
			run: func(q Querier) error {
				_, err := dao.FindUsersWithName(ctx, q, "Bill")
				return err
			},
			fragment: "u.first_name = @first_name",
			args:     pgx.NamedArgs{"first_name": "Bill"},
		},
		{
			name: "companies in chat",
			run: func(q Querier) error {
				_, err := dao.FindUsersCompaniesInChat(ctx, q, entity.Chat{ID: 2, Name: "chat 2"})
				return err
			},
			fragment: "SELECT DISTINCT c.id, c.name",
			args:     pgx.NamedArgs{"chat_id": int64(2)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &fakeQuerier{}

			err := tt.run(q)
			if !errors.Is(err, errQuery) {
				t.Fatalf("err = %v, want %v", err, errQuery)
			}
			if !strings.Contains(q.sql, tt.fragment) {
				t.Errorf("sql %q does not contain %q", q.sql, tt.fragment)
			}
			if len(q.args) != len(tt.args) {
				t.Fatalf("args = %v, want %v", q.args, tt.args)
			}
			for key, want := range tt.args {
				if got := q.args[key]; got != want {
					t.Errorf("arg %s = %v, want %v", key, got, want)
				}
			}
		})
	}
}

func TestUserDaoLimitNotPositive(t *testing.T) {
	q := &fakeQuerier{}

	users, err := NewUserDao().FindLimitedUsersOrderedByBirthday(context.Background(), q, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Fatalf("users = %v, want empty slice", users)
	}
	if q.sql != "" {
		t.Fatalf("expected no query, got %q", q.sql)
	}
}

func TestUserDaoBiggestPaymentNone(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{scan: func(...any) error { return pgx.ErrNoRows }}}

	payment, err := NewUserDao().FindBiggestPayment(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment != nil {
		t.Fatalf("payment = %+v, want nil", payment)
	}
}

func TestUserDaoBiggestPaymentScansColumns(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{scan: func(dest ...any) error {
		*dest[0].(*int64) = 5
		*dest[1].(*int) = 600
		*dest[2].(*int64) = 2
		return nil
	}}}

	payment, err := NewUserDao().FindBiggestPayment(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment == nil || payment.ID != 5 || payment.Amount != 600 || payment.ReceiverID != 2 {
		t.Fatalf("payment = %+v", payment)
	}
}

func TestUserDaoAverageNull(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{scan: func(dest ...any) error {
		*dest[0].(**float64) = nil
		return nil
	}}}

	avg, err := NewUserDao().FindAveragePaymentAmountByFirstAndLastNames(context.Background(), q, "No", "Body")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if avg != nil {
		t.Fatalf("avg = %v, want nil", *avg)
	}
}
