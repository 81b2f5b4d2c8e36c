package repository

import (
	"context"
	"testing"

	"github.com/deppfellow/querylab/internal/entity"
)

func TestPrefixPattern(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "%"},
		{"Bill", "Bill%"},
		{"50%", `50\%%`},
		{"a_b", `a\_b%`},
		{`c:\`, `c:\\%`},
	}

	for _, tt := range tests {
		if got := prefixPattern(tt.in); got != tt.want {
			t.Errorf("prefixPattern(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// echoQueries answers every call with data derived from the session it got.
type echoQueries struct {
	calls []string
}

func (e *echoQueries) user(name string, session string) []entity.User {
	e.calls = append(e.calls, name)
	return []entity.User{{Username: session}}
}

func (e *echoQueries) FindAll(_ context.Context, s string) ([]entity.User, error) {
	return e.user("FindAll", s), nil
}

func (e *echoQueries) FindAllByFirstName(_ context.Context, s string, firstName string) ([]entity.User, error) {
	return e.user("FindAllByFirstName:"+firstName, s), nil
}

func (e *echoQueries) FindAllByUsernamePrefix(_ context.Context, s string, prefix string) ([]entity.User, error) {
	return e.user("FindAllByUsernamePrefix:"+prefix, s), nil
}

func (e *echoQueries) FindLimitedUsersOrderedByBirthday(_ context.Context, s string, _ int) ([]entity.User, error) {
	return e.user("FindLimitedUsersOrderedByBirthday", s), nil
}

func (e *echoQueries) FindAllByCompanyName(_ context.Context, s string, companyName string) ([]entity.User, error) {
	return e.user("FindAllByCompanyName:"+companyName, s), nil
}

func (e *echoQueries) FindAllPaymentsByCompanyName(_ context.Context, s string, _ string) ([]entity.Payment, error) {
	e.calls = append(e.calls, "FindAllPaymentsByCompanyName")
	return []entity.Payment{{Receiver: &entity.User{Username: s}}}, nil
}

func (e *echoQueries) FindAveragePaymentAmountByFirstAndLastNames(_ context.Context, _ string, _, _ string) (*float64, error) {
	e.calls = append(e.calls, "FindAveragePaymentAmountByFirstAndLastNames")
	return nil, nil
}

func (e *echoQueries) FindCompanyNamesWithAvgUserPaymentsOrderedByCompanyName(_ context.Context, s string) ([]CompanyAveragePayment, error) {
	e.calls = append(e.calls, "FindCompanyNamesWithAvgUserPaymentsOrderedByCompanyName")
	return []CompanyAveragePayment{{CompanyName: s}}, nil
}

func (e *echoQueries) IsItPossible(_ context.Context, s string) ([]UserAveragePayment, error) {
	e.calls = append(e.calls, "IsItPossible")
	return []UserAveragePayment{{User: entity.User{Username: s}}}, nil
}

func (e *echoQueries) FindUsersCountInChats(_ context.Context, s string) ([]ChatUsersCount, error) {
	e.calls = append(e.calls, "FindUsersCountInChats")
	return []ChatUsersCount{{ChatName: s}}, nil
}

func (e *echoQueries) FindUsersByLanguage(_ context.Context, s string, language string) ([]entity.User, error) {
	return e.user("FindUsersByLanguage:"+language, s), nil
}

func (e *echoQueries) FindBiggestPayment(_ context.Context, _ string) (*entity.Payment, error) {
	e.calls = append(e.calls, "FindBiggestPayment")
	return nil, nil
}

func (e *echoQueries) FindUsersWithName(_ context.Context, s string, name string) ([]entity.User, error) {
	return e.user("FindUsersWithName:"+name, s), nil
}

func (e *echoQueries) FindUsersCompaniesInChat(_ context.Context, s string, chat entity.Chat) ([]entity.Company, error) {
	e.calls = append(e.calls, "FindUsersCompaniesInChat:"+chat.Name)
	return []entity.Company{{Name: s}}, nil
}

func TestBindPassesSession(t *testing.T) {
	ctx := context.Background()
	q := &echoQueries{}
	reader := Bind[string](q, "session-1")

	users, _ := reader.FindAll(ctx)
	if users[0].Username != "session-1" {
		t.Fatalf("FindAll ran on %q", users[0].Username)
	}
	users, _ = reader.FindAllByFirstName(ctx, "Bill")
	if users[0].Username != "session-1" {
		t.Fatalf("FindAllByFirstName ran on %q", users[0].Username)
	}
	payments, _ := reader.FindAllPaymentsByCompanyName(ctx, "Apple")
	if payments[0].Receiver.Username != "session-1" {
		t.Fatalf("FindAllPaymentsByCompanyName ran on %q", payments[0].Receiver.Username)
	}
	averages, _ := reader.FindCompanyNamesWithAvgUserPaymentsOrderedByCompanyName(ctx)
	if averages[0].CompanyName != "session-1" {
		t.Fatalf("company averages ran on %q", averages[0].CompanyName)
	}
	companies, _ := reader.FindUsersCompaniesInChat(ctx, entity.Chat{ID: 1, Name: "chat 1"})
	if companies[0].Name != "session-1" {
		t.Fatalf("FindUsersCompaniesInChat ran on %q", companies[0].Name)
	}

	_, _ = reader.FindAllByUsernamePrefix(ctx, "St")
	_, _ = reader.FindLimitedUsersOrderedByBirthday(ctx, 3)
	_, _ = reader.FindAllByCompanyName(ctx, "Google")
	_, _ = reader.FindAveragePaymentAmountByFirstAndLastNames(ctx, "Bill", "Gates")
	_, _ = reader.IsItPossible(ctx)
	_, _ = reader.FindUsersCountInChats(ctx)
	_, _ = reader.FindUsersByLanguage(ctx, "en")
	_, _ = reader.FindBiggestPayment(ctx)
	_, _ = reader.FindUsersWithName(ctx, "Bill")

	want := []string{
		"FindAll",
		"FindAllByFirstName:Bill",
		"FindAllPaymentsByCompanyName",
		"FindCompanyNamesWithAvgUserPaymentsOrderedByCompanyName",
		"FindUsersCompaniesInChat:chat 1",
		"FindAllByUsernamePrefix:St",
		"FindLimitedUsersOrderedByBirthday",
		"FindAllByCompanyName:Google",
		"FindAveragePaymentAmountByFirstAndLastNames",
		"IsItPossible",
		"FindUsersCountInChats",
		"FindUsersByLanguage:en",
		"FindBiggestPayment",
		"FindUsersWithName:Bill",
	}
	if len(q.calls) != len(want) {
		t.Fatalf("calls = %v", q.calls)
	}
	for i := range want {
		if q.calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, q.calls[i], want[i])
		}
	}
}

func TestNewRepositories(t *testing.T) {
	repos := NewRepositories()
	if repos.Dao == nil || repos.UserDao == nil {
		t.Fatalf("repositories not initialised: %+v", repos)
	}
}
