// Package repository handles all interactions with the database.
//
// It offers the same read operations in two styles:
//   - Dao builds every query with the gorm chained builder and clause expressions.
//   - UserDao runs hand-written PostgreSQL through pgx with named parameters.
//
// Neither style manages transactions. Every operation receives the session it
// must run on; the caller opens and closes it. Reader is the session-bound view
// of either style so callers can swap them without changing code.
package repository

import (
	"context"

	"github.com/deppfellow/querylab/internal/entity"
)

// Reader is the set of read operations bound to one open session.
type Reader interface {
	FindAll(ctx context.Context) ([]entity.User, error)
	FindAllByFirstName(ctx context.Context, firstName string) ([]entity.User, error)
	FindAllByUsernamePrefix(ctx context.Context, prefix string) ([]entity.User, error)
	FindLimitedUsersOrderedByBirthday(ctx context.Context, limit int) ([]entity.User, error)
	FindAllByCompanyName(ctx context.Context, companyName string) ([]entity.User, error)
	FindAllPaymentsByCompanyName(ctx context.Context, companyName string) ([]entity.Payment, error)
	FindAveragePaymentAmountByFirstAndLastNames(ctx context.Context, firstName, lastName string) (*float64, error)
	FindCompanyNamesWithAvgUserPaymentsOrderedByCompanyName(ctx context.Context) ([]CompanyAveragePayment, error)
	IsItPossible(ctx context.Context) ([]UserAveragePayment, error)
	FindUsersCountInChats(ctx context.Context) ([]ChatUsersCount, error)
	FindUsersByLanguage(ctx context.Context, language string) ([]entity.User, error)
	FindBiggestPayment(ctx context.Context) (*entity.Payment, error)
	FindUsersWithName(ctx context.Context, name string) ([]entity.User, error)
	FindUsersCompaniesInChat(ctx context.Context, chat entity.Chat) ([]entity.Company, error)
}

// Queries is the session-taking form of Reader, implemented by Dao for
// *gorm.DB sessions and by UserDao for Querier sessions.
type Queries[S any] interface {
	FindAll(ctx context.Context, session S) ([]entity.User, error)
	FindAllByFirstName(ctx context.Context, session S, firstName string) ([]entity.User, error)
	FindAllByUsernamePrefix(ctx context.Context, session S, prefix string) ([]entity.User, error)
	FindLimitedUsersOrderedByBirthday(ctx context.Context, session S, limit int) ([]entity.User, error)
	FindAllByCompanyName(ctx context.Context, session S, companyName string) ([]entity.User, error)
	FindAllPaymentsByCompanyName(ctx context.Context, session S, companyName string) ([]entity.Payment, error)
	FindAveragePaymentAmountByFirstAndLastNames(ctx context.Context, session S, firstName, lastName string) (*float64, error)
	FindCompanyNamesWithAvgUserPaymentsOrderedByCompanyName(ctx context.Context, session S) ([]CompanyAveragePayment, error)
	IsItPossible(ctx context.Context, session S) ([]UserAveragePayment, error)
	FindUsersCountInChats(ctx context.Context, session S) ([]ChatUsersCount, error)
	FindUsersByLanguage(ctx context.Context, session S, language string) ([]entity.User, error)
	FindBiggestPayment(ctx context.Context, session S) (*entity.Payment, error)
	FindUsersWithName(ctx context.Context, session S, name string) ([]entity.User, error)
	FindUsersCompaniesInChat(ctx context.Context, session S, chat entity.Chat) ([]entity.Company, error)
}

// Bind returns a Reader that runs q on session.
// The Reader is valid only while session is open.
func Bind[S any](q Queries[S], session S) Reader {
	return bound[S]{q: q, session: session}
}

type bound[S any] struct {
	q       Queries[S]
	session S
}

func (b bound[S]) FindAll(ctx context.Context) ([]entity.User, error) {
	return b.q.FindAll(ctx, b.session)
}

func (b bound[S]) FindAllByFirstName(ctx context.Context, firstName string) ([]entity.User, error) {
	return b.q.FindAllByFirstName(ctx, b.session, firstName)
}

func (b bound[S]) FindAllByUsernamePrefix(ctx context.Context, prefix string) ([]entity.User, error) {
	return b.q.FindAllByUsernamePrefix(ctx, b.session, prefix)
}

func (b bound[S]) FindLimitedUsersOrderedByBirthday(ctx context.Context, limit int) ([]entity.User, error) {
	return b.q.FindLimitedUsersOrderedByBirthday(ctx, b.session, limit)
}

func (b bound[S]) FindAllByCompanyName(ctx context.Context, companyName string) ([]entity.User, error) {
	return b.q.FindAllByCompanyName(ctx, b.session, companyName)
}

func (b bound[S]) FindAllPaymentsByCompanyName(ctx context.Context, companyName string) ([]entity.Payment, error) {
	return b.q.FindAllPaymentsByCompanyName(ctx, b.session, companyName)
}

func (b bound[S]) FindAveragePaymentAmountByFirstAndLastNames(ctx context.Context, firstName, lastName string) (*float64, error) {
	return b.q.FindAveragePaymentAmountByFirstAndLastNames(ctx, b.session, firstName, lastName)
}

func (b bound[S]) FindCompanyNamesWithAvgUserPaymentsOrderedByCompanyName(ctx context.Context) ([]CompanyAveragePayment, error) {
	return b.q.FindCompanyNamesWithAvgUserPaymentsOrderedByCompanyName(ctx, b.session)
}

func (b bound[S]) IsItPossible(ctx context.Context) ([]UserAveragePayment, error) {
	return b.q.IsItPossible(ctx, b.session)
}

func (b bound[S]) FindUsersCountInChats(ctx context.Context) ([]ChatUsersCount, error) {
	return b.q.FindUsersCountInChats(ctx, b.session)
}

func (b bound[S]) FindUsersByLanguage(ctx context.Context, language string) ([]entity.User, error) {
	return b.q.FindUsersByLanguage(ctx, b.session, language)
}

func (b bound[S]) FindBiggestPayment(ctx context.Context) (*entity.Payment, error) {
	return b.q.FindBiggestPayment(ctx, b.session)
}

func (b bound[S]) FindUsersWithName(ctx context.Context, name string) ([]entity.User, error) {
	return b.q.FindUsersWithName(ctx, b.session, name)
}

func (b bound[S]) FindUsersCompaniesInChat(ctx context.Context, chat entity.Chat) ([]entity.Company, error) {
	return b.q.FindUsersCompaniesInChat(ctx, b.session, chat)
}
