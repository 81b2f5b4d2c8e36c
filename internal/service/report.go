package service

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/querylab/internal/config"
	"github.com/deppfellow/querylab/internal/entity"
	"github.com/deppfellow/querylab/internal/repository"
	"github.com/deppfellow/querylab/internal/server"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// SessionFunc opens a unit of work, hands fn a Reader bound to it and closes
// the unit of work when fn returns.
type SessionFunc func(ctx context.Context, fn func(r repository.Reader) error) error

// ReportService runs the read operations on a fresh read-only session per call.
type ReportService struct {
	style   string
	session SessionFunc
}

// NewReportService picks the session kind from the query.style setting:
// "orm" binds the gorm Dao, "text" binds the pgx UserDao.
func NewReportService(s *server.Server, repos *repository.Repositories) (*ReportService, error) {
	style := s.Config.Query.Style

	var session SessionFunc
	switch style {
	case config.QueryStyleORM:
		session = func(ctx context.Context, fn func(repository.Reader) error) error {
			return s.DB.ORMSession(ctx, func(tx *gorm.DB) error {
				return fn(repository.Bind[*gorm.DB](repos.Dao, tx))
			})
		}
	case config.QueryStyleText:
		session = func(ctx context.Context, fn func(repository.Reader) error) error {
			return s.DB.Session(ctx, func(tx pgx.Tx) error {
				return fn(repository.Bind[repository.Querier](repos.UserDao, tx))
			})
		}
	default:
		return nil, fmt.Errorf("unknown query style %q", style)
	}

	return NewReportServiceWithSession(style, session), nil
}

// NewReportServiceWithSession builds a ReportService around an arbitrary
// session opener.
func NewReportServiceWithSession(style string, session SessionFunc) *ReportService {
	return &ReportService{style: style, session: session}
}

// Style reports the query style this service runs.
func (s *ReportService) Style() string {
	return s.style
}

func read[T any](ctx context.Context, s *ReportService, operation string, fn func(r repository.Reader) (T, error)) (T, error) {
	start := time.Now()

	var result T
	err := s.session(ctx, func(r repository.Reader) error {
		var err error
		result, err = fn(r)
		return err
	})

	logger := zerolog.Ctx(ctx)
	if err != nil {
		logger.Debug().
			Err(err).
			Str("operation", operation).
			Str("query_style", s.style).
			Dur("duration", time.Since(start)).
			Msg("report query failed")

		var zero T
		return zero, fmt.Errorf("%s: %w", operation, err)
	}

	logger.Debug().
		Str("operation", operation).
		Str("query_style", s.style).
		Dur("duration", time.Since(start)).
		Msg("report query completed")

	return result, nil
}

func (s *ReportService) FindAll(ctx context.Context) ([]entity.User, error) {
	return read(ctx, s, "find all users", func(r repository.Reader) ([]entity.User, error) {
		return r.FindAll(ctx)
	})
}

func (s *ReportService) FindAllByFirstName(ctx context.Context, firstName string) ([]entity.User, error) {
	return read(ctx, s, "find users by first name", func(r repository.Reader) ([]entity.User, error) {
		return r.FindAllByFirstName(ctx, firstName)
	})
}

func (s *ReportService) FindAllByUsernamePrefix(ctx context.Context, prefix string) ([]entity.User, error) {
	return read(ctx, s, "find users by username prefix", func(r repository.Reader) ([]entity.User, error) {
		return r.FindAllByUsernamePrefix(ctx, prefix)
	})
}

func (s *ReportService) FindLimitedUsersOrderedByBirthday(ctx context.Context, limit int) ([]entity.User, error) {
	return read(ctx, s, "find oldest users", func(r repository.Reader) ([]entity.User, error) {
		return r.FindLimitedUsersOrderedByBirthday(ctx, limit)
	})
}

func (s *ReportService) FindAllByCompanyName(ctx context.Context, companyName string) ([]entity.User, error) {
	return read(ctx, s, "find users by company", func(r repository.Reader) ([]entity.User, error) {
		return r.FindAllByCompanyName(ctx, companyName)
	})
}

func (s *ReportService) FindAllPaymentsByCompanyName(ctx context.Context, companyName string) ([]entity.Payment, error) {
	return read(ctx, s, "find payments by company", func(r repository.Reader) ([]entity.Payment, error) {
		return r.FindAllPaymentsByCompanyName(ctx, companyName)
	})
}

func (s *ReportService) FindAveragePaymentAmountByFirstAndLastNames(ctx context.Context, firstName, lastName string) (*float64, error) {
	return read(ctx, s, "find average payment by names", func(r repository.Reader) (*float64, error) {
		return r.FindAveragePaymentAmountByFirstAndLastNames(ctx, firstName, lastName)
	})
}

func (s *ReportService) FindCompanyNamesWithAvgUserPaymentsOrderedByCompanyName(ctx context.Context) ([]repository.CompanyAveragePayment, error) {
	return read(ctx, s, "find company average payments", func(r repository.Reader) ([]repository.CompanyAveragePayment, error) {
		return r.FindCompanyNamesWithAvgUserPaymentsOrderedByCompanyName(ctx)
	})
}

func (s *ReportService) IsItPossible(ctx context.Context) ([]repository.UserAveragePayment, error) {
	return read(ctx, s, "find users above average payment", func(r repository.Reader) ([]repository.UserAveragePayment, error) {
		return r.IsItPossible(ctx)
	})
}

func (s *ReportService) FindUsersCountInChats(ctx context.Context) ([]repository.ChatUsersCount, error) {
	return read(ctx, s, "count users in chats", func(r repository.Reader) ([]repository.ChatUsersCount, error) {
		return r.FindUsersCountInChats(ctx)
	})
}

func (s *ReportService) FindUsersByLanguage(ctx context.Context, language string) ([]entity.User, error) {
	return read(ctx, s, "find users by language", func(r repository.Reader) ([]entity.User, error) {
		return r.FindUsersByLanguage(ctx, language)
	})
}

func (s *ReportService) FindBiggestPayment(ctx context.Context) (*entity.Payment, error) {
	return read(ctx, s, "find biggest payment", func(r repository.Reader) (*entity.Payment, error) {
		return r.FindBiggestPayment(ctx)
	})
}

func (s *ReportService) FindUsersWithName(ctx context.Context, name string) ([]entity.User, error) {
	return read(ctx, s, "find users with name", func(r repository.Reader) ([]entity.User, error) {
		return r.FindUsersWithName(ctx, name)
	})
}

func (s *ReportService) FindUsersCompaniesInChat(ctx context.Context, chat entity.Chat) ([]entity.Company, error) {
	return read(ctx, s, "find companies in chat", func(r repository.Reader) ([]entity.Company, error) {
		return r.FindUsersCompaniesInChat(ctx, chat)
	})
}
