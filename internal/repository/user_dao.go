package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/querylab/internal/convertor"
	"github.com/deppfellow/querylab/internal/entity"
	"github.com/jackc/pgx/v5"
)

// Querier is the subset of pgx shared by pgx.Tx, *pgx.Conn and *pgxpool.Pool.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserDao implements the read operations as hand-written SQL with named
// parameters. It returns the same shapes as Dao.
type UserDao struct{}

// NewUserDao returns the textual SQL DAO.
func NewUserDao() *UserDao {
	return &UserDao{}
}

var _ Queries[Querier] = (*UserDao)(nil)

const userColumns = `u.id, u.first_name, u.last_name, u.birth_date, u.username, u.info, u.company_id`

const (
	findAllSQL = `
		SELECT ` + userColumns + `
		FROM users u
		ORDER BY u.id`

	findAllByFirstNameSQL = `
		SELECT ` + userColumns + `
		FROM users u
		WHERE u.first_name = @first_name
		ORDER BY u.id`

	findAllByUsernamePrefixSQL = `
		SELECT ` + userColumns + `
		FROM users u
		WHERE u.username LIKE @pattern
		ORDER BY u.username`

	findLimitedUsersOrderedByBirthdaySQL = `
		SELECT ` + userColumns + `
		FROM users u
		ORDER BY u.birth_date ASC NULLS LAST, u.id
		LIMIT @limit`

	findAllByCompanyNameSQL = `
		SELECT ` + userColumns + `, c.id, c.name
		FROM users u
		JOIN company c ON c.id = u.company_id
		WHERE c.name = @company_name
		ORDER BY u.id`

	findAllPaymentsByCompanyNameSQL = `
		SELECT ` + userColumns + `, p.id, p.amount, p.receiver_id
		FROM payment p
		JOIN users u ON u.id = p.receiver_id
		JOIN company c ON c.id = u.company_id
		WHERE c.name = @company_name
		ORDER BY u.first_name, p.amount, p.id`

	findAveragePaymentAmountSQL = `
		SELECT AVG(p.amount)::float8
		FROM payment p
		JOIN users u ON u.id = p.receiver_id
		WHERE u.first_name = @first_name
		  AND u.last_name = @last_name`

	findCompanyAveragesSQL = `
		SELECT c.name AS company_name, AVG(p.amount)::float8 AS average_amount
		FROM company c
		JOIN users u ON u.company_id = c.id
		JOIN payment p ON p.receiver_id = u.id
		GROUP BY c.id, c.name
		ORDER BY c.name`

	isItPossibleSQL = `
		SELECT ` + userColumns + `, AVG(p.amount)::float8 AS average_amount
		FROM users u
		JOIN payment p ON p.receiver_id = u.id
		GROUP BY u.id
		HAVING AVG(p.amount) > (SELECT AVG(p2.amount) FROM payment p2)
		ORDER BY u.first_name, u.id`

	findUsersCountInChatsSQL = `
		SELECT c.name AS chat_name, COUNT(uc.id) AS users_count
		FROM chat c
		JOIN users_chat uc ON uc.chat_id = c.id
		GROUP BY c.id, c.name
		ORDER BY c.name`

	findUsersByLanguageSQL = `
		SELECT ` + userColumns + `, pr.id, pr.user_id, pr.street, pr.language
		FROM users u
		JOIN profile pr ON pr.user_id = u.id
		WHERE pr.language = @language
		ORDER BY u.username`

	findBiggestPaymentSQL = `
		SELECT p.id, p.amount, p.receiver_id
		FROM payment p
		ORDER BY p.amount DESC, p.id
		LIMIT 1`

	findUsersCompaniesInChatSQL = `
		SELECT DISTINCT c.id, c.name
		FROM company c
		JOIN users u ON u.company_id = c.id
		JOIN users_chat uc ON uc.user_id = u.id
		WHERE uc.chat_id = @chat_id
		ORDER BY c.name`
)

// scanUser reads userColumns followed by extra destinations.
func scanUser(row pgx.CollectableRow, extra ...any) (entity.User, error) {
	var (
		u     entity.User
		birth *time.Time
		info  []byte
	)

	dest := append([]any{&u.ID, &u.FirstName, &u.LastName, &birth, &u.Username, &info, &u.CompanyID}, extra...)
	if err := row.Scan(dest...); err != nil {
		return entity.User{}, err
	}

	u.BirthDate = convertor.ToEntityAttribute(birth)
	if len(info) > 0 {
		if err := u.Info.Scan(info); err != nil {
			return entity.User{}, fmt.Errorf("decode user info: %w", err)
		}
	}
	return u, nil
}

func rowToUser(row pgx.CollectableRow) (entity.User, error) {
	return scanUser(row)
}

func (d *UserDao) queryUsers(ctx context.Context, session Querier, sql string, args ...any) ([]entity.User, error) {
	rows, err := session.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, rowToUser)
}

func (d *UserDao) FindAll(ctx context.Context, session Querier) ([]entity.User, error) {
	return d.queryUsers(ctx, session, findAllSQL)
}

func (d *UserDao) FindAllByFirstName(ctx context.Context, session Querier, firstName string) ([]entity.User, error) {
	return d.queryUsers(ctx, session, findAllByFirstNameSQL, pgx.NamedArgs{
		"first_name": firstName,
	})
}

func (d *UserDao) FindAllByUsernamePrefix(ctx context.Context, session Querier, prefix string) ([]entity.User, error) {
	return d.queryUsers(ctx, session, findAllByUsernamePrefixSQL, pgx.NamedArgs{
		"pattern": prefixPattern(prefix),
	})
}

func (d *UserDao) FindLimitedUsersOrderedByBirthday(ctx context.Context, session Querier, limit int) ([]entity.User, error) {
	if limit <= 0 {
		return []entity.User{}, nil
	}
	return d.queryUsers(ctx, session, findLimitedUsersOrderedByBirthdaySQL, pgx.NamedArgs{
		"limit": limit,
	})
}

func (d *UserDao) FindAllByCompanyName(ctx context.Context, session Querier, companyName string) ([]entity.User, error) {
	rows, err := session.Query(ctx, findAllByCompanyNameSQL, pgx.NamedArgs{
		"company_name": companyName,
	})
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.User, error) {
		var company entity.Company
		u, err := scanUser(row, &company.ID, &company.Name)
		if err != nil {
			return entity.User{}, err
		}
		u.Company = &company
		return u, nil
	})
}

func (d *UserDao) FindAllPaymentsByCompanyName(ctx context.Context, session Querier, companyName string) ([]entity.Payment, error) {
	rows, err := session.Query(ctx, findAllPaymentsByCompanyNameSQL, pgx.NamedArgs{
		"company_name": companyName,
	})
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Payment, error) {
		var p entity.Payment
		receiver, err := scanUser(row, &p.ID, &p.Amount, &p.ReceiverID)
		if err != nil {
			return entity.Payment{}, err
		}
		p.Receiver = &receiver
		return p, nil
	})
}

func (d *UserDao) FindAveragePaymentAmountByFirstAndLastNames(ctx context.Context, session Querier, firstName, lastName string) (*float64, error) {
	var avg *float64
	err := session.QueryRow(ctx, findAveragePaymentAmountSQL, pgx.NamedArgs{
		"first_name": firstName,
		"last_name":  lastName,
	}).Scan(&avg)
	if err != nil {
		return nil, err
	}
	return avg, nil
}

func (d *UserDao) FindCompanyNamesWithAvgUserPaymentsOrderedByCompanyName(ctx context.Context, session Querier) ([]CompanyAveragePayment, error) {
	rows, err := session.Query(ctx, findCompanyAveragesSQL)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[CompanyAveragePayment])
}

func (d *UserDao) IsItPossible(ctx context.Context, session Querier) ([]UserAveragePayment, error) {
	rows, err := session.Query(ctx, isItPossibleSQL)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (UserAveragePayment, error) {
		var avg float64
		u, err := scanUser(row, &avg)
		if err != nil {
			return UserAveragePayment{}, err
		}
		return UserAveragePayment{User: u, AverageAmount: avg}, nil
	})
}

func (d *UserDao) FindUsersCountInChats(ctx context.Context, session Querier) ([]ChatUsersCount, error) {
	rows, err := session.Query(ctx, findUsersCountInChatsSQL)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[ChatUsersCount])
}

func (d *UserDao) FindUsersByLanguage(ctx context.Context, session Querier, language string) ([]entity.User, error) {
	rows, err := session.Query(ctx, findUsersByLanguageSQL, pgx.NamedArgs{
		"language": language,
	})
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.User, error) {
		var profile entity.Profile
		u, err := scanUser(row, &profile.ID, &profile.UserID, &profile.Street, &profile.Language)
		if err != nil {
			return entity.User{}, err
		}
		u.Profile = &profile
		return u, nil
	})
}

func (d *UserDao) FindBiggestPayment(ctx context.Context, session Querier) (*entity.Payment, error) {
	var p entity.Payment
	err := session.QueryRow(ctx, findBiggestPaymentSQL).Scan(&p.ID, &p.Amount, &p.ReceiverID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindUsersWithName matches the first name exactly, like FindAllByFirstName.
func (d *UserDao) FindUsersWithName(ctx context.Context, session Querier, name string) ([]entity.User, error) {
	return d.queryUsers(ctx, session, findAllByFirstNameSQL, pgx.NamedArgs{
		"first_name": name,
	})
}

func (d *UserDao) FindUsersCompaniesInChat(ctx context.Context, session Querier, chat entity.Chat) ([]entity.Company, error) {
	rows, err := session.Query(ctx, findUsersCompaniesInChatSQL, pgx.NamedArgs{
		"chat_id": chat.ID,
	})
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Company, error) {
		var c entity.Company
		err := row.Scan(&c.ID, &c.Name)
		return c, err
	})
}
