package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/deppfellow/querylab/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Dao implements the read operations with the gorm query builder.
//
// Associations are populated only where a method joins them:
// FindAllByCompanyName fills User.Company, FindAllPaymentsByCompanyName fills
// Payment.Receiver and FindUsersByLanguage fills User.Profile.
type Dao struct{}

// NewDao returns the gorm builder DAO.
func NewDao() *Dao {
	return &Dao{}
}

var _ Queries[*gorm.DB] = (*Dao)(nil)

// Join aliases gorm assigns to joined associations.
const (
	companyAlias  = "Company"
	profileAlias  = "Profile"
	receiverAlias = "Receiver"
)

func userColumn(name string) clause.Column {
	return clause.Column{Table: clause.CurrentTable, Name: name}
}

func orderBy(columns ...clause.Column) clause.OrderBy {
	order := clause.OrderBy{}
	for _, column := range columns {
		order.Columns = append(order.Columns, clause.OrderByColumn{Column: column})
	}
	return order
}

func (d *Dao) FindAll(ctx context.Context, session *gorm.DB) ([]entity.User, error) {
	var users []entity.User
	err := session.WithContext(ctx).
		Order(orderBy(userColumn("id"))).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (d *Dao) FindAllByFirstName(ctx context.Context, session *gorm.DB, firstName string) ([]entity.User, error) {
	var users []entity.User
	err := session.WithContext(ctx).
		Where(clause.Eq{Column: userColumn("first_name"), Value: firstName}).
		Order(orderBy(userColumn("id"))).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (d *Dao) FindAllByUsernamePrefix(ctx context.Context, session *gorm.DB, prefix string) ([]entity.User, error) {
	var users []entity.User
	err := session.WithContext(ctx).
		Where(clause.Like{Column: userColumn("username"), Value: prefixPattern(prefix)}).
		Order(orderBy(userColumn("username"))).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// FindLimitedUsersOrderedByBirthday returns the limit oldest users.
// Users without a birth date sort last; equal dates fall back to id.
func (d *Dao) FindLimitedUsersOrderedByBirthday(ctx context.Context, session *gorm.DB, limit int) ([]entity.User, error) {
	if limit <= 0 {
		return []entity.User{}, nil
	}

	var users []entity.User
	err := session.WithContext(ctx).
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL:  "? ASC NULLS LAST, ? ASC",
			Vars: []interface{}{userColumn("birth_date"), userColumn("id")},
		}}).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (d *Dao) FindAllByCompanyName(ctx context.Context, session *gorm.DB, companyName string) ([]entity.User, error) {
	var users []entity.User
	err := session.WithContext(ctx).
		InnerJoins(companyAlias).
		Where(clause.Eq{Column: clause.Column{Table: companyAlias, Name: "name"}, Value: companyName}).
		Order(orderBy(userColumn("id"))).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (d *Dao) FindAllPaymentsByCompanyName(ctx context.Context, session *gorm.DB, companyName string) ([]entity.Payment, error) {
	db := session.WithContext(ctx)

	companyIDs := db.Model(&entity.Company{}).
		Select("id").
		Where(clause.Eq{Column: clause.Column{Name: "name"}, Value: companyName})

	var payments []entity.Payment
	err := db.
		InnerJoins(receiverAlias).
		Where("? IN (?)", clause.Column{Table: receiverAlias, Name: "company_id"}, companyIDs).
		Order(orderBy(
			clause.Column{Table: receiverAlias, Name: "first_name"},
			clause.Column{Table: clause.CurrentTable, Name: "amount"},
			clause.Column{Table: clause.CurrentTable, Name: "id"},
		)).
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// FindAveragePaymentAmountByFirstAndLastNames returns nil when the user is
// unknown or has no payments.
func (d *Dao) FindAveragePaymentAmountByFirstAndLastNames(ctx context.Context, session *gorm.DB, firstName, lastName string) (*float64, error) {
	var avg sql.NullFloat64
	err := session.WithContext(ctx).
		Model(&entity.Payment{}).
		Select("AVG(payment.amount)::float8").
		Joins("JOIN users ON users.id = payment.receiver_id").
		Where(clause.Eq{Column: clause.Column{Table: "users", Name: "first_name"}, Value: firstName}).
		Where(clause.Eq{Column: clause.Column{Table: "users", Name: "last_name"}, Value: lastName}).
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}

func (d *Dao) FindCompanyNamesWithAvgUserPaymentsOrderedByCompanyName(ctx context.Context, session *gorm.DB) ([]CompanyAveragePayment, error) {
	rows := []CompanyAveragePayment{}
	err := session.WithContext(ctx).
		Model(&entity.Company{}).
		Select("company.name AS company_name, AVG(payment.amount)::float8 AS average_amount").
		Joins("JOIN users ON users.company_id = company.id").
		Joins("JOIN payment ON payment.receiver_id = users.id").
		Group("company.id").
		Group("company.name").
		Order(orderBy(clause.Column{Table: "company", Name: "name"})).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type receiverAverage struct {
	ReceiverID    int64   `gorm:"column:receiver_id"`
	AverageAmount float64 `gorm:"column:average_amount"`
}

// IsItPossible returns users whose average payment is above the average of
// all payments, ordered by first name.
//
// The grouped averages are computed first with a HAVING subquery; the
// matching users are then loaded by id in a second statement.
func (d *Dao) IsItPossible(ctx context.Context, session *gorm.DB) ([]UserAveragePayment, error) {
	db := session.WithContext(ctx)

	overall := db.Model(&entity.Payment{}).Select("AVG(amount)")

	var averages []receiverAverage
	err := db.Model(&entity.Payment{}).
		Select("payment.receiver_id, AVG(payment.amount)::float8 AS average_amount").
		Group("payment.receiver_id").
		Having("AVG(payment.amount) > (?)", overall).
		Scan(&averages).Error
	if err != nil {
		return nil, err
	}
	if len(averages) == 0 {
		return []UserAveragePayment{}, nil
	}

	ids := make([]interface{}, 0, len(averages))
	byUser := make(map[int64]float64, len(averages))
	for _, a := range averages {
		ids = append(ids, a.ReceiverID)
		byUser[a.ReceiverID] = a.AverageAmount
	}

	var users []entity.User
	err = db.
		Where(clause.IN{Column: userColumn("id"), Values: ids}).
		Order(orderBy(userColumn("first_name"), userColumn("id"))).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	result := make([]UserAveragePayment, 0, len(users))
	for _, u := range users {
		result = append(result, UserAveragePayment{User: u, AverageAmount: byUser[u.ID]})
	}
	return result, nil
}

func (d *Dao) FindUsersCountInChats(ctx context.Context, session *gorm.DB) ([]ChatUsersCount, error) {
	rows := []ChatUsersCount{}
	err := session.WithContext(ctx).
		Model(&entity.Chat{}).
		Select("chat.name AS chat_name, COUNT(users_chat.id) AS users_count").
		Joins("JOIN users_chat ON users_chat.chat_id = chat.id").
		Group("chat.id").
		Group("chat.name").
		Order(orderBy(clause.Column{Table: "chat", Name: "name"})).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (d *Dao) FindUsersByLanguage(ctx context.Context, session *gorm.DB, language string) ([]entity.User, error) {
	var users []entity.User
	err := session.WithContext(ctx).
		InnerJoins(profileAlias).
		Where(clause.Eq{Column: clause.Column{Table: profileAlias, Name: "language"}, Value: language}).
		Order(orderBy(userColumn("username"))).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// FindBiggestPayment returns nil when there are no payments.
// Equal amounts resolve to the lowest id.
func (d *Dao) FindBiggestPayment(ctx context.Context, session *gorm.DB) (*entity.Payment, error) {
	var payment entity.Payment
	err := session.WithContext(ctx).
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{
			{Column: clause.Column{Table: clause.CurrentTable, Name: "amount"}, Desc: true},
			{Column: clause.Column{Table: clause.CurrentTable, Name: "id"}},
		}}).
		Take(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// FindUsersWithName matches the first name exactly, like FindAllByFirstName.
func (d *Dao) FindUsersWithName(ctx context.Context, session *gorm.DB, name string) ([]entity.User, error) {
	var users []entity.User
	err := session.WithContext(ctx).
		Where(map[string]interface{}{"first_name": name}).
		Order(orderBy(userColumn("id"))).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// FindUsersCompaniesInChat returns the distinct companies employing members of chat.
func (d *Dao) FindUsersCompaniesInChat(ctx context.Context, session *gorm.DB, chat entity.Chat) ([]entity.Company, error) {
	var companies []entity.Company
	err := session.WithContext(ctx).
		Distinct().
		Joins("JOIN users ON users.company_id = company.id").
		Joins("JOIN users_chat ON users_chat.user_id = users.id").
		Where(clause.Eq{Column: clause.Column{Table: "users_chat", Name: "chat_id"}, Value: chat.ID}).
		Order(orderBy(clause.Column{Table: "company", Name: "name"})).
		Find(&companies).Error
	if err != nil {
		return nil, err
	}
	return companies, nil
}
