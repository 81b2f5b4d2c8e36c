// Package fixture loads the reference data set used by demos and
// integration tests: three companies, five users with their payments,
// profiles and chat memberships.
package fixture

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/querylab/internal/entity"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreatedBy is stamped on membership rows created by the importer.
const CreatedBy = "fixture"

// Data indexes the imported rows so callers can refer to them by natural key.
type Data struct {
	Companies map[string]entity.Company // by name
	Users     map[string]entity.User    // by username
	Chats     map[string]entity.Chat    // by name
	Payments  []entity.Payment
}

type userSeed struct {
	first, last string
	username    string
	birth       entity.Birthday
	company     string
	email       string
	payments    []int
	language    string
	street      string
	chat        string
}

var companies = []string{"Microsoft", "Apple", "Google"}

var chats = []string{"chat 1", "chat 2", "chat 3"}

var users = []userSeed{
	{
		first: "Bill", last: "Gates", username: "BillGates",
		birth: entity.NewBirthday(1955, time.October, 28), company: "Microsoft",
		email: "bill@microsoft.com", payments: []int{100, 300, 500},
		language: "ru", street: "One Microsoft Way", chat: "chat 1",
	},
	{
		first: "Steve", last: "Jobs", username: "SteveJobs",
		birth: entity.NewBirthday(1955, time.February, 24), company: "Apple",
		email: "steve@apple.com", payments: []int{250, 600, 500},
		language: "ru", street: "1 Infinite Loop", chat: "chat 1",
	},
	{
		first: "Sergey", last: "Brin", username: "SergeyBrin",
		birth: entity.NewBirthday(1973, time.August, 21), company: "Google",
		email: "sergey@google.com", payments: []int{500, 500, 500},
		language: "en", street: "1600 Amphitheatre Parkway", chat: "chat 2",
	},
	{
		first: "Tim", last: "Cook", username: "TimCook",
		birth: entity.NewBirthday(1960, time.November, 1), company: "Apple",
		email: "tim@apple.com", payments: []int{400, 300},
		language: "en", street: "1 Apple Park Way", chat: "chat 3",
	},
	{
		first: "Diane", last: "Greene", username: "DianeGreene",
		birth: entity.NewBirthday(1955, time.January, 15), company: "Google",
		email: "diane@google.com", payments: []int{300, 300, 300},
		language: "fr", street: "345 Spear Street", chat: "chat 3",
	},
}

// Import inserts the reference data in one transaction.
func Import(ctx context.Context, db *gorm.DB) (Data, error) {
	data := Data{
		Companies: make(map[string]entity.Company, len(companies)),
		Users:     make(map[string]entity.User, len(users)),
		Chats:     make(map[string]entity.Chat, len(chats)),
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range companies {
			company := entity.Company{Name: name}
			if err := tx.Create(&company).Error; err != nil {
				return fmt.Errorf("create company %s: %w", name, err)
			}
			data.Companies[name] = company
		}

		for _, name := range chats {
			chat := entity.Chat{Name: name}
			if err := tx.Create(&chat).Error; err != nil {
				return fmt.Errorf("create chat %s: %w", name, err)
			}
			data.Chats[name] = chat
		}

		for _, seed := range users {
			user, err := importUser(tx, seed, data)
			if err != nil {
				return fmt.Errorf("import user %s: %w", seed.username, err)
			}
			data.Users[seed.username] = user
		}

		return nil
	})
	if err != nil {
		return Data{}, err
	}

	for _, seed := range users {
		data.Payments = append(data.Payments, data.Users[seed.username].Payments...)
	}

	return data, nil
}

func importUser(tx *gorm.DB, seed userSeed, data Data) (entity.User, error) {
	birth := seed.birth
	companyID := data.Companies[seed.company].ID

	user := entity.User{
		PersonalInfo: entity.PersonalInfo{
			FirstName: seed.first,
			LastName:  seed.last,
			BirthDate: &birth,
		},
		Username:  seed.username,
		Info:      datatypes.NewJSONType(entity.UserInfo{Name: seed.first + " " + seed.last, Email: seed.email}),
		CompanyID: &companyID,
	}
	if err := tx.Create(&user).Error; err != nil {
		return entity.User{}, err
	}

	for _, amount := range seed.payments {
		payment := entity.Payment{Amount: amount, ReceiverID: user.ID}
		if err := tx.Create(&payment).Error; err != nil {
			return entity.User{}, err
		}
		user.Payments = append(user.Payments, payment)
	}

	profile := entity.Profile{UserID: user.ID, Street: seed.street, Language: seed.language}
	if err := tx.Create(&profile).Error; err != nil {
		return entity.User{}, err
	}
	user.Profile = &profile

	membership := entity.UserChat{
		UserID:    user.ID,
		ChatID:    data.Chats[seed.chat].ID,
		Auditable: entity.Auditable{CreatedBy: CreatedBy},
	}
	if err := tx.Create(&membership).Error; err != nil {
		return entity.User{}, err
	}
	user.UserChats = append(user.UserChats, membership)

	return user, nil
}

// ImportIfEmpty imports the reference data only when no company exists yet.
// It reports whether an import happened.
func ImportIfEmpty(ctx context.Context, db *gorm.DB) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&entity.Company{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count companies: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	if _, err := Import(ctx, db); err != nil {
		return false, err
	}
	return true, nil
}

// Reset removes every row and restarts identity sequences.
func Reset(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).
		Exec("TRUNCATE TABLE profile, users_chat, chat, payment, users, company RESTART IDENTITY CASCADE").
		Error
}
