package repository

import (
	"strings"

	"github.com/deppfellow/querylab/internal/entity"
)

// CompanyAveragePayment pairs a company with the average payment its users received.
type CompanyAveragePayment struct {
	CompanyName   string  `db:"company_name" gorm:"column:company_name" json:"company_name"`
	AverageAmount float64 `db:"average_amount" gorm:"column:average_amount" json:"average_amount"`
}

// UserAveragePayment pairs a user with the average of their payments.
type UserAveragePayment struct {
	User          entity.User `json:"user"`
	AverageAmount float64     `json:"average_amount"`
}

// ChatUsersCount is the number of members in one chat.
type ChatUsersCount struct {
	ChatName   string `db:"chat_name" gorm:"column:chat_name" json:"chat_name"`
	UsersCount int64  `db:"users_count" gorm:"column:users_count" json:"users_count"`
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// prefixPattern turns prefix into a LIKE pattern matching it literally.
func prefixPattern(prefix string) string {
	return likeEscaper.Replace(prefix) + "%"
}
