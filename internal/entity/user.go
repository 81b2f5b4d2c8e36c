package entity

import (
	"gorm.io/datatypes"
)

// PersonalInfo groups the naming and birth columns of a user.
// It is embedded into User and stored in the users table.
type PersonalInfo struct {
	FirstName string    `gorm:"column:first_name" json:"first_name"`
	LastName  string    `gorm:"column:last_name" json:"last_name"`
	BirthDate *Birthday `gorm:"column:birth_date;serializer:birthday" json:"birth_date"`
}

// UserInfo is free-form contact data kept in a jsonb column.
type UserInfo struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// User is a person who may work at a company, receive payments and join chats.
type User struct {
	ID int64 `gorm:"primaryKey" json:"id"`
	PersonalInfo
	Username  string                       `gorm:"column:username" json:"username"`
	Info      datatypes.JSONType[UserInfo] `gorm:"column:info;type:jsonb" json:"info"`
	CompanyID *int64                       `gorm:"column:company_id" json:"company_id"`

	Company   *Company   `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Profile   *Profile   `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	Payments  []Payment  `gorm:"foreignKey:ReceiverID" json:"payments,omitempty"`
	UserChats []UserChat `gorm:"foreignKey:UserID" json:"user_chats,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// FullName returns "First Last".
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
