package entity

import "time"

// Auditable carries who created a row and when.
type Auditable struct {
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	CreatedBy string    `gorm:"column:created_by" json:"created_by"`
}

// Chat is a named conversation. Membership lives in UserChat.
type Chat struct {
	ID        int64      `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"column:name" json:"name"`
	UserChats []UserChat `gorm:"foreignKey:ChatID" json:"user_chats,omitempty"`
}

func (Chat) TableName() string {
	return "chat"
}

// UserChat is one membership row linking a user to a chat.
type UserChat struct {
	ID     int64 `gorm:"primaryKey" json:"id"`
	UserID int64 `gorm:"column:user_id" json:"user_id"`
	ChatID int64 `gorm:"column:chat_id" json:"chat_id"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Chat   *Chat `gorm:"foreignKey:ChatID" json:"chat,omitempty"`
	Auditable
}

func (UserChat) TableName() string {
	return "users_chat"
}
