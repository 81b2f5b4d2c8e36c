package entity

// Company employs users. Its name is unique and used as a lookup key.
type Company struct {
	ID    int64  `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"column:name" json:"name"`
	Users []User `gorm:"foreignKey:CompanyID" json:"users,omitempty"`
}

func (Company) TableName() string {
	return "company"
}

// Payment is an amount received by exactly one user.
type Payment struct {
	ID         int64 `gorm:"primaryKey" json:"id"`
	Amount     int   `gorm:"column:amount" json:"amount"`
	ReceiverID int64 `gorm:"column:receiver_id" json:"receiver_id"`
	Receiver   *User `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
}

func (Payment) TableName() string {
	return "payment"
}

// Profile holds per-user settings.
type Profile struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	UserID   int64  `gorm:"column:user_id" json:"user_id"`
	Street   string `gorm:"column:street" json:"street"`
	Language string `gorm:"column:language" json:"language"`
}

func (Profile) TableName() string {
	return "profile"
}
