package models

// UserRole identifies who a session belongs to
type UserRole string

const (
	RoleUser    UserRole = "user"
	RolePartner UserRole = "partner"
	RoleAdmin   UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleUser, RolePartner, RoleAdmin:
		return true
	}
	return false
}

// User is a customer account. Customers authenticate with email or name plus phone.
type User struct {
	UserID  uint   `json:"user_id" gorm:"primaryKey"`
	Name    string `json:"name" gorm:"size:100;not null"`
	Email   string `json:"email" gorm:"size:100;uniqueIndex;not null"`
	Address string `json:"address" gorm:"size:255"`
	Phone   string `json:"phone" gorm:"size:20;index"`
}

func (User) TableName() string { return "user" }
