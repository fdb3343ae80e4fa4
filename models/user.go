package models

// User is a registered account. The account whose ID matches the configured
// admin ID (1 by default) is the administrator.
type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Email        string `json:"email" gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"column:password;size:200"`
	Name         string `json:"name" gorm:"size:250"`
	Cafes        []Cafe `json:"cafes,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL"`
}

func (User) TableName() string {
	return "users"
}
