package models

// AppUser is the learner profile attached to a credential User.
// Progress, enrollments and other learning state hang off this row,
// keeping the auth table free of domain fields.
type AppUser struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      string `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	DisplayName string `json:"display_name"`
	Level       int    `gorm:"default:1" json:"level"`
	Points      int    `gorm:"default:0" json:"points"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (AppUser) TableName() string {
	return "app_users"
}
