package models

import "time"

// Note is a learner's personal note on a unit. A user can keep several notes
// per unit; listings are scoped to (user, unit).
type Note struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AppUserID int64     `gorm:"not null;index:idx_note_user_unit" json:"app_user_id"`
	UnitID    int64     `gorm:"not null;index:idx_note_user_unit" json:"unit_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	AppUser AppUser `gorm:"foreignKey:AppUserID;constraint:OnDelete:CASCADE" json:"-"`
	Unit    Unit    `gorm:"foreignKey:UnitID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Note) TableName() string {
	return "notes"
}
