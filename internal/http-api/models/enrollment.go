package models

import "time"

// Enrollment statuses.
const (
	EnrollmentActive    = "active"
	EnrollmentCompleted = "completed"
	EnrollmentDropped   = "dropped"
)

type Enrollment struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AppUserID  int64     `gorm:"not null;uniqueIndex:idx_enrollment_pair" json:"app_user_id"`
	BookID     int64     `gorm:"not null;uniqueIndex:idx_enrollment_pair" json:"book_id"`
	Status     string    `gorm:"default:'active';not null" json:"status"`
	EnrolledAt time.Time `gorm:"autoCreateTime" json:"enrolled_at"`

	AppUser AppUser `gorm:"foreignKey:AppUserID;constraint:OnDelete:CASCADE" json:"-"`
	Book    Book    `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
