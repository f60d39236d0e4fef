package models

import "time"

// Book levels follow CEFR naming.
const (
	LevelA1 = "A1"
	LevelA2 = "A2"
	LevelB1 = "B1"
	LevelB2 = "B2"
	LevelC1 = "C1"
	LevelC2 = "C2"
)

type Book struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description *string    `json:"description,omitempty"`
	Thumbnail   *string    `json:"thumbnail,omitempty"`
	Level       *string    `gorm:"size:2" json:"level,omitempty"`
	CreatedAt   *time.Time `gorm:"autoCreateTime" json:"created_at,omitempty"`
}

func (Book) TableName() string {
	return "books"
}
