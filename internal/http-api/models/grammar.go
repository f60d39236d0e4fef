package models

type Grammar struct {
	ID        int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	ChapterID int64   `gorm:"not null;index" json:"chapter_id"`
	Title     string  `gorm:"not null" json:"title"`
	Content   string  `gorm:"type:text;not null" json:"content"`
	Example   *string `json:"example,omitempty"`

	Chapter Chapter `gorm:"foreignKey:ChapterID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Grammar) TableName() string {
	return "grammars"
}
