package models

type Vocabulary struct {
	ID            int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	ChapterID     int64   `gorm:"not null;index" json:"chapter_id"`
	Word          string  `gorm:"not null" json:"word"`
	Meaning       string  `gorm:"not null" json:"meaning"`
	Pronunciation *string `json:"pronunciation,omitempty"`
	AudioURL      *string `json:"audio_url,omitempty"`
	Example       *string `json:"example,omitempty"`

	Chapter Chapter `gorm:"foreignKey:ChapterID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Vocabulary) TableName() string {
	return "vocabularies"
}
