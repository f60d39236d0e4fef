package models

// Exercise types supported by the exercise player.
const (
	ExerciseMultipleChoice = "multiple_choice"
	ExerciseFillBlank      = "fill_blank"
	ExerciseListening      = "listening"
)

type Exercise struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ChapterID int64  `gorm:"not null;index" json:"chapter_id"`
	Question  string `gorm:"type:text;not null" json:"question"`
	Type      string `gorm:"not null" json:"type"`

	Chapter Chapter          `gorm:"foreignKey:ChapterID;constraint:OnDelete:CASCADE" json:"-"`
	Options []ExerciseOption `gorm:"foreignKey:ExerciseID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
}

type ExerciseOption struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ExerciseID int64  `gorm:"not null;index" json:"exercise_id"`
	Text       string `gorm:"not null" json:"text"`
	Correct    bool   `gorm:"default:false" json:"correct"`
}

func (Exercise) TableName() string {
	return "exercises"
}

func (ExerciseOption) TableName() string {
	return "exercise_options"
}
