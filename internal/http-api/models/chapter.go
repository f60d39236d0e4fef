package models

type Chapter struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	BookID     int64  `gorm:"not null;index" json:"book_id"`
	Title      string `gorm:"not null" json:"title"`
	OrderIndex int    `gorm:"default:0" json:"order_index"`

	Book Book `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Chapter) TableName() string {
	return "chapters"
}
