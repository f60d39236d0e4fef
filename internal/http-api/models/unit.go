package models

type Unit struct {
	ID         int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	BookID     int64   `gorm:"not null;index" json:"book_id"`
	Title      string  `gorm:"not null" json:"title"`
	Objective  *string `json:"objective,omitempty"`
	OrderIndex int     `gorm:"default:0" json:"order_index"`

	Book Book `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Unit) TableName() string {
	return "units"
}
