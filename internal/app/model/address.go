package model

import (
	"time"

	"gorm.io/gorm"
)

type Address struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	UserID     uint           `gorm:"index;not null" json:"user_id"`
	Label      string         `json:"label"`
	Recipient  string         `gorm:"not null" json:"recipient"`
	Phone      string         `json:"phone"`
	Line1      string         `gorm:"not null" json:"line1"`
	Line2      string         `json:"line2"`
	City       string         `json:"city"`
	PostalCode string         `json:"postal_code"`
	Country    string         `gorm:"default:'KR'" json:"country"`
	IsDefault  bool           `gorm:"default:false" json:"is_default"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Address) TableName() string {
	return "addresses"
}
