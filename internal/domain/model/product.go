package model

import (
	"time"
)

// Priceは最小通貨単位（セント）で保持する
type Product struct {
	ID           string    `gorm:"type:varchar(36);primaryKey"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Category     string    `gorm:"type:varchar(100);not null;index"`
	Brand        string    `gorm:"type:varchar(100);not null;default:''"`
	Description  string    `gorm:"type:text"`
	Price        int64     `gorm:"not null;index"`
	CountInStock int64     `gorm:"not null;default:0"`
	Rating       float64   `gorm:"not null;default:0"`
	NumReviews   int64     `gorm:"not null;default:0"`
	Image        string    `gorm:"type:varchar(512);not null;default:''"`
	CreatedAt    time.Time `gorm:"not null;index"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// 評価の上限
const MaxRating = 5.0
