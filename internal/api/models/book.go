package models

import (
	"time"
)

type Book struct {
	ID              int64      `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"index;not null" json:"title"`
	Author          string     `gorm:"not null" json:"author"`
	PublishedDate   *time.Time `gorm:"type:date" json:"published_date,omitempty"`
	ISBN            string     `gorm:"uniqueIndex;not null" json:"isbn"`
	TotalCopies     int        `gorm:"not null" json:"total_copies"`
	AvailableCopies int        `gorm:"not null" json:"available_copies"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// CopiesOnLoan is the number of copies currently borrowed.
func (b Book) CopiesOnLoan() int {
	return b.TotalCopies - b.AvailableCopies
}

func (Book) TableName() string {
	return "books"
}
