package models

import (
	"time"
)

// BorrowRecord links a user to a book they borrowed. A record is open while
// ReturnDate is nil; returned records stay around as history.
type BorrowRecord struct {
	ID         int64      `gorm:"primaryKey" json:"id"`
	UserID     string     `gorm:"type:uuid;index;not null" json:"user_id"`
	BookID     int64      `gorm:"index;not null" json:"book_id"`
	BorrowDate time.Time  `gorm:"index;not null" json:"borrow_date"`
	ReturnDate *time.Time `gorm:"index" json:"return_date"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
	Book *Book `gorm:"foreignKey:BookID" json:"-"`
}

// IsOpen reports whether the book has not been returned yet.
func (r BorrowRecord) IsOpen() bool {
	return r.ReturnDate == nil
}

// Duration returns the loan duration: borrow-to-return when closed,
// borrow-to-now when still open.
func (r BorrowRecord) Duration(now time.Time) time.Duration {
	if r.ReturnDate != nil {
		return r.ReturnDate.Sub(r.BorrowDate)
	}
	return now.Sub(r.BorrowDate)
}

func (BorrowRecord) TableName() string {
	return "borrowed_books"
}
