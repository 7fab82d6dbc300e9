package dto

import (
	"time"

	"libraryhub/internal/api/models"
)

// BorrowRecordResponse: one borrow event; return_date null while open
type BorrowRecordResponse struct {
	ID         int64      `json:"id"`
	UserID     string     `json:"user_id"`
	BookID     int64      `json:"book_id"`
	BorrowDate time.Time  `json:"borrow_date"`
	ReturnDate *time.Time `json:"return_date"`
}

func FromBorrowRecord(r models.BorrowRecord) BorrowRecordResponse {
	return BorrowRecordResponse{
		ID:         r.ID,
		UserID:     r.UserID,
		BookID:     r.BookID,
		BorrowDate: r.BorrowDate,
		ReturnDate: r.ReturnDate,
	}
}

// BorrowRecordWithBookResponse: the "with details" view
type BorrowRecordWithBookResponse struct {
	BorrowRecordResponse
	Book *BookResponse `json:"book,omitempty"`
}

func FromBorrowRecordWithBook(r models.BorrowRecord) BorrowRecordWithBookResponse {
	resp := BorrowRecordWithBookResponse{
		BorrowRecordResponse: FromBorrowRecord(r),
	}
	if r.Book != nil {
		book := FromBook(*r.Book)
		resp.Book = &book
	}
	return resp
}
