package dto

import (
	"libraryhub/internal/api/service"
)

// UserWithStatsResponse: user plus borrowing counts for the admin user list
type UserWithStatsResponse struct {
	UserResponse
	TotalBooksBorrowed int64 `json:"total_books_borrowed"`
	ActiveBorrowings   int64 `json:"active_borrowings"`
	OverdueBorrowings  int64 `json:"overdue_borrowings"`
}

func FromUserWithStats(u service.UserWithStats) UserWithStatsResponse {
	return UserWithStatsResponse{
		UserResponse:       FromUser(u.User),
		TotalBooksBorrowed: u.Stats.TotalBorrowed,
		ActiveBorrowings:   u.Stats.ActiveBorrowings,
		OverdueBorrowings:  u.Stats.OverdueBorrowings,
	}
}

// HistoryEntryResponse: a borrow record enriched with user and book snapshots
// plus the computed loan duration and overdue flag
type HistoryEntryResponse struct {
	BorrowRecordResponse
	User         *UserResponse `json:"user,omitempty"`
	Book         *BookResponse `json:"book,omitempty"`
	DurationDays float64       `json:"duration_days"`
	IsOverdue    bool          `json:"is_overdue"`
}

func FromHistoryEntry(e service.HistoryEntry) HistoryEntryResponse {
	resp := HistoryEntryResponse{
		BorrowRecordResponse: FromBorrowRecord(e.Record),
		DurationDays:         e.DurationDays,
		IsOverdue:            e.IsOverdue,
	}
	if e.Record.User != nil {
		user := FromUser(*e.Record.User)
		resp.User = &user
	}
	if e.Record.Book != nil {
		book := FromBook(*e.Record.Book)
		resp.Book = &book
	}
	return resp
}
