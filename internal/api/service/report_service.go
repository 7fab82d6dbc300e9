package service

import (
	"context"
	"math"
	"time"

	"libraryhub/internal/api/models"
	"libraryhub/internal/api/repository"
)

// UserStats are three independent counts over a user's borrow records.
type UserStats struct {
	TotalBorrowed     int64
	ActiveBorrowings  int64
	OverdueBorrowings int64
}

// UserWithStats composes a user row with its borrowing counts, built
// field-by-field rather than merged dynamically.
type UserWithStats struct {
	User  models.User
	Stats UserStats
}

// HistoryEntry enriches a borrow record with its computed loan duration and
// overdue flag. User and Book snapshots ride along on the record.
type HistoryEntry struct {
	Record       models.BorrowRecord
	DurationDays float64
	IsOverdue    bool
}

// HistoryQuery narrows the borrowing history report. Nil fields are ignored.
type HistoryQuery struct {
	UserID      *string
	BookID      *int64
	ActiveOnly  bool
	OverdueOnly bool
	StartDate   *time.Time
	EndDate     *time.Time
	Skip        int
	Limit       int
}

type ReportService interface {
	UserStats(ctx context.Context, userID string) (*UserStats, error)
	ListUsersWithStats(ctx context.Context, skip, limit int, activeOnly bool) ([]UserWithStats, error)
	History(ctx context.Context, q HistoryQuery) ([]HistoryEntry, error)
}

type reportService struct {
	userRepo   repository.UserRepository
	borrowRepo repository.BorrowRepository
}

func NewReportService(userRepo repository.UserRepository, borrowRepo repository.BorrowRepository) ReportService {
	return &reportService{
		userRepo:   userRepo,
		borrowRepo: borrowRepo,
	}
}

func (s *reportService) UserStats(ctx context.Context, userID string) (*UserStats, error) {
	total, err := s.borrowRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	active, err := s.borrowRepo.CountOpenByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	overdueBefore := time.Now().UTC().AddDate(0, 0, -LoanPeriodDays)
	overdue, err := s.borrowRepo.CountOverdueByUser(ctx, userID, overdueBefore)
	if err != nil {
		return nil, err
	}

	return &UserStats{
		TotalBorrowed:     total,
		ActiveBorrowings:  active,
		OverdueBorrowings: overdue,
	}, nil
}

func (s *reportService) ListUsersWithStats(ctx context.Context, skip, limit int, activeOnly bool) ([]UserWithStats, error) {
	if skip < 0 {
		skip = 0
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	users, err := s.userRepo.List(ctx, skip, limit, activeOnly)
	if err != nil {
		return nil, err
	}

	result := make([]UserWithStats, 0, len(users))
	for _, u := range users {
		stats, err := s.UserStats(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, UserWithStats{User: u, Stats: *stats})
	}
	return result, nil
}

func (s *reportService) History(ctx context.Context, q HistoryQuery) ([]HistoryEntry, error) {
	if q.Skip < 0 {
		q.Skip = 0
	}
	if q.Limit < 1 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}

	now := time.Now().UTC()
	records, err := s.borrowRepo.History(ctx, repository.HistoryFilters{
		UserID:        q.UserID,
		BookID:        q.BookID,
		ActiveOnly:    q.ActiveOnly,
		OverdueOnly:   q.OverdueOnly,
		StartDate:     q.StartDate,
		EndDate:       q.EndDate,
		OverdueBefore: now.AddDate(0, 0, -LoanPeriodDays),
		Skip:          q.Skip,
		Limit:         q.Limit,
	})
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(records))
	for _, r := range records {
		duration := DurationDays(r, now)
		entries = append(entries, HistoryEntry{
			Record:       r,
			DurationDays: math.Round(duration*100) / 100,
			IsOverdue:    duration > LoanPeriodDays,
		})
	}
	return entries, nil
}
