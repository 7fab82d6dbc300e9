package service

import (
	"context"
	"errors"
	"time"

	"libraryhub/internal/api/models"
	"libraryhub/internal/api/repository"
	"libraryhub/internal/logging"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	ErrNoCopiesAvailable = errors.New("no copies available for borrowing")
	ErrAlreadyBorrowed   = errors.New("you already have an active borrowing for this book")
	ErrNoActiveBorrow    = errors.New("no active borrowing found for this book")
)

// LoanPeriodDays is how long a loan may stay open before counting as overdue.
const LoanPeriodDays = 14

// DurationDays is the loan duration in fractional days, borrow-to-return for
// closed records and borrow-to-now for open ones.
func DurationDays(r models.BorrowRecord, now time.Time) float64 {
	return r.Duration(now).Seconds() / 86400
}

// IsOverdue reports whether the loan exceeded the loan period.
func IsOverdue(r models.BorrowRecord, now time.Time) bool {
	return DurationDays(r, now) > LoanPeriodDays
}

type BorrowService interface {
	Borrow(ctx context.Context, userID string, bookID int64) (*models.BorrowRecord, error)
	Return(ctx context.Context, userID string, bookID int64) (*models.BorrowRecord, error)
	ListBorrowed(ctx context.Context, userID string) ([]models.BorrowRecord, error)
	ListBorrowedWithBooks(ctx context.Context, userID string) ([]models.BorrowRecord, error)
}

type borrowService struct {
	repo  repository.BorrowRepository
	cache *redis.Client
}

func NewBorrowService(repo repository.BorrowRepository, cache *redis.Client) BorrowService {
	return &borrowService{
		repo:  repo,
		cache: cache,
	}
}

// Borrow creates an open record and decrements the book's available copies as
// one atomic unit. The availability change makes any cached book stale.
func (s *borrowService) Borrow(ctx context.Context, userID string, bookID int64) (*models.BorrowRecord, error) {
	record, err := s.repo.Borrow(ctx, userID, bookID, time.Now().UTC())
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrBookNotFound
	case errors.Is(err, repository.ErrNoCopies):
		return nil, ErrNoCopiesAvailable
	case errors.Is(err, repository.ErrOpenBorrowFound):
		return nil, ErrAlreadyBorrowed
	case err != nil:
		return nil, err
	}

	s.evictBook(ctx, bookID)
	return record, nil
}

// Return closes the open record and increments available copies atomically.
func (s *borrowService) Return(ctx context.Context, userID string, bookID int64) (*models.BorrowRecord, error) {
	record, err := s.repo.Return(ctx, userID, bookID, time.Now().UTC())
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, repository.ErrNoOpenBorrow):
		return nil, ErrNoActiveBorrow
	case err != nil:
		return nil, err
	}

	s.evictBook(ctx, bookID)
	return record, nil
}

func (s *borrowService) ListBorrowed(ctx context.Context, userID string) ([]models.BorrowRecord, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *borrowService) ListBorrowedWithBooks(ctx context.Context, userID string) ([]models.BorrowRecord, error) {
	return s.repo.ListByUserWithBooks(ctx, userID)
}

func (s *borrowService) evictBook(ctx context.Context, bookID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, bookCacheKey(bookID)).Err(); err != nil {
		logging.Logger.WithError(err).Warn("book cache eviction failed")
	}
}
