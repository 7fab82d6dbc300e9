package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"libraryhub/internal/api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNoCopies        = errors.New("no copies available")
	ErrOpenBorrowFound = errors.New("open borrow record already exists")
	ErrNoOpenBorrow    = errors.New("no open borrow record")
)

// HistoryFilters narrows the borrowing history query. Nil pointer fields are
// not applied. OverdueBefore is the cutoff a still-open loan must predate to
// count as overdue.
type HistoryFilters struct {
	UserID        *string
	BookID        *int64
	ActiveOnly    bool
	OverdueOnly   bool
	StartDate     *time.Time
	EndDate       *time.Time
	OverdueBefore time.Time
	Skip          int
	Limit         int
}

// BorrowRepository owns the borrowed_books ledger. Borrow and Return execute
// their read-check-then-write sequence inside a single transaction holding a
// row lock on the book, so concurrent borrowers serialize per book.
type BorrowRepository interface {
	Borrow(ctx context.Context, userID string, bookID int64, now time.Time) (*models.BorrowRecord, error)
	Return(ctx context.Context, userID string, bookID int64, now time.Time) (*models.BorrowRecord, error)
	ListByUser(ctx context.Context, userID string) ([]models.BorrowRecord, error)
	ListByUserWithBooks(ctx context.Context, userID string) ([]models.BorrowRecord, error)
	HasOpenForBook(ctx context.Context, bookID int64) (bool, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	CountOpenByUser(ctx context.Context, userID string) (int64, error)
	CountOverdueByUser(ctx context.Context, userID string, before time.Time) (int64, error)
	History(ctx context.Context, f HistoryFilters) ([]models.BorrowRecord, error)
}

type borrowRepository struct {
	db *gorm.DB
}

func NewBorrowRepository(db *gorm.DB) BorrowRepository {
	return &borrowRepository{db: db}
}

// checkBorrowable enforces the borrow preconditions against the locked book
// row. Copy availability wins over the duplicate-borrow check when both fail.
func checkBorrowable(book models.Book, openRecords int64) error {
	if book.AvailableCopies <= 0 {
		return ErrNoCopies
	}
	if openRecords > 0 {
		return ErrOpenBorrowFound
	}
	return nil
}

// availableAfterReturn is the post-return available count, clamped at
// total_copies: when total_copies was shrunk while copies were on loan,
// returns must not push available above the new total.
func availableAfterReturn(book models.Book) int {
	if book.AvailableCopies+1 > book.TotalCopies {
		return book.TotalCopies
	}
	return book.AvailableCopies + 1
}

func (r *borrowRepository) Borrow(ctx context.Context, userID string, bookID int64, now time.Time) (*models.BorrowRecord, error) {
	var record *models.BorrowRecord

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book models.Book
		// FOR UPDATE: availability check and decrement must not race
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&book, bookID).Error; err != nil {
			return err
		}

		var open int64
		if err := tx.Model(&models.BorrowRecord{}).
			Where("user_id = ? AND book_id = ? AND return_date IS NULL", userID, bookID).
			Count(&open).Error; err != nil {
			return err
		}

		if err := checkBorrowable(book, open); err != nil {
			return err
		}

		record = &models.BorrowRecord{
			UserID:     userID,
			BookID:     bookID,
			BorrowDate: now,
		}
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("create borrow record: %w", err)
		}

		return tx.Model(&book).Update("available_copies", book.AvailableCopies-1).Error
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *borrowRepository) Return(ctx context.Context, userID string, bookID int64, now time.Time) (*models.BorrowRecord, error) {
	var record models.BorrowRecord

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book models.Book
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&book, bookID).Error; err != nil {
			return err
		}

		err := tx.Where("user_id = ? AND book_id = ? AND return_date IS NULL", userID, bookID).
			First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoOpenBorrow
		}
		if err != nil {
			return err
		}

		record.ReturnDate = &now
		if err := tx.Save(&record).Error; err != nil {
			return fmt.Errorf("close borrow record: %w", err)
		}

		return tx.Model(&book).Update("available_copies", availableAfterReturn(book)).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *borrowRepository) ListByUser(ctx context.Context, userID string) ([]models.BorrowRecord, error) {
	var records []models.BorrowRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("borrow_date desc").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list borrow records: %w", err)
	}
	return records, nil
}

// ListByUserWithBooks preloads the Book and puts open loans first.
func (r *borrowRepository) ListByUserWithBooks(ctx context.Context, userID string) ([]models.BorrowRecord, error) {
	var records []models.BorrowRecord
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", userID).
		Order("(return_date IS NULL) desc").
		Order("borrow_date desc").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list borrow records with books: %w", err)
	}
	return records, nil
}

func (r *borrowRepository) HasOpenForBook(ctx context.Context, bookID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.BorrowRecord{}).
		Where("book_id = ? AND return_date IS NULL", bookID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *borrowRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BorrowRecord{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *borrowRepository) CountOpenByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BorrowRecord{}).
		Where("user_id = ? AND return_date IS NULL", userID).
		Count(&count).Error
	return count, err
}

func (r *borrowRepository) CountOverdueByUser(ctx context.Context, userID string, before time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BorrowRecord{}).
		Where("user_id = ? AND return_date IS NULL AND borrow_date < ?", userID, before).
		Count(&count).Error
	return count, err
}

func (r *borrowRepository) History(ctx context.Context, f HistoryFilters) ([]models.BorrowRecord, error) {
	q := r.db.WithContext(ctx).
		Model(&models.BorrowRecord{}).
		Preload("User").
		Preload("Book")

	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.BookID != nil {
		q = q.Where("book_id = ?", *f.BookID)
	}
	if f.ActiveOnly {
		q = q.Where("return_date IS NULL")
	}
	if f.StartDate != nil {
		q = q.Where("borrow_date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("borrow_date <= ?", *f.EndDate)
	}
	if f.OverdueOnly {
		q = q.Where("return_date IS NULL AND borrow_date < ?", f.OverdueBefore)
	}

	var records []models.BorrowRecord
	if err := q.Order("borrow_date desc").Offset(f.Skip).Limit(f.Limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("borrowing history: %w", err)
	}
	return records, nil
}
