package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"libraryhub/internal/api/models"
	"libraryhub/internal/api/repository"
	"libraryhub/internal/config"
	"libraryhub/internal/logging"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	ErrBookNotFound     = errors.New("book not found")
	ErrISBNInUse        = errors.New("book with this ISBN already exists")
	ErrInvalidISBN      = errors.New("invalid ISBN format")
	ErrBookHasOpenLoans = errors.New("cannot delete book with active borrowings")
)

// ISBN-10 or ISBN-13 without separators
var isbnPattern = regexp.MustCompile(`^(97(8|9))?\d{9}(\d|X)$`)

type BookService interface {
	List(ctx context.Context, skip, limit int, title, author string) ([]models.Book, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, book *models.Book) error
	Update(ctx context.Context, id int64, in *models.Book) (*models.Book, error)
	Delete(ctx context.Context, id int64) error
}

type bookService struct {
	repo       repository.BookRepository
	borrowRepo repository.BorrowRepository
	cache      *redis.Client
	cacheTTL   time.Duration
}

func NewBookService(repo repository.BookRepository, borrowRepo repository.BorrowRepository, cache *redis.Client, cfg *config.Config) BookService {
	return &bookService{
		repo:       repo,
		borrowRepo: borrowRepo,
		cache:      cache,
		cacheTTL:   cfg.CacheTTL,
	}
}

func bookCacheKey(id int64) string {
	return fmt.Sprintf("book:%d", id)
}

func (s *bookService) List(ctx context.Context, skip, limit int, title, author string) ([]models.Book, error) {
	if skip < 0 {
		skip = 0
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.List(ctx, skip, limit, title, author)
}

// GetByID reads through the Redis cache. Cache failures fall back to the
// database and never fail the request.
func (s *bookService) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, bookCacheKey(id)).Bytes(); err == nil {
			var cached models.Book
			if json.Unmarshal(data, &cached) == nil {
				return &cached, nil
			}
		}
	}

	book, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(book); err == nil {
			if err := s.cache.Set(ctx, bookCacheKey(id), data, s.cacheTTL).Err(); err != nil {
				logging.Logger.WithError(err).Warn("book cache set failed")
			}
		}
	}

	return book, nil
}

func (s *bookService) Create(ctx context.Context, book *models.Book) error {
	if !isbnPattern.MatchString(book.ISBN) {
		return ErrInvalidISBN
	}

	if _, err := s.repo.FindByISBN(ctx, book.ISBN); err == nil {
		return ErrISBNInUse
	}

	book.AvailableCopies = book.TotalCopies
	return s.repo.Create(ctx, book)
}

// Update replaces the book's descriptive fields. When total_copies changes,
// available_copies is recomputed so the count of copies currently on loan is
// preserved, clamped at zero.
func (s *bookService) Update(ctx context.Context, id int64, in *models.Book) (*models.Book, error) {
	if !isbnPattern.MatchString(in.ISBN) {
		return nil, ErrInvalidISBN
	}

	book, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}

	if in.ISBN != book.ISBN {
		if existing, err := s.repo.FindByISBN(ctx, in.ISBN); err == nil && existing.ID != id {
			return nil, ErrISBNInUse
		}
	}

	if in.TotalCopies != book.TotalCopies {
		onLoan := book.CopiesOnLoan()
		book.AvailableCopies = in.TotalCopies - onLoan
		if book.AvailableCopies < 0 {
			book.AvailableCopies = 0
		}
	}

	book.Title = in.Title
	book.Author = in.Author
	book.PublishedDate = in.PublishedDate
	book.ISBN = in.ISBN
	book.TotalCopies = in.TotalCopies

	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}

	s.evict(ctx, id)
	return book, nil
}

func (s *bookService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return err
	}

	hasOpen, err := s.borrowRepo.HasOpenForBook(ctx, id)
	if err != nil {
		return err
	}
	if hasOpen {
		return ErrBookHasOpenLoans
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.evict(ctx, id)
	return nil
}

func (s *bookService) evict(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, bookCacheKey(id)).Err(); err != nil {
		logging.Logger.WithError(err).Warn("book cache eviction failed")
	}
}
