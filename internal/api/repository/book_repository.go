package repository

import (
	"context"
	"fmt"

	"libraryhub/internal/api/models"

	"gorm.io/gorm"
)

// BookRepository defines the interface for catalog data operations.
type BookRepository interface {
	List(ctx context.Context, skip, limit int, title, author string) ([]models.Book, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	FindByISBN(ctx context.Context, isbn string) (*models.Book, error)
	Create(ctx context.Context, book *models.Book) error
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id int64) error
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// List applies case-insensitive substring filters on title and author when
// provided, with offset/limit pagination.
func (r *bookRepository) List(ctx context.Context, skip, limit int, title, author string) ([]models.Book, error) {
	var books []models.Book
	q := r.db.WithContext(ctx).Model(&models.Book{})
	if title != "" {
		q = q.Where("title ILIKE ?", "%"+title+"%")
	}
	if author != "" {
		q = q.Where("author ILIKE ?", "%"+author+"%")
	}
	if err := q.Order("id asc").Offset(skip).Limit(limit).Find(&books).Error; err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func (r *bookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	var b models.Book
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookRepository) FindByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	var b models.Book
	if err := r.db.WithContext(ctx).Where("isbn = ?", isbn).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	// GORM populates book.ID and book.CreatedAt
	return nil
}

func (r *bookRepository) Update(ctx context.Context, book *models.Book) error {
	if err := r.db.WithContext(ctx).Save(book).Error; err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Book{}, id).Error; err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}
