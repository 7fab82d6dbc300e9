package dto

import (
	"fmt"
	"time"

	"libraryhub/internal/api/models"
)

const dateLayout = "2006-01-02"

// BookRequest used for POST /books and PUT /books/:book_id (full replace)
type BookRequest struct {
	Title         string  `json:"title" binding:"required"`
	Author        string  `json:"author" binding:"required"`
	PublishedDate *string `json:"published_date,omitempty"`
	ISBN          string  `json:"isbn" binding:"required"`
	TotalCopies   int     `json:"total_copies" binding:"required,min=1"`
}

// ToModel converts the request into a Book, parsing the published date.
func (d BookRequest) ToModel() (models.Book, error) {
	book := models.Book{
		Title:       d.Title,
		Author:      d.Author,
		ISBN:        d.ISBN,
		TotalCopies: d.TotalCopies,
	}
	if d.PublishedDate != nil && *d.PublishedDate != "" {
		parsed, err := time.Parse(dateLayout, *d.PublishedDate)
		if err != nil {
			return models.Book{}, fmt.Errorf("published_date must be formatted as %s", dateLayout)
		}
		book.PublishedDate = &parsed
	}
	return book, nil
}

// BookResponse DTO for catalog responses
type BookResponse struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	PublishedDate   *string `json:"published_date,omitempty"`
	ISBN            string  `json:"isbn"`
	TotalCopies     int     `json:"total_copies"`
	AvailableCopies int     `json:"available_copies"`
}

func FromBook(b models.Book) BookResponse {
	resp := BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		ISBN:            b.ISBN,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
	}
	if b.PublishedDate != nil {
		formatted := b.PublishedDate.Format(dateLayout)
		resp.PublishedDate = &formatted
	}
	return resp
}
