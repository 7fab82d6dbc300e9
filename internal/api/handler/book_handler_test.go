package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"libraryhub/internal/api/dto"
	"libraryhub/internal/api/handler"
	"libraryhub/internal/api/models"
	"libraryhub/internal/api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockBookService mocks the BookService interface
type MockBookService struct {
	mock.Mock
}

func (m *MockBookService) List(ctx context.Context, skip, limit int, title, author string) ([]models.Book, error) {
	args := m.Called(ctx, skip, limit, title, author)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookService) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookService) Create(ctx context.Context, book *models.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookService) Update(ctx context.Context, id int64, in *models.Book) (*models.Book, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestBookHandler_List(t *testing.T) {
	mockSvc := new(MockBookService)
	h := handler.NewBookHandler(mockSvc)

	books := []models.Book{
		{ID: 1, Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593", TotalCopies: 3, AvailableCopies: 2},
	}
	mockSvc.On("List", mock.Anything, 5, 20, "dune", "").Return(books, nil)

	r := gin.New()
	r.GET("/books", h.List)

	req := httptest.NewRequest(http.MethodGet, "/books?skip=5&limit=20&title=dune", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []dto.BookResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 1)
	assert.Equal(t, "Dune", resp[0].Title)
	mockSvc.AssertExpectations(t)
}

func TestBookHandler_List_IgnoresBadPagination(t *testing.T) {
	mockSvc := new(MockBookService)
	h := handler.NewBookHandler(mockSvc)

	mockSvc.On("List", mock.Anything, 0, 10, "", "").Return([]models.Book{}, nil)

	r := gin.New()
	r.GET("/books", h.List)

	req := httptest.NewRequest(http.MethodGet, "/books?skip=-3&limit=9999", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestBookHandler_Get_NotFound(t *testing.T) {
	mockSvc := new(MockBookService)
	h := handler.NewBookHandler(mockSvc)

	mockSvc.On("GetByID", mock.Anything, int64(42)).Return(nil, service.ErrBookNotFound)

	r := gin.New()
	r.GET("/books/:book_id", h.Get)

	req := httptest.NewRequest(http.MethodGet, "/books/42", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp dto.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Book not found", resp.Message)
	mockSvc.AssertExpectations(t)
}

func TestBookHandler_Get_InvalidID(t *testing.T) {
	mockSvc := new(MockBookService)
	h := handler.NewBookHandler(mockSvc)

	r := gin.New()
	r.GET("/books/:book_id", h.Get)

	req := httptest.NewRequest(http.MethodGet, "/books/abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestBookHandler_Create_Created(t *testing.T) {
	mockSvc := new(MockBookService)
	h := handler.NewBookHandler(mockSvc)

	mockSvc.On("Create", mock.Anything, mock.AnythingOfType("*models.Book")).Return(nil)

	r := gin.New()
	r.POST("/books", h.Create)

	body, _ := json.Marshal(dto.BookRequest{Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593", TotalCopies: 3})
	req := httptest.NewRequest(http.MethodPost, "/books", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestBookHandler_Create_DuplicateISBN(t *testing.T) {
	mockSvc := new(MockBookService)
	h := handler.NewBookHandler(mockSvc)

	mockSvc.On("Create", mock.Anything, mock.AnythingOfType("*models.Book")).Return(service.ErrISBNInUse)

	r := gin.New()
	r.POST("/books", h.Create)

	body, _ := json.Marshal(dto.BookRequest{Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593", TotalCopies: 3})
	req := httptest.NewRequest(http.MethodPost, "/books", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestBookHandler_Create_BadDate(t *testing.T) {
	mockSvc := new(MockBookService)
	h := handler.NewBookHandler(mockSvc)

	r := gin.New()
	r.POST("/books", h.Create)

	badDate := "15-06-2025"
	body, _ := json.Marshal(dto.BookRequest{Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593", TotalCopies: 3, PublishedDate: &badDate})
	req := httptest.NewRequest(http.MethodPost, "/books", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBookHandler_Update_NotFound(t *testing.T) {
	mockSvc := new(MockBookService)
	h := handler.NewBookHandler(mockSvc)

	mockSvc.On("Update", mock.Anything, int64(42), mock.AnythingOfType("*models.Book")).Return(nil, service.ErrBookNotFound)

	r := gin.New()
	r.PUT("/books/:book_id", h.Update)

	body, _ := json.Marshal(dto.BookRequest{Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593", TotalCopies: 3})
	req := httptest.NewRequest(http.MethodPut, "/books/42", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestBookHandler_Delete_NoContent(t *testing.T) {
	mockSvc := new(MockBookService)
	h := handler.NewBookHandler(mockSvc)

	mockSvc.On("Delete", mock.Anything, int64(1)).Return(nil)

	r := gin.New()
	r.DELETE("/books/:book_id", h.Delete)

	req := httptest.NewRequest(http.MethodDelete, "/books/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	mockSvc.AssertExpectations(t)
}

func TestBookHandler_Delete_OpenLoans(t *testing.T) {
	mockSvc := new(MockBookService)
	h := handler.NewBookHandler(mockSvc)

	mockSvc.On("Delete", mock.Anything, int64(1)).Return(service.ErrBookHasOpenLoans)

	r := gin.New()
	r.DELETE("/books/:book_id", h.Delete)

	req := httptest.NewRequest(http.MethodDelete, "/books/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockSvc.AssertExpectations(t)
}
