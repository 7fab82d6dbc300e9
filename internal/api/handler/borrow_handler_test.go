package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"libraryhub/internal/api/dto"
	"libraryhub/internal/api/handler"
	"libraryhub/internal/api/models"
	"libraryhub/internal/api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockBorrowService mocks the BorrowService interface
type MockBorrowService struct {
	mock.Mock
}

func (m *MockBorrowService) Borrow(ctx context.Context, userID string, bookID int64) (*models.BorrowRecord, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BorrowRecord), args.Error(1)
}

func (m *MockBorrowService) Return(ctx context.Context, userID string, bookID int64) (*models.BorrowRecord, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BorrowRecord), args.Error(1)
}

func (m *MockBorrowService) ListBorrowed(ctx context.Context, userID string) ([]models.BorrowRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BorrowRecord), args.Error(1)
}

func (m *MockBorrowService) ListBorrowedWithBooks(ctx context.Context, userID string) ([]models.BorrowRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BorrowRecord), args.Error(1)
}

func borrowTestUser() *models.User {
	return &models.User{ID: "u1", Username: "alice", IsActive: true}
}

func TestBorrowHandler_Borrow_Success(t *testing.T) {
	mockSvc := new(MockBorrowService)
	h := handler.NewBorrowHandler(mockSvc)

	record := &models.BorrowRecord{ID: 1, UserID: "u1", BookID: 7, BorrowDate: time.Now().UTC()}
	mockSvc.On("Borrow", mock.Anything, "u1", int64(7)).Return(record, nil)

	r := gin.New()
	r.POST("/borrow/:book_id", injectUser(borrowTestUser()), h.Borrow)

	req := httptest.NewRequest(http.MethodPost, "/borrow/7", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.BorrowRecordResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.BookID)
	assert.Nil(t, resp.ReturnDate)
	mockSvc.AssertExpectations(t)
}

func TestBorrowHandler_Borrow_BookNotFound(t *testing.T) {
	mockSvc := new(MockBorrowService)
	h := handler.NewBorrowHandler(mockSvc)

	mockSvc.On("Borrow", mock.Anything, "u1", int64(99)).Return(nil, service.ErrBookNotFound)

	r := gin.New()
	r.POST("/borrow/:book_id", injectUser(borrowTestUser()), h.Borrow)

	req := httptest.NewRequest(http.MethodPost, "/borrow/99", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestBorrowHandler_Borrow_NoCopies(t *testing.T) {
	mockSvc := new(MockBorrowService)
	h := handler.NewBorrowHandler(mockSvc)

	mockSvc.On("Borrow", mock.Anything, "u1", int64(7)).Return(nil, service.ErrNoCopiesAvailable)

	r := gin.New()
	r.POST("/borrow/:book_id", injectUser(borrowTestUser()), h.Borrow)

	req := httptest.NewRequest(http.MethodPost, "/borrow/7", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestBorrowHandler_Borrow_AlreadyBorrowed(t *testing.T) {
	mockSvc := new(MockBorrowService)
	h := handler.NewBorrowHandler(mockSvc)

	mockSvc.On("Borrow", mock.Anything, "u1", int64(7)).Return(nil, service.ErrAlreadyBorrowed)

	r := gin.New()
	r.POST("/borrow/:book_id", injectUser(borrowTestUser()), h.Borrow)

	req := httptest.NewRequest(http.MethodPost, "/borrow/7", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestBorrowHandler_Borrow_NoUser(t *testing.T) {
	mockSvc := new(MockBorrowService)
	h := handler.NewBorrowHandler(mockSvc)

	r := gin.New()
	r.POST("/borrow/:book_id", h.Borrow)

	req := httptest.NewRequest(http.MethodPost, "/borrow/7", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockSvc.AssertNotCalled(t, "Borrow", mock.Anything, mock.Anything, mock.Anything)
}

func TestBorrowHandler_Return_Success(t *testing.T) {
	mockSvc := new(MockBorrowService)
	h := handler.NewBorrowHandler(mockSvc)

	now := time.Now().UTC()
	record := &models.BorrowRecord{ID: 1, UserID: "u1", BookID: 7, BorrowDate: now.Add(-48 * time.Hour), ReturnDate: &now}
	mockSvc.On("Return", mock.Anything, "u1", int64(7)).Return(record, nil)

	r := gin.New()
	r.POST("/return/:book_id", injectUser(borrowTestUser()), h.Return)

	req := httptest.NewRequest(http.MethodPost, "/return/7", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.BorrowRecordResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotNil(t, resp.ReturnDate)
	mockSvc.AssertExpectations(t)
}

func TestBorrowHandler_Return_NoActiveBorrow(t *testing.T) {
	mockSvc := new(MockBorrowService)
	h := handler.NewBorrowHandler(mockSvc)

	mockSvc.On("Return", mock.Anything, "u1", int64(7)).Return(nil, service.ErrNoActiveBorrow)

	r := gin.New()
	r.POST("/return/:book_id", injectUser(borrowTestUser()), h.Return)

	req := httptest.NewRequest(http.MethodPost, "/return/7", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestBorrowHandler_ListBorrowed(t *testing.T) {
	mockSvc := new(MockBorrowService)
	h := handler.NewBorrowHandler(mockSvc)

	records := []models.BorrowRecord{
		{ID: 2, UserID: "u1", BookID: 8, BorrowDate: time.Now().UTC()},
		{ID: 1, UserID: "u1", BookID: 7, BorrowDate: time.Now().UTC().Add(-24 * time.Hour)},
	}
	mockSvc.On("ListBorrowed", mock.Anything, "u1").Return(records, nil)

	r := gin.New()
	r.GET("/borrowed", injectUser(borrowTestUser()), h.ListBorrowed)

	req := httptest.NewRequest(http.MethodGet, "/borrowed", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []dto.BorrowRecordResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
	mockSvc.AssertExpectations(t)
}

func TestBorrowHandler_ListBorrowedDetails(t *testing.T) {
	mockSvc := new(MockBorrowService)
	h := handler.NewBorrowHandler(mockSvc)

	records := []models.BorrowRecord{
		{
			ID: 1, UserID: "u1", BookID: 7, BorrowDate: time.Now().UTC(),
			Book: &models.Book{ID: 7, Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593"},
		},
	}
	mockSvc.On("ListBorrowedWithBooks", mock.Anything, "u1").Return(records, nil)

	r := gin.New()
	r.GET("/borrowed/details", injectUser(borrowTestUser()), h.ListBorrowedDetails)

	req := httptest.NewRequest(http.MethodGet, "/borrowed/details", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []dto.BorrowRecordWithBookResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 1)
	assert.NotNil(t, resp[0].Book)
	assert.Equal(t, "Dune", resp[0].Book.Title)
	mockSvc.AssertExpectations(t)
}
