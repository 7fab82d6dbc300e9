package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"libraryhub/internal/api/dto"
	"libraryhub/internal/api/middleware"
	"libraryhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type BorrowHandler struct {
	svc service.BorrowService
}

func NewBorrowHandler(svc service.BorrowService) *BorrowHandler {
	return &BorrowHandler{svc: svc}
}

func (h *BorrowHandler) Borrow(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	bookID, err := strconv.ParseInt(c.Param("book_id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid book id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	record, err := h.svc.Borrow(ctx, user.ID, bookID)
	switch {
	case errors.Is(err, service.ErrBookNotFound):
		respondError(c, http.StatusNotFound, "Book not found")
		return
	case errors.Is(err, service.ErrNoCopiesAvailable), errors.Is(err, service.ErrAlreadyBorrowed):
		respondError(c, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.FromBorrowRecord(*record))
}

func (h *BorrowHandler) Return(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	bookID, err := strconv.ParseInt(c.Param("book_id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid book id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	record, err := h.svc.Return(ctx, user.ID, bookID)
	switch {
	case errors.Is(err, service.ErrNoActiveBorrow):
		respondError(c, http.StatusNotFound, err.Error())
		return
	case err != nil:
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.FromBorrowRecord(*record))
}

func (h *BorrowHandler) ListBorrowed(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	records, err := h.svc.ListBorrowed(ctx, user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	resp := make([]dto.BorrowRecordResponse, 0, len(records))
	for _, r := range records {
		resp = append(resp, dto.FromBorrowRecord(r))
	}
	c.JSON(http.StatusOK, resp)
}

// ListBorrowedDetails returns the user's records with book snapshots, open
// loans first.
func (h *BorrowHandler) ListBorrowedDetails(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	records, err := h.svc.ListBorrowedWithBooks(ctx, user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	resp := make([]dto.BorrowRecordWithBookResponse, 0, len(records))
	for _, r := range records {
		resp = append(resp, dto.FromBorrowRecordWithBook(r))
	}
	c.JSON(http.StatusOK, resp)
}
