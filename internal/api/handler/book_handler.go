package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"libraryhub/internal/api/dto"
	"libraryhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type BookHandler struct {
	svc service.BookService
}

func NewBookHandler(svc service.BookService) *BookHandler {
	return &BookHandler{svc: svc}
}

func (h *BookHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	skip := 0
	limit := 10

	if s := c.Query("skip"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed >= 0 {
			skip = parsed
		}
	}
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed >= 1 && parsed <= 100 {
			limit = parsed
		}
	}

	books, err := h.svc.List(ctx, skip, limit, c.Query("title"), c.Query("author"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	resp := make([]dto.BookResponse, 0, len(books))
	for _, b := range books {
		resp = append(resp, dto.FromBook(b))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("book_id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid book id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	book, err := h.svc.GetByID(ctx, id)
	if errors.Is(err, service.ErrBookNotFound) {
		respondError(c, http.StatusNotFound, "Book not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.FromBook(*book))
}

func (h *BookHandler) Create(c *gin.Context) {
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	book, err := req.ToModel()
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	switch err := h.svc.Create(ctx, &book); {
	case errors.Is(err, service.ErrInvalidISBN):
		respondError(c, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, service.ErrISBNInUse):
		respondError(c, http.StatusConflict, err.Error())
		return
	case err != nil:
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusCreated, dto.FromBook(book))
}

func (h *BookHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("book_id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid book id")
		return
	}

	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	in, err := req.ToModel()
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	updated, err := h.svc.Update(ctx, id, &in)
	switch {
	case errors.Is(err, service.ErrBookNotFound):
		respondError(c, http.StatusNotFound, "Book not found")
		return
	case errors.Is(err, service.ErrInvalidISBN):
		respondError(c, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, service.ErrISBNInUse):
		respondError(c, http.StatusConflict, err.Error())
		return
	case err != nil:
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.FromBook(*updated))
}

func (h *BookHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("book_id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid book id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	switch err := h.svc.Delete(ctx, id); {
	case errors.Is(err, service.ErrBookNotFound):
		respondError(c, http.StatusNotFound, "Book not found")
		return
	case errors.Is(err, service.ErrBookHasOpenLoans):
		respondError(c, http.StatusConflict, err.Error())
		return
	case err != nil:
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.Status(http.StatusNoContent)
}
