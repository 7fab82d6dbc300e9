package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"libraryhub/internal/api/dto"
	"libraryhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	svc service.ReportService
}

func NewAdminHandler(svc service.ReportService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
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
	activeOnly := c.Query("active_only") == "true"

	users, err := h.svc.ListUsersWithStats(ctx, skip, limit, activeOnly)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	resp := make([]dto.UserWithStatsResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, dto.FromUserWithStats(u))
	}
	c.JSON(http.StatusOK, resp)
}

// BorrowingHistory serves the filterable system-wide ledger report.
func (h *AdminHandler) BorrowingHistory(c *gin.Context) {
	var q service.HistoryQuery

	q.Skip = 0
	q.Limit = 20

	if s := strings.TrimSpace(c.Query("skip")); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed >= 0 {
			q.Skip = parsed
		}
	}
	if l := strings.TrimSpace(c.Query("limit")); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed >= 1 && parsed <= 100 {
			q.Limit = parsed
		}
	}

	if userID := strings.TrimSpace(c.Query("user_id")); userID != "" {
		q.UserID = &userID
	}
	if bookIDStr := strings.TrimSpace(c.Query("book_id")); bookIDStr != "" {
		bookID, err := strconv.ParseInt(bookIDStr, 10, 64)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid book_id parameter")
			return
		}
		q.BookID = &bookID
	}

	q.ActiveOnly = c.Query("active_only") == "true"
	q.OverdueOnly = c.Query("overdue_only") == "true"

	if startStr := strings.TrimSpace(c.Query("start_date")); startStr != "" {
		start, err := parseDateParam(startStr)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid start_date parameter")
			return
		}
		q.StartDate = &start
	}
	if endStr := strings.TrimSpace(c.Query("end_date")); endStr != "" {
		end, err := parseDateParam(endStr)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid end_date parameter")
			return
		}
		q.EndDate = &end
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	entries, err := h.svc.History(ctx, q)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	resp := make([]dto.HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, dto.FromHistoryEntry(e))
	}
	c.JSON(http.StatusOK, resp)
}

// parseDateParam accepts RFC3339 timestamps or bare dates.
func parseDateParam(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
