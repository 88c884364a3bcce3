package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"moodDiaryAPI/internal/datekey"
	"moodDiaryAPI/internal/store"
	"moodDiaryAPI/internal/timerange"
	"moodDiaryAPI/internal/types/entry"
	"moodDiaryAPI/middleware"
	"moodDiaryAPI/services"
)

type EntryHandler struct {
	entryService *services.EntryService
}

func NewEntryHandler(entryService *services.EntryService) *EntryHandler {
	return &EntryHandler{
		entryService: entryService,
	}
}

// PUT /diary/entries/{date}
func (h *EntryHandler) UpsertEntry(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	accountID, ok := middleware.GetAccountID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req entry.UpsertEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	saved, err := h.entryService.UpsertEntry(ctx, accountID, mux.Vars(r)["date"], &req)
	if err != nil {
		respondWithDomainError(w, err, "Failed to save entry")
		return
	}

	respondWithJSON(w, http.StatusOK, saved)
}

// GET /diary/entries/{date}
func (h *EntryHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	accountID, ok := middleware.GetAccountID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	e, err := h.entryService.GetEntry(ctx, accountID, mux.Vars(r)["date"])
	if err != nil {
		respondWithDomainError(w, err, "Failed to get entry")
		return
	}

	respondWithJSON(w, http.StatusOK, e)
}

// DELETE /diary/entries/{date}
func (h *EntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	accountID, ok := middleware.GetAccountID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := h.entryService.DeleteEntry(ctx, accountID, mux.Vars(r)["date"]); err != nil {
		respondWithDomainError(w, err, "Failed to delete entry")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Entry deleted"})
}

// GET /diary/entries?range=30 or ?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *EntryHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	accountID, ok := middleware.GetAccountID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var (
		entries []entry.MoodEntry
		err     error
	)
	if start := r.URL.Query().Get("start"); start != "" {
		entries, err = h.entryService.ListCustomRange(ctx, accountID, start, r.URL.Query().Get("end"))
	} else {
		selector := r.URL.Query().Get("range")
		if selector == "" {
			selector = "30"
		}
		entries, err = h.entryService.ListRange(ctx, accountID, selector)
	}
	if err != nil {
		respondWithDomainError(w, err, "Failed to list entries")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

// GET /diary/calendar?year=2024&month=1
func (h *EntryHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	accountID, ok := middleware.GetAccountID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid year")
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid month")
		return
	}

	cal, err := h.entryService.GetCalendar(ctx, accountID, year, month)
	if err != nil {
		respondWithDomainError(w, err, "Failed to build calendar")
		return
	}

	respondWithJSON(w, http.StatusOK, cal)
}

// respondWithDomainError maps the engine error taxonomy onto HTTP statuses:
// local-input errors are 400s, missing records 404s, everything else a 500.
func respondWithDomainError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, datekey.ErrInvalidDateKey):
		respondWithError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
	case errors.Is(err, timerange.ErrInvalidRange):
		respondWithError(w, http.StatusBadRequest, "Invalid range")
	case errors.Is(err, entry.ErrInvalidMood):
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Mood must be between %d and %d", entry.MoodMin, entry.MoodMax))
	case errors.Is(err, store.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Entry not found")
	default:
		respondWithError(w, http.StatusInternalServerError, fallback)
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to marshal response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
