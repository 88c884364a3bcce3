package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"moodDiaryAPI/middleware"
	"moodDiaryAPI/services"
)

type StatsHandler struct {
	statsService  *services.StatsService
	streakService *services.StreakService
}

func NewStatsHandler(statsService *services.StatsService, streakService *services.StreakService) *StatsHandler {
	return &StatsHandler{
		statsService:  statsService,
		streakService: streakService,
	}
}

// GET /diary/stats?range=7|30|week|month
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	accountID, ok := middleware.GetAccountID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	selector := r.URL.Query().Get("range")
	if selector == "" {
		selector = "7"
	}

	result, err := h.statsService.GetRangeStats(ctx, accountID, selector)
	if result == nil {
		respondWithDomainError(w, err, "Failed to compute stats")
		return
	}
	if err != nil {
		// Store was unreachable: the payload carries the zero-entry defaults
		// and is flagged degraded rather than failing the dashboard.
		log.Printf("StatsHandler: serving degraded stats for %s: %v", accountID, err)
	}

	respondWithJSON(w, http.StatusOK, result)
}

// GET /diary/stats/custom?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *StatsHandler) GetCustomStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	accountID, ok := middleware.GetAccountID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	result, err := h.statsService.GetCustomRangeStats(ctx, accountID, r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if result == nil {
		respondWithDomainError(w, err, "Failed to compute stats")
		return
	}
	if err != nil {
		log.Printf("StatsHandler: serving degraded stats for %s: %v", accountID, err)
	}

	respondWithJSON(w, http.StatusOK, result)
}

// GET /diary/streak
func (h *StatsHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	accountID, ok := middleware.GetAccountID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	cache, err := h.streakService.GetStreak(ctx, accountID)
	if err != nil {
		respondWithDomainError(w, err, "Failed to get streak")
		return
	}

	respondWithJSON(w, http.StatusOK, cache)
}

// GET /diary/dashboard?range=7|30|week|month
func (h *StatsHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	accountID, ok := middleware.GetAccountID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	selector := r.URL.Query().Get("range")
	if selector == "" {
		selector = "7"
	}

	dashboard, err := h.statsService.GetDashboard(ctx, accountID, selector)
	if dashboard == nil {
		respondWithDomainError(w, err, "Failed to build dashboard")
		return
	}
	if err != nil {
		log.Printf("StatsHandler: serving degraded dashboard for %s: %v", accountID, err)
	}

	respondWithJSON(w, http.StatusOK, dashboard)
}
