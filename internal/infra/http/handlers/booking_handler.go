package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/elevenxsolutions/elevenx-api/internal/infra/http/middleware"
	"github.com/elevenxsolutions/elevenx-api/internal/usecase"
)

type BookingHandler struct {
	SubmitBookingUC *usecase.SubmitBookingUseCase
	rateLimiter     *RateLimiter
}

func NewBookingHandler(uc *usecase.SubmitBookingUseCase) *BookingHandler {
	return &BookingHandler{
		SubmitBookingUC: uc,
		rateLimiter:     NewRateLimiter(10, time.Minute), // 10 req/min per IP
	}
}

func (h *BookingHandler) Handle(w http.ResponseWriter, r *http.Request) {
	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		writeErrorResponse(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.")
		return
	}

	var input usecase.SubmitBookingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	output, err := h.SubmitBookingUC.Execute(r.Context(), input)
	if err != nil {
		middleware.RecordBooking("rejected")
		switch e := err.(type) {
		case *usecase.DomainError:
			if e.Code == usecase.CodeConfiguration {
				writeErrorResponse(w, http.StatusServiceUnavailable, e.Code, e.Message)
				return
			}
			writeErrorResponse(w, http.StatusBadRequest, e.Code, e.Message)
		case *usecase.TechnicalError:
			writeErrorResponse(w, http.StatusInternalServerError, e.Code, e.Message)
		default:
			writeErrorResponse(w, http.StatusInternalServerError, usecase.CodeStorage, "failed to save booking")
		}
		return
	}

	middleware.RecordBooking("accepted")
	writeJSON(w, http.StatusCreated, output)
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
