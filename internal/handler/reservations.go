package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/delmon-pos/api/internal/database"
)

// ReservationStore defines the database methods needed by reservation handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ReservationStore interface {
	CreateReservation(ctx context.Context, arg database.CreateReservationParams) (database.Reservation, error)
	ListReservations(ctx context.Context) ([]database.Reservation, error)
	UpdateReservation(ctx context.Context, arg database.UpdateReservationParams) (database.Reservation, error)
	DeleteReservation(ctx context.Context, resID int64) error
}

// ReservationHandler handles table reservation endpoints.
type ReservationHandler struct {
	store ReservationStore
}

// NewReservationHandler creates a new ReservationHandler.
func NewReservationHandler(store ReservationStore) *ReservationHandler {
	return &ReservationHandler{store: store}
}

// RegisterRoutes registers reservation endpoints on the given Chi router.
func (h *ReservationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type reservationRequest struct {
	CustomerName string `json:"customer_name"`
	Phone        string `json:"phone"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Guests       int32  `json:"guests"`
}

type reservationResponse struct {
	ResID        int64  `json:"res_id"`
	CustomerName string `json:"customer_name"`
	Phone        string `json:"phone"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Guests       int32  `json:"guests"`
}

func toReservationResponse(r database.Reservation) reservationResponse {
	return reservationResponse{
		ResID:        r.ResID,
		CustomerName: r.CustomerName,
		Phone:        r.Phone,
		Date:         r.Date.Format("2006-01-02"),
		Time:         r.Time,
		Guests:       r.Guests,
	}
}

// validate checks required fields and formats, returning the parsed date.
func (req reservationRequest) validate() (time.Time, string) {
	if strings.TrimSpace(req.CustomerName) == "" {
		return time.Time{}, "customer_name is required"
	}
	if strings.TrimSpace(req.Phone) == "" {
		return time.Time{}, "phone is required"
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return time.Time{}, "date must be in YYYY-MM-DD format"
	}
	if _, err := time.Parse("15:04", req.Time); err != nil {
		return time.Time{}, "time must be in HH:MM format"
	}
	if req.Guests < 1 || req.Guests > 20 {
		return time.Time{}, "guests must be between 1 and 20"
	}
	return date, ""
}

// --- Handlers ---

// List handles GET /reservations.
func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.store.ListReservations(r.Context())
	if err != nil {
		log.Printf("ERROR: list reservations: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]reservationResponse, len(reservations))
	for i, res := range reservations {
		resp[i] = toReservationResponse(res)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create handles POST /reservations.
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req reservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	date, msg := req.validate()
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	res, err := h.store.CreateReservation(r.Context(), database.CreateReservationParams{
		CustomerName: strings.TrimSpace(req.CustomerName),
		Phone:        strings.TrimSpace(req.Phone),
		Date:         date,
		Time:         req.Time,
		Guests:       req.Guests,
	})
	if err != nil {
		log.Printf("ERROR: create reservation: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toReservationResponse(res))
}

// Update handles PUT /reservations/{id}.
func (h *ReservationHandler) Update(w http.ResponseWriter, r *http.Request) {
	resID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid reservation ID"})
		return
	}

	var req reservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	date, msg := req.validate()
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	res, err := h.store.UpdateReservation(r.Context(), database.UpdateReservationParams{
		ResID:        resID,
		CustomerName: strings.TrimSpace(req.CustomerName),
		Phone:        strings.TrimSpace(req.Phone),
		Date:         date,
		Time:         req.Time,
		Guests:       req.Guests,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "reservation not found"})
			return
		}
		log.Printf("ERROR: update reservation: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toReservationResponse(res))
}

// Delete handles DELETE /reservations/{id}.
func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	resID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid reservation ID"})
		return
	}

	if err := h.store.DeleteReservation(r.Context(), resID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "reservation not found"})
			return
		}
		log.Printf("ERROR: delete reservation: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
