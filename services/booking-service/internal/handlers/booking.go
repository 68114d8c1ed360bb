package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/md-rashed-zaman/apptbook/libs/httpx"
	"github.com/md-rashed-zaman/apptbook/services/booking-service/internal/booking"
	"github.com/md-rashed-zaman/apptbook/services/booking-service/internal/model"
)

// BookingService is the booking logic behind /api/appointments.
type BookingService interface {
	Slots(ctx context.Context, date string) ([]model.TimeSlot, error)
	Create(ctx context.Context, req model.BookingRequest) (model.Confirmation, error)
}

type BookingHandler struct {
	svc    BookingService
	logger *slog.Logger
}

func NewBookingHandler(svc BookingService, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, logger: logger}
}

// Register mounts the API routes on mux. Unknown /api/ paths answer with a JSON 404.
func (h *BookingHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/appointments", h.Appointments)
	mux.HandleFunc("/api/", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteError(w, http.StatusNotFound, "Not found")
	})
}

func (h *BookingHandler) Appointments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.Slots(w, r)
	case http.MethodPost:
		h.Create(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		httpx.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *BookingHandler) Slots(w http.ResponseWriter, r *http.Request) {
	slots, err := h.svc.Slots(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, slots)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.WriteError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	conf, err := h.svc.Create(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, conf)
}

func (h *BookingHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *booking.ValidationError
	var ce *booking.ConflictError
	switch {
	case errors.As(err, &ve):
		httpx.WriteError(w, http.StatusBadRequest, ve.Error())
	case errors.As(err, &ce):
		httpx.WriteError(w, http.StatusConflict, ce.Error())
	default:
		h.logger.Error("booking request failed",
			"err", err,
			"request_id", httpx.RequestIDFromContext(r.Context()),
			"method", r.Method,
		)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
