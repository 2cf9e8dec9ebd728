package fakeapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/upscprep/prepdesk/internal/domain"
)

func (s *Server) listMentors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var minRating float64
	if raw := q.Get("min_rating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			Error(w, http.StatusUnprocessableEntity, "min_rating must be a number")
			return
		}
		minRating = v
	}
	JSON(w, http.StatusOK, s.data.mentorList(q.Get("subject"), minRating))
}

func (s *Server) getMentor(w http.ResponseWriter, r *http.Request) {
	m, ok := s.data.mentor(chi.URLParam(r, "id"))
	if !ok {
		Error(w, http.StatusNotFound, "Mentor not found")
		return
	}
	m.Availability = availabilityFrom(s.now())
	JSON(w, http.StatusOK, m)
}

func (s *Server) mentorAvailability(w http.ResponseWriter, r *http.Request) {
	m, ok := s.data.mentor(chi.URLParam(r, "id"))
	if !ok {
		Error(w, http.StatusNotFound, "Mentor not found")
		return
	}
	JSON(w, http.StatusOK, domain.Availability{
		MentorID:     m.ID,
		Availability: availabilityFrom(s.now()),
		HourlyRate:   m.HourlyRate,
	})
}

func (s *Server) createBooking(w http.ResponseWriter, r *http.Request) {
	var in domain.NewBooking
	if !decode(w, r, &in) {
		return
	}
	if in.ScheduledAt.IsZero() {
		Error(w, http.StatusUnprocessableEntity, "scheduled_at is required")
		return
	}

	userID := UserIDFromContext(r.Context())
	b, err := s.data.createBooking(userID, in)
	if err != nil {
		Error(w, http.StatusNotFound, "Mentor not found")
		return
	}
	s.logger.Info("Booking created", "user_id", userID, "booking_id", b.ID, "mentor_id", b.MentorID)
	JSON(w, http.StatusCreated, b)
}

func (s *Server) myBookings(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, s.data.myBookings(UserIDFromContext(r.Context())))
}

func (s *Server) getBooking(w http.ResponseWriter, r *http.Request) {
	b, err := s.data.getBooking(UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusNotFound, "Booking not found")
		return
	}
	JSON(w, http.StatusOK, b)
}

func (s *Server) updateBooking(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status domain.BookingStatus `json:"status"`
	}
	if !decode(w, r, &in) {
		return
	}
	switch in.Status {
	case domain.BookingPending, domain.BookingConfirmed, domain.BookingCompleted, domain.BookingCancelled:
	default:
		Error(w, http.StatusUnprocessableEntity, "unknown booking status")
		return
	}

	b, err := s.data.setBookingStatus(UserIDFromContext(r.Context()), chi.URLParam(r, "id"), in.Status)
	if err != nil {
		Error(w, http.StatusNotFound, "Booking not found")
		return
	}
	JSON(w, http.StatusOK, b)
}

func (s *Server) cancelBooking(w http.ResponseWriter, r *http.Request) {
	_, err := s.data.setBookingStatus(UserIDFromContext(r.Context()), chi.URLParam(r, "id"), domain.BookingCancelled)
	if err != nil {
		Error(w, http.StatusNotFound, "Booking not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
