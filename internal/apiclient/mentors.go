package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/upscprep/prepdesk/internal/domain"
)

// MentorService covers mentor discovery.
type MentorService struct {
	c *Client
}

// MentorFilter narrows List server-side. Zero values are not sent.
type MentorFilter struct {
	Subject   string
	MinRating float64
}

// List returns mentors matching f.
func (s *MentorService) List(ctx context.Context, f MentorFilter) ([]domain.Mentor, error) {
	q := url.Values{}
	if f.Subject != "" {
		q.Set("subject", f.Subject)
	}
	if f.MinRating > 0 {
		q.Set("min_rating", strconv.FormatFloat(f.MinRating, 'f', -1, 64))
	}
	path := "/mentors"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out []domain.Mentor
	if err := s.c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one mentor profile.
func (s *MentorService) Get(ctx context.Context, id string) (*domain.Mentor, error) {
	var out domain.Mentor
	if err := s.c.getJSON(ctx, "/mentors/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Availability returns a mentor's bookable slots.
func (s *MentorService) Availability(ctx context.Context, id string) (*domain.Availability, error) {
	var out domain.Availability
	if err := s.c.getJSON(ctx, "/mentors/"+url.PathEscape(id)+"/availability", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BookingService covers mentor session bookings.
type BookingService struct {
	c *Client
}

// Create books a session.
func (s *BookingService) Create(ctx context.Context, in domain.NewBooking) (*domain.Booking, error) {
	var out domain.Booking
	if err := s.c.sendJSON(ctx, http.MethodPost, "/bookings", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns one booking.
func (s *BookingService) Get(ctx context.Context, id string) (*domain.Booking, error) {
	var out domain.Booking
	if err := s.c.getJSON(ctx, "/bookings/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStatus changes a booking's status.
func (s *BookingService) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	in := map[string]domain.BookingStatus{"status": status}
	var out domain.Booking
	if err := s.c.sendJSON(ctx, http.MethodPatch, "/bookings/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Cancel cancels a booking.
func (s *BookingService) Cancel(ctx context.Context, id string) error {
	return s.c.do(ctx, http.MethodDelete, "/bookings/"+url.PathEscape(id), nil, nil)
}

// Mine returns the signed-in user's bookings.
func (s *BookingService) Mine(ctx context.Context) ([]domain.Booking, error) {
	var out []domain.Booking
	if err := s.c.getJSON(ctx, "/bookings/me", &out); err != nil {
		return nil, err
	}
	return out, nil
}
