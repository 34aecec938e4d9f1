package domain

import (
	"context"
	"time"
)

// Backend is the hotel REST API the front end drives.
type Backend interface {
	ListHotels(ctx context.Context) ([]Hotel, error)
	CreateHotel(ctx context.Context, h NewHotel) error
	Register(ctx context.Context, r RegisterRequest) (AuthResponse, error)
	Login(ctx context.Context, r LoginRequest) (AuthResponse, error)
	CreateBooking(ctx context.Context, b BookingRequest) error
	SendContact(ctx context.Context, m ContactMessage) error
}

// SessionStore keeps sessions between requests. Get returns
// ErrSessionNotFound for unknown or expired ids.
type SessionStore interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}
