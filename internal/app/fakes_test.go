package app_test

import (
	"context"
	"fmt"

	"luxstay/internal/domain"
)

// ---- fakes ----

type fakeBackend struct {
	calls []string

	hotels   []domain.Hotel
	listErr  error
	created  []domain.NewHotel
	createFn func(i int) error

	authResp domain.AuthResponse
	authErr  error
	lastAuth any

	bookings   []domain.BookingRequest
	bookingErr error

	contacts   []domain.ContactMessage
	contactErr error
}

func (f *fakeBackend) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	f.calls = append(f.calls, "GET /api/hotels")
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Hotel, len(f.hotels))
	copy(out, f.hotels)
	return out, nil
}

func (f *fakeBackend) CreateHotel(ctx context.Context, h domain.NewHotel) error {
	f.calls = append(f.calls, "POST /api/hotels")
	i := len(f.created)
	f.created = append(f.created, h)
	if f.createFn != nil {
		if err := f.createFn(i); err != nil {
			return err
		}
	}
	f.hotels = append(f.hotels, domain.Hotel{ID: domain.NumericID(int64(len(f.hotels) + 1)), Name: h.Name})
	return nil
}

func (f *fakeBackend) Register(ctx context.Context, r domain.RegisterRequest) (domain.AuthResponse, error) {
	f.calls = append(f.calls, "POST /api/auth/register")
	f.lastAuth = r
	return f.authResp, f.authErr
}

func (f *fakeBackend) Login(ctx context.Context, r domain.LoginRequest) (domain.AuthResponse, error) {
	f.calls = append(f.calls, "POST /api/auth/login")
	f.lastAuth = r
	return f.authResp, f.authErr
}

func (f *fakeBackend) CreateBooking(ctx context.Context, b domain.BookingRequest) error {
	f.calls = append(f.calls, "POST /api/bookings")
	f.bookings = append(f.bookings, b)
	return f.bookingErr
}

func (f *fakeBackend) SendContact(ctx context.Context, m domain.ContactMessage) error {
	f.calls = append(f.calls, "POST /api/contact")
	f.contacts = append(f.contacts, m)
	return f.contactErr
}

func transportErr() error {
	return fmt.Errorf("%w: connection refused", domain.ErrTransport)
}
