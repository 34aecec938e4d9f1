package app

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"luxstay/internal/domain"
)

const (
	msgAuthFailed     = "Auth failed"
	msgBookingOK      = "Booking request received!"
	msgBookingFailed  = "Error creating booking"
	msgBookingNoJSON  = "Error"
	msgContactThanks  = "Thanks! We'll be in touch."
	defaultGuestCount = 2
)

// ContactThanks is the confirmation that replaces the contact form.
func ContactThanks() string { return msgContactThanks }

// DefaultGuests is the pre-filled guest count of the booking form.
func DefaultGuests() int { return defaultGuestCount }

// ---- auth ----

type AuthInput struct {
	Name     string
	Email    string
	Password string
}

func (s *Service) ToggleAuthMode(sess *domain.Session) {
	if sess.AuthMode == domain.AuthRegister {
		sess.AuthMode = domain.AuthLogin
		return
	}
	sess.AuthMode = domain.AuthRegister
}

// Authenticate logs in or registers depending on the session's auth mode.
// Failures land in sess.AuthForm.Error; success sets sess.User.
func (s *Service) Authenticate(ctx context.Context, sess *domain.Session, in AuthInput) error {
	sess.AuthForm = domain.AuthForm{Name: in.Name, Email: in.Email}

	var (
		resp domain.AuthResponse
		err  error
	)
	if sess.AuthMode == domain.AuthRegister {
		if verr := s.validate.Struct(registerFields{Name: in.Name, Email: in.Email, Password: in.Password}); verr != nil {
			sess.AuthForm.Error = fieldMessage(verr)
			return verr
		}
		resp, err = s.backend.Register(ctx, domain.RegisterRequest{Name: in.Name, Email: in.Email, Password: in.Password})
	} else {
		if verr := s.validate.Struct(loginFields{Email: in.Email, Password: in.Password}); verr != nil {
			sess.AuthForm.Error = fieldMessage(verr)
			return verr
		}
		resp, err = s.backend.Login(ctx, domain.LoginRequest{Email: in.Email, Password: in.Password})
	}
	sess.Record(domain.OpAuth, err, s.now())
	if err != nil {
		sess.AuthForm.Error = authMessage(err)
		log.Info().Err(err).Str("session", sess.ID).Str("mode", string(sess.AuthMode)).Msg("auth rejected")
		return err
	}

	u := resp.User()
	sess.User = &u
	sess.AuthForm = domain.AuthForm{}
	return nil
}

func authMessage(err error) string {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return msgAuthFailed
}

// ---- booking flow ----

type BookingInput struct {
	CheckIn  string
	CheckOut string
	Guests   string
	Phone    string
}

// SelectHotel is the "Book" intent. It selects regardless of auth state;
// the overlay shown depends on whether a user is present.
func (s *Service) SelectHotel(sess *domain.Session, hotelID string) bool {
	return sess.Select(hotelID)
}

func (s *Service) CloseOverlay(sess *domain.Session) { sess.ClearSelection() }

func (s *Service) DismissNotice(sess *domain.Session) { sess.Notice = nil }

// SubmitBooking sends the booking for the selected hotel. Success clears
// the selection; any failure keeps the overlay open with the typed values.
// Both outcomes leave a blocking notice on the session.
func (s *Service) SubmitBooking(ctx context.Context, sess *domain.Session, in BookingInput) error {
	if sess.Overlay() != domain.OverlayBooking {
		return ErrNotBookable
	}
	sess.BookingForm = domain.BookingForm{CheckIn: in.CheckIn, CheckOut: in.CheckOut, Guests: in.Guests, Phone: in.Phone}

	guests, convErr := strconv.Atoi(strings.TrimSpace(in.Guests))
	if convErr != nil {
		guests = 0
	}
	f := bookingFields{CheckIn: in.CheckIn, CheckOut: in.CheckOut, Guests: guests}
	if err := s.validate.Struct(f); err != nil {
		sess.Notice = &domain.Notice{Kind: domain.NoticeError, Message: msgBookingFailed}
		return err
	}

	req := domain.BookingRequest{
		UserID:   sess.User.Token,
		HotelID:  sess.Selected.ID,
		CheckIn:  f.CheckIn,
		CheckOut: f.CheckOut,
		Guests:   f.Guests,
		Phone:    in.Phone,
	}
	err := s.backend.CreateBooking(ctx, req)
	sess.Record(domain.OpBooking, err, s.now())
	if err != nil {
		sess.Notice = &domain.Notice{Kind: domain.NoticeError, Message: bookingMessage(err)}
		log.Info().Err(err).Str("session", sess.ID).Str("hotel", req.HotelID.String()).Msg("booking rejected")
		return err
	}

	sess.ClearSelection()
	sess.Notice = &domain.Notice{Kind: domain.NoticeSuccess, Message: msgBookingOK}
	return nil
}

// bookingMessage picks the acknowledgment text: the server detail when
// given, a generic text for JSON bodies without one, "Error" otherwise.
func bookingMessage(err error) string {
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		return msgBookingNoJSON
	}
	if apiErr.Detail != "" {
		return apiErr.Detail
	}
	if apiErr.JSON {
		return msgBookingFailed
	}
	return msgBookingNoJSON
}

// ---- contact ----

// SendContact posts the message. Backend failures are not shown to the
// visitor; they are logged and recorded on the session only.
func (s *Service) SendContact(ctx context.Context, sess *domain.Session, m domain.ContactMessage) error {
	if sess.ContactSent {
		return nil
	}
	sess.ContactForm = domain.ContactForm{Name: m.Name, Email: m.Email, Phone: m.Phone, Message: m.Message}
	if err := s.validate.Struct(contactFields{Name: m.Name, Email: m.Email, Message: m.Message}); err != nil {
		sess.ContactForm.Error = fieldMessage(err)
		return err
	}

	err := s.backend.SendContact(ctx, m)
	sess.Record(domain.OpContact, err, s.now())
	if err != nil {
		log.Warn().Err(err).Str("session", sess.ID).Msg("contact message not delivered")
		return err
	}
	sess.ContactSent = true
	sess.ContactForm = domain.ContactForm{}
	return nil
}
