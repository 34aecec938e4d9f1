package domain

import "time"

type AuthMode string

const (
	AuthLogin    AuthMode = "login"
	AuthRegister AuthMode = "register"
)

type User struct {
	Token ID     `json:"token"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DisplayName is what the header greets the user with.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Overlay is the modal shown above the page. It is derived from the
// (selected hotel, user) pair and never stored.
type Overlay string

const (
	OverlayNone          Overlay = "none"
	OverlayBooking       Overlay = "booking"
	OverlayLoginRequired Overlay = "login_required"
)

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a blocking acknowledgment; it stays until dismissed.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

type Op string

const (
	OpLoadHotels Op = "load_hotels"
	OpSeed       Op = "seed"
	OpAuth       Op = "auth"
	OpBooking    Op = "booking"
	OpContact    Op = "contact"
)

type OpStatus string

const (
	OpSucceeded OpStatus = "succeeded"
	OpFailed    OpStatus = "failed"
)

// OpState is the outcome of the last run of an async operation.
type OpState struct {
	Status OpStatus  `json:"status"`
	Error  string    `json:"error,omitempty"`
	At     time.Time `json:"at"`
}

// AuthForm keeps what the visitor typed so a failed attempt can be retried.
// Passwords are never kept.
type AuthForm struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Error string `json:"error,omitempty"`
}

type ContactForm struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// BookingForm keeps the overlay inputs across a failed submit.
type BookingForm struct {
	CheckIn  string `json:"check_in,omitempty"`
	CheckOut string `json:"check_out,omitempty"`
	Guests   string `json:"guests,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Session is all state owned by one page load: listing, user, selection
// and the per-section form state.
type Session struct {
	ID          string         `json:"id"`
	Hotels      []Hotel        `json:"hotels"`
	User        *User          `json:"user,omitempty"`
	Selected    *Hotel         `json:"selected,omitempty"`
	BookingForm BookingForm    `json:"booking_form"`
	AuthMode    AuthMode       `json:"auth_mode"`
	AuthForm    AuthForm       `json:"auth_form"`
	ContactSent bool           `json:"contact_sent"`
	ContactForm ContactForm    `json:"contact_form"`
	Notice      *Notice        `json:"notice,omitempty"`
	Ops         map[Op]OpState `json:"ops,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Hotels:    []Hotel{},
		AuthMode:  AuthLogin,
		Ops:       map[Op]OpState{},
		CreatedAt: now,
	}
}

func (s *Session) Overlay() Overlay {
	switch {
	case s.Selected == nil:
		return OverlayNone
	case s.User != nil:
		return OverlayBooking
	default:
		return OverlayLoginRequired
	}
}

// Select marks the displayed hotel with the given id as selected and
// starts an empty booking form. Unknown ids leave the selection untouched.
func (s *Session) Select(id string) bool {
	for i := range s.Hotels {
		if s.Hotels[i].ID.String() == id {
			h := s.Hotels[i]
			s.Selected = &h
			s.BookingForm = BookingForm{}
			return true
		}
	}
	return false
}

func (s *Session) ClearSelection() {
	s.Selected = nil
	s.BookingForm = BookingForm{}
}

func (s *Session) Record(op Op, err error, now time.Time) {
	if s.Ops == nil {
		s.Ops = map[Op]OpState{}
	}
	st := OpState{Status: OpSucceeded, At: now}
	if err != nil {
		st.Status = OpFailed
		st.Error = err.Error()
	}
	s.Ops[op] = st
}
