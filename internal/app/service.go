package app

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"luxstay/internal/domain"
)

// ErrNotBookable is returned when a booking is submitted without both a
// selected hotel and a signed-in user.
var ErrNotBookable = errors.New("booking needs a selected hotel and a signed-in user")

// Service applies page interactions to a session. It never stores
// sessions itself; callers load and save them around each call.
type Service struct {
	backend  domain.Backend
	validate *validator.Validate
	now      func() time.Time
}

func NewService(b domain.Backend) *Service {
	return &Service{backend: b, validate: newValidator(), now: time.Now}
}
