// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"luxstay/internal/adapters/observability"
	"luxstay/internal/app"
	"luxstay/internal/domain"
	"luxstay/internal/session"
)

const sidField = "sid"

var errUnknownHotel = errors.New("hotel is not in the displayed listing")

type Handlers struct {
	svc     *app.Service
	store   domain.SessionStore
	cookies *session.Cookies
	ttl     time.Duration
	pages   *pages
}

func NewHandlers(svc *app.Service, store domain.SessionStore, cookies *session.Cookies, ttl time.Duration) (*Handlers, error) {
	p, err := loadPages()
	if err != nil {
		return nil, err
	}
	return &Handlers{svc: svc, store: store, cookies: cookies, ttl: ttl, pages: p}, nil
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers, corsOrigins []string) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Group(func(r chi.Router) {
		r.Use(NoStore)
		r.Get("/", h.page)
		r.Post("/hotels/seed", h.action("seed", h.seed))
		r.Post("/book", h.action("select", h.book))
		r.Post("/overlay/close", h.action("close", h.closeOverlay))
		r.Post("/bookings", h.action("booking", h.submitBooking))
		r.Post("/auth/toggle", h.action("auth_toggle", h.toggleAuth))
		r.Post("/auth", h.action("auth", h.authenticate))
		r.Post("/contact", h.action("contact", h.contact))
		r.Post("/notice/dismiss", h.action("dismiss", h.dismiss))
	})

	s.mux.Group(func(r chi.Router) {
		r.Use(NoStore)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   corsOrigins,
			AllowedMethods:   []string{"GET", "OPTIONS"},
			AllowedHeaders:   []string{"Accept"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
		r.Get("/state", h.state)
		r.Options("/state", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// ---- session plumbing ----

// page is a full page load: it always mounts a fresh session. A session
// from an earlier load is left alone so other open tabs keep working; the
// store TTL reaps it.
func (h *Handlers) page(w http.ResponseWriter, r *http.Request) {
	h.saveAndRender(w, r, h.mount(r))
}

func (h *Handlers) mount(r *http.Request) *domain.Session {
	return h.svc.Mount(r.Context(), h.cookies.NewID())
}

// sessionID picks the session a request acts on. Forms carry the token of
// the page they were rendered in; requests without one fall back to the
// cookie.
func (h *Handlers) sessionID(r *http.Request) (string, error) {
	if v := r.PostFormValue(sidField); v != "" {
		return h.cookies.Parse(v)
	}
	return h.cookies.Read(r)
}

// load returns the caller's session. Without a usable one it mounts a new
// session and reports fresh=true.
func (h *Handlers) load(r *http.Request) (sess *domain.Session, fresh bool, err error) {
	if id, serr := h.sessionID(r); serr == nil {
		sess, err = h.store.Get(r.Context(), id)
		if err == nil {
			return sess, false, nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, false, fmt.Errorf("load session: %w", err)
		}
	}
	return h.mount(r), true, nil
}

type actionFunc func(ctx context.Context, r *http.Request, sess *domain.Session) error

// action wraps one page interaction: load session, apply, save, re-render.
// A request that arrives without a live session only gets the fresh page.
func (h *Handlers) action(name string, fn actionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeProblem(w, http.StatusBadRequest, "Bad Request", "malformed form body")
			return
		}
		sess, fresh, err := h.load(r)
		if err != nil {
			log.Error().Err(err).Str("action", name).Msg("session unavailable")
			writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "session unavailable")
			return
		}
		if !fresh {
			err := fn(r.Context(), r, sess)
			observability.ObserveFlow(name, err)
			if err != nil {
				log.Debug().Err(err).Str("action", name).Str("session", sess.ID).Msg("action did not complete")
			}
		}
		h.saveAndRender(w, r, sess)
	}
}

func (h *Handlers) saveAndRender(w http.ResponseWriter, r *http.Request, sess *domain.Session) {
	if err := h.store.Save(r.Context(), sess, h.ttl); err != nil {
		log.Error().Err(err).Str("session", sess.ID).Msg("save session failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "session unavailable")
		return
	}
	// re-issued on every response so exp trails the last interaction
	sid, err := h.cookies.Issue(w, sess.ID)
	if err != nil {
		log.Error().Err(err).Str("session", sess.ID).Msg("issue session cookie failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "could not start a session")
		return
	}
	body, err := h.pages.render(sess, sid)
	if err != nil {
		log.Error().Err(err).Msg("render page failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "render failed")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write page body")
	}
}

// ---- interactions ----

func (h *Handlers) seed(ctx context.Context, r *http.Request, sess *domain.Session) error {
	return h.svc.SeedSamples(ctx, sess)
}

func (h *Handlers) book(ctx context.Context, r *http.Request, sess *domain.Session) error {
	if !h.svc.SelectHotel(sess, r.PostFormValue("hotel_id")) {
		return errUnknownHotel
	}
	return nil
}

func (h *Handlers) closeOverlay(ctx context.Context, r *http.Request, sess *domain.Session) error {
	h.svc.CloseOverlay(sess)
	return nil
}

func (h *Handlers) submitBooking(ctx context.Context, r *http.Request, sess *domain.Session) error {
	return h.svc.SubmitBooking(ctx, sess, app.BookingInput{
		CheckIn:  r.PostFormValue("check_in"),
		CheckOut: r.PostFormValue("check_out"),
		Guests:   r.PostFormValue("guests"),
		Phone:    r.PostFormValue("phone"),
	})
}

func (h *Handlers) toggleAuth(ctx context.Context, r *http.Request, sess *domain.Session) error {
	h.svc.ToggleAuthMode(sess)
	return nil
}

func (h *Handlers) authenticate(ctx context.Context, r *http.Request, sess *domain.Session) error {
	return h.svc.Authenticate(ctx, sess, app.AuthInput{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	})
}

func (h *Handlers) contact(ctx context.Context, r *http.Request, sess *domain.Session) error {
	return h.svc.SendContact(ctx, sess, domain.ContactMessage{
		Name:    r.PostFormValue("name"),
		Email:   strings.TrimSpace(r.PostFormValue("email")),
		Phone:   r.PostFormValue("phone"),
		Message: r.PostFormValue("message"),
	})
}

func (h *Handlers) dismiss(ctx context.Context, r *http.Request, sess *domain.Session) error {
	h.svc.DismissNotice(sess)
	return nil
}

// ---- JSON state ----

type stateView struct {
	Hotels      []domain.Hotel               `json:"hotels"`
	User        *domain.User                 `json:"user"`
	Selected    *domain.Hotel                `json:"selected"`
	Overlay     domain.Overlay               `json:"overlay"`
	AuthMode    domain.AuthMode              `json:"auth_mode"`
	AuthError   string                       `json:"auth_error,omitempty"`
	ContactSent bool                         `json:"contact_sent"`
	Notice      *domain.Notice               `json:"notice"`
	Ops         map[domain.Op]domain.OpState `json:"ops"`
}

func (h *Handlers) state(w http.ResponseWriter, r *http.Request) {
	id, err := h.cookies.Read(r)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "no active session")
		return
	}
	sess, err := h.store.Get(r.Context(), id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		writeProblem(w, http.StatusNotFound, "Not Found", "no active session")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("load session for state failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "session unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(stateView{
		Hotels:      sess.Hotels,
		User:        sess.User,
		Selected:    sess.Selected,
		Overlay:     sess.Overlay(),
		AuthMode:    sess.AuthMode,
		AuthError:   sess.AuthForm.Error,
		ContactSent: sess.ContactSent,
		Notice:      sess.Notice,
		Ops:         sess.Ops,
	}); err != nil {
		log.Error().Err(err).Msg("failed to write state body")
	}
}
