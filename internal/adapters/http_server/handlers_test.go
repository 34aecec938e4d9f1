package httpserver_test

import (
	"context"
	"encoding/json"
	"html"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpserver "luxstay/internal/adapters/http_server"
	"luxstay/internal/app"
	"luxstay/internal/domain"
	"luxstay/internal/session"
	"luxstay/internal/storage/memory"
)

type stubBackend struct {
	mu       sync.Mutex
	calls    []string
	hotels   []domain.Hotel
	auth     domain.AuthResponse
	authErr  error
	booking  error
	bookings []domain.BookingRequest
	contact  error
	contacts []domain.ContactMessage
}

func (b *stubBackend) record(c string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, c)
}

func (b *stubBackend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *stubBackend) failBookings(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.booking = err
}

func (b *stubBackend) sentBookings() []domain.BookingRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.BookingRequest(nil), b.bookings...)
}

func (b *stubBackend) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	b.record("list")
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Hotel{}, b.hotels...), nil
}

func (b *stubBackend) CreateHotel(ctx context.Context, h domain.NewHotel) error {
	b.record("create")
	b.mu.Lock()
	defer b.mu.Unlock()
	r := h.Rating
	b.hotels = append(b.hotels, domain.Hotel{
		ID: domain.NumericID(int64(len(b.hotels) + 1)), Name: h.Name, City: h.City, Country: h.Country,
		PricePerNight: h.PricePerNight, Rating: &r,
	})
	return nil
}

func (b *stubBackend) Register(ctx context.Context, r domain.RegisterRequest) (domain.AuthResponse, error) {
	b.record("register")
	return b.auth, b.authErr
}

func (b *stubBackend) Login(ctx context.Context, r domain.LoginRequest) (domain.AuthResponse, error) {
	b.record("login")
	return b.auth, b.authErr
}

func (b *stubBackend) CreateBooking(ctx context.Context, req domain.BookingRequest) error {
	b.record("booking")
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bookings = append(b.bookings, req)
	return b.booking
}

func (b *stubBackend) SendContact(ctx context.Context, m domain.ContactMessage) error {
	b.record("contact")
	b.mu.Lock()
	defer b.mu.Unlock()
	b.contacts = append(b.contacts, m)
	return b.contact
}

type browser struct {
	t    *testing.T
	base string
	c    *http.Client
}

func newApp(t *testing.T, be *stubBackend) *browser {
	t.Helper()
	return newAppWithCookies(t, be, session.NewCookies([]byte("test-secret"), time.Hour, false))
}

func newAppWithCookies(t *testing.T, be *stubBackend, cookies *session.Cookies) *browser {
	t.Helper()
	svc := app.NewService(be)
	h, err := httpserver.NewHandlers(svc, memory.New(), cookies, time.Hour)
	require.NoError(t, err)

	srv := httpserver.New(5 * time.Second)
	srv.MountHandlers(h, []string{"https://app.luxstay.test"})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, base: ts.URL, c: &http.Client{Jar: jar}}
}

func (b *browser) get(path string) (int, string) {
	b.t.Helper()
	resp, err := b.c.Get(b.base + path)
	require.NoError(b.t, err)
	return readBody(b.t, resp)
}

func (b *browser) post(path string, form url.Values) string {
	b.t.Helper()
	resp, err := b.c.PostForm(b.base+path, form)
	require.NoError(b.t, err)
	status, body := readBody(b.t, resp)
	require.Equal(b.t, http.StatusOK, status, body)
	return body
}

func readBody(t *testing.T, resp *http.Response) (int, string) {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, html.UnescapeString(string(raw))
}

func rating(f float64) *float64 { return &f }

var sidInput = regexp.MustCompile(`name="sid" value="([^"]+)"`)

// sidOf returns the session token the rendered page posts back.
func sidOf(t *testing.T, body string) string {
	t.Helper()
	m := sidInput.FindStringSubmatch(body)
	require.Len(t, m, 2, "page carries no session token")
	return m[1]
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestPage_EmptyListing(t *testing.T) {
	be := &stubBackend{}
	b := newApp(t, be)

	status, body := b.get("/")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `No hotels yet. Click "Load sample hotels".`)
	assert.NotContains(t, body, `class="hotel-card`)
	assert.Contains(t, body, "Guest")
	assert.Equal(t, []string{"list"}, be.Calls())
}

func TestPage_RendersOneCardPerHotel(t *testing.T) {
	be := &stubBackend{hotels: []domain.Hotel{
		{ID: domain.StringID("h1"), Name: "Grand Aurora Palace", City: "Paris", Country: "France", PricePerNight: 420, Rating: rating(4.8)},
		{ID: domain.StringID("h2"), Name: "Budget Inn", City: "Lyon", Country: "France", PricePerNight: 99.5, Rating: rating(3)},
		{ID: domain.StringID("h3"), Name: "No Rating", City: "Nice", Country: "France", PricePerNight: 150},
	}}
	b := newApp(t, be)

	_, body := b.get("/")
	assert.Equal(t, 3, strings.Count(body, `class="hotel-card`))
	assert.NotContains(t, body, "No hotels yet")
	assert.Contains(t, body, "Grand Aurora Palace")
	assert.Contains(t, body, "Paris, France")
	assert.Contains(t, body, "⭐ 4.8")
	assert.Contains(t, body, "⭐ 3.0")
	assert.Contains(t, body, "$420/night")
	assert.Contains(t, body, "$99.5/night")
	assert.Less(t, strings.Index(body, "Grand Aurora Palace"), strings.Index(body, "Budget Inn"))
}

func TestSeed_FiveCreatesThenOneRead(t *testing.T) {
	be := &stubBackend{}
	b := newApp(t, be)
	b.get("/")

	body := b.post("/hotels/seed", nil)
	assert.Equal(t, []string{"list", "create", "create", "create", "create", "create", "list"}, be.Calls())
	assert.Equal(t, 5, strings.Count(body, `class="hotel-card`))
	assert.Contains(t, body, "Celestial Bay Resort")
	assert.Contains(t, body, "$680/night")
}

func TestBook_UnauthenticatedShowsLoginRequired(t *testing.T) {
	be := &stubBackend{hotels: []domain.Hotel{{ID: domain.NumericID(1), Name: "Elysium Heights"}}}
	b := newApp(t, be)
	b.get("/")

	body := b.post("/book", url.Values{"hotel_id": {"1"}})
	assert.Contains(t, body, "Login required")
	assert.Contains(t, body, "Please login or create an account to book.")
	assert.NotContains(t, body, "Confirm booking")

	body = b.post("/overlay/close", nil)
	assert.NotContains(t, body, "Login required")
	assert.Contains(t, body, "Need an account?")
}

func TestBook_AuthenticatedFlow(t *testing.T) {
	be := &stubBackend{
		hotels: []domain.Hotel{{ID: domain.NumericID(1), Name: "Elysium Heights"}},
		auth:   domain.AuthResponse{Token: domain.StringID("tok-9"), Name: "Ana", Email: "ana@x.io"},
	}
	b := newApp(t, be)
	b.get("/")

	body := b.post("/auth", url.Values{"email": {"ana@x.io"}, "password": {"pw"}})
	assert.Contains(t, body, "Hi, Ana")
	assert.NotContains(t, body, `action="/auth"`)

	body = b.post("/book", url.Values{"hotel_id": {"1"}})
	assert.Contains(t, body, "Book Elysium Heights")
	assert.Contains(t, body, `name="guests" type="number" min="1" value="2"`)

	be.failBookings(&domain.APIError{Status: 409, JSON: true, Detail: "No rooms left for those dates"})
	form := url.Values{"check_in": {"2026-12-01"}, "check_out": {"2026-12-04"}, "guests": {"2"}, "phone": {""}}
	body = b.post("/bookings", form)
	assert.Contains(t, body, "No rooms left for those dates")
	assert.Contains(t, body, "Confirm booking", "overlay must stay open after a failure")

	assert.Contains(t, body, `name="check_in" type="date" value="2026-12-01"`)
	assert.Contains(t, body, `name="check_out" type="date" value="2026-12-04"`)

	body = b.post("/notice/dismiss", nil)
	assert.NotContains(t, body, "No rooms left for those dates")
	assert.Contains(t, body, "Confirm booking")
	assert.Contains(t, body, `value="2026-12-01"`, "typed dates survive until retry")

	be.failBookings(nil)
	body = b.post("/bookings", form)
	assert.Contains(t, body, "Booking request received!")
	assert.NotContains(t, body, "Confirm booking")

	sent := be.sentBookings()
	require.Len(t, sent, 2)
	assert.Equal(t, "tok-9", sent[1].UserID.String())
	assert.Equal(t, "1", sent[1].HotelID.String())

	body = b.post("/book", url.Values{"hotel_id": {"1"}})
	assert.NotContains(t, body, `value="2026-12-01"`, "a new selection starts empty")
	assert.Contains(t, body, `min="1" value="2"`)
}

func TestBook_IDsNeedingEscapes(t *testing.T) {
	ids := []string{"paris/ritz", "a b?c#d", "50%off"}
	hotels := make([]domain.Hotel, len(ids))
	for i, id := range ids {
		hotels[i] = domain.Hotel{ID: domain.StringID(id), Name: "Hotel " + id}
	}
	b := newApp(t, &stubBackend{hotels: hotels})
	_, body := b.get("/")
	for _, id := range ids {
		assert.Contains(t, body, `name="hotel_id" value="`+id+`"`)
	}

	for _, id := range ids {
		body = b.post("/book", url.Values{"hotel_id": {id}})
		assert.Contains(t, body, "Login required", id)
		b.post("/overlay/close", nil)
	}
}

func TestSession_ActiveVisitorOutlivesTTL(t *testing.T) {
	clk := &clock{now: time.Now()}
	cookies := session.NewCookies([]byte("test-secret"), time.Hour, false).WithClock(clk.Now)
	be := &stubBackend{auth: domain.AuthResponse{Token: domain.StringID("t"), Name: "Ana"}}
	b := newAppWithCookies(t, be, cookies)
	b.get("/")
	b.post("/auth", url.Values{"email": {"ana@x.io"}, "password": {"pw"}})

	for step := 1; step <= 4; step++ {
		clk.Advance(20 * time.Minute)
		body := b.post("/auth/toggle", nil)
		require.Contains(t, body, "Hi, Ana", "after %d minutes of activity", step*20)
	}

	clk.Advance(61 * time.Minute)
	body := b.post("/auth/toggle", nil)
	assert.Contains(t, body, "Guest", "an idle session still ends")
}

func TestTabs_AreIndependent(t *testing.T) {
	be := &stubBackend{auth: domain.AuthResponse{Token: domain.StringID("t"), Name: "Ana"}}
	b := newApp(t, be)

	_, first := b.get("/")
	sidA := sidOf(t, first)
	body := b.post("/auth", url.Values{"sid": {sidA}, "email": {"ana@x.io"}, "password": {"pw"}})
	assert.Contains(t, body, "Hi, Ana")

	// second tab, same cookie jar
	_, second := b.get("/")
	sidB := sidOf(t, second)
	assert.Contains(t, second, "Guest")

	body = b.post("/auth/toggle", url.Values{"sid": {sidA}})
	assert.Contains(t, body, "Hi, Ana", "first tab keeps its session")
	assert.NotContains(t, body, `action="/auth"`)

	body = b.post("/auth/toggle", url.Values{"sid": {sidB}})
	assert.Contains(t, body, "Guest")
	assert.Contains(t, body, "Have an account?")
}

func TestAction_ForgedPageTokenGetsFreshPage(t *testing.T) {
	be := &stubBackend{auth: domain.AuthResponse{Token: domain.StringID("t"), Name: "Ana"}}
	b := newApp(t, be)
	b.get("/")

	body := b.post("/auth", url.Values{"sid": {"forged"}, "email": {"ana@x.io"}, "password": {"pw"}})
	assert.Contains(t, body, "Guest")
	assert.NotContains(t, be.Calls(), "login")
}

func TestAuth_FailureStaysInline(t *testing.T) {
	be := &stubBackend{authErr: &domain.APIError{Status: 400, JSON: true, Detail: "Email already registered"}}
	b := newApp(t, be)
	b.get("/")

	body := b.post("/auth/toggle", nil)
	assert.Contains(t, body, "Create account")
	assert.Contains(t, body, "Have an account?")

	body = b.post("/auth", url.Values{"name": {"Bo"}, "email": {"bo@x.io"}, "password": {"pw"}})
	assert.Contains(t, body, "Email already registered")
	assert.Contains(t, body, `value="bo@x.io"`)
	assert.Contains(t, body, "Sign up")
	assert.Contains(t, body, "Guest")
	assert.Contains(t, be.Calls(), "register")
}

func TestContact_SuccessReplacesFormUntilReload(t *testing.T) {
	be := &stubBackend{}
	b := newApp(t, be)
	b.get("/")

	form := url.Values{
		"name":    {gofakeit.Name()},
		"email":   {gofakeit.Email()},
		"phone":   {gofakeit.Phone()},
		"message": {gofakeit.Sentence(8)},
	}
	body := b.post("/contact", form)
	assert.Contains(t, body, "Thanks! We'll be in touch.")
	assert.NotContains(t, body, `action="/contact"`)
	require.Len(t, be.contacts, 1)
	assert.Equal(t, form.Get("email"), be.contacts[0].Email)

	body = b.post("/auth/toggle", nil)
	assert.Contains(t, body, "Thanks! We'll be in touch.")

	_, body = b.get("/")
	assert.Contains(t, body, `action="/contact"`)
}

func TestContact_FailureIsSilent(t *testing.T) {
	be := &stubBackend{contact: &domain.APIError{Status: 500, JSON: true, Detail: "smtp down"}}
	b := newApp(t, be)
	b.get("/")

	body := b.post("/contact", url.Values{"name": {"Ana"}, "email": {"ana@x.io"}, "message": {"hello"}})
	assert.NotContains(t, body, "Thanks!")
	assert.NotContains(t, body, "smtp down")
	assert.Contains(t, body, `action="/contact"`)
}

func TestReload_DropsSession(t *testing.T) {
	be := &stubBackend{auth: domain.AuthResponse{ID: domain.NumericID(3), Email: "ana@x.io"}}
	b := newApp(t, be)
	b.get("/")

	body := b.post("/auth", url.Values{"email": {"ana@x.io"}, "password": {"pw"}})
	assert.Contains(t, body, "Hi, ana@x.io")

	_, body = b.get("/")
	assert.Contains(t, body, "Guest")
	assert.NotContains(t, body, "Hi, ")
}

func TestAction_WithoutSessionRendersFreshPage(t *testing.T) {
	be := &stubBackend{}
	b := newApp(t, be)

	body := b.post("/auth", url.Values{"email": {"ana@x.io"}, "password": {"pw"}})
	assert.Contains(t, body, "Guest")
	assert.Equal(t, []string{"list"}, be.Calls(), "no login call without a live session")
}

func TestState_JSON(t *testing.T) {
	be := &stubBackend{hotels: []domain.Hotel{{ID: domain.NumericID(1), Name: "Elysium Heights"}}}
	b := newApp(t, be)

	status, _ := b.get("/state")
	assert.Equal(t, http.StatusNotFound, status)

	b.get("/")
	b.post("/book", url.Values{"hotel_id": {"1"}})

	resp, err := b.c.Get(b.base + "/state")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))

	var st struct {
		Hotels   []domain.Hotel `json:"hotels"`
		Overlay  string         `json:"overlay"`
		AuthMode string         `json:"auth_mode"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	assert.Len(t, st.Hotels, 1)
	assert.Equal(t, "login_required", st.Overlay)
	assert.Equal(t, "login", st.AuthMode)
}

func TestState_CORSPreflight(t *testing.T) {
	b := newApp(t, &stubBackend{})

	req, err := http.NewRequest(http.MethodOptions, b.base+"/state", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.luxstay.test")
	req.Header.Set("Access-Control-Request-Method", "GET")
	resp, err := b.c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "https://app.luxstay.test", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}

func TestHealthz(t *testing.T) {
	b := newApp(t, &stubBackend{})
	status, body := b.get("/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body)
}
