package httpserver

import (
	"bytes"
	"embed"
	"html/template"
	"strconv"
	"time"

	"luxstay/internal/app"
	"luxstay/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

type pages struct {
	t   *template.Template
	now func() time.Time
}

type pageView struct {
	*domain.Session
	// SID is the signed session token every form posts back.
	SID               string
	Cards             []cardView
	ShowBooking       bool
	ShowLoginRequired bool
	GuestsDefault     int
	ContactThanks     string
	Year              int
}

type cardView struct {
	domain.Hotel
	SID string
}

var funcs = template.FuncMap{
	"rating": ratingLabel,
	"price":  priceLabel,
}

func loadPages() (*pages, error) {
	t, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &pages{t: t, now: time.Now}, nil
}

func (p *pages) render(sess *domain.Session, sid string) ([]byte, error) {
	ov := sess.Overlay()
	cards := make([]cardView, len(sess.Hotels))
	for i, h := range sess.Hotels {
		cards[i] = cardView{Hotel: h, SID: sid}
	}
	v := pageView{
		Session:           sess,
		SID:               sid,
		Cards:             cards,
		ShowBooking:       ov == domain.OverlayBooking,
		ShowLoginRequired: ov == domain.OverlayLoginRequired,
		GuestsDefault:     app.DefaultGuests(),
		ContactThanks:     app.ContactThanks(),
		Year:              p.now().Year(),
	}
	var buf bytes.Buffer
	if err := p.t.ExecuteTemplate(&buf, "page", v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ratingLabel shows the rating with one decimal; absent ratings render empty.
func ratingLabel(r *float64) string {
	if r == nil {
		return ""
	}
	return strconv.FormatFloat(*r, 'f', 1, 64)
}

// priceLabel prints the nightly price in its shortest form: 420, 99.5.
func priceLabel(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
