package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"luxstay/internal/domain"
)

// Mount starts a fresh session for a page load and fetches the listing once.
// A failed fetch is logged and leaves the listing empty.
func (s *Service) Mount(ctx context.Context, id string) *domain.Session {
	sess := domain.NewSession(id, s.now())
	_ = s.loadHotels(ctx, sess, domain.OpLoadHotels)
	return sess
}

func (s *Service) loadHotels(ctx context.Context, sess *domain.Session, op domain.Op) error {
	hs, err := s.backend.ListHotels(ctx)
	if err != nil {
		log.Error().Err(err).Str("session", sess.ID).Str("op", string(op)).Msg("load hotels failed")
		sess.Record(op, err, s.now())
		return err
	}
	sess.Hotels = hs
	sess.Record(op, nil, s.now())
	return nil
}

// SeedSamples submits the preset hotels one at a time, in order, then
// replaces the listing with a fresh read. Rejected creates are logged and
// skipped; a transport failure stops the run before the re-read, leaving
// whatever was already created.
func (s *Service) SeedSamples(ctx context.Context, sess *domain.Session) error {
	presets := domain.SamplePresets()
	for i, h := range presets {
		err := s.backend.CreateHotel(ctx, h)
		if err == nil {
			continue
		}
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) {
			log.Warn().Err(err).Int("status", apiErr.Status).Str("hotel", h.Name).Msg("seed create rejected")
			continue
		}
		err = fmt.Errorf("seed %d/%d %q: %w", i+1, len(presets), h.Name, err)
		log.Error().Err(err).Str("session", sess.ID).Msg("seed aborted")
		sess.Record(domain.OpSeed, err, s.now())
		return err
	}
	return s.loadHotels(ctx, sess, domain.OpSeed)
}
