package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/LianelaSky/Project-Alyssa/internal/logging"
	"github.com/LianelaSky/Project-Alyssa/internal/persona"
	"github.com/LianelaSky/Project-Alyssa/internal/store"
	"github.com/LianelaSky/Project-Alyssa/pkg/affect"
)

// ═══════════════════════════════════════════════════════════════════════════════
// SESSION
// ═══════════════════════════════════════════════════════════════════════════════

// session is an engine restored from the store plus the store it saves to.
type session struct {
	cfgName string
	keep    int
	persona *persona.Persona
	engine  *affect.Engine
	store   *store.Store
}

func (a *app) loadPersona() (*persona.Persona, error) {
	switch {
	case a.preset != "":
		return persona.Preset(a.preset)
	case a.cfg.Character.PersonaPath != "":
		return persona.LoadFromFile(a.cfg.Character.PersonaPath)
	default:
		return persona.Default(), nil
	}
}

// openSession builds the engine and restores the newest snapshot. A missing
// or rejected snapshot starts the character fresh.
func (a *app) openSession(ctx context.Context) (*session, error) {
	p, err := a.loadPersona()
	if err != nil {
		return nil, fmt.Errorf("load persona: %w", err)
	}
	prof, err := p.Profile()
	if err != nil {
		return nil, fmt.Errorf("build profile: %w", err)
	}

	name := a.cfg.Character.Name
	opts := []affect.Option{
		affect.WithProfile(prof),
		affect.WithCharacterName(name),
		affect.WithLogger(logging.WithComponent(a.log.Logger, "affect")),
	}
	if seed := a.cfg.Engine.Seed; seed != 0 {
		opts = append(opts, affect.WithRand(affect.NewSeededRand(seed)))
	}
	eng := affect.New(opts...)

	db, err := store.Open(ctx, a.cfg.Storage.Driver, a.cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	st, err := store.NewStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	snap, err := st.LoadLatest(ctx, name)
	switch {
	case errors.Is(err, store.ErrSnapshotNotFound):
		zlog.Info().Str("character", name).Str("persona", p.Name).Msg("no saved state, starting fresh")
	case err != nil:
		zlog.Warn().Err(err).Str("character", name).Msg("failed to load saved state, starting fresh")
	default:
		if err := eng.Restore(snap); err != nil {
			zlog.Warn().Err(err).Str("character", name).Msg("saved state rejected, starting fresh")
		}
	}

	return &session{
		cfgName: name,
		keep:    a.cfg.Storage.KeepSnapshots,
		persona: p,
		engine:  eng,
		store:   st,
	}, nil
}

// save persists a snapshot and trims old ones.
func (s *session) save(ctx context.Context) error {
	if _, err := s.store.SaveSnapshot(ctx, s.engine.Snapshot()); err != nil {
		return err
	}
	if _, err := s.store.Prune(ctx, s.cfgName, s.keep); err != nil {
		zlog.Warn().Err(err).Msg("failed to prune snapshots")
	}
	return nil
}

func (s *session) Close() error {
	return s.store.Close()
}

// elapsedHours is the fatigue time a turn accrues: fixed when configured,
// otherwise the wall-clock gap since the previous turn.
func elapsedHours(turnHours float64, last, now time.Time) float64 {
	if turnHours > 0 {
		return turnHours
	}
	if last.IsZero() || now.Before(last) {
		return 0
	}
	return now.Sub(last).Hours()
}
