package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/zjrosen/skillboard/internal/catalog"
	"github.com/zjrosen/skillboard/internal/config"
	"github.com/zjrosen/skillboard/internal/infrastructure/jsonfile"
	"github.com/zjrosen/skillboard/internal/infrastructure/sqlite"
	"github.com/zjrosen/skillboard/internal/log"
	"github.com/zjrosen/skillboard/internal/pubsub"
	"github.com/zjrosen/skillboard/internal/skills"
	"github.com/zjrosen/skillboard/internal/tracing"
)

// services is everything a command needs, opened from one config.
type services struct {
	catalog  *catalog.Catalog
	store    skills.Store
	registry *skills.Registry
	events   *pubsub.Broker[skills.Skill]
	tracer   *tracing.Provider

	// loadErr is set when the saved snapshot was corrupt. The registry is
	// empty in that case.
	loadErr error
}

// openServices builds the catalog, store and registry and loads the saved
// skills. A corrupt snapshot is not an error here; it is reported in loadErr.
func openServices(ctx context.Context, cfg config.Config) (*services, error) {
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	tp, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("starting tracing: %w", err)
	}

	store, err := openStore(cfg)
	switch {
	case errors.Is(err, skills.ErrCorruptSnapshot):
		log.ErrorErr(log.CatStore, "Store file is damaged, running without it", err)
		store = unreadableStore{err: err}
	case err != nil:
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	events := pubsub.NewBroker[skills.Skill]()
	reg := skills.NewRegistry(cat, store,
		skills.WithTracer(tp.Tracer()),
		skills.WithPublisher(events),
		skills.WithLocale(cfg.Locale),
	)

	svc := &services{catalog: cat, store: store, registry: reg, events: events, tracer: tp}
	if err := reg.Load(ctx); err != nil {
		if !errors.Is(err, skills.ErrCorruptSnapshot) {
			_ = svc.Close(ctx)
			return nil, fmt.Errorf("loading skills: %w", err)
		}
		svc.loadErr = err
	}
	return svc, nil
}

// openStore returns the configured backend.
func openStore(cfg config.Config) (skills.Store, error) {
	path := cfg.StorePath()
	log.Debug(log.CatStore, "Opening store", "backend", cfg.Store.Backend, "path", path)
	switch cfg.Store.Backend {
	case config.BackendJSON:
		return jsonfile.New(path), nil
	case config.BackendSQLite, "":
		repo, err := sqlite.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening skills database: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// unreadableStore stands in for a store whose file could not be opened. Load
// reports the open error so the registry starts empty, and Save refuses so
// the damaged file is never replaced.
type unreadableStore struct {
	err error
}

func (u unreadableStore) Load(context.Context) ([]skills.Skill, error) {
	return nil, u.err
}

func (u unreadableStore) Save(context.Context, []skills.Skill) error {
	return u.err
}

func (unreadableStore) Close() error { return nil }

// requireLoaded refuses to overwrite a snapshot that could not be read.
func (s *services) requireLoaded() error {
	if s.loadErr != nil {
		return fmt.Errorf("%w; fix or remove the store before changing it", s.loadErr)
	}
	return nil
}

// Close shuts everything down, returning the first error.
func (s *services) Close(ctx context.Context) error {
	s.events.Close()
	err := s.store.Close()
	if tErr := s.tracer.Shutdown(ctx); tErr != nil && err == nil {
		err = tErr
	}
	return err
}
