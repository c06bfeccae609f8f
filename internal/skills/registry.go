package skills

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"

	"github.com/zjrosen/skillboard/internal/log"
	"github.com/zjrosen/skillboard/internal/pubsub"
	"github.com/zjrosen/skillboard/internal/tracing"
)

// Catalog is the vocabulary a skill name must belong to.
type Catalog interface {
	Contains(name string) bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithTracer records a span per operation.
func WithTracer(t trace.Tracer) Option {
	return func(r *Registry) {
		if t != nil {
			r.tracer = t
		}
	}
}

// WithPublisher announces every successful mutation on p.
func WithPublisher(p pubsub.Publisher[Skill]) Option {
	return func(r *Registry) { r.events = p }
}

// WithLocale sets the language used to compare names when sorting.
func WithLocale(locale string) Option {
	return func(r *Registry) { r.collator = NewCollator(locale) }
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(r *Registry) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// Registry is the authoritative skill list for a session. It is not safe for
// concurrent use; callers serialize access (the TUI does so by construction).
type Registry struct {
	catalog  Catalog
	store    Store
	skills   []Skill
	fold     cases.Caser
	collator *collate.Collator
	tracer   trace.Tracer
	events   pubsub.Publisher[Skill]
	newID    func() string
}

// NewRegistry returns an empty registry backed by store.
func NewRegistry(catalog Catalog, store Store, opts ...Option) *Registry {
	r := &Registry{
		catalog:  catalog,
		store:    store,
		fold:     cases.Fold(),
		collator: NewCollator(""),
		tracer:   noop.NewTracerProvider().Tracer("skills"),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load replaces the in-memory list with the stored snapshot. A missing
// snapshot leaves the registry empty and is not an error. A corrupt snapshot
// also leaves it empty, and the returned error wraps ErrCorruptSnapshot.
func (r *Registry) Load(ctx context.Context) (err error) {
	ctx, span := r.tracer.Start(ctx, tracing.SpanPrefixRegistry+"load")
	defer func() { tracing.End(span, err) }()

	r.skills = nil

	loaded, err := r.store.Load(ctx)
	switch {
	case errors.Is(err, ErrNoSnapshot):
		log.Info(log.CatRegistry, "No saved skills, starting empty")
		return nil
	case errors.Is(err, ErrCorruptSnapshot):
		log.ErrorErr(log.CatRegistry, "Saved skills are corrupt, starting empty", err)
		return err
	case err != nil:
		log.ErrorErr(log.CatRegistry, "Failed to load skills", err)
		return err
	}

	if err := ValidateSnapshot(loaded); err != nil {
		log.ErrorErr(log.CatRegistry, "Saved skills violate invariants, starting empty", err)
		return err
	}

	r.skills = slices.Clone(loaded)
	span.SetAttributes(attribute.Int(tracing.AttrSkillCount, len(r.skills)))
	log.Debug(log.CatRegistry, "Loaded skills", "skills", describe(r.skills))
	r.publish(pubsub.LoadedEvent, Skill{})
	return nil
}

// Add validates raw and appends a new skill at DefaultLevel.
func (r *Registry) Add(ctx context.Context, raw string) (added Skill, err error) {
	ctx, span := r.tracer.Start(ctx, tracing.SpanPrefixRegistry+"add")
	defer func() { tracing.End(span, err) }()

	name := strings.TrimSpace(raw)
	span.SetAttributes(attribute.String(tracing.AttrSkillName, name))
	if name == "" {
		return Skill{}, ErrEmptyInput
	}
	if !r.catalog.Contains(name) {
		return Skill{}, &InvalidCatalogEntryError{Name: name}
	}
	if existing, ok := r.findName(name); ok {
		return Skill{}, &DuplicateSkillError{Name: name, Existing: existing}
	}

	added = Skill{ID: r.newID(), Name: name, Level: DefaultLevel}
	r.skills = append(r.skills, added)
	span.SetAttributes(attribute.String(tracing.AttrSkillID, added.ID))
	log.Info(log.CatRegistry, "Added skill", "id", added.ID, "name", name)
	r.publish(pubsub.CreatedEvent, added)

	return added, r.persist(ctx, "add")
}

// Remove deletes the skill with id. Unknown ids are ignored, but the list is
// still written through.
func (r *Registry) Remove(ctx context.Context, id string) (err error) {
	ctx, span := r.tracer.Start(ctx, tracing.SpanPrefixRegistry+"remove",
		trace.WithAttributes(attribute.String(tracing.AttrSkillID, id)))
	defer func() { tracing.End(span, err) }()

	if i := r.index(id); i >= 0 {
		removed := r.skills[i]
		r.skills = slices.Delete(r.skills, i, i+1)
		log.Info(log.CatRegistry, "Removed skill", "id", id, "name", removed.Name)
		r.publish(pubsub.DeletedEvent, removed)
	}
	return r.persist(ctx, "remove")
}

// SetLevel changes a skill's level. Out-of-range levels and unknown ids are
// silent no-ops and nothing is written.
func (r *Registry) SetLevel(ctx context.Context, id string, level int) (err error) {
	ctx, span := r.tracer.Start(ctx, tracing.SpanPrefixRegistry+"set_level",
		trace.WithAttributes(
			attribute.String(tracing.AttrSkillID, id),
			attribute.Int(tracing.AttrSkillLevel, level),
		))
	defer func() { tracing.End(span, err) }()

	i := r.index(id)
	if i < 0 || !ValidLevel(level) {
		span.SetAttributes(attribute.String(tracing.AttrOutcome, "ignored"))
		return nil
	}
	r.skills[i].Level = level
	log.Debug(log.CatRegistry, "Set level", "id", id, "level", level)
	r.publish(pubsub.UpdatedEvent, r.skills[i])
	return r.persist(ctx, "set level")
}

// Increment raises a skill's level by one, stopping at MaxLevel.
func (r *Registry) Increment(ctx context.Context, id string) error {
	s, ok := r.Get(id)
	if !ok {
		return nil
	}
	return r.SetLevel(ctx, id, s.Level+1)
}

// Decrement lowers a skill's level by one, stopping at MinLevel.
func (r *Registry) Decrement(ctx context.Context, id string) error {
	s, ok := r.Get(id)
	if !ok {
		return nil
	}
	return r.SetLevel(ctx, id, s.Level-1)
}

// Sort stably reorders the list and writes it through, even when nothing moved.
func (r *Registry) Sort(ctx context.Context, c SortCriterion) (err error) {
	ctx, span := r.tracer.Start(ctx, tracing.SpanPrefixRegistry+"sort",
		trace.WithAttributes(attribute.String(tracing.AttrSortCriterion, string(c))))
	defer func() { tracing.End(span, err) }()

	sortSkills(r.skills, c, r.collator)
	log.Debug(log.CatRegistry, "Sorted skills", "criterion", string(c), "skills", describe(r.skills))
	r.publish(pubsub.ReorderedEvent, Skill{})
	return r.persist(ctx, "sort")
}

// Skills returns a copy of the list in order.
func (r *Registry) Skills() []Skill {
	return slices.Clone(r.skills)
}

// Len returns the number of skills.
func (r *Registry) Len() int {
	return len(r.skills)
}

// Get looks a skill up by id.
func (r *Registry) Get(id string) (Skill, bool) {
	if i := r.index(id); i >= 0 {
		return r.skills[i], true
	}
	return Skill{}, false
}

func (r *Registry) index(id string) int {
	return slices.IndexFunc(r.skills, func(s Skill) bool { return s.ID == id })
}

func (r *Registry) findName(name string) (Skill, bool) {
	key := r.fold.String(name)
	for _, s := range r.skills {
		if r.fold.String(s.Name) == key {
			return s, true
		}
	}
	return Skill{}, false
}

func (r *Registry) persist(ctx context.Context, op string) error {
	snapshot := append(make([]Skill, 0, len(r.skills)), r.skills...)
	if err := r.store.Save(ctx, snapshot); err != nil {
		log.ErrorErr(log.CatRegistry, "Failed to persist skills", err, "op", op)
		return &PersistError{Op: op, Err: err}
	}
	return nil
}

func (r *Registry) publish(t pubsub.EventType, s Skill) {
	if r.events != nil {
		r.events.Publish(t, s)
	}
}
