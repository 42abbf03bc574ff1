package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/dmitrymomot/onboardkit/pkg/file"
	"github.com/dmitrymomot/onboardkit/pkg/logger"
	"github.com/dmitrymomot/onboardkit/pkg/tier"
)

// Config configures the repository.
type Config struct {
	Prefix   string        `env:"CRM_PREFIX" envDefault:"customers/"`
	CacheTTL time.Duration `env:"CRM_CACHE_TTL" envDefault:"5m"`
}

// Recorder observes repository events. pkg/metrics implements it.
type Recorder interface {
	ObserveConflict()
	ObserveTierChange(downgrade bool)
}

// Repository stores customers in file.Storage. It is safe for concurrent use.
type Repository struct {
	store    file.Storage
	catalog  *tier.Catalog
	cache    *gocache.Cache
	prefix   string
	logger   *slog.Logger
	recorder Recorder
	now      func() time.Time
}

type Option func(*Repository)

func WithConfig(cfg Config) Option {
	return func(r *Repository) {
		if cfg.Prefix != "" {
			r.prefix = strings.TrimSuffix(cfg.Prefix, "/") + "/"
		}
		if cfg.CacheTTL > 0 {
			r.cache = gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Repository) {
		if l != nil {
			r.logger = l
		}
	}
}

func WithRecorder(rec Recorder) Option {
	return func(r *Repository) { r.recorder = rec }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

func NewRepository(store file.Storage, catalog *tier.Catalog, opts ...Option) *Repository {
	r := &Repository{
		store:   store,
		catalog: catalog,
		cache:   gocache.New(5*time.Minute, 10*time.Minute),
		prefix:  "customers/",
		logger:  logger.Discard(),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repository) key(id string) string {
	return path.Join(r.prefix, id+".json")
}

// Create assigns an ID and timestamps, applies tier limits and stores the
// customer. A caller-supplied ID must be a UUID and not taken.
func (r *Repository) Create(ctx context.Context, c Customer) (*Customer, error) {
	if err := c.validate(r.catalog); err != nil {
		return nil, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	} else if err := uuid.Validate(c.ID); err != nil {
		return nil, fmt.Errorf("%w: id must be a UUID", ErrInvalidCustomer)
	}

	t, _ := r.catalog.Get(c.Tier)
	c.ApplyTier(t)
	c.CreatedAt = r.now()
	c.UpdatedAt = c.CreatedAt

	saved, err := r.put(ctx, c, file.IfNotExists())
	if err != nil {
		if errors.Is(err, file.ErrPreconditionFailed) {
			return nil, fmt.Errorf("%w: id %s already exists", ErrConflict, c.ID)
		}
		return nil, err
	}

	r.logger.InfoContext(ctx, "customer created",
		logger.Component("crm"), logger.CustomerID(saved.ID), logger.Tier(saved.Tier))
	return saved, nil
}

// Get returns the customer with its current ETag.
func (r *Repository) Get(ctx context.Context, id string) (*Customer, error) {
	if err := uuid.Validate(id); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCustomerNotFound, id)
	}
	if v, ok := r.cache.Get(id); ok {
		c := v.(Customer)
		return &c, nil
	}

	data, obj, err := file.ReadAll(ctx, r.store, r.key(id))
	if err != nil {
		if errors.Is(err, file.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCustomerNotFound, id)
		}
		return nil, err
	}

	var c Customer
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode customer %s: %w", id, err)
	}
	c.ETag = obj.ETag
	r.cache.SetDefault(id, c)
	return &c, nil
}

// List returns all customers sorted by company name.
func (r *Repository) List(ctx context.Context) ([]Customer, error) {
	objs, err := r.store.List(ctx, r.prefix)
	if err != nil {
		return nil, err
	}

	customers := make([]Customer, 0, len(objs))
	for _, o := range objs {
		id := strings.TrimSuffix(path.Base(o.Key), ".json")
		if uuid.Validate(id) != nil {
			continue
		}
		c, err := r.Get(ctx, id)
		if err != nil {
			// deleted between List and Get
			if errors.Is(err, ErrCustomerNotFound) {
				continue
			}
			return nil, err
		}
		customers = append(customers, *c)
	}

	sort.SliceStable(customers, func(i, j int) bool {
		return strings.ToLower(customers[i].CompanyName) < strings.ToLower(customers[j].CompanyName)
	})
	return customers, nil
}

// Update replaces the stored customer if its ETag still equals etag.
// An empty etag falls back to c.ETag; with neither the write is
// unconditional. Tier limits are applied before writing.
func (r *Repository) Update(ctx context.Context, c Customer, etag string) (*Customer, error) {
	if err := c.validate(r.catalog); err != nil {
		return nil, err
	}
	current, err := r.Get(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if etag == "" {
		etag = c.ETag
	}

	t, _ := r.catalog.Get(c.Tier)
	c.ApplyTier(t)
	c.CreatedAt = current.CreatedAt
	c.UpdatedAt = r.now()

	var opts []file.PutOption
	if etag != "" {
		opts = append(opts, file.IfMatch(etag))
	}
	saved, err := r.put(ctx, c, opts...)
	if err != nil {
		if errors.Is(err, file.ErrPreconditionFailed) {
			r.cache.Delete(c.ID)
			if r.recorder != nil {
				r.recorder.ObserveConflict()
			}
			return nil, fmt.Errorf("%w: %s", ErrConflict, c.ID)
		}
		return nil, err
	}
	return saved, nil
}

// ChangeTier moves the customer to tierKey, truncating tenants and contacts,
// and reports what changed.
func (r *Repository) ChangeTier(ctx context.Context, id, tierKey, etag string) (*Customer, tier.Comparison, error) {
	target, err := r.catalog.Get(tierKey)
	if err != nil {
		return nil, tier.Comparison{}, err
	}
	c, err := r.Get(ctx, id)
	if err != nil {
		return nil, tier.Comparison{}, err
	}
	current, err := r.catalog.Get(c.Tier)
	if err != nil {
		return nil, tier.Comparison{}, err
	}

	cmp := tier.Compare(current, target)
	droppedTenants := len(c.Tenants) - target.TenantsLimit.Cap(len(c.Tenants))
	droppedContacts := len(c.Contacts) - target.AuthorizedContactsLimit.Cap(len(c.Contacts))

	c.Tier = target.Key
	if etag == "" {
		etag = c.ETag
	}
	saved, err := r.Update(ctx, *c, etag)
	if err != nil {
		return nil, tier.Comparison{}, err
	}

	if r.recorder != nil {
		r.recorder.ObserveTierChange(cmp.IsDowngrade())
	}
	r.logger.InfoContext(ctx, "customer tier changed",
		logger.Component("crm"),
		logger.CustomerID(id),
		slog.String("from", cmp.From),
		slog.String("to", cmp.To),
		slog.Int("dropped_tenants", droppedTenants),
		slog.Int("dropped_contacts", droppedContacts),
	)
	return saved, cmp, nil
}

// Delete removes the customer.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := uuid.Validate(id); err != nil {
		return fmt.Errorf("%w: %s", ErrCustomerNotFound, id)
	}
	r.cache.Delete(id)
	if err := r.store.Delete(ctx, r.key(id)); err != nil {
		if errors.Is(err, file.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrCustomerNotFound, id)
		}
		return err
	}
	return nil
}

func (r *Repository) put(ctx context.Context, c Customer, opts ...file.PutOption) (*Customer, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode customer %s: %w", c.ID, err)
	}

	opts = append(opts, file.WithContentType("application/json"))
	obj, err := r.store.Put(ctx, r.key(c.ID), bytes.NewReader(data), opts...)
	if err != nil {
		return nil, err
	}

	c.ETag = obj.ETag
	r.cache.SetDefault(c.ID, c)
	return &c, nil
}
