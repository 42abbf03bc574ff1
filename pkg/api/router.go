package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/onboardkit/pkg/auth"
	"github.com/dmitrymomot/onboardkit/pkg/binder"
	"github.com/dmitrymomot/onboardkit/pkg/clientip"
	"github.com/dmitrymomot/onboardkit/pkg/crm"
	"github.com/dmitrymomot/onboardkit/pkg/export"
	"github.com/dmitrymomot/onboardkit/pkg/httpserver"
	"github.com/dmitrymomot/onboardkit/pkg/i18n"
	"github.com/dmitrymomot/onboardkit/pkg/logger"
	"github.com/dmitrymomot/onboardkit/pkg/metrics"
	"github.com/dmitrymomot/onboardkit/pkg/onboarding"
	"github.com/dmitrymomot/onboardkit/pkg/ratelimiter"
	"github.com/dmitrymomot/onboardkit/pkg/requestid"
	"github.com/dmitrymomot/onboardkit/pkg/tickets"
	"github.com/dmitrymomot/onboardkit/pkg/tier"
)

// DefaultMaxBodyBytes caps JSON request bodies.
const DefaultMaxBodyBytes int64 = 1 << 20

// API holds the collaborators behind the HTTP routes. Optional ones left nil
// make their routes answer 501.
type API struct {
	engine    *onboarding.Engine
	catalog   *tier.Catalog
	customers *crm.Repository
	exporter  *export.Exporter
	auth      *auth.Service
	subject   string
	tickets   *tickets.Client
	metrics   *metrics.Metrics
	gatherer  prometheus.Gatherer
	checks    []httpserver.Check
	limiter   *ratelimiter.Bucket
	logger    *slog.Logger
	maxBody   int64
	now       func() time.Time
}

type Option func(*API)

func WithCustomers(repo *crm.Repository) Option {
	return func(a *API) { a.customers = repo }
}

func WithExporter(e *export.Exporter) Option {
	return func(a *API) { a.exporter = e }
}

// WithAuth enables the sign-in routes. subject identifies the operator whose
// tokens the ticket client uses.
func WithAuth(svc *auth.Service, subject string) Option {
	return func(a *API) {
		a.auth = svc
		a.subject = subject
	}
}

func WithTickets(c *tickets.Client) Option {
	return func(a *API) { a.tickets = c }
}

// WithMetrics instruments every route and serves gatherer on /metrics.
func WithMetrics(m *metrics.Metrics, gatherer prometheus.Gatherer) Option {
	return func(a *API) {
		a.metrics = m
		a.gatherer = gatherer
	}
}

func WithHealthChecks(checks ...httpserver.Check) Option {
	return func(a *API) { a.checks = append(a.checks, checks...) }
}

// WithRateLimiter throttles, per client IP, the routes that send email or
// start a sign-in.
func WithRateLimiter(b *ratelimiter.Bucket) Option {
	return func(a *API) { a.limiter = b }
}

func WithLogger(l *slog.Logger) Option {
	return func(a *API) {
		if l != nil {
			a.logger = l
		}
	}
}

func WithMaxBodyBytes(n int64) Option {
	return func(a *API) {
		if n > 0 {
			a.maxBody = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *API) { a.now = now }
}

func New(engine *onboarding.Engine, catalog *tier.Catalog, opts ...Option) *API {
	a := &API{
		engine:  engine,
		catalog: catalog,
		logger:  logger.Discard(),
		maxBody: DefaultMaxBodyBytes,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Router builds the chi router serving every route.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(clientip.Middleware)
	r.Use(a.requestLogger)
	r.Use(middleware.Recoverer)
	if a.metrics != nil {
		r.Use(a.metrics.Middleware)
	}
	r.Use(i18n.Middleware(i18n.DefaultLangExtractor(
		i18n.WithSupportedLanguages(a.engine.Languages()...),
	)))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = JSONError(ErrNotFound).Render(w, r)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = JSONError(ErrMethodNotAllowed).Render(w, r)
	})

	r.Get("/healthz", httpserver.HealthCheckHandler(a.logger, a.checks...))
	if a.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(a.gatherer))
	}

	body := binder.JSON(a.maxBody)
	path := binder.Path(chi.URLParam)
	query := binder.Query()

	r.Route("/v1", func(r chi.Router) {
		r.Route("/tiers", func(r chi.Router) {
			r.Get("/", wrap(a.logger, a.listTiers))
			r.Get("/compare", wrap(a.logger, a.compareTiers, query))
			r.Get("/{key}", wrap(a.logger, a.getTier, path))
		})

		r.Route("/render", func(r chi.Router) {
			r.Post("/", wrap(a.logger, a.render, body))
			r.Post("/html", wrap(a.logger, a.renderHTML, body))
			r.Post("/text", wrap(a.logger, a.renderText, body))
			r.Post("/download", wrap(a.logger, a.renderDownload, body))
			r.Post("/export", wrap(a.logger, a.renderExport, body))
			r.Post("/mailto", wrap(a.logger, a.renderMailto, body))
			r.With(a.throttle).Post("/send", wrap(a.logger, a.renderSend, body))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", wrap(a.logger, a.listCustomers))
			r.Post("/", wrap(a.logger, a.createCustomer, body))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", wrap(a.logger, a.getCustomer, path))
				r.Put("/", wrap(a.logger, a.updateCustomer, path, body))
				r.Delete("/", wrap(a.logger, a.deleteCustomer, path))
				r.Post("/tier", wrap(a.logger, a.changeTier, path, body))
				r.Get("/email", wrap(a.logger, a.customerEmail, path, query))
				r.Get("/tickets", wrap(a.logger, a.listTickets, path))
				r.Post("/tickets", wrap(a.logger, a.createTicket, path, body))
			})
		})

		r.Route("/auth", func(r chi.Router) {
			r.With(a.throttle).Get("/login", wrap(a.logger, a.login))
			r.Get("/callback", wrap(a.logger, a.callback, query))
			r.Get("/status", wrap(a.logger, a.authStatus))
			r.Post("/logout", wrap(a.logger, a.logout))
		})
	})

	return r
}

func (a *API) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		a.logger.DebugContext(r.Context(), "request served",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("elapsed", time.Since(start)),
		)
	})
}

func (a *API) throttle(next http.Handler) http.Handler {
	if a.limiter == nil {
		return next
	}
	return ratelimiter.Middleware(a.limiter, clientip.FromRequest, ratelimiter.WithLimitedHandler(
		func(w http.ResponseWriter, r *http.Request, _ *ratelimiter.Result, err error) {
			if err == nil {
				err = ErrRateLimited
			}
			writeError(a.logger, w, r, err)
		},
	))(next)
}
