package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/matzehuels/knapsack/pkg/buildinfo"
	"github.com/matzehuels/knapsack/pkg/cache"
	kerrors "github.com/matzehuels/knapsack/pkg/errors"
	"github.com/matzehuels/knapsack/pkg/knapsack"
	"github.com/matzehuels/knapsack/pkg/observability"
	"github.com/matzehuels/knapsack/pkg/pipeline"
)

const (
	// maxRequestBytes bounds request bodies. 320k items fit comfortably.
	maxRequestBytes = 32 << 20

	// maxCompareRepeat bounds the repeat count of a compare request.
	maxCompareRepeat = 10

	shutdownTimeout = 10 * time.Second
)

// Ceilings for the solver size settings a client may send.
const (
	maxServeCells        = knapsack.DefaultMaxCells
	maxServeScale        = 10000
	maxServeMargin       = 1 << 16
	maxServeInitialStack = 1 << 20
	maxServeFrames       = 1 << 22
)

// serveCommand creates the serve command that exposes the solvers over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the solvers as a JSON HTTP API",
		Long: `Start an HTTP server exposing the solvers.

Endpoints:
  GET  /healthz          liveness probe
  GET  /v1/algorithms    list solver names
  POST /v1/solve         solve one instance
  POST /v1/compare       run every solver on one instance

Request bodies carry either "items" with a "capacity" or a generated "count".
Requests under /v1 are rate limited per server (serve.rate, serve.burst).`,
		Example: `  knapsack serve --addr :9000
  curl -s localhost:9000/v1/solve -d '{"algorithm":"dp","count":1000,"capacity":2500,"seed":1}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Serve
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}

			runner := pipeline.NewRunner(cache.NewMemoryCache(cache.DefaultMemoryEntries), nil, c.Logger)
			defer runner.Close()
			runner.LimitConcurrency(runtime.GOMAXPROCS(0))

			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           newServer(cfg, runner, c.Logger).handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			newPrinter(cmd.ErrOrStderr()).info("Serving on %s", cfg.Addr)
			return listenAndServe(cmd.Context(), srv, c.Logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")

	return cmd
}

// listenAndServe runs srv until ctx is cancelled, then shuts it down gracefully.
func listenAndServe(ctx context.Context, srv *http.Server, logger *log.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// =============================================================================
// Server
// =============================================================================

type server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	timeout time.Duration
	limiter *rate.Limiter // nil when rate limiting is disabled
}

func newServer(cfg ServeConfig, runner *pipeline.Runner, logger *log.Logger) *server {
	s := &server{
		runner:  runner,
		logger:  logger,
		timeout: cfg.RequestTimeout(),
	}
	if cfg.Rate > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.Rate), burst)
	}
	return s
}

func (s *server) handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSONResponse(w, http.StatusOK, struct {
			Status string         `json:"status"`
			Build  buildinfo.Info `json:"build"`
		}{"ok", buildinfo.Get()})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Get("/algorithms", func(w http.ResponseWriter, r *http.Request) {
			writeJSONResponse(w, http.StatusOK, map[string][]string{"algorithms": knapsack.Algorithms()})
		})
		r.Post("/solve", s.handleSolve)
		r.Post("/compare", s.handleCompare)
	})

	return r
}

// =============================================================================
// Middleware
// =============================================================================

// observe fires the HTTP hooks around every request.
func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}

// rateLimit rejects requests once the token bucket is empty.
func (s *server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			observability.HTTP().OnRateLimited(r.Context(), r.Method, r.URL.Path)
			w.Header().Set("Retry-After", "1")
			writeError(w, kerrors.New(kerrors.ErrCodeRateLimited, "too many requests"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Handlers
// =============================================================================

// compareRequest is the body of POST /v1/compare.
type compareRequest struct {
	pipeline.Options
	Repeat int `json:"repeat,omitempty"`
}

func (s *server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := decodeRequest(w, r, &opts); err != nil {
		writeError(w, err)
		return
	}
	if err := checkRequest(opts); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	res, err := s.runner.Execute(ctx, opts)
	if err != nil {
		s.logger.Debug("solve failed", "request", middleware.GetReqID(r.Context()), "err", err)
		writeError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, res)
}

func (s *server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Repeat < 0 || req.Repeat > maxCompareRepeat {
		writeError(w, kerrors.New(kerrors.ErrCodeInvalidInput, "repeat must be between 0 and %d, got %d", maxCompareRepeat, req.Repeat))
		return
	}
	if err := checkLimits(req.Options); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	cmp, err := s.runner.Compare(ctx, req.Options, req.Repeat)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, cmp)
}

func (s *server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), s.timeout)
}

func checkRequest(opts pipeline.Options) error {
	if err := checkLimits(opts); err != nil {
		return err
	}
	return checkExhaustive(opts)
}

// checkLimits rejects table and stack sizes the server will not allocate.
// Zero keeps the solver default; a negative margin disables padding.
func checkLimits(opts pipeline.Options) error {
	limits := []struct {
		name     string
		value    int
		min, max int
	}{
		{"max_cells", opts.MaxCells, 0, maxServeCells},
		{"scale", opts.Scale, 0, maxServeScale},
		{"margin", opts.Margin, -1, maxServeMargin},
		{"initial_stack", opts.InitialStack, 0, maxServeInitialStack},
		{"max_frames", opts.MaxFrames, 0, maxServeFrames},
	}
	for _, l := range limits {
		if l.value < l.min || l.value > l.max {
			return kerrors.New(kerrors.ErrCodeInvalidInput,
				"%s must be between %d and %d, got %d", l.name, l.min, l.max, l.value)
		}
	}
	return nil
}

// checkExhaustive refuses brute-force requests the server would not finish.
func checkExhaustive(opts pipeline.Options) error {
	if strings.ToLower(strings.TrimSpace(opts.Algorithm)) != knapsack.AlgorithmBruteForce {
		return nil
	}
	n := opts.Count
	if len(opts.Items) > 0 {
		n = len(opts.Items)
	}
	if n > pipeline.DefaultCompareBruteForce {
		return kerrors.New(kerrors.ErrCodeUnsupported,
			"brute force is limited to %d items over HTTP, got %d", pipeline.DefaultCompareBruteForce, n)
	}
	return nil
}

// =============================================================================
// Encoding
// =============================================================================

func decodeRequest(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return kerrors.Wrap(kerrors.ErrCodeInvalidFormat, err, "decode request")
	}
	return nil
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    kerrors.Code `json:"code"`
	Message string       `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	code := kerrors.GetCode(err)
	switch {
	case code != "":
	case errors.Is(err, context.DeadlineExceeded):
		code = kerrors.ErrCodeTimeout
	default:
		code = kerrors.ErrCodeInternal
	}
	writeJSONResponse(w, kerrors.HTTPStatus(code), errorBody{
		Error: errorDetail{Code: code, Message: kerrors.UserMessage(err)},
	})
}

func writeJSONResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
