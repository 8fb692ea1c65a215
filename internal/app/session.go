// Package app wires a lyrics session together: document source, parser,
// renderer, playback clock, widget watcher, animation loop and the HTTP hub.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/funtimes-lyricards/internal/animation"
	"github.com/coreman2200/funtimes-lyricards/internal/clock"
	"github.com/coreman2200/funtimes-lyricards/internal/config"
	diag "github.com/coreman2200/funtimes-lyricards/internal/diagnostics"
	"github.com/coreman2200/funtimes-lyricards/internal/led"
	"github.com/coreman2200/funtimes-lyricards/internal/markup"
	"github.com/coreman2200/funtimes-lyricards/internal/playback"
	"github.com/coreman2200/funtimes-lyricards/internal/render"
	"github.com/coreman2200/funtimes-lyricards/internal/source"
	"github.com/coreman2200/funtimes-lyricards/internal/surface"
	"github.com/coreman2200/funtimes-lyricards/internal/ws"
)

// Option customises a session.
type Option func(*Session)

// WithSurface replaces the configured render surface.
func WithSurface(s surface.Surface) Option { return func(se *Session) { se.surface = s } }

// WithHTTPClient sets the client used to fetch remote documents.
func WithHTTPClient(c *http.Client) Option { return func(se *Session) { se.client = c } }

// WithDiagnostics adds a sink that receives every diagnostic.
func WithDiagnostics(d diag.Sink) Option { return func(se *Session) { se.extra = d } }

// Session is one running lyrics display.
type Session struct {
	cfg    config.Config
	log    zerolog.Logger
	client *http.Client
	extra  diag.Sink

	clock   *clock.Clock
	hub     *ws.Hub
	surface surface.Surface
	strip   *led.Strip
	widget  playback.Widget
	sim     *playback.Sim
	watcher *playback.Watcher
	loop    *animation.Loop
	diag    diag.Sink

	loaded chan struct{}
}

// New builds a session from cfg. Nothing runs until Run.
func New(cfg config.Config, log zerolog.Logger, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		cfg:    cfg,
		log:    log,
		client: &http.Client{Timeout: 30 * time.Second},
		clock:  clock.New(),
		loaded: make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	s.hub = ws.NewHub(cfg.Style, log.With().Str("component", "hub").Logger())
	s.diag = diag.Logged(log, diag.SinkFunc(func(d diag.Diagnostic) {
		s.hub.Push(d)
		if s.extra != nil {
			s.extra.Push(d)
		}
	}))

	if s.surface == nil {
		switch cfg.Surface {
		case "ws":
			s.surface = s.hub
		case "log":
			s.surface = surface.NewLog(cfg.Style, log.With().Str("component", "surface").Logger())
		case "strip":
			color, err := led.ParseColor(cfg.Strip.Color)
			if err != nil {
				return nil, err
			}
			stripLog := log.With().Str("component", "strip").Logger()
			freq := physic.Frequency(cfg.Strip.FreqKHz) * physic.KiloHertz
			s.strip = led.NewStrip(led.SPIOpener(cfg.Strip.Port, freq, stripLog), cfg.Style, color, cfg.Strip.Property, stripLog)
			s.surface = s.strip
		}
	}

	var events <-chan playback.Event
	switch cfg.Widget {
	case "sim":
		s.sim = playback.NewSim(cfg.Sim.DurationS, cfg.Sim.Rate)
		s.widget, events = s.sim, s.sim.Events()
	default:
		p := s.hub.Player()
		s.widget, events = p, p.Events()
	}
	s.watcher = playback.NewWatcher(s.widget, events, s.clock, cfg.PollInterval(), log.With().Str("component", "watcher").Logger())
	s.loop = animation.New(s.clock, s.surface, log.With().Str("component", "loop").Logger())
	return s, nil
}

// Clock returns the shared playback clock.
func (s *Session) Clock() *clock.Clock { return s.clock }

// Loop returns the animation loop.
func (s *Session) Loop() *animation.Loop { return s.loop }

// Hub returns the websocket hub.
func (s *Session) Hub() *ws.Hub { return s.hub }

// Loaded is closed once the document is attached to the loop.
func (s *Session) Loaded() <-chan struct{} { return s.loaded }

// Run starts every task and blocks until ctx is cancelled or a task fails.
// A document that cannot be loaded is reported but does not stop the
// session.
func (s *Session) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return s.loop.Run(ctx, s.cfg.FPS) })
	g.Go(func() error { return s.watcher.Run(ctx) })
	if s.sim != nil {
		g.Go(func() error { return s.sim.Run(ctx, 0) })
		s.sim.Start()
	}
	if s.cfg.Listen != "" {
		srv := &http.Server{
			Addr:        s.cfg.Listen,
			Handler:     withCORS(s.hub.Handler()),
			ReadTimeout: 5 * time.Second,
			IdleTimeout: 60 * time.Second,
		}
		g.Go(func() error {
			s.log.Info().Str("addr", s.cfg.Listen).Msg("HTTP server starting")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return srv.Shutdown(sctx)
		})
	}
	g.Go(func() error {
		s.initialize(ctx)
		return nil
	})

	err := g.Wait()
	if s.strip != nil {
		if cerr := s.strip.Close(); cerr != nil {
			s.log.Warn().Err(cerr).Msg("strip halt failed")
		}
	}
	return err
}

func (s *Session) initialize(ctx context.Context) {
	start := time.Now()
	text, err := source.Fetch(ctx, s.client, s.cfg.Source)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.diag.Push(diag.Diagnostic{
			Severity: diag.Err, Code: diag.CodeSourceFetch, Summary: "could not load lyrics",
			Detail:         err.Error(),
			SuggestedFixes: []string{"check the source location in the config"},
			Evidence:       map[string]any{"source": s.cfg.Source},
		})
		return
	}

	doc, err := markup.Parse(text)
	if err != nil {
		s.diag.Push(parseDiagnostic(err))
		return
	}
	cards, err := render.Build(doc, s.surface)
	if err != nil {
		s.diag.Push(diag.Diagnostic{
			Severity: diag.Err, Code: diag.CodeTimerParse, Summary: "invalid timer declarations",
			Detail: err.Error(),
		})
		return
	}

	select {
	case <-ctx.Done():
		return
	case <-s.watcher.Ready():
	}
	if s.cfg.Autoplay {
		if err := s.widget.Play(); err != nil {
			s.log.Warn().Err(err).Msg("autoplay failed")
		}
	}
	s.loop.Attach(cards)
	close(s.loaded)
	s.diag.Push(diag.Diagnostic{
		Severity: diag.Info, Code: diag.CodeSessionLoaded, Summary: "lyrics loaded",
		Evidence: map[string]any{
			"cards":    len(doc.Cards),
			"words":    doc.WordCount(),
			"duration": doc.Duration(),
			"took_ms":  time.Since(start).Milliseconds(),
		},
	})
}

func parseDiagnostic(err error) diag.Diagnostic {
	d := diag.Diagnostic{Severity: diag.Err, Code: diag.CodeMarkupParse, Summary: "invalid lyrics markup", Detail: err.Error()}
	var pe *markup.ParseError
	var re *markup.ReferenceError
	switch {
	case errors.As(err, &pe):
		d.Evidence = map[string]any{"pos": pe.Pos}
	case errors.As(err, &re):
		d.Code = diag.CodeMarkupRef
		d.Summary = "lyrics reference a missing voice"
		d.Evidence = map[string]any{"pos": re.Pos}
	}
	return d
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		h.ServeHTTP(w, r)
	})
}
