package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/davecheney/fedi/activitypub"
	"github.com/davecheney/fedi/api"
	"github.com/davecheney/fedi/internal/group"
	"github.com/davecheney/fedi/internal/topology"
	"github.com/davecheney/fedi/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

type ServeCmd struct {
	Addr              string `help:"address to listen" default:":8080" env:"FEDI_ADDR"`
	Topology          string `help:"federation topology file, the demo federation if unset" env:"FEDI_TOPOLOGY"`
	JournalDSN        string `help:"journal data source name, no journal if unset" env:"FEDI_JOURNAL_DSN"`
	FanoutConcurrency int    `help:"maximum number of servers an activity is delivered to at once" default:"4"`
}

func (s *ServeCmd) Run(ctx *Context) error {
	topo := topology.Default()
	if s.Topology != "" {
		var err error
		topo, err = topology.Load(s.Topology)
		if err != nil {
			return err
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	opts := []activitypub.Option{
		activitypub.WithLogger(ctx.Logger),
		activitypub.WithMetrics(activitypub.NewMetrics(reg)),
		activitypub.WithFanoutConcurrency(s.FanoutConcurrency),
	}
	if s.JournalDSN != "" {
		db, err := gorm.Open(newDialector(s.JournalDSN), &ctx.Config)
		if err != nil {
			return err
		}
		if err := configureDB(db); err != nil {
			return err
		}
		opts = append(opts, activitypub.WithJournal(models.NewJournal(db)))
	}

	sigctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dir := activitypub.NewDirectory()
	if _, err := topo.Build(sigctx, dir, opts...); err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Mount("/", api.New(dir, ctx.Logger))

	svr := &http.Server{
		Addr:         s.Addr,
		Handler:      r,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	g := group.New(sigctx)
	g.Go(func(ctx context.Context) error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return svr.Shutdown(shutdownCtx)
	})
	g.Go(func(context.Context) error {
		ctx.Logger.Info("listening", "addr", s.Addr, "servers", dir.Names())
		if err := svr.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	return g.Wait()
}
