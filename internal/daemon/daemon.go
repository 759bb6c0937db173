// Package daemon runs the background maintenance loop: a periodic
// republish sweep that re-exports and redeploys every live site, and a
// retention pass that prunes stale unpublished projects.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/bentoforge/internal/config"
	"git.home.luguber.info/inful/bentoforge/internal/deploy"
	"git.home.luguber.info/inful/bentoforge/internal/events"
	"git.home.luguber.info/inful/bentoforge/internal/export"
	"git.home.luguber.info/inful/bentoforge/internal/export/render"
	"git.home.luguber.info/inful/bentoforge/internal/metrics"
	"git.home.luguber.info/inful/bentoforge/internal/store"
)

// Daemon owns the scheduler and the shared service handles.
type Daemon struct {
	cfg       *config.Config
	store     *store.SQLiteStore
	exporter  *export.Exporter
	deployer  *deploy.GitDeployer
	eventsPub *events.Publisher
	recorder  metrics.Recorder
	scheduler gocron.Scheduler
}

// New assembles a daemon from its dependencies. deployer and eventsPub
// may be nil when those subsystems are disabled.
func New(cfg *config.Config, st *store.SQLiteStore, exporter *export.Exporter,
	deployer *deploy.GitDeployer, eventsPub *events.Publisher, recorder metrics.Recorder) (*Daemon, error) {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Daemon{
		cfg:       cfg,
		store:     st,
		exporter:  exporter,
		deployer:  deployer,
		eventsPub: eventsPub,
		recorder:  recorder,
		scheduler: scheduler,
	}, nil
}

// Run schedules the maintenance jobs and blocks until the context is
// canceled or a termination signal arrives.
func (d *Daemon) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := d.scheduler.NewJob(
		gocron.DurationJob(d.cfg.Daemon.RepublishEvery()),
		gocron.NewTask(d.republishSweep, ctx),
		gocron.WithName("republish-sweep"),
	); err != nil {
		return fmt.Errorf("schedule republish sweep: %w", err)
	}

	if _, err := d.scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(d.retentionSweep, ctx),
		gocron.WithName("retention-sweep"),
	); err != nil {
		return fmt.Errorf("schedule retention sweep: %w", err)
	}

	var metricsServer *http.Server
	if d.cfg.Metrics.Enabled {
		if pr, ok := d.recorder.(*metrics.PrometheusRecorder); ok {
			mux := http.NewServeMux()
			mux.Handle("/metrics", pr.Handler())
			metricsServer = &http.Server{Addr: d.cfg.Metrics.Listen, Handler: mux}
			go func() {
				slog.Info("Metrics endpoint listening", "addr", d.cfg.Metrics.Listen)
				if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					slog.Error("Metrics server failed", "error", err)
				}
			}()
		}
	}

	slog.Info("Daemon started",
		"republish_interval", d.cfg.Daemon.RepublishEvery().String(),
		"retention_max_age", d.cfg.Daemon.RetentionAge().String())
	d.scheduler.Start()

	<-ctx.Done()
	slog.Info("Daemon shutting down")

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}
	return d.scheduler.Shutdown()
}

// republishSweep re-exports and redeploys every live publication so
// template or runtime fixes reach already-published sites.
func (d *Daemon) republishSweep(ctx context.Context) {
	pubs, err := d.store.ListPublications(ctx)
	if err != nil {
		slog.Error("Republish sweep failed to list publications", "error", err)
		return
	}
	if len(pubs) == 0 {
		return
	}
	slog.Info("Republish sweep starting", "sites", len(pubs))

	for _, pub := range pubs {
		if ctx.Err() != nil {
			return
		}
		if err := d.republishOne(ctx, pub); err != nil {
			slog.Warn("Republish failed", "project", pub.ProjectID, "subdomain", pub.Subdomain, "error", err)
		}
	}
}

func (d *Daemon) republishOne(ctx context.Context, pub *store.Publication) error {
	project, err := d.store.Get(ctx, pub.ProjectID)
	if err != nil {
		return err
	}

	opts := render.Options{
		DeploymentTarget:     render.DeploymentTarget(d.cfg.Export.Target),
		IncludeServiceWorker: d.cfg.Export.ServiceWorkerEnabled(),
		IncludeAnalytics:     d.cfg.Export.AnalyticsEnabled(),
		RemoveBranding:       d.cfg.Export.RemoveBranding,
	}
	result, err := d.exporter.Export(ctx, &project.Site, project.Name, opts)
	if err != nil {
		return err
	}

	if d.deployer != nil && d.cfg.Deploy.Enabled {
		_, err = d.deployer.Deploy(ctx, result.Archive, deploy.Options{
			RepoURL:   d.cfg.Deploy.RepoURL,
			Branch:    d.cfg.Deploy.Branch,
			AuthToken: d.cfg.Deploy.AuthToken,
			Name:      d.cfg.Deploy.Name,
			Email:     d.cfg.Deploy.Email,
			Message:   fmt.Sprintf("Republish %s", pub.Subdomain),
		})
		if err != nil {
			return err
		}
	}

	d.eventsPub.Publish(ctx, events.Event{
		Type:         events.TypeSitePublished,
		ProjectID:    pub.ProjectID,
		Subdomain:    pub.Subdomain,
		URL:          pub.URL,
		ArchiveBytes: int64(len(result.Archive)),
	})
	return nil
}

// retentionSweep deletes unpublished projects that have not been
// touched within the retention window.
func (d *Daemon) retentionSweep(ctx context.Context) {
	cutoff := time.Now().Add(-d.cfg.Daemon.RetentionAge())
	pruned, err := d.store.DeleteStaleProjects(ctx, cutoff)
	if err != nil {
		slog.Error("Retention sweep failed", "error", err)
		return
	}
	if pruned > 0 {
		slog.Info("Retention sweep pruned stale projects", "count", pruned)
	}
}
