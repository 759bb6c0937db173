package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/bentoforge/internal/bentoerr"
	"git.home.luguber.info/inful/bentoforge/internal/capability"
	"git.home.luguber.info/inful/bentoforge/internal/config"
	"git.home.luguber.info/inful/bentoforge/internal/daemon"
	"git.home.luguber.info/inful/bentoforge/internal/deploy"
	"git.home.luguber.info/inful/bentoforge/internal/events"
	"git.home.luguber.info/inful/bentoforge/internal/export"
	"git.home.luguber.info/inful/bentoforge/internal/export/render"
	"git.home.luguber.info/inful/bentoforge/internal/metrics"
	"git.home.luguber.info/inful/bentoforge/internal/preview"
	"git.home.luguber.info/inful/bentoforge/internal/publish"
	"git.home.luguber.info/inful/bentoforge/internal/sitemodel"
	"git.home.luguber.info/inful/bentoforge/internal/store"
	"git.home.luguber.info/inful/bentoforge/internal/templates"
)

func runInit() error {
	if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", CLI.Config)
	return nil
}

func openStore(cfg *config.Config) (*store.SQLiteStore, error) {
	st, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return nil, bentoerr.StorageFailed("open database", err)
	}
	return st, nil
}

func newExporter(cfg *config.Config) *export.Exporter {
	opts := []export.Option{
		export.WithCapabilities(capability.ForTier(cfg.Tier)),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, export.WithRecorder(metrics.NewPrometheusRecorder(nil)))
	}
	return export.New(opts...)
}

func renderOptions(cfg *config.Config, targetOverride string) render.Options {
	target := cfg.Export.Target
	if targetOverride != "" {
		target = targetOverride
	}
	return render.Options{
		DeploymentTarget:     render.DeploymentTarget(target),
		IncludeServiceWorker: cfg.Export.ServiceWorkerEnabled(),
		IncludeAnalytics:     cfg.Export.AnalyticsEnabled(),
		RemoveBranding:       cfg.Export.RemoveBranding,
	}
}

func runNew(ctx context.Context, cfg *config.Config) error {
	tpl := templates.Get(CLI.New.Template)
	if tpl == nil {
		return bentoerr.ValidationFailed("template",
			fmt.Sprintf("unknown template %q (see 'bentoforge templates')", CLI.New.Template))
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	caps := capability.ForTier(cfg.Tier)
	current, err := st.CountProjects(ctx, CLI.New.Owner)
	if err != nil {
		return bentoerr.StorageFailed("count projects", err)
	}
	if !caps.WithinProjectLimit(current) {
		return bentoerr.ValidationFailed("projects",
			fmt.Sprintf("project limit reached (%d); upgrade your tier or delete a project", caps.MaxProjects))
	}

	site := tpl.Instantiate()
	site.Profile.Name = CLI.New.Name

	project := &store.Project{
		ID:    uuid.NewString(),
		Name:  CLI.New.Name,
		Owner: CLI.New.Owner,
		Site:  site,
	}
	if err := st.Put(ctx, project); err != nil {
		return bentoerr.StorageFailed("save project", err)
	}

	fmt.Printf("Created project %s (%s) from template %s\n", project.Name, project.ID, tpl.ID)
	return nil
}

func loadExportSite(ctx context.Context, cfg *config.Config) (*sitemodel.SiteData, string, error) {
	if CLI.Export.Site != "" {
		site, err := preview.LoadSite(CLI.Export.Site)
		if err != nil {
			return nil, "", err
		}
		return site, site.Profile.Name, nil
	}
	if CLI.Export.Project == "" {
		return nil, "", bentoerr.ValidationFailed("project", "either --project or --site is required")
	}

	st, err := openStore(cfg)
	if err != nil {
		return nil, "", err
	}
	defer st.Close()

	project, err := st.Get(ctx, CLI.Export.Project)
	if err != nil {
		return nil, "", bentoerr.StorageFailed("load project", err)
	}
	return &project.Site, project.Name, nil
}

func runExport(ctx context.Context, cfg *config.Config) error {
	site, name, err := loadExportSite(ctx, cfg)
	if err != nil {
		return err
	}

	result, err := newExporter(cfg).Export(ctx, site, name, renderOptions(cfg, CLI.Export.Target))
	if err != nil {
		return err
	}

	if err := export.WriteArchive(result, CLI.Export.Output); err != nil {
		return err
	}

	eventsPub, err := events.NewPublisher(events.Config(cfg.Events))
	if err != nil {
		slog.Warn("Event publisher unavailable", "error", err)
	}
	defer eventsPub.Close()
	eventsPub.Publish(ctx, events.Event{
		Type:         events.TypeExportCompleted,
		ProjectID:    CLI.Export.Project,
		ArchiveBytes: result.Report.ArchiveBytes,
	})

	fmt.Printf("Exported %d files (%d assets, %d bytes) to %s\n",
		len(result.Report.Files), result.Report.AssetsExtracted, result.Report.ArchiveBytes, CLI.Export.Output)
	return nil
}

func runDump(ctx context.Context, cfg *config.Config) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	project, err := st.Get(ctx, CLI.Dump.Project)
	if err != nil {
		return bentoerr.StorageFailed("load project", err)
	}

	data, err := store.ExportJSON(project)
	if err != nil {
		return bentoerr.StorageFailed("serialize project", err)
	}
	if err := os.WriteFile(CLI.Dump.Output, data, 0o644); err != nil {
		return bentoerr.StorageFailed("write snapshot", err)
	}
	fmt.Printf("Dumped %s to %s\n", project.Name, CLI.Dump.Output)
	return nil
}

func runImport(ctx context.Context, cfg *config.Config) error {
	data, err := os.ReadFile(CLI.Import.File)
	if err != nil {
		return bentoerr.StorageFailed("read snapshot", err)
	}
	project, err := store.ImportJSON(data, CLI.Import.Owner)
	if err != nil {
		return bentoerr.ValidationFailed("snapshot", err.Error())
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	caps := capability.ForTier(cfg.Tier)
	current, err := st.CountProjects(ctx, CLI.Import.Owner)
	if err != nil {
		return bentoerr.StorageFailed("count projects", err)
	}
	if !caps.WithinProjectLimit(current) {
		return bentoerr.ValidationFailed("projects",
			fmt.Sprintf("project limit reached (%d); upgrade your tier or delete a project", caps.MaxProjects))
	}

	if err := st.Put(ctx, project); err != nil {
		return bentoerr.StorageFailed("save project", err)
	}
	fmt.Printf("Imported %s (%s)\n", project.Name, project.ID)
	return nil
}

func runPublish(ctx context.Context, cfg *config.Config) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	project, err := st.Get(ctx, CLI.Publish.Project)
	if err != nil {
		return bentoerr.StorageFailed("load project", err)
	}

	subdomain := CLI.Publish.Subdomain
	if subdomain == "" {
		subdomain = publish.Suggest(project.Name)
		slog.Info("No subdomain given; using suggestion", "subdomain", subdomain)
	}

	result, err := newExporter(cfg).Export(ctx, &project.Site, project.Name, renderOptions(cfg, ""))
	if err != nil {
		return err
	}

	if cfg.Deploy.Enabled {
		workDir, err := os.MkdirTemp("", "bentoforge-deploy-*")
		if err != nil {
			return bentoerr.DeployFailed(cfg.Deploy.RepoURL, err)
		}
		defer os.RemoveAll(workDir)

		deployer := deploy.NewGitDeployer(workDir)
		if _, err := deployer.Deploy(ctx, result.Archive, deploy.Options{
			RepoURL:   cfg.Deploy.RepoURL,
			Branch:    cfg.Deploy.Branch,
			AuthToken: cfg.Deploy.AuthToken,
			Name:      cfg.Deploy.Name,
			Email:     cfg.Deploy.Email,
			Message:   fmt.Sprintf("Publish %s", subdomain),
		}); err != nil {
			return err
		}
	}

	publisher := publish.NewPublisher(st, cfg.BaseDomain, nil)
	pub, err := publisher.Publish(ctx, project.ID, subdomain)
	if err != nil {
		return err
	}

	eventsPub, err := events.NewPublisher(events.Config(cfg.Events))
	if err != nil {
		slog.Warn("Event publisher unavailable", "error", err)
	}
	defer eventsPub.Close()
	eventsPub.Publish(ctx, events.Event{
		Type:         events.TypeSitePublished,
		ProjectID:    project.ID,
		Subdomain:    pub.Subdomain,
		URL:          pub.URL,
		ArchiveBytes: result.Report.ArchiveBytes,
	})

	fmt.Printf("Published %s at %s\n", project.Name, pub.URL)
	return nil
}

func runUnpublish(ctx context.Context, cfg *config.Config) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	publisher := publish.NewPublisher(st, cfg.BaseDomain, nil)
	if err := publisher.Unpublish(ctx, CLI.Unpublish.Project); err != nil {
		return err
	}

	eventsPub, err := events.NewPublisher(events.Config(cfg.Events))
	if err != nil {
		slog.Warn("Event publisher unavailable", "error", err)
	}
	defer eventsPub.Close()
	eventsPub.Publish(ctx, events.Event{
		Type:      events.TypeSiteUnpublished,
		ProjectID: CLI.Unpublish.Project,
	})

	fmt.Println("Unpublished")
	return nil
}

func runStatus(ctx context.Context, cfg *config.Config) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	project, err := st.Get(ctx, CLI.Status.Project)
	if err != nil {
		return bentoerr.StorageFailed("load project", err)
	}

	fmt.Printf("Project:  %s (%s)\n", project.Name, project.ID)
	fmt.Printf("Blocks:   %d\n", len(project.Site.Blocks))
	fmt.Printf("Updated:  %s\n", project.UpdatedAt.Format("2006-01-02 15:04:05"))

	publisher := publish.NewPublisher(st, cfg.BaseDomain, nil)
	pub, err := publisher.Status(ctx, project.ID)
	if err != nil {
		fmt.Println("Status:   not published")
		return nil
	}
	fmt.Printf("Status:   live at %s (since %s)\n", pub.URL, pub.PublishedAt.Format("2006-01-02"))
	return nil
}

func runPreview(ctx context.Context, cfg *config.Config) error {
	server := preview.NewServer(newExporter(cfg), CLI.Preview.Site, CLI.Preview.Addr)
	fmt.Printf("Previewing %s on http://%s\n", CLI.Preview.Site, CLI.Preview.Addr)
	return server.Run(ctx)
}

func runTemplates() error {
	category := CLI.Templates.Category
	for _, c := range templates.Categories {
		if category != "" && c.ID != category {
			continue
		}
		fmt.Printf("%s (%s)\n", c.Label, c.Description)
		for _, tpl := range templates.ByCategory(c.ID) {
			fmt.Printf("  %-22s %s\n", tpl.ID, tpl.Description)
		}
	}
	return nil
}

func runDaemon(ctx context.Context, cfg *config.Config) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	var deployer *deploy.GitDeployer
	if cfg.Deploy.Enabled {
		workDir, err := os.MkdirTemp("", "bentoforge-daemon-*")
		if err != nil {
			return bentoerr.DeployFailed(cfg.Deploy.RepoURL, err)
		}
		defer os.RemoveAll(workDir)
		deployer = deploy.NewGitDeployer(workDir)
	}

	eventsPub, err := events.NewPublisher(events.Config(cfg.Events))
	if err != nil {
		return err
	}
	defer eventsPub.Close()

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if cfg.Metrics.Enabled {
		recorder = metrics.NewPrometheusRecorder(nil)
	}

	exporter := export.New(
		export.WithCapabilities(capability.ForTier(cfg.Tier)),
		export.WithRecorder(recorder),
	)

	d, err := daemon.New(cfg, st, exporter, deployer, eventsPub, recorder)
	if err != nil {
		return err
	}
	return d.Run(ctx)
}
