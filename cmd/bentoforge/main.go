package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/bentoforge/internal/bentoerr"
	"git.home.luguber.info/inful/bentoforge/internal/config"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"bentoforge.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	New struct {
		Template string `short:"t" help:"Template ID (see 'templates' command)" default:"personal-links"`
		Name     string `short:"n" help:"Project name" required:""`
		Owner    string `help:"Project owner" default:"local"`
	} `cmd:"" help:"Create a new project from a starter template"`

	Export struct {
		Project string `short:"p" help:"Project ID to export" xor:"source"`
		Site    string `short:"s" help:"Site file (JSON or YAML) to export" xor:"source"`
		Output  string `short:"o" help:"Output archive path" default:"site.zip"`
		Target  string `help:"Deployment target (static-html or framework-project)"`
	} `cmd:"" help:"Export a site to a deployable archive"`

	Publish struct {
		Project   string `short:"p" help:"Project ID to publish" required:""`
		Subdomain string `help:"Requested subdomain (defaults to a suggestion from the project name)"`
	} `cmd:"" help:"Export, deploy and publish a project to a subdomain"`

	Unpublish struct {
		Project string `short:"p" help:"Project ID to unpublish" required:""`
	} `cmd:"" help:"Release a project's subdomain"`

	Status struct {
		Project string `short:"p" help:"Project ID" required:""`
	} `cmd:"" help:"Show a project's publication status"`

	Dump struct {
		Project string `short:"p" help:"Project ID to dump" required:""`
		Output  string `short:"o" help:"Output file path" default:"project.json"`
	} `cmd:"" help:"Write a project as a portable JSON snapshot"`

	Import struct {
		File  string `short:"f" help:"Snapshot file to import" required:""`
		Owner string `help:"Owner for the imported project" default:"local"`
	} `cmd:"" help:"Import a project from a JSON snapshot"`

	Preview struct {
		Site string `short:"s" help:"Site file (JSON or YAML) to preview" required:""`
		Addr string `help:"Listen address" default:"localhost:8080"`
	} `cmd:"" help:"Serve a live-rebuilding preview of a site file"`

	Templates struct {
		Category string `help:"Only list one category"`
	} `cmd:"" help:"List the starter template gallery"`

	Daemon struct{} `cmd:"" help:"Run the background republish and retention daemon"`
}

func main() {
	kctx := kong.Parse(&CLI)

	cfg := loadConfigOrDefault(kctx.Command())
	setupLogging(cfg)

	errAdapter := bentoerr.NewCLIAdapter(CLI.Verbose, slog.Default())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch kctx.Command() {
	case "init":
		err = runInit()
	case "new":
		err = runNew(ctx, cfg)
	case "export":
		err = runExport(ctx, cfg)
	case "publish":
		err = runPublish(ctx, cfg)
	case "unpublish":
		err = runUnpublish(ctx, cfg)
	case "status":
		err = runStatus(ctx, cfg)
	case "dump":
		err = runDump(ctx, cfg)
	case "import":
		err = runImport(ctx, cfg)
	case "preview":
		err = runPreview(ctx, cfg)
	case "templates":
		err = runTemplates()
	case "daemon":
		err = runDaemon(ctx, cfg)
	default:
		kctx.FatalIfErrorf(kctx.Error)
	}
	errAdapter.HandleError(err)
}

// loadConfigOrDefault loads the config file; commands that work without
// one (init, templates, preview, export from a site file) fall back to
// defaults when it is missing.
func loadConfigOrDefault(command string) *config.Config {
	cfg, err := config.Load(CLI.Config)
	if err == nil {
		return cfg
	}
	switch command {
	case "init", "templates", "preview":
		return config.Default()
	case "export":
		if CLI.Export.Site != "" {
			return config.Default()
		}
	}
	if _, statErr := os.Stat(CLI.Config); os.IsNotExist(statErr) {
		return config.Default()
	}
	// The file exists but is invalid; that is always fatal.
	bentoerr.NewCLIAdapter(CLI.Verbose, slog.Default()).HandleError(err)
	return nil
}

func setupLogging(cfg *config.Config) {
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if CLI.Verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
