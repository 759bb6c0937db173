// Package export implements the static site export pipeline: media
// extraction, template rendering and archive assembly, sequenced by a
// single orchestrator. Each run is a fresh, side-effect-free
// computation over its input snapshot; identical input produces a
// byte-identical archive.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/bentoforge/internal/bentoerr"
	"git.home.luguber.info/inful/bentoforge/internal/capability"
	"git.home.luguber.info/inful/bentoforge/internal/export/archive"
	"git.home.luguber.info/inful/bentoforge/internal/export/assets"
	"git.home.luguber.info/inful/bentoforge/internal/export/media"
	"git.home.luguber.info/inful/bentoforge/internal/export/render"
	"git.home.luguber.info/inful/bentoforge/internal/metrics"
	"git.home.luguber.info/inful/bentoforge/internal/sitemodel"
)

// Result is a finished export.
type Result struct {
	Archive  []byte
	MediaMap media.Map
	Report   *Report
}

// Exporter sequences the pipeline. Safe for concurrent use: each call
// builds its own run state and no global state is touched.
type Exporter struct {
	recorder metrics.Recorder
	observer Observer
	caps     capability.Set
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(e *Exporter) {
		if r != nil {
			e.recorder = r
		}
	}
}

// WithObserver injects a stage observer.
func WithObserver(o Observer) Option {
	return func(e *Exporter) {
		if o != nil {
			e.observer = o
		}
	}
}

// WithCapabilities sets the caller's capability set. Branding removal
// is only honored when the set grants it.
func WithCapabilities(caps capability.Set) Option {
	return func(e *Exporter) { e.caps = caps }
}

// New creates an Exporter.
func New(opts ...Option) *Exporter {
	e := &Exporter{
		recorder: metrics.NoopRecorder{},
		observer: NoopObserver{},
		caps:     capability.FreeTier(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// runState is the per-run working set threaded through the stages.
type runState struct {
	site    *sitemodel.SiteData
	name    string
	opts    render.Options
	builder *archive.Builder
	media   media.Map
	archive []byte
	report  *Report
}

// Export runs the full pipeline over the snapshot and returns the
// finished archive. The snapshot is never mutated.
func (e *Exporter) Export(ctx context.Context, site *sitemodel.SiteData, projectName string, opts render.Options) (*Result, error) {
	if site == nil {
		return nil, bentoerr.ValidationFailed("site", "nil snapshot")
	}
	if !opts.DeploymentTarget.Valid() {
		opts.DeploymentTarget = render.TargetFrameworkProject
	}
	if opts.RemoveBranding && !e.caps.Has(capability.RemoveBranding) {
		slog.Debug("Branding removal not granted by capability set; keeping branding")
		opts.RemoveBranding = false
	}

	rs := &runState{
		site:    site,
		name:    projectName,
		opts:    opts,
		builder: archive.NewBuilder(),
		report:  newReport(uuid.NewString(), projectName),
	}
	if opts.DeploymentTarget == render.TargetStaticHTML {
		rs.builder.SetAssetDir("assets")
	}

	stages := []stageDef{
		{Name: StageExtract, State: StateExtracting, Fn: stageExtract},
		{Name: StageRender, State: StateRendering, Fn: e.stageRender},
		{Name: StageAssemble, State: StateAssembling, Fn: stageAssemble},
	}

	start := time.Now()
	err := e.runStages(ctx, rs, stages)
	rs.report.Duration = time.Since(start)
	e.recorder.ObserveExportDuration(rs.report.Duration)

	if err != nil {
		rs.report.State = StateFailed
		rs.report.Error = err.Error()
		if ctx.Err() != nil {
			e.recorder.IncExportOutcome("canceled")
		} else {
			e.recorder.IncExportOutcome("failed")
		}
		e.observer.OnExportComplete(rs.report)
		return nil, err
	}

	rs.report.State = StateDone
	e.recorder.IncExportOutcome("success")
	e.recorder.ObserveArchiveSize(rs.report.ArchiveBytes)
	e.recorder.ObserveAssetsExtracted(rs.report.AssetsExtracted)
	e.observer.OnExportComplete(rs.report)

	slog.Info("Export completed",
		"run_id", rs.report.RunID,
		"project", projectName,
		"target", string(opts.DeploymentTarget),
		"files", len(rs.report.Files),
		"assets", rs.report.AssetsExtracted,
		"bytes", rs.report.ArchiveBytes)

	return &Result{Archive: rs.archive, MediaMap: rs.media, Report: rs.report}, nil
}

// runStages executes stages in order, recording timing and stopping on
// the first fatal error. Cancellation is checked between stages.
func (e *Exporter) runStages(ctx context.Context, rs *runState, stages []stageDef) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			rs.report.StageResults[st.Name] = StageResultCanceled
			e.recorder.IncStageResult(string(st.Name), metrics.ResultCanceled)
			e.observer.OnStageComplete(st.Name, 0, StageResultCanceled)
			return bentoerr.Wrap(ctx.Err(), bentoerr.CategoryRuntime, bentoerr.SeverityFatal, "export canceled").
				WithContext("stage", string(st.Name))
		default:
		}

		rs.report.State = st.State
		e.observer.OnStageStart(st.Name)

		t0 := time.Now()
		err := st.Fn(ctx, rs)
		dur := time.Since(t0)

		rs.report.StageDurations[st.Name] = dur
		e.recorder.ObserveStageDuration(string(st.Name), dur)

		if err != nil {
			rs.report.StageResults[st.Name] = StageResultFatal
			e.recorder.IncStageResult(string(st.Name), metrics.ResultFatal)
			e.observer.OnStageComplete(st.Name, dur, StageResultFatal)
			return err
		}

		rs.report.StageResults[st.Name] = StageResultSuccess
		e.recorder.IncStageResult(string(st.Name), metrics.ResultSuccess)
		e.observer.OnStageComplete(st.Name, dur, StageResultSuccess)
	}
	return nil
}

// stageExtract runs the media extractor. Individual malformed assets
// are skipped inside the extractor; this stage itself cannot fail.
func stageExtract(_ context.Context, rs *runState) error {
	rs.media = media.Extract(rs.site, rs.builder)
	rs.report.AssetsExtracted = len(rs.media)
	return nil
}

// stageRender computes every generated text artifact for the selected
// target. Template functions are pure and order-independent.
func (e *Exporter) stageRender(_ context.Context, rs *runState) error {
	indexHTML, err := render.RenderIndexHTML(rs.site, rs.media, rs.opts)
	if err != nil {
		return bentoerr.RenderFailed("index.html", err)
	}

	manifest, err := assets.WebManifest(rs.site.Profile.Name, rs.site.Profile.PrimaryColor)
	if err != nil {
		return bentoerr.RenderFailed("manifest.json", err)
	}

	switch rs.opts.DeploymentTarget {
	case render.TargetStaticHTML:
		rs.builder.AddText("index.html", indexHTML)
		rs.builder.AddText("app.js", render.RenderAppJS(rs.site, rs.opts))
		rs.builder.AddBinary("manifest.json", manifest)
		if err := addEmbedded(rs.builder, map[string]string{
			"styles.css": assets.Stylesheet,
		}); err != nil {
			return err
		}
		if rs.opts.IncludeServiceWorker {
			if err := addEmbedded(rs.builder, map[string]string{"sw.js": assets.ServiceWorker}); err != nil {
				return err
			}
		}

	default: // framework project
		appSource, err := render.RenderAppSource(rs.site, rs.media, rs.opts)
		if err != nil {
			return bentoerr.RenderFailed("src/App.tsx", err)
		}
		packageJSON, err := render.RenderPackageJSON(rs.name)
		if err != nil {
			return bentoerr.RenderFailed("package.json", err)
		}

		rs.builder.AddText("index.html", indexHTML)
		rs.builder.AddText("package.json", packageJSON)
		rs.builder.AddText("src/App.tsx", appSource)
		rs.builder.AddText("src/main.tsx", render.RenderMainEntry())
		rs.builder.AddBinary("public/manifest.json", manifest)
		if err := addEmbedded(rs.builder, map[string]string{
			"vite.config.ts":     assets.ViteConfig,
			"tailwind.config.js": assets.TailwindConfig,
			"postcss.config.js":  assets.PostCSSConfig,
			"tsconfig.json":      assets.TSConfig,
			"src/index.css":      assets.IndexCSS,
		}); err != nil {
			return err
		}
		if rs.opts.IncludeServiceWorker {
			if err := addEmbedded(rs.builder, map[string]string{"public/sw.js": assets.ServiceWorker}); err != nil {
				return err
			}
		}
	}
	return nil
}

func addEmbedded(b *archive.Builder, files map[string]string) error {
	for path, name := range files {
		data, err := assets.Read(name)
		if err != nil {
			return bentoerr.RenderFailed(path, err)
		}
		b.AddBinary(path, data)
	}
	return nil
}

// stageAssemble finalizes the archive. This is the only stage whose
// failure reaches the end user as "export failed".
func stageAssemble(_ context.Context, rs *runState) error {
	data, err := rs.builder.Bytes()
	if err != nil {
		return bentoerr.ArchiveFailed(err)
	}
	rs.archive = data
	rs.report.Files = rs.builder.Paths()
	rs.report.ArchiveBytes = int64(len(data))
	return nil
}

// WriteArchive is a convenience for callers that want the archive on
// disk; it refuses to leave a partial file behind on error.
func WriteArchive(result *Result, path string) error {
	if result == nil || len(result.Archive) == 0 {
		return bentoerr.New(bentoerr.CategoryArchive, bentoerr.SeverityFatal, "no archive to write")
	}
	if err := writeFileAtomic(path, result.Archive); err != nil {
		return bentoerr.ArchiveFailed(fmt.Errorf("write %s: %w", path, err))
	}
	return nil
}
