package export

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bentoforge/internal/capability"
	"git.home.luguber.info/inful/bentoforge/internal/export/render"
	"git.home.luguber.info/inful/bentoforge/internal/sitemodel"
)

var pngPixel = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x01, 0x02, 0x03}

func dataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func testSite() *sitemodel.SiteData {
	return &sitemodel.SiteData{
		Profile: sitemodel.UserProfile{
			Name:      "Ada Lovelace",
			Bio:       "Analyst and programmer",
			AvatarURL: dataURI("image/png", pngPixel),
		},
		Blocks: []sitemodel.BlockData{
			{ID: "b1", Type: sitemodel.BlockLink, Title: "My Site", Content: "https://example.com", ColSpan: 3, RowSpan: 1, GridRow: 1, GridColumn: 1},
			{ID: "b2", Type: sitemodel.BlockText, Content: "Hello **world**", ColSpan: 3, RowSpan: 1, GridRow: 1, GridColumn: 4},
		},
		GridVersion: sitemodel.GridVersion,
	}
}

func unzip(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	files := make(map[string][]byte)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		files[f.Name] = content
	}
	return files
}

func TestExportFrameworkProjectLayout(t *testing.T) {
	result, err := New().Export(context.Background(), testSite(), "My Project", render.DefaultOptions())
	require.NoError(t, err)

	files := unzip(t, result.Archive)
	for _, want := range []string{
		"index.html", "package.json", "src/App.tsx", "src/main.tsx",
		"src/index.css", "vite.config.ts", "tailwind.config.js",
		"postcss.config.js", "tsconfig.json", "public/manifest.json",
		"public/sw.js", "public/assets/avatar.png",
	} {
		assert.Contains(t, files, want)
	}
	assert.Equal(t, StateDone, result.Report.State)
	assert.Equal(t, 1, result.Report.AssetsExtracted)
}

func TestExportStaticHTMLLayout(t *testing.T) {
	opts := render.Options{DeploymentTarget: render.TargetStaticHTML, IncludeServiceWorker: true}
	result, err := New().Export(context.Background(), testSite(), "My Project", opts)
	require.NoError(t, err)

	files := unzip(t, result.Archive)
	for _, want := range []string{
		"index.html", "app.js", "styles.css", "manifest.json", "sw.js", "assets/avatar.png",
	} {
		assert.Contains(t, files, want)
	}
	assert.NotContains(t, files, "package.json")
	assert.NotContains(t, files, "src/App.tsx")
	assert.Contains(t, string(files["index.html"]), `src="/app.js"`)
}

func TestExportIsDeterministic(t *testing.T) {
	site := testSite()
	opts := render.DefaultOptions()

	first, err := New().Export(context.Background(), site, "Determinism", opts)
	require.NoError(t, err)
	second, err := New().Export(context.Background(), site, "Determinism", opts)
	require.NoError(t, err)

	assert.Equal(t, first.Archive, second.Archive, "same input must produce byte-identical archives")
}

func TestExportMediaRoundTrip(t *testing.T) {
	site := testSite()
	site.Blocks = append(site.Blocks, sitemodel.BlockData{
		ID: "b3", Type: sitemodel.BlockMedia, ImageURL: dataURI("image/jpeg", []byte("jpeg-bytes")),
		ColSpan: 3, RowSpan: 2,
	})

	result, err := New().Export(context.Background(), site, "Media", render.DefaultOptions())
	require.NoError(t, err)

	files := unzip(t, result.Archive)
	assert.Equal(t, pngPixel, files["public/assets/avatar.png"])
	assert.Equal(t, []byte("jpeg-bytes"), files["public/assets/block-b3.jpg"])

	// The generated source references the asset path, never the data URI.
	app := string(files["src/App.tsx"])
	assert.Contains(t, app, "/assets/block-b3.jpg")
	assert.NotContains(t, app, "base64")
	assert.Equal(t, "/assets/block-b3.jpg", result.MediaMap["block_b3"])
}

func TestExportExternalURLPassthrough(t *testing.T) {
	site := testSite()
	site.Profile.AvatarURL = "https://cdn.example.com/avatar.png"

	result, err := New().Export(context.Background(), site, "External", render.DefaultOptions())
	require.NoError(t, err)

	assert.Empty(t, result.MediaMap)
	files := unzip(t, result.Archive)
	assert.NotContains(t, files, "public/assets/avatar.png")
	assert.Contains(t, string(files["src/App.tsx"]), "https://cdn.example.com/avatar.png")
}

func TestExportSkipsMalformedAsset(t *testing.T) {
	site := testSite()
	site.Blocks = append(site.Blocks, sitemodel.BlockData{
		ID: "bad", Type: sitemodel.BlockMedia, ImageURL: "data:image/png;base64,!!!not-base64!!!",
		ColSpan: 3, RowSpan: 1,
	})

	result, err := New().Export(context.Background(), site, "Degraded", render.DefaultOptions())
	require.NoError(t, err, "a single malformed asset must not fail the export")
	assert.NotContains(t, result.MediaMap, "block_bad")
	assert.Contains(t, result.MediaMap, "profile_avatar")
}

func TestExportUnknownBlockTypeDegrades(t *testing.T) {
	site := testSite()
	site.Blocks = append(site.Blocks, sitemodel.BlockData{
		ID: "mystery", Type: sitemodel.BlockType("HOLOGRAM"), ColSpan: 3, RowSpan: 1,
	})

	opts := render.Options{DeploymentTarget: render.TargetStaticHTML}
	result, err := New().Export(context.Background(), site, "Unknown", opts)
	require.NoError(t, err)

	html := string(unzip(t, result.Archive)["index.html"])
	assert.NotContains(t, html, "HOLOGRAM")
	assert.Contains(t, html, "https://example.com", "known blocks still render")
}

func TestExportNilSite(t *testing.T) {
	_, err := New().Export(context.Background(), nil, "x", render.DefaultOptions())
	require.Error(t, err)
}

func TestExportCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Export(ctx, testSite(), "Canceled", render.DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "canceled")
}

func TestExportBrandingRequiresCapability(t *testing.T) {
	site := testSite()
	opts := render.Options{DeploymentTarget: render.TargetStaticHTML, RemoveBranding: true}

	free, err := New().Export(context.Background(), site, "Free", opts)
	require.NoError(t, err)
	assert.Contains(t, string(unzip(t, free.Archive)["index.html"]), "Made with")

	pro, err := New(WithCapabilities(capability.ProTier())).Export(context.Background(), site, "Pro", opts)
	require.NoError(t, err)
	assert.NotContains(t, string(unzip(t, pro.Archive)["index.html"]), "Made with")
}

type recordingObserver struct {
	started   []StageName
	completed []StageName
	report    *Report
}

func (o *recordingObserver) OnStageStart(s StageName) { o.started = append(o.started, s) }
func (o *recordingObserver) OnStageComplete(s StageName, _ time.Duration, _ StageResult) {
	o.completed = append(o.completed, s)
}
func (o *recordingObserver) OnExportComplete(r *Report) { o.report = r }

func TestExportObserverSeesStagesInOrder(t *testing.T) {
	obs := &recordingObserver{}
	_, err := New(WithObserver(obs)).Export(context.Background(), testSite(), "Observed", render.DefaultOptions())
	require.NoError(t, err)

	want := []StageName{StageExtract, StageRender, StageAssemble}
	assert.Equal(t, want, obs.started)
	assert.Equal(t, want, obs.completed)
	require.NotNil(t, obs.report)
	assert.Equal(t, StateDone, obs.report.State)
	for _, s := range want {
		assert.Equal(t, StageResultSuccess, obs.report.StageResults[s])
	}
}

func TestExportReportListsFiles(t *testing.T) {
	result, err := New().Export(context.Background(), testSite(), "Report", render.DefaultOptions())
	require.NoError(t, err)

	require.NotEmpty(t, result.Report.Files)
	assert.True(t, strings.Contains(strings.Join(result.Report.Files, "\n"), "index.html"))
	assert.Equal(t, int64(len(result.Archive)), result.Report.ArchiveBytes)
	assert.NotEmpty(t, result.Report.RunID)
}
