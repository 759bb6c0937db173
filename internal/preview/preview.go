// Package preview runs a local HTTP server over a live export of a
// site file, rebuilding whenever the file changes on disk.
package preview

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/bentoforge/internal/export"
	"git.home.luguber.info/inful/bentoforge/internal/export/render"
	"git.home.luguber.info/inful/bentoforge/internal/sitemodel"
)

const rebuildDebounce = 300 * time.Millisecond

// Server exports a site file and serves the result over HTTP.
type Server struct {
	exporter *export.Exporter
	sitePath string
	addr     string

	mu    sync.RWMutex
	files map[string][]byte
}

// NewServer creates a preview server for the given site file.
func NewServer(exporter *export.Exporter, sitePath, addr string) *Server {
	return &Server{
		exporter: exporter,
		sitePath: sitePath,
		addr:     addr,
		files:    map[string][]byte{},
	}
}

// LoadSite parses a site snapshot from a JSON or YAML file.
func LoadSite(path string) (*sitemodel.SiteData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read site file: %w", err)
	}

	var site sitemodel.SiteData
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &site); err != nil {
			return nil, fmt.Errorf("parse site yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &site); err != nil {
			return nil, fmt.Errorf("parse site json: %w", err)
		}
	}
	return &site, nil
}

// Rebuild exports the site file and swaps in the new file set. The
// previous good build keeps serving when the rebuild fails.
func (s *Server) Rebuild(ctx context.Context) error {
	site, err := LoadSite(s.sitePath)
	if err != nil {
		return err
	}

	// Preview always renders the self-contained static page; a Vite
	// source tree is not directly viewable.
	opts := render.Options{
		DeploymentTarget:     render.TargetStaticHTML,
		IncludeServiceWorker: false,
		IncludeAnalytics:     false,
	}
	result, err := s.exporter.Export(ctx, site, site.Profile.Name, opts)
	if err != nil {
		return err
	}

	files, err := explode(result.Archive)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.files = files
	s.mu.Unlock()
	return nil
}

// explode unpacks an archive into a path-addressed map.
func explode(archive []byte) (map[string][]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	files := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open entry %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read entry %s: %w", f.Name, err)
		}
		files[f.Name] = data
	}
	return files, nil
}

// ServeHTTP serves the current build. "/" maps to index.html.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	if name == "" {
		name = "index.html"
	}

	s.mu.RLock()
	data, ok := s.files[name]
	s.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}

	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}

// Run builds once, starts the HTTP server and watches the site file
// until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Rebuild(ctx); err != nil {
		return err
	}

	httpServer := &http.Server{Addr: s.addr, Handler: s}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Preview server listening", "addr", s.addr, "site", s.sitePath)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory, not the file: editors replace files on save
	// and the watch would die with the old inode.
	if err := watcher.Add(filepath.Dir(s.sitePath)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(s.sitePath), err)
	}

	var timerMu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)
	trigger := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(rebuildDebounce, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}

	target := filepath.Base(s.sitePath)
	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		case err := <-errCh:
			return err
		case <-rebuildReq:
			slog.Info("Change detected; rebuilding preview")
			if err := s.Rebuild(ctx); err != nil {
				slog.Warn("Rebuild failed; serving last good build", "error", err)
			}
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) == target && ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				trigger()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", "error", err)
		}
	}
}
