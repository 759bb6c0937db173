package preview

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bentoforge/internal/export"
)

const siteJSON = `{
  "profile": {"name": "Ada", "bio": "hello"},
  "blocks": [
    {"id": "b1", "type": "LINK", "title": "Site", "content": "https://example.com", "colSpan": 3, "rowSpan": 1}
  ]
}`

const siteYAML = `
profile:
  name: Ada
  bio: from yaml
blocks:
  - id: b1
    type: TEXT
    content: hi there
    colSpan: 3
    rowSpan: 1
`

func writeSite(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSiteJSON(t *testing.T) {
	site, err := LoadSite(writeSite(t, "site.json", siteJSON))
	require.NoError(t, err)
	assert.Equal(t, "Ada", site.Profile.Name)
	require.Len(t, site.Blocks, 1)
}

func TestLoadSiteYAML(t *testing.T) {
	site, err := LoadSite(writeSite(t, "site.yaml", siteYAML))
	require.NoError(t, err)
	assert.Equal(t, "from yaml", site.Profile.Bio)
}

func TestLoadSiteBadFile(t *testing.T) {
	_, err := LoadSite(writeSite(t, "site.json", "{nope"))
	require.Error(t, err)

	_, err = LoadSite(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestRebuildAndServe(t *testing.T) {
	path := writeSite(t, "site.json", siteJSON)
	s := NewServer(export.New(), path, ":0")
	require.NoError(t, s.Rebuild(context.Background()))

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://example.com")
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("GET", "/styles.css", nil))
	require.Equal(t, 200, rec.Code)

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("GET", "/no-such-file", nil))
	assert.Equal(t, 404, rec.Code)
}

func TestRebuildKeepsLastGoodBuild(t *testing.T) {
	path := writeSite(t, "site.json", siteJSON)
	s := NewServer(export.New(), path, ":0")
	require.NoError(t, s.Rebuild(context.Background()))

	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))
	require.Error(t, s.Rebuild(context.Background()))

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, 200, rec.Code)
}
