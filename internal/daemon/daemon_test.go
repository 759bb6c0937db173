package daemon

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bentoforge/internal/config"
	"git.home.luguber.info/inful/bentoforge/internal/export"
	"git.home.luguber.info/inful/bentoforge/internal/store"
)

func testDaemon(t *testing.T) (*Daemon, *store.SQLiteStore) {
	t.Helper()
	st, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	d, err := New(config.Default(), st, export.New(), nil, nil, nil)
	require.NoError(t, err)
	return d, st
}

func TestRepublishOne(t *testing.T) {
	d, st := testDaemon(t)
	ctx := context.Background()

	site := store.NewSite("Ada")
	require.NoError(t, st.Put(ctx, &store.Project{ID: "p1", Name: "Ada", Owner: "ada", Site: site}))
	pub := &store.Publication{Subdomain: "ada", ProjectID: "p1", URL: "https://ada.offlink.bio", PublishedAt: time.Now()}
	require.NoError(t, st.PutPublication(ctx, pub))

	// Deploy disabled, events nil: the export itself must still succeed.
	require.NoError(t, d.republishOne(ctx, pub))
}

func TestRepublishOneMissingProject(t *testing.T) {
	d, _ := testDaemon(t)
	err := d.republishOne(context.Background(), &store.Publication{Subdomain: "x", ProjectID: "ghost"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRepublishSweepEmptyRegistry(t *testing.T) {
	d, _ := testDaemon(t)
	// Must not panic or error with nothing published.
	d.republishSweep(context.Background())
}

func TestRetentionSweep(t *testing.T) {
	d, st := testDaemon(t)
	ctx := context.Background()

	require.NoError(t, st.Put(ctx, &store.Project{ID: "p1", Name: "Ada", Owner: "ada", Site: store.NewSite("Ada")}))
	d.retentionSweep(ctx)

	// Fresh project survives the default 90 day window.
	_, err := st.Get(ctx, "p1")
	assert.NoError(t, err)
}
