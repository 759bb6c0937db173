package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bentoforge/internal/sitemodel"
)

type fullStore interface {
	ProjectStore
	PublicationStore
	CountProjects(ctx context.Context, owner string) (int, error)
}

// Both implementations must satisfy the same behavior; run the suite
// against each.
func storeImpls(t *testing.T) map[string]fullStore {
	t.Helper()

	sqlite, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]fullStore{
		"sqlite": sqlite,
		"memory": NewMemoryStore(),
	}
}

func sampleProject(id, owner string) *Project {
	site := NewSite("Sample")
	site.Blocks = append(site.Blocks, sitemodel.BlockData{
		ID: "b1", Type: sitemodel.BlockLink, Content: "https://example.com", ColSpan: 3, RowSpan: 1,
	})
	return &Project{ID: id, Name: "Sample", Owner: owner, Site: site}
}

func TestProjectRoundTrip(t *testing.T) {
	for name, s := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, s.Put(ctx, sampleProject("p1", "ada")))

			got, err := s.Get(ctx, "p1")
			require.NoError(t, err)
			assert.Equal(t, "Sample", got.Name)
			require.Len(t, got.Site.Blocks, 1)
			assert.Equal(t, sitemodel.BlockLink, got.Site.Blocks[0].Type)
			assert.False(t, got.CreatedAt.IsZero())
		})
	}
}

func TestProjectGetMissing(t *testing.T) {
	for name, s := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(context.Background(), "nope")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestProjectUpdatePreservesCreatedAt(t *testing.T) {
	for name, s := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			p := sampleProject("p1", "ada")
			require.NoError(t, s.Put(ctx, p))
			created := p.CreatedAt

			p.Name = "Renamed"
			require.NoError(t, s.Put(ctx, p))

			got, err := s.Get(ctx, "p1")
			require.NoError(t, err)
			assert.Equal(t, "Renamed", got.Name)
			assert.WithinDuration(t, created, got.CreatedAt, time.Second)
		})
	}
}

func TestProjectListAndCount(t *testing.T) {
	for name, s := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Put(ctx, sampleProject("p1", "ada")))
			require.NoError(t, s.Put(ctx, sampleProject("p2", "ada")))
			require.NoError(t, s.Put(ctx, sampleProject("p3", "eve")))

			list, err := s.List(ctx, "ada")
			require.NoError(t, err)
			assert.Len(t, list, 2)

			n, err := s.CountProjects(ctx, "ada")
			require.NoError(t, err)
			assert.Equal(t, 2, n)
		})
	}
}

func TestProjectDelete(t *testing.T) {
	for name, s := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Put(ctx, sampleProject("p1", "ada")))
			require.NoError(t, s.Delete(ctx, "p1"))
			_, err := s.Get(ctx, "p1")
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, s.Delete(ctx, "p1"), ErrNotFound)
		})
	}
}

func TestDeleteStaleProjects(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put(ctx, sampleProject("stale", "ada")))
	require.NoError(t, s.Put(ctx, sampleProject("stale-published", "ada")))
	require.NoError(t, s.Put(ctx, sampleProject("fresh", "ada")))

	// Age two projects past the cutoff.
	old := time.Now().Add(-48 * time.Hour).Unix()
	_, err = s.db.Exec("UPDATE projects SET updated_at = ? WHERE id IN ('stale', 'stale-published')", old)
	require.NoError(t, err)

	require.NoError(t, s.PutPublication(ctx, &Publication{
		Subdomain: "kept", ProjectID: "stale-published", URL: "u", PublishedAt: time.Now(),
	}))

	n, err := s.DeleteStaleProjects(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.Get(ctx, "stale")
	assert.ErrorIs(t, err, ErrNotFound)

	// Published and fresh projects survive.
	_, err = s.Get(ctx, "stale-published")
	assert.NoError(t, err)
	_, err = s.Get(ctx, "fresh")
	assert.NoError(t, err)
}

func TestPublicationClaims(t *testing.T) {
	for name, s := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			now := time.Now()

			require.NoError(t, s.PutPublication(ctx, &Publication{
				Subdomain: "ada", ProjectID: "p1", URL: "https://ada.bento.me", PublishedAt: now,
			}))

			// A different project cannot take the subdomain.
			err := s.PutPublication(ctx, &Publication{
				Subdomain: "ada", ProjectID: "p2", URL: "https://ada.bento.me", PublishedAt: now,
			})
			require.Error(t, err)

			// Republishing the same project refreshes it.
			require.NoError(t, s.PutPublication(ctx, &Publication{
				Subdomain: "ada", ProjectID: "p1", URL: "https://ada.bento.me", PublishedAt: now.Add(time.Hour),
			}))

			got, err := s.GetPublicationBySubdomain(ctx, "ada")
			require.NoError(t, err)
			assert.Equal(t, "p1", got.ProjectID)
		})
	}
}

func TestPublicationMoveReleasesOldSubdomain(t *testing.T) {
	for name, s := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			now := time.Now()

			require.NoError(t, s.PutPublication(ctx, &Publication{
				Subdomain: "old-name", ProjectID: "p1", URL: "https://old-name.bento.me", PublishedAt: now,
			}))
			require.NoError(t, s.PutPublication(ctx, &Publication{
				Subdomain: "new-name", ProjectID: "p1", URL: "https://new-name.bento.me", PublishedAt: now,
			}))

			_, err := s.GetPublicationBySubdomain(ctx, "old-name")
			assert.ErrorIs(t, err, ErrNotFound)

			got, err := s.GetPublicationByProject(ctx, "p1")
			require.NoError(t, err)
			assert.Equal(t, "new-name", got.Subdomain)
		})
	}
}

func TestPublicationDeleteAndList(t *testing.T) {
	for name, s := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			now := time.Now()

			require.NoError(t, s.PutPublication(ctx, &Publication{Subdomain: "b", ProjectID: "p2", URL: "u", PublishedAt: now}))
			require.NoError(t, s.PutPublication(ctx, &Publication{Subdomain: "a", ProjectID: "p1", URL: "u", PublishedAt: now}))

			list, err := s.ListPublications(ctx)
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, "a", list[0].Subdomain)

			require.NoError(t, s.DeletePublication(ctx, "a"))
			assert.ErrorIs(t, s.DeletePublication(ctx, "a"), ErrNotFound)
		})
	}
}
