package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bentoforge/internal/sitemodel"
)

func TestGalleryCoversEveryCategory(t *testing.T) {
	for _, c := range Categories {
		assert.NotEmpty(t, ByCategory(c.ID), "category %s has no templates", c.ID)
	}
}

func TestGalleryIsWellFormed(t *testing.T) {
	for _, tpl := range All() {
		require.NotEmpty(t, tpl.ID)
		require.NotNil(t, Get(tpl.ID))
		assert.NotEmpty(t, tpl.Site.Profile.Name, "template %s", tpl.ID)
		for _, b := range tpl.Site.Blocks {
			assert.True(t, b.Type.Valid(), "template %s block %s has unknown type %s", tpl.ID, b.ID, b.Type)
			colSpan, rowSpan := b.NormalizedSpan()
			assert.Equal(t, b.ColSpan, colSpan, "template %s block %s colSpan out of range", tpl.ID, b.ID)
			assert.Equal(t, b.RowSpan, rowSpan, "template %s block %s rowSpan out of range", tpl.ID, b.ID)
			assert.True(t, b.Placed(), "template %s block %s must be explicitly placed", tpl.ID, b.ID)
		}
	}
}

func TestInstantiateMintsFreshIDs(t *testing.T) {
	tpl := Get("personal-links")
	require.NotNil(t, tpl)

	a := tpl.Instantiate()
	b := tpl.Instantiate()

	require.Len(t, a.Blocks, len(tpl.Site.Blocks))
	assert.Equal(t, sitemodel.GridVersion, a.GridVersion)

	seen := map[string]bool{}
	for i := range a.Blocks {
		assert.NotEqual(t, tpl.Site.Blocks[i].ID, a.Blocks[i].ID)
		assert.NotEqual(t, a.Blocks[i].ID, b.Blocks[i].ID)
		assert.False(t, seen[a.Blocks[i].ID])
		seen[a.Blocks[i].ID] = true
		// Layout is preserved.
		assert.Equal(t, tpl.Site.Blocks[i].GridColumn, a.Blocks[i].GridColumn)
		assert.Equal(t, tpl.Site.Blocks[i].Type, a.Blocks[i].Type)
	}

	// The gallery itself is untouched.
	assert.Equal(t, "t1", tpl.Site.Blocks[0].ID)
}

func TestGetUnknown(t *testing.T) {
	assert.Nil(t, Get("no-such-template"))
}
