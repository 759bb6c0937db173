package sitemodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompactOrder(t *testing.T) {
	blocks := []BlockData{
		{ID: "a", Type: BlockLink, GridRow: 2, GridColumn: 1},
		{ID: "b", Type: BlockLink, GridRow: 1, GridColumn: 3},
		{ID: "c", Type: BlockLink, GridRow: 1, GridColumn: 1},
		{ID: "d", Type: BlockLink}, // unplaced, must sort last
	}

	sorted := CompactOrder(blocks)

	var ids []string
	for _, b := range sorted {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"c", "b", "a", "d"}, ids)

	// Input order untouched.
	assert.Equal(t, "a", blocks[0].ID)
}

func TestCompactOrderStableWithinCell(t *testing.T) {
	blocks := []BlockData{
		{ID: "first", Type: BlockText, GridRow: 1, GridColumn: 1},
		{ID: "second", Type: BlockText, GridRow: 1, GridColumn: 1},
	}
	sorted := CompactOrder(blocks)
	assert.Equal(t, "first", sorted[0].ID)
	assert.Equal(t, "second", sorted[1].ID)
}

func TestCompactOrderAllUnplaced(t *testing.T) {
	blocks := []BlockData{{ID: "x"}, {ID: "y"}, {ID: "z"}}
	sorted := CompactOrder(blocks)
	assert.Len(t, sorted, 3)
	assert.Equal(t, "x", sorted[0].ID)
}

func TestNormalizedSpan(t *testing.T) {
	tests := []struct {
		name            string
		col, row        int
		wantCol, wantRow int
	}{
		{"in range", 3, 2, 3, 2},
		{"zero spans", 0, 0, 1, 1},
		{"oversized colSpan clamps", 12, 5, 9, 5},
		{"negative", -1, -1, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := BlockData{ColSpan: tt.col, RowSpan: tt.row}
			c, r := b.NormalizedSpan()
			assert.Equal(t, tt.wantCol, c)
			assert.Equal(t, tt.wantRow, r)
		})
	}
}

func TestBlockTypeValid(t *testing.T) {
	assert.True(t, BlockLink.Valid())
	assert.True(t, BlockCustomHTML.Valid())
	assert.False(t, BlockType("THREE_D").Valid())
	assert.False(t, BlockType("").Valid())
}

func TestBrandingVisibleDefaultsTrue(t *testing.T) {
	p := UserProfile{}
	assert.True(t, p.BrandingVisible())

	hidden := false
	p.ShowBranding = &hidden
	assert.False(t, p.BrandingVisible())
}

func TestMapViewLegacyAddress(t *testing.T) {
	b := BlockData{Type: BlockMap, Content: "1 Main St"}
	assert.Equal(t, "1 Main St", b.Map().Address)

	embed := BlockData{Type: BlockMapEmbed, MapAddress: "2 Oak Ave", Content: "ignored"}
	assert.Equal(t, "2 Oak Ave", embed.Map().Address)
}
