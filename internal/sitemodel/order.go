package sitemodel

import "sort"

// unplacedSentinel sorts blocks without explicit grid coordinates after
// every placed block. Real coordinates are bounded well below this.
const unplacedSentinel = 999

func sortKey(v int) int {
	if v < 1 {
		return unplacedSentinel
	}
	return v
}

// CompactOrder returns the blocks ordered for the stacked (mobile)
// layout: ascending gridRow, then ascending gridColumn, unplaced blocks
// last. The input slice is not modified and the sort is stable, so
// blocks sharing a cell keep their authored order.
func CompactOrder(blocks []BlockData) []BlockData {
	sorted := make([]BlockData, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := sortKey(sorted[i].GridRow), sortKey(sorted[j].GridRow)
		if ri != rj {
			return ri < rj
		}
		return sortKey(sorted[i].GridColumn) < sortKey(sorted[j].GridColumn)
	})
	return sorted
}
