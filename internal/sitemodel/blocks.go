package sitemodel

// BlockType tags a BlockData record with its rendering semantics.
type BlockType string

const (
	BlockLink       BlockType = "LINK"
	BlockText       BlockType = "TEXT"
	BlockMedia      BlockType = "MEDIA"
	BlockSocial     BlockType = "SOCIAL"
	BlockSocialIcon BlockType = "SOCIAL_ICON"
	BlockMap        BlockType = "MAP"
	BlockMapEmbed   BlockType = "MAP_EMBED"
	BlockRating     BlockType = "RATING"
	BlockQRCode     BlockType = "QR_CODE"
	BlockYouTube    BlockType = "YOUTUBE"
	BlockChart      BlockType = "CHART"
	BlockCustomHTML BlockType = "CUSTOM_HTML"
	BlockSpacer     BlockType = "SPACER"
)

// KnownBlockTypes lists every type the renderer understands, in a stable
// order.
var KnownBlockTypes = []BlockType{
	BlockLink, BlockText, BlockMedia, BlockSocial, BlockSocialIcon,
	BlockMap, BlockMapEmbed, BlockRating, BlockQRCode, BlockYouTube,
	BlockChart, BlockCustomHTML, BlockSpacer,
}

// Valid reports whether t is one of the known block types.
func (t BlockType) Valid() bool {
	for _, k := range KnownBlockTypes {
		if t == k {
			return true
		}
	}
	return false
}

// MediaPosition is the object-position for MEDIA blocks (0-100 per axis).
type MediaPosition struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// ChartData holds inline data points for custom charts.
type ChartData struct {
	Labels []string  `json:"labels" yaml:"labels"`
	Values []float64 `json:"values" yaml:"values"`
}

// ChartConfig configures CHART blocks.
type ChartConfig struct {
	ChartType  string     `json:"chartType" yaml:"chartType"`   // "line", "bar", "doughnut" or "pie"
	DataSource string     `json:"dataSource" yaml:"dataSource"` // "analytics" or "custom"
	CustomData *ChartData `json:"customData,omitempty" yaml:"customData,omitempty"`
	Title      string     `json:"title,omitempty" yaml:"title,omitempty"`
}

// YouTubeVideo is one entry for grid/list mode YOUTUBE blocks.
type YouTubeVideo struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Thumbnail string `json:"thumbnail" yaml:"thumbnail"`
}

// BlockData is one positioned tile in the grid. It is the persisted wire
// shape: one record with type-specific optional fields. Renderers must
// not interpret a field outside the block type it belongs to; use the
// typed view accessors in views.go instead of reading fields directly.
type BlockData struct {
	ID      string    `json:"id" yaml:"id"`
	Type    BlockType `json:"type" yaml:"type"`
	Title   string    `json:"title,omitempty" yaml:"title,omitempty"`
	Content string    `json:"content,omitempty" yaml:"content,omitempty"` // URL for LINK, text for TEXT
	Subtext string    `json:"subtext,omitempty" yaml:"subtext,omitempty"`

	ImageURL      string         `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	MediaPosition *MediaPosition `json:"mediaPosition,omitempty" yaml:"mediaPosition,omitempty"`

	ColSpan int `json:"colSpan" yaml:"colSpan"` // 1-9 on the 9-column grid
	RowSpan int `json:"rowSpan" yaml:"rowSpan"` // >= 1

	// Explicit placement, 1-based. Zero means "unplaced": the block sorts
	// after every placed block in the compact layout.
	GridColumn int `json:"gridColumn,omitempty" yaml:"gridColumn,omitempty"`
	GridRow    int `json:"gridRow,omitempty" yaml:"gridRow,omitempty"`

	Color            string `json:"color,omitempty" yaml:"color,omitempty"`
	CustomBackground string `json:"customBackground,omitempty" yaml:"customBackground,omitempty"`
	TextColor        string `json:"textColor,omitempty" yaml:"textColor,omitempty"`

	// YOUTUBE
	ChannelID      string         `json:"channelId,omitempty" yaml:"channelId,omitempty"`
	YouTubeVideoID string         `json:"youtubeVideoId,omitempty" yaml:"youtubeVideoId,omitempty"`
	ChannelTitle   string         `json:"channelTitle,omitempty" yaml:"channelTitle,omitempty"`
	YouTubeMode    string         `json:"youtubeMode,omitempty" yaml:"youtubeMode,omitempty"` // "single", "grid" or "list"
	YouTubeVideos  []YouTubeVideo `json:"youtubeVideos,omitempty" yaml:"youtubeVideos,omitempty"`

	// SOCIAL / SOCIAL_ICON
	SocialPlatform string `json:"socialPlatform,omitempty" yaml:"socialPlatform,omitempty"`
	SocialHandle   string `json:"socialHandle,omitempty" yaml:"socialHandle,omitempty"`

	// MAP_EMBED
	MapEmbedURL       string `json:"mapEmbedUrl,omitempty" yaml:"mapEmbedUrl,omitempty"`
	MapAddress        string `json:"mapAddress,omitempty" yaml:"mapAddress,omitempty"`
	MapShowDirections bool   `json:"mapShowDirections,omitempty" yaml:"mapShowDirections,omitempty"`
	MapZoom           int    `json:"mapZoom,omitempty" yaml:"mapZoom,omitempty"`

	// RATING
	RatingPlaceID   string  `json:"ratingPlaceId,omitempty" yaml:"ratingPlaceId,omitempty"`
	RatingValue     float64 `json:"ratingValue,omitempty" yaml:"ratingValue,omitempty"`
	RatingCount     int     `json:"ratingCount,omitempty" yaml:"ratingCount,omitempty"`
	RatingEmbedCode string  `json:"ratingEmbedCode,omitempty" yaml:"ratingEmbedCode,omitempty"`

	// QR_CODE
	QRContent      string `json:"qrContent,omitempty" yaml:"qrContent,omitempty"`
	QRShowDownload bool   `json:"qrShowDownload,omitempty" yaml:"qrShowDownload,omitempty"`
	QRLabel        string `json:"qrLabel,omitempty" yaml:"qrLabel,omitempty"`

	// CHART
	ChartConfig *ChartConfig `json:"chartConfig,omitempty" yaml:"chartConfig,omitempty"`

	// CUSTOM_HTML
	CustomHTML string `json:"customHtml,omitempty" yaml:"customHtml,omitempty"`
	CustomCSS  string `json:"customCss,omitempty" yaml:"customCss,omitempty"`
}

// Placed reports whether the block has explicit grid coordinates.
func (b *BlockData) Placed() bool {
	return b.GridRow >= 1 && b.GridColumn >= 1
}

// NormalizedSpan returns the block spans clamped to the grid contract
// (colSpan 1-9, rowSpan >= 1).
func (b *BlockData) NormalizedSpan() (colSpan, rowSpan int) {
	colSpan = b.ColSpan
	if colSpan < 1 {
		colSpan = 1
	}
	if colSpan > 9 {
		colSpan = 9
	}
	rowSpan = b.RowSpan
	if rowSpan < 1 {
		rowSpan = 1
	}
	return colSpan, rowSpan
}
