package sitemodel

// Typed per-block views. The persisted BlockData record carries every
// optional field; these accessors narrow it to the fields that are
// meaningful for one block type so renderers can switch exhaustively
// without guessing which fields apply.

// LinkView is a LINK block: Content is the destination URL.
type LinkView struct {
	Title, URL, Subtext, ImageURL string
}

// TextView is a TEXT block: Content is literal (markdown-capable) text.
type TextView struct {
	Title, Text string
}

// MediaView is a MEDIA block.
type MediaView struct {
	Title, Source string
	Position      *MediaPosition
}

// SocialView covers SOCIAL and SOCIAL_ICON blocks.
type SocialView struct {
	Platform, Handle, Title string
	IconOnly                bool
}

// MapView covers MAP and MAP_EMBED blocks.
type MapView struct {
	Title, EmbedURL, Address string
	ShowDirections           bool
	Zoom                     int
}

// RatingView is a RATING block.
type RatingView struct {
	Title, PlaceID string
	Value          float64
	Count          int
	EmbedCode      string
}

// QRView is a QR_CODE block.
type QRView struct {
	Content, Label string
	ShowDownload   bool
}

// YouTubeView is a YOUTUBE block.
type YouTubeView struct {
	VideoID, ChannelID, ChannelTitle, Mode string
	Videos                                 []YouTubeVideo
}

// ChartView is a CHART block.
type ChartView struct {
	Config ChartConfig
}

// CustomHTMLView is a CUSTOM_HTML block. HTML and CSS are raw
// user-authored source and must be sanitized before embedding.
type CustomHTMLView struct {
	HTML, CSS string
}

func (b *BlockData) Link() LinkView {
	return LinkView{Title: b.Title, URL: b.Content, Subtext: b.Subtext, ImageURL: b.ImageURL}
}

func (b *BlockData) Text() TextView {
	return TextView{Title: b.Title, Text: b.Content}
}

func (b *BlockData) Media() MediaView {
	return MediaView{Title: b.Title, Source: b.ImageURL, Position: b.MediaPosition}
}

func (b *BlockData) Social() SocialView {
	return SocialView{
		Platform: b.SocialPlatform,
		Handle:   b.SocialHandle,
		Title:    b.Title,
		IconOnly: b.Type == BlockSocialIcon,
	}
}

func (b *BlockData) Map() MapView {
	v := MapView{
		Title:          b.Title,
		EmbedURL:       b.MapEmbedURL,
		Address:        b.MapAddress,
		ShowDirections: b.MapShowDirections,
		Zoom:           b.MapZoom,
	}
	// Legacy MAP blocks store the address in Content.
	if v.Address == "" && b.Type == BlockMap {
		v.Address = b.Content
	}
	return v
}

func (b *BlockData) Rating() RatingView {
	return RatingView{
		Title:     b.Title,
		PlaceID:   b.RatingPlaceID,
		Value:     b.RatingValue,
		Count:     b.RatingCount,
		EmbedCode: b.RatingEmbedCode,
	}
}

func (b *BlockData) QR() QRView {
	return QRView{Content: b.QRContent, Label: b.QRLabel, ShowDownload: b.QRShowDownload}
}

func (b *BlockData) YouTube() YouTubeView {
	mode := b.YouTubeMode
	if mode == "" {
		mode = "single"
	}
	return YouTubeView{
		VideoID:      b.YouTubeVideoID,
		ChannelID:    b.ChannelID,
		ChannelTitle: b.ChannelTitle,
		Mode:         mode,
		Videos:       b.YouTubeVideos,
	}
}

func (b *BlockData) Chart() ChartView {
	if b.ChartConfig != nil {
		return ChartView{Config: *b.ChartConfig}
	}
	return ChartView{Config: ChartConfig{ChartType: "bar", DataSource: "analytics"}}
}

func (b *BlockData) Custom() CustomHTMLView {
	return CustomHTMLView{HTML: b.CustomHTML, CSS: b.CustomCSS}
}
