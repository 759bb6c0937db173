// Package media extracts embedded base64 media from a site snapshot and
// turns each occurrence into a binary asset plus a lookup entry used by
// the renderers. Fields holding plain URLs are left untouched.
package media

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/bentoforge/internal/bentoerr"
	"git.home.luguber.info/inful/bentoforge/internal/sitemodel"
)

// Map is the per-export lookup from logical media key to asset path.
// Keys: "profile_avatar", "profile_background", "og_image",
// "block_<id>". It is created fresh per export and never persisted.
type Map map[string]string

// Well-known map keys.
const (
	KeyAvatar     = "profile_avatar"
	KeyBackground = "profile_background"
	KeyOGImage    = "og_image"
)

// BlockKey returns the map key for a block's media field.
func BlockKey(blockID string) string { return "block_" + blockID }

// AssetSink receives decoded binary assets. The archive assembler
// implements this; tests use Collector.
type AssetSink interface {
	AddAsset(name string, data []byte)
}

// Collector is an in-memory AssetSink.
type Collector struct {
	Assets []Asset
}

// Asset is one extracted binary file, named relative to the assets dir.
type Asset struct {
	Name string
	Data []byte
}

func (c *Collector) AddAsset(name string, data []byte) {
	c.Assets = append(c.Assets, Asset{Name: name, Data: data})
}

// Extract scans the snapshot for embedded data: URIs, decodes each into
// the sink and returns the resulting Map. A single malformed asset is
// skipped with a warning; extraction never fails as a whole, and an
// empty Map is a valid result.
func Extract(site *sitemodel.SiteData, sink AssetSink) Map {
	m := make(Map)

	extractProfileImage(site.Profile.AvatarURL, "avatar.png", KeyAvatar, sink, m)
	extractProfileImage(site.Profile.BackgroundImage, "background.png", KeyBackground, sink, m)
	if og := site.Profile.OpenGraph; og != nil {
		extractProfileImage(og.Image, "og-image.png", KeyOGImage, sink, m)
	}

	for i := range site.Blocks {
		block := &site.Blocks[i]
		if !strings.HasPrefix(block.ImageURL, "data:") {
			continue
		}
		data, mimeType, err := DecodeDataURI(block.ImageURL)
		if err != nil {
			slog.Warn("Skipping malformed block media", "block", block.ID,
				"error", bentoerr.AssetDecodeFailed(BlockKey(block.ID), err))
			continue
		}
		name := fmt.Sprintf("block-%s.%s", block.ID, ExtensionForMIME(mimeType, block.ImageURL))
		sink.AddAsset(name, data)
		m[BlockKey(block.ID)] = "/assets/" + name
	}

	return m
}

// extractProfileImage handles the three profile-level fields. These only
// extract image payloads; a video data URI in a profile field is left
// alone (the renderer will emit it verbatim, matching editor behavior).
func extractProfileImage(value, filename, key string, sink AssetSink, m Map) {
	if !strings.HasPrefix(value, "data:image") {
		return
	}
	data, _, err := DecodeDataURI(value)
	if err != nil {
		slog.Warn("Skipping malformed profile media", "key", key,
			"error", bentoerr.AssetDecodeFailed(key, err))
		return
	}
	sink.AddAsset(filename, data)
	m[key] = "/assets/" + filename
}

// DecodeDataURI splits a data: URI into decoded bytes and the declared
// MIME type. The MIME type may be empty when the URI omits it.
func DecodeDataURI(uri string) (data []byte, mimeType string, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, "", fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("data URI missing payload separator")
	}

	base64Encoded := false
	for _, part := range strings.Split(meta, ";") {
		switch {
		case part == "base64":
			base64Encoded = true
		case mimeType == "" && strings.Contains(part, "/"):
			mimeType = part
		}
	}
	if !base64Encoded {
		return nil, "", fmt.Errorf("data URI payload is not base64")
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode base64 payload: %w", err)
	}
	return data, mimeType, nil
}

// mimeExtensions maps the media types the editor produces to file
// extensions.
var mimeExtensions = map[string]string{
	"image/png":      "png",
	"image/jpeg":     "jpg",
	"image/jpg":      "jpg",
	"image/gif":      "gif",
	"image/webp":     "webp",
	"image/svg+xml":  "svg",
	"image/avif":     "avif",
	"video/mp4":      "mp4",
	"video/webm":     "webm",
	"video/ogg":      "ogv",
	"video/quicktime": "mov",
}

// ExtensionForMIME returns the extension for a declared MIME type, with
// best-effort fallbacks: png for unrecognized (or missing) image types,
// mp4 for unrecognized video types.
func ExtensionForMIME(mimeType, uri string) string {
	if ext, ok := mimeExtensions[mimeType]; ok {
		return ext
	}
	if strings.HasPrefix(mimeType, "video/") || strings.HasPrefix(uri, "data:video") {
		return "mp4"
	}
	return "png"
}
