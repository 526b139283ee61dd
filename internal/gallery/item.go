// Package gallery implements the synchronizer that reconciles the remote
// object listing, the caption table, and the local snapshot into one view.
package gallery

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MediaType classifies an item for rendering.
type MediaType string

// Media types.
const (
	TypeImage MediaType = "image"
	TypeVideo MediaType = "video"
)

// Item is one remote file plus its derived metadata. Items are rebuilt from
// scratch on every refresh and never mutated in place; the same shape is the
// on-disk form of the local snapshot.
type Item struct {
	Name    string    `json:"name"`    // stored leaf name, uniqueness prefix included
	Path    string    `json:"path"`    // folder + name; primary identity and caption join key
	URL     string    `json:"url"`     // public address, derived from Path
	Type    MediaType `json:"type"`    // extension heuristic, not a content sniff
	Caption string    `json:"caption"` // empty when no caption row exists
}

// IncomingFile is one upload candidate from the file picker or a drop event.
type IncomingFile struct {
	Name        string
	ContentType string
	Size        int64
	Data        io.Reader
}

// placeholderName is the object-store artifact that marks an empty folder.
// It carries no content and is filtered out of every listing.
const placeholderName = ".emptyFolderPlaceholder"

// videoExtensions is the fixed allow-list; every other extension is an image.
var videoExtensions = map[string]bool{
	"mp4":  true,
	"webm": true,
	"mov":  true,
	"m4v":  true,
	"ogg":  true,
}

// mediaTypeFor classifies a file name by its trailing extension, case-insensitively.
func mediaTypeFor(name string) MediaType {
	ext := name
	if i := strings.LastIndex(name, "."); i >= 0 {
		ext = name[i+1:]
	}
	if videoExtensions[strings.ToLower(ext)] {
		return TypeVideo
	}
	return TypeImage
}

// storedName builds a collision-resistant stored name for an upload:
// millisecond timestamp, a random 128-bit identifier, and the original
// extension if there was one. The human-chosen name is not persisted.
func storedName(original string) string {
	ext := ""
	if i := strings.LastIndex(original, "."); i >= 0 {
		ext = original[i:]
	}
	return fmt.Sprintf("%d_%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
}

// isMediaFile reports whether the declared content type is an accepted upload.
func isMediaFile(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") || strings.HasPrefix(contentType, "video/")
}
