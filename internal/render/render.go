// Package render projects gallery items into card descriptions. The
// projection is pure data: the UI layer turns cards into whatever native
// rendering it uses, which keeps this layer testable without a browser.
package render

import "github.com/memoria/gallery/internal/gallery"

// Action identifies a card control. Each action is bound to the card's path.
type Action string

// Card actions.
const (
	ActionOpen        Action = "open"
	ActionEditCaption Action = "edit-caption"
	ActionDelete      Action = "delete"
)

// noCaptionLabel is shown, with placeholder styling, when an item has no caption.
const noCaptionLabel = "No caption"

// emptyMessage is the single placeholder card shown for an empty gallery.
const emptyMessage = "Nothing here yet. Upload something."

// Card describes one rendered gallery entry.
type Card struct {
	Placeholder bool   `json:"placeholder,omitempty"` // the empty-gallery card
	Message     string `json:"message,omitempty"`     // placeholder text

	Name         string            `json:"name,omitempty"`
	Path         string            `json:"path,omitempty"`
	ThumbnailURL string            `json:"thumbnailUrl,omitempty"`
	Type         gallery.MediaType `json:"type,omitempty"`
	VideoBadge   bool              `json:"videoBadge,omitempty"`

	Caption            string `json:"caption,omitempty"`
	CaptionPlaceholder bool   `json:"captionPlaceholder,omitempty"`

	Actions []Action `json:"actions,omitempty"`
}

// Cards maps an ordered item list to cards, preserving order. An empty list
// yields exactly one placeholder card.
func Cards(items []gallery.Item) []Card {
	if len(items) == 0 {
		return []Card{{Placeholder: true, Message: emptyMessage}}
	}

	out := make([]Card, 0, len(items))
	for _, it := range items {
		c := Card{
			Name:         it.Name,
			Path:         it.Path,
			ThumbnailURL: it.URL,
			Type:         it.Type,
			VideoBadge:   it.Type == gallery.TypeVideo,
			Caption:      it.Caption,
			Actions:      []Action{ActionOpen, ActionEditCaption, ActionDelete},
		}
		if c.Caption == "" {
			c.Caption = noCaptionLabel
			c.CaptionPlaceholder = true
		}
		out = append(out, c)
	}
	return out
}
