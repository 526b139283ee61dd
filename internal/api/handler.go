// Package api exposes the gallery over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/memoria/gallery/internal/gallery"
	"github.com/memoria/gallery/internal/render"
	"github.com/memoria/gallery/internal/response"
	"github.com/memoria/gallery/internal/status"
)

// maxUploadMemory bounds how much of a multipart upload is held in memory;
// larger parts spill to temp files.
const maxUploadMemory = 32 << 20

// Handler holds HTTP handlers for the gallery endpoints.
type Handler struct {
	svc *gallery.Service
	rep *status.Reporter
}

// NewHandler creates a new gallery Handler.
func NewHandler(svc *gallery.Service, rep *status.Reporter) *Handler {
	return &Handler{svc: svc, rep: rep}
}

// GalleryView is the payload returned by gallery reads.
type GalleryView struct {
	Items  []gallery.Item `json:"items"`
	Cards  []render.Card  `json:"cards"`
	Status status.Status  `json:"status"`
}

func (h *Handler) view(items []gallery.Item) GalleryView {
	if items == nil {
		items = []gallery.Item{}
	}
	return GalleryView{
		Items:  items,
		Cards:  render.Cards(items),
		Status: h.rep.Current(),
	}
}

// Refresh godoc
//
//	@Summary		Refresh the gallery
//	@Description	Lists the remote folder, joins captions, updates the local snapshot, and returns the rendered gallery.
//	@Tags			gallery
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=GalleryView}
//	@Failure		502	{object}	response.Envelope
//	@Router			/gallery [get]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Refresh(r.Context())
	if err != nil {
		response.BadGateway(w, err.Error())
		return
	}
	response.OK(w, h.view(items))
}

// Cached godoc
//
//	@Summary		Read the local snapshot
//	@Description	Returns the last persisted gallery state without any remote call. An absent or unreadable snapshot is an empty gallery, never an error.
//	@Tags			gallery
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=GalleryView}
//	@Router			/gallery/cached [get]
func (h *Handler) Cached(w http.ResponseWriter, r *http.Request) {
	items, ok := h.svc.Snapshot()
	if !ok {
		items = []gallery.Item{}
	}
	response.OK(w, h.view(items))
}

// Upload godoc
//
//	@Summary		Upload media files
//	@Description	Accepts multipart files under the "files" field. Non image/video parts are filtered out; an all-rejected batch is a 400. Files are stored sequentially and the first failure aborts the rest.
//	@Tags			gallery
//	@Accept			multipart/form-data
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=GalleryView}
//	@Failure		400	{object}	response.Envelope
//	@Failure		502	{object}	response.Envelope
//	@Router			/gallery/files [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		response.BadRequest(w, "invalid multipart request")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		response.BadRequest(w, "no files in request")
		return
	}

	files := make([]gallery.IncomingFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			response.InternalError(w)
			return
		}
		defer f.Close()
		files = append(files, gallery.IncomingFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Data:        f,
		})
	}

	if err := h.svc.UploadFiles(r.Context(), files); err != nil {
		if errors.Is(err, gallery.ErrNoMediaFiles) {
			response.BadRequest(w, "Only images/videos are allowed.")
			return
		}
		response.BadGateway(w, err.Error())
		return
	}
	response.OK(w, h.view(h.svc.Items()))
}

type deleteRequest struct {
	Path      string `json:"path"`
	Confirmed bool   `json:"confirmed"`
}

// Delete godoc
//
//	@Summary		Delete a gallery item
//	@Description	Removes the object at path and its caption row, then refreshes. A request without confirmed=true is a no-op: the bucket is shared and deletes are visible to everyone.
//	@Tags			gallery
//	@Accept			json
//	@Produce		json
//	@Param			request	body		deleteRequest	true	"path and confirmation"
//	@Success		200	{object}	response.Envelope{data=GalleryView}
//	@Failure		400	{object}	response.Envelope
//	@Failure		502	{object}	response.Envelope
//	@Router			/gallery/items [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		response.BadRequest(w, "path is required")
		return
	}

	if !req.Confirmed {
		// Declined confirmation: no remote call, no status change.
		response.OK(w, map[string]bool{"deleted": false})
		return
	}

	if err := h.svc.DeleteItem(r.Context(), req.Path, true); err != nil {
		response.BadGateway(w, err.Error())
		return
	}
	response.OK(w, h.view(h.svc.Items()))
}

type captionRequest struct {
	Path    string `json:"path"`
	Caption string `json:"caption"`
}

// SetCaption godoc
//
//	@Summary		Set an item's caption
//	@Description	Upserts the caption keyed by path and refreshes. The submitted text is trimmed here; concurrent editors overwrite each other, last write wins.
//	@Tags			gallery
//	@Accept			json
//	@Produce		json
//	@Param			request	body		captionRequest	true	"path and caption"
//	@Success		200	{object}	response.Envelope{data=GalleryView}
//	@Failure		400	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Failure		502	{object}	response.Envelope
//	@Router			/gallery/items/caption [put]
func (h *Handler) SetCaption(w http.ResponseWriter, r *http.Request) {
	var req captionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		response.BadRequest(w, "path is required")
		return
	}

	// Trimming is call-site policy; the synchronizer stores text as given.
	text := strings.TrimSpace(req.Caption)

	if err := h.svc.SetCaption(r.Context(), req.Path, text); err != nil {
		if errors.Is(err, gallery.ErrCaptionsDisabled) {
			response.NotFound(w, "captions are disabled")
			return
		}
		response.BadGateway(w, err.Error())
		return
	}
	response.OK(w, h.view(h.svc.Items()))
}

// ClearCache godoc
//
//	@Summary		Clear the local snapshot
//	@Description	Drops the locally cached gallery state. Remote files and captions are untouched.
//	@Tags			gallery
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=status.Status}
//	@Router			/gallery/cache [delete]
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.svc.ClearSnapshot()
	response.OK(w, h.rep.Current())
}

// Status godoc
//
//	@Summary		Current status message
//	@Description	Returns the single live status slot.
//	@Tags			gallery
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=status.Status}
//	@Router			/status [get]
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.rep.Current())
}
