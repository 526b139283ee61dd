package gallery

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/memoria/gallery/internal/caption"
	"github.com/memoria/gallery/internal/status"
	"github.com/memoria/gallery/internal/storage"
)

// cacheSeconds is the client cache lifetime hint attached to every upload.
const cacheSeconds = 3600

// ErrNoMediaFiles is returned when an upload batch contains nothing that
// declares itself an image or a video.
var ErrNoMediaFiles = errors.New("only images/videos are allowed")

// ErrCaptionsDisabled is returned from caption operations when the captions
// feature flag is off.
var ErrCaptionsDisabled = errors.New("captions are disabled")

// Service is the gallery synchronizer: the single source of truth for turning
// remote state into the rendered item list, and the sole writer of the local
// snapshot. Collaborators are injected at construction; there is no package
// state, so tests build isolated instances.
type Service struct {
	store    storage.Store
	captions caption.Store
	cache    *Cache
	status   *status.Reporter

	folder          string
	limit           int
	captionsEnabled bool

	// generation orders overlapping operations. Each operation captures a
	// fresh generation at entry and applies its result only while still
	// current, so a stale completion is discarded instead of clobbering a
	// newer one.
	generation atomic.Uint64

	mu    sync.Mutex
	items []Item
}

// NewService creates a synchronizer over the given collaborators. folder is
// the bucket sub-path that holds uploads; limit caps each listing.
func NewService(store storage.Store, captions caption.Store, cache *Cache, rep *status.Reporter, folder string, limit int, captionsEnabled bool) *Service {
	return &Service{
		store:           store,
		captions:        captions,
		cache:           cache,
		status:          rep,
		folder:          folder,
		limit:           limit,
		captionsEnabled: captionsEnabled,
	}
}

// Refresh rebuilds the gallery from remote state: list the folder, join
// captions, persist the snapshot, and publish the new item list. A listing
// failure aborts the refresh and leaves the prior state untouched; a caption
// fetch failure degrades to empty captions.
func (s *Service) Refresh(ctx context.Context) ([]Item, error) {
	gen := s.generation.Add(1)

	entries, err := s.store.List(ctx, s.folder, s.limit)
	if err != nil {
		s.report(gen, fmt.Sprintf("Could not load gallery: %s", err), true)
		return nil, fmt.Errorf("list gallery folder: %w", err)
	}

	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		if e.Name == "" || e.Name == placeholderName {
			continue
		}
		path := s.folder + "/" + e.Name
		items = append(items, Item{
			Name: e.Name,
			Path: path,
			URL:  s.store.PublicURL(path),
			Type: mediaTypeFor(e.Name),
		})
	}

	if s.captionsEnabled && len(items) > 0 {
		paths := make([]string, len(items))
		for i := range items {
			paths[i] = items[i].Path
		}
		found, err := s.captions.SelectByPaths(ctx, paths)
		if err != nil {
			// Captions are enrichment, not required data: log and proceed
			// with empty captions rather than failing the refresh.
			log.Printf("gallery: caption fetch failed, continuing without captions: %v", err)
		} else {
			for i := range items {
				items[i].Caption = found[items[i].Path]
			}
		}
	}

	if !s.current(gen) {
		// A newer operation owns the visible state; drop this result.
		return items, nil
	}

	// Snapshot persistence is best-effort; its failure never aborts or
	// surfaces from a refresh.
	_ = s.cache.Save(items)

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()

	if len(items) == 0 {
		s.report(gen, "No uploads yet.", false)
	} else {
		s.report(gen, fmt.Sprintf("Loaded %d item(s).", len(items)), false)
	}
	return items, nil
}

// UploadFiles stores each accepted file sequentially, then refreshes.
// Sequential order keeps the user-visible feedback in upload order and avoids
// hammering the remote endpoint. The first failure aborts the remaining queue.
func (s *Service) UploadFiles(ctx context.Context, files []IncomingFile) error {
	if len(files) == 0 {
		return nil
	}

	var accepted []IncomingFile
	for _, f := range files {
		if isMediaFile(f.ContentType) {
			accepted = append(accepted, f)
		}
	}

	gen := s.generation.Add(1)
	if len(accepted) == 0 {
		s.report(gen, "Only images/videos are allowed.", true)
		return ErrNoMediaFiles
	}

	s.report(gen, fmt.Sprintf("Uploading %d file(s)…", len(accepted)), false)

	for _, f := range accepted {
		path := s.folder + "/" + storedName(f.Name)
		err := s.store.Upload(ctx, path, f.Data, f.Size, storage.UploadOptions{
			Overwrite:    false,
			ContentType:  f.ContentType,
			CacheSeconds: cacheSeconds,
		})
		if err != nil {
			s.report(gen, fmt.Sprintf("Upload failed: %s", err), true)
			return fmt.Errorf("upload %q: %w", f.Name, err)
		}
	}

	s.report(gen, "Upload complete. Refreshing…", false)
	_, err := s.Refresh(ctx)
	return err
}

// DeleteItem removes the object at path and its caption row, then refreshes.
// The caller passes the user's confirmation; without it the call is a no-op
// with no remote traffic and no status change. The gallery bucket is shared,
// so a delete is visible to everyone.
func (s *Service) DeleteItem(ctx context.Context, path string, confirmed bool) error {
	if !confirmed {
		return nil
	}

	gen := s.generation.Add(1)
	s.report(gen, "Deleting…", false)

	if err := s.store.Remove(ctx, []string{path}); err != nil {
		s.report(gen, fmt.Sprintf("Delete failed: %s", err), true)
		return fmt.Errorf("remove %q: %w", path, err)
	}

	if s.captionsEnabled {
		// Best-effort cleanup: an orphaned caption row is never joined again
		// once no object exists at path, so a failure here is only logged.
		if err := s.captions.DeleteByPath(ctx, path); err != nil {
			log.Printf("gallery: caption cleanup for %q failed: %v", path, err)
		}
	}

	s.report(gen, "Deleted. Refreshing…", false)
	_, err := s.Refresh(ctx)
	return err
}

// SetCaption upserts the caption for path, then refreshes. The text is stored
// exactly as given; any trimming is the caller's policy. Concurrent editors of
// the same path overwrite each other, last write wins.
func (s *Service) SetCaption(ctx context.Context, path, text string) error {
	if !s.captionsEnabled {
		return ErrCaptionsDisabled
	}

	gen := s.generation.Add(1)
	if err := s.captions.Upsert(ctx, path, text); err != nil {
		s.report(gen, fmt.Sprintf("Saving caption failed: %s", err), true)
		return fmt.Errorf("save caption for %q: %w", path, err)
	}

	s.report(gen, "Caption saved. Refreshing…", false)
	_, err := s.Refresh(ctx)
	return err
}

// Items returns the currently published item list.
func (s *Service) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items
}

// Snapshot reads the local cache without any remote call.
func (s *Service) Snapshot() ([]Item, bool) {
	return s.cache.Load()
}

// ClearSnapshot drops the local cache. Explicit user action only; remote
// state is untouched.
func (s *Service) ClearSnapshot() {
	// Cache failures stay silent here as everywhere else.
	_ = s.cache.Clear()
	s.status.Set("Local cache cleared. Click Refresh.", false)
}

// CaptionsEnabled reports whether the captions feature flag is on.
func (s *Service) CaptionsEnabled() bool {
	return s.captionsEnabled
}

func (s *Service) current(gen uint64) bool {
	return s.generation.Load() == gen
}

// report writes a status only while gen is still the newest operation.
func (s *Service) report(gen uint64, message string, isError bool) {
	if s.current(gen) {
		s.status.Set(message, isError)
	}
}
