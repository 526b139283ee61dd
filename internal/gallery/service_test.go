package gallery_test

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/memoria/gallery/internal/gallery"
	"github.com/memoria/gallery/internal/render"
	"github.com/memoria/gallery/internal/status"
	"github.com/memoria/gallery/internal/storage"
)

type uploadRecord struct {
	key  string
	size int64
	opts storage.UploadOptions
}

// fakeStore is an in-memory storage.Store.
type fakeStore struct {
	mu           sync.Mutex
	entries      []storage.ObjectInfo
	listErr      error
	listFn       func() ([]storage.ObjectInfo, error) // optional override
	listCalls    int
	uploads      []uploadRecord
	failUploadAt int // 1-based upload call that fails; 0 = never
	removed      []string
	removeErr    error
}

func (f *fakeStore) Upload(_ context.Context, key string, _ io.Reader, size int64, opts storage.UploadOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUploadAt > 0 && len(f.uploads)+1 == f.failUploadAt {
		return errors.New("bucket quota exceeded")
	}
	f.uploads = append(f.uploads, uploadRecord{key: key, size: size, opts: opts})
	return nil
}

func (f *fakeStore) List(_ context.Context, _ string, limit int) ([]storage.ObjectInfo, error) {
	f.mu.Lock()
	f.listCalls++
	fn := f.listFn
	entries := append([]storage.ObjectInfo(nil), f.entries...)
	err := f.listErr
	f.mu.Unlock()

	if fn != nil {
		return fn()
	}
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (f *fakeStore) PublicURL(key string) string {
	return "https://cdn.test/memories/" + key
}

func (f *fakeStore) Remove(_ context.Context, keys []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, keys...)
	return nil
}

func (f *fakeStore) listCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

// fakeCaptions is an in-memory caption.Store.
type fakeCaptions struct {
	mu          sync.Mutex
	rows        map[string]string
	selectErr   error
	upsertErr   error
	deleteErr   error
	selectCalls int
	deleted     []string
}

func (f *fakeCaptions) SelectByPaths(_ context.Context, paths []string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selectCalls++
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	out := make(map[string]string, len(paths))
	for _, p := range paths {
		if v, ok := f.rows[p]; ok {
			out[p] = v
		}
	}
	return out, nil
}

func (f *fakeCaptions) Upsert(_ context.Context, path, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if f.rows == nil {
		f.rows = map[string]string{}
	}
	f.rows[path] = text
	return nil
}

func (f *fakeCaptions) DeleteByPath(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.rows, path)
	f.deleted = append(f.deleted, path)
	return nil
}

func newTestService(t *testing.T, store *fakeStore, caps *fakeCaptions) (*gallery.Service, *status.Reporter) {
	t.Helper()
	rep := status.NewReporter()
	cache := gallery.NewCache(filepath.Join(t.TempDir(), "snapshot.json"))
	return gallery.NewService(store, caps, cache, rep, "uploads", 200, true), rep
}

func entry(name string) storage.ObjectInfo {
	return storage.ObjectInfo{Name: name, CreatedAt: time.Now()}
}

func mediaFile(name, contentType string) gallery.IncomingFile {
	return gallery.IncomingFile{
		Name:        name,
		ContentType: contentType,
		Size:        3,
		Data:        strings.NewReader("abc"),
	}
}

func TestRefreshFiltersPlaceholderAndClassifies(t *testing.T) {
	store := &fakeStore{entries: []storage.ObjectInfo{
		entry("a.jpg"),
		entry(".emptyFolderPlaceholder"),
		entry("b.mp4"),
	}}
	svc, rep := newTestService(t, store, &fakeCaptions{})

	items, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[0].Name != "a.jpg" || items[0].Type != gallery.TypeImage || items[0].Caption != "" {
		t.Errorf("item 0 = %+v", items[0])
	}
	if items[1].Name != "b.mp4" || items[1].Type != gallery.TypeVideo || items[1].Caption != "" {
		t.Errorf("item 1 = %+v", items[1])
	}
	if items[0].Path != "uploads/a.jpg" || items[0].URL != "https://cdn.test/memories/uploads/a.jpg" {
		t.Errorf("derived path/url = %q %q", items[0].Path, items[0].URL)
	}
	if got := rep.Current(); got.Message != "Loaded 2 item(s)." || got.Error {
		t.Errorf("status = %+v", got)
	}
}

func TestRefreshEmpty(t *testing.T) {
	svc, rep := newTestService(t, &fakeStore{}, &fakeCaptions{})

	items, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("items = %+v, want none", items)
	}
	if got := rep.Current(); got.Message != "No uploads yet." || got.Error {
		t.Errorf("status = %+v", got)
	}
}

func TestRefreshJoinsCaptions(t *testing.T) {
	store := &fakeStore{entries: []storage.ObjectInfo{entry("a.jpg"), entry("b.jpg")}}
	caps := &fakeCaptions{rows: map[string]string{"uploads/a.jpg": "summer"}}
	svc, _ := newTestService(t, store, caps)

	items, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if items[0].Caption != "summer" {
		t.Errorf("caption = %q, want summer", items[0].Caption)
	}
	if items[1].Caption != "" {
		t.Errorf("missing caption row should join as empty, got %q", items[1].Caption)
	}
}

func TestRefreshIdempotent(t *testing.T) {
	store := &fakeStore{entries: []storage.ObjectInfo{entry("a.jpg"), entry("b.mp4")}}
	caps := &fakeCaptions{rows: map[string]string{"uploads/b.mp4": "waves"}}
	svc, _ := newTestService(t, store, caps)

	first, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("refresh not idempotent:\nfirst  %+v\nsecond %+v", first, second)
	}
	if !reflect.DeepEqual(render.Cards(first), render.Cards(second)) {
		t.Error("rendered output differs between identical refreshes")
	}
}

func TestRefreshListErrorKeepsPriorState(t *testing.T) {
	store := &fakeStore{entries: []storage.ObjectInfo{entry("a.jpg")}}
	svc, rep := newTestService(t, store, &fakeCaptions{})

	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	store.mu.Lock()
	store.listErr = errors.New("service unavailable")
	store.mu.Unlock()

	if _, err := svc.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh succeeded despite listing error")
	}
	if items := svc.Items(); len(items) != 1 || items[0].Name != "a.jpg" {
		t.Errorf("prior state lost: %+v", items)
	}
	got := rep.Current()
	if !got.Error || !strings.Contains(got.Message, "service unavailable") {
		t.Errorf("status = %+v, want error carrying the remote message", got)
	}
}

func TestRefreshCaptionFetchFailureNonFatal(t *testing.T) {
	store := &fakeStore{entries: []storage.ObjectInfo{entry("a.jpg")}}
	caps := &fakeCaptions{selectErr: errors.New("table missing")}
	svc, rep := newTestService(t, store, caps)

	items, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("caption failure surfaced from Refresh: %v", err)
	}
	if items[0].Caption != "" {
		t.Errorf("caption = %q, want empty on fetch failure", items[0].Caption)
	}
	if got := rep.Current(); got.Error || got.Message != "Loaded 1 item(s)." {
		t.Errorf("status = %+v, want the normal success count", got)
	}
}

func TestRefreshSkipsCaptionFetchWhenEmpty(t *testing.T) {
	caps := &fakeCaptions{}
	svc, _ := newTestService(t, &fakeStore{}, caps)

	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if caps.selectCalls != 0 {
		t.Errorf("caption fetch made for an empty listing (%d calls)", caps.selectCalls)
	}
}

func TestRefreshSnapshotFailureSilent(t *testing.T) {
	store := &fakeStore{entries: []storage.ObjectInfo{entry("a.jpg")}}
	rep := status.NewReporter()
	// Point the cache into a directory that does not exist so every save fails.
	cache := gallery.NewCache(filepath.Join(t.TempDir(), "missing", "snapshot.json"))
	svc := gallery.NewService(store, &fakeCaptions{}, cache, rep, "uploads", 200, true)

	items, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("snapshot failure surfaced from Refresh: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %+v", items)
	}
	if got := rep.Current(); got.Error {
		t.Errorf("status = %+v, snapshot failure must not surface", got)
	}
}

func TestUploadRejectsNonMediaBatch(t *testing.T) {
	store := &fakeStore{}
	svc, rep := newTestService(t, store, &fakeCaptions{})

	err := svc.UploadFiles(context.Background(), []gallery.IncomingFile{
		mediaFile("notes.txt", "text/plain"),
	})
	if !errors.Is(err, gallery.ErrNoMediaFiles) {
		t.Fatalf("err = %v, want ErrNoMediaFiles", err)
	}
	if len(store.uploads) != 0 {
		t.Errorf("rejected batch still uploaded: %+v", store.uploads)
	}
	if store.listCount() != 0 {
		t.Error("rejected batch triggered a refresh")
	}
	if got := rep.Current(); got.Message != "Only images/videos are allowed." || !got.Error {
		t.Errorf("status = %+v", got)
	}
}

func TestUploadFiltersThenStoresSequentially(t *testing.T) {
	store := &fakeStore{}
	svc, rep := newTestService(t, store, &fakeCaptions{})

	err := svc.UploadFiles(context.Background(), []gallery.IncomingFile{
		mediaFile("one.jpg", "image/jpeg"),
		mediaFile("skip.txt", "text/plain"),
		mediaFile("two.mp4", "video/mp4"),
	})
	if err != nil {
		t.Fatalf("UploadFiles: %v", err)
	}
	if len(store.uploads) != 2 {
		t.Fatalf("uploads = %+v, want 2", store.uploads)
	}
	for i, want := range []string{"image/jpeg", "video/mp4"} {
		up := store.uploads[i]
		if up.opts.ContentType != want {
			t.Errorf("upload %d content type = %q, want %q", i, up.opts.ContentType, want)
		}
		if up.opts.Overwrite {
			t.Errorf("upload %d allowed overwrite", i)
		}
		if up.opts.CacheSeconds != 3600 {
			t.Errorf("upload %d cache hint = %d", i, up.opts.CacheSeconds)
		}
		if !strings.HasPrefix(up.key, "uploads/") {
			t.Errorf("upload %d key = %q, want folder prefix", i, up.key)
		}
	}
	if store.uploads[0].key == store.uploads[1].key {
		t.Error("two uploads share a stored path")
	}
	if store.listCount() != 1 {
		t.Errorf("refresh calls = %d, want 1 after a successful batch", store.listCount())
	}
	if got := rep.Current(); got.Error {
		t.Errorf("status = %+v", got)
	}
}

func TestUploadFailFastAbortsQueue(t *testing.T) {
	store := &fakeStore{failUploadAt: 2}
	svc, rep := newTestService(t, store, &fakeCaptions{})

	err := svc.UploadFiles(context.Background(), []gallery.IncomingFile{
		mediaFile("one.jpg", "image/jpeg"),
		mediaFile("two.jpg", "image/jpeg"),
		mediaFile("three.jpg", "image/jpeg"),
	})
	if err == nil {
		t.Fatal("UploadFiles succeeded despite a failing upload")
	}
	if len(store.uploads) != 1 {
		t.Errorf("uploads after failure = %d, want 1 (remaining queue never attempted)", len(store.uploads))
	}
	if store.listCount() != 0 {
		t.Error("failed batch still triggered a refresh")
	}
	got := rep.Current()
	if !got.Error || !strings.Contains(got.Message, "Upload failed") || !strings.Contains(got.Message, "quota") {
		t.Errorf("status = %+v, want upload failure with remote message", got)
	}
}

func TestDeleteDeclined(t *testing.T) {
	store := &fakeStore{entries: []storage.ObjectInfo{entry("a.jpg")}}
	svc, rep := newTestService(t, store, &fakeCaptions{})
	rep.Set("untouched", false)

	if err := svc.DeleteItem(context.Background(), "uploads/a.jpg", false); err != nil {
		t.Fatalf("declined delete errored: %v", err)
	}
	if len(store.removed) != 0 {
		t.Errorf("declined delete removed objects: %+v", store.removed)
	}
	if store.listCount() != 0 {
		t.Error("declined delete triggered a refresh")
	}
	if got := rep.Current(); got.Message != "untouched" {
		t.Errorf("declined delete changed status to %+v", got)
	}
}

func TestDeleteRemovesObjectAndCaption(t *testing.T) {
	store := &fakeStore{entries: []storage.ObjectInfo{entry("a.jpg")}}
	caps := &fakeCaptions{rows: map[string]string{"uploads/a.jpg": "old"}}
	svc, _ := newTestService(t, store, caps)

	if err := svc.DeleteItem(context.Background(), "uploads/a.jpg", true); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if len(store.removed) != 1 || store.removed[0] != "uploads/a.jpg" {
		t.Errorf("removed = %+v", store.removed)
	}
	if len(caps.deleted) != 1 || caps.deleted[0] != "uploads/a.jpg" {
		t.Errorf("caption rows deleted = %+v", caps.deleted)
	}
	if store.listCount() != 1 {
		t.Errorf("refresh calls = %d, want 1", store.listCount())
	}
}

func TestDeleteCaptionCleanupBestEffort(t *testing.T) {
	store := &fakeStore{entries: []storage.ObjectInfo{entry("a.jpg")}}
	caps := &fakeCaptions{deleteErr: errors.New("row locked")}
	svc, rep := newTestService(t, store, caps)

	if err := svc.DeleteItem(context.Background(), "uploads/a.jpg", true); err != nil {
		t.Fatalf("caption cleanup failure surfaced: %v", err)
	}
	if store.listCount() != 1 {
		t.Error("refresh skipped after caption cleanup failure")
	}
	if got := rep.Current(); got.Error {
		t.Errorf("status = %+v, cleanup failure must not surface", got)
	}
}

func TestDeleteRemoteErrorStops(t *testing.T) {
	store := &fakeStore{removeErr: errors.New("access denied")}
	caps := &fakeCaptions{rows: map[string]string{"uploads/a.jpg": "old"}}
	svc, rep := newTestService(t, store, caps)

	if err := svc.DeleteItem(context.Background(), "uploads/a.jpg", true); err == nil {
		t.Fatal("DeleteItem succeeded despite remove error")
	}
	if len(caps.deleted) != 0 {
		t.Error("caption row deleted even though the object remove failed")
	}
	if store.listCount() != 0 {
		t.Error("failed delete still refreshed")
	}
	got := rep.Current()
	if !got.Error || !strings.Contains(got.Message, "access denied") {
		t.Errorf("status = %+v", got)
	}
}

func TestSetCaptionUpsertsAndRefreshes(t *testing.T) {
	store := &fakeStore{entries: []storage.ObjectInfo{entry("a.jpg")}}
	caps := &fakeCaptions{}
	svc, _ := newTestService(t, store, caps)

	if err := svc.SetCaption(context.Background(), "uploads/a.jpg", "hello"); err != nil {
		t.Fatalf("SetCaption: %v", err)
	}
	items := svc.Items()
	if len(items) != 1 || items[0].Caption != "hello" {
		t.Errorf("caption not joined after refresh: %+v", items)
	}

	// Upsert overwrites: second write wins.
	if err := svc.SetCaption(context.Background(), "uploads/a.jpg", "goodbye"); err != nil {
		t.Fatal(err)
	}
	if items := svc.Items(); items[0].Caption != "goodbye" {
		t.Errorf("caption = %q, want overwrite", items[0].Caption)
	}
}

func TestSetCaptionStoresTextAsGiven(t *testing.T) {
	store := &fakeStore{entries: []storage.ObjectInfo{entry("a.jpg")}}
	caps := &fakeCaptions{}
	svc, _ := newTestService(t, store, caps)

	// Trimming is the caller's policy; the synchronizer must not alter text.
	if err := svc.SetCaption(context.Background(), "uploads/a.jpg", "  hello  "); err != nil {
		t.Fatal(err)
	}
	if got := caps.rows["uploads/a.jpg"]; got != "  hello  " {
		t.Errorf("stored caption = %q, want unmodified text", got)
	}
}

func TestSetCaptionUpsertErrorNoRefresh(t *testing.T) {
	store := &fakeStore{}
	caps := &fakeCaptions{upsertErr: errors.New("connection reset")}
	svc, rep := newTestService(t, store, caps)

	if err := svc.SetCaption(context.Background(), "uploads/a.jpg", "x"); err == nil {
		t.Fatal("SetCaption succeeded despite upsert error")
	}
	if store.listCount() != 0 {
		t.Error("failed caption write still refreshed")
	}
	got := rep.Current()
	if !got.Error || !strings.Contains(got.Message, "connection reset") {
		t.Errorf("status = %+v", got)
	}
}

func TestCaptionsDisabled(t *testing.T) {
	store := &fakeStore{entries: []storage.ObjectInfo{entry("a.jpg")}}
	caps := &fakeCaptions{rows: map[string]string{"uploads/a.jpg": "hidden"}}
	rep := status.NewReporter()
	cache := gallery.NewCache(filepath.Join(t.TempDir(), "snapshot.json"))
	svc := gallery.NewService(store, caps, cache, rep, "uploads", 200, false)

	if err := svc.SetCaption(context.Background(), "uploads/a.jpg", "x"); !errors.Is(err, gallery.ErrCaptionsDisabled) {
		t.Errorf("err = %v, want ErrCaptionsDisabled", err)
	}

	items, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if caps.selectCalls != 0 {
		t.Error("refresh fetched captions with the flag off")
	}
	if items[0].Caption != "" {
		t.Errorf("caption = %q, want empty with the flag off", items[0].Caption)
	}
}

func TestOverlappingRefreshDiscardsStaleResult(t *testing.T) {
	store := &fakeStore{}
	svc, rep := newTestService(t, store, &fakeCaptions{})

	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	store.listFn = func() ([]storage.ObjectInfo, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
			return []storage.ObjectInfo{entry("old.jpg")}, nil
		}
		return []storage.ObjectInfo{entry("new.jpg")}, nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.Refresh(context.Background())
	}()
	<-started

	// A second refresh starts and finishes while the first is stalled.
	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	close(release)
	<-done

	items := svc.Items()
	if len(items) != 1 || items[0].Name != "new.jpg" {
		t.Errorf("stale completion overwrote newer state: %+v", items)
	}
	if got := rep.Current(); got.Message != "Loaded 1 item(s)." || got.Error {
		t.Errorf("status = %+v, want the newer refresh's terminal status", got)
	}
}

func TestSnapshotRoundTripThroughService(t *testing.T) {
	store := &fakeStore{entries: []storage.ObjectInfo{entry("a.jpg")}}
	svc, _ := newTestService(t, store, &fakeCaptions{})

	items, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	cached, ok := svc.Snapshot()
	if !ok {
		t.Fatal("no snapshot after a successful refresh")
	}
	if !reflect.DeepEqual(cached, items) {
		t.Errorf("snapshot differs from refresh result:\ngot  %+v\nwant %+v", cached, items)
	}
}

func TestClearSnapshot(t *testing.T) {
	store := &fakeStore{entries: []storage.ObjectInfo{entry("a.jpg")}}
	svc, rep := newTestService(t, store, &fakeCaptions{})

	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	svc.ClearSnapshot()
	if _, ok := svc.Snapshot(); ok {
		t.Error("snapshot survived ClearSnapshot")
	}
	if got := rep.Current(); got.Message != "Local cache cleared. Click Refresh." || got.Error {
		t.Errorf("status = %+v", got)
	}
}
