// Package store implements the resilient collection store: a generic CRUD
// façade over a named, company-scoped collection that transparently chooses
// between the hosted document service and the local mirror, degrading to the
// mirror on a closed set of remote failure conditions without the caller
// having to branch on connectivity.
package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/revobtp/revo-server/internal/mirror"
	"github.com/revobtp/revo-server/internal/remote"
)

// localIDPrefix marks locally-generated record ids in persisted data.
const localIDPrefix = "local_"

// Mirror is the local persistence the store degrades to.
type Mirror interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
}

type readState int

const (
	stateInit readState = iota
	stateLocalActive
	stateSubscribing
	stateRemoteActive
	stateLocalFallback
	stateDisposed
)

// Config assembles a store's dependencies.
type Config[T Entity] struct {
	Collection string
	Tenant     Tenant
	Remote     remote.Collection
	Mirror     Mirror
	Defaults   []T
	Notifier   Notifier
	Logger     *slog.Logger
}

// Store is one tenant's live view of one collection. A single instance owns
// the in-memory snapshot and the mirror key for its tenant+collection pair.
type Store[T Entity] struct {
	collection string
	tenant     Tenant
	remote     remote.Collection
	mirror     Mirror
	defaults   []T
	notifier   Notifier
	logger     *slog.Logger

	mu          sync.Mutex
	state       readState
	data        []T
	loading     bool
	err         error
	gotSnapshot bool
	localIDs    map[string]struct{}
	stop        remote.StopFunc
	watchers    map[int]chan Snapshot[T]
	nextWatch   int
}

// New builds a store. Call Start to seed it or establish the subscription.
func New[T Entity](cfg Config[T]) *Store[T] {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store[T]{
		collection: cfg.Collection,
		tenant:     cfg.Tenant,
		remote:     cfg.Remote,
		mirror:     cfg.Mirror,
		defaults:   cfg.Defaults,
		notifier:   cfg.Notifier,
		logger:     logger.With("collection", cfg.Collection, "mode", cfg.Tenant.Mode.String()),
		loading:    true,
		localIDs:   make(map[string]struct{}),
		watchers:   make(map[int]chan Snapshot[T]),
	}
}

// Start decides the mode for this instance's lifetime. Local tenants seed
// from the mirror and emit immediately; remote tenants establish the
// standing company-filtered subscription.
func (s *Store[T]) Start(ctx context.Context) {
	if s.tenant.Local() {
		s.mu.Lock()
		s.seedLocalLocked()
		s.state = stateLocalActive
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.state = stateSubscribing
	s.mu.Unlock()

	stop, err := s.remote.Subscribe(ctx, s.collection, s.tenant.CompanyID, s.onSnapshot, s.onError)
	if err != nil {
		// Failure to even establish the subscription is the setup-exception
		// branch: fall back like any classified error.
		s.onError(remote.Errorf(remote.CodeSetupFailure, "subscribe: %v", err))
		return
	}

	s.mu.Lock()
	if s.state == stateSubscribing || s.state == stateRemoteActive {
		s.stop = stop
		stop = nil
	}
	s.mu.Unlock()
	if stop != nil {
		// The subscription errored out (synchronously) before we could
		// record it; it is already abandoned.
		stop()
	}
}

func (s *Store[T]) onSnapshot(docs []remote.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateSubscribing && s.state != stateRemoteActive {
		return
	}

	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		rec, err := fromDoc[T](doc)
		if err != nil {
			s.logger.Warn("skipping undecodable document", "error", err)
			continue
		}
		items = append(items, rec)
	}

	s.data = items
	s.loading = false
	s.err = nil
	s.gotSnapshot = true
	s.state = stateRemoteActive
	s.emitLocked()
}

func (s *Store[T]) onError(err error) {
	s.mu.Lock()
	if s.state == stateDisposed || s.state == stateLocalFallback {
		s.mu.Unlock()
		return
	}

	// Only pre-first-snapshot errors trigger fallback; once the remote view
	// is live the last good snapshot stands.
	if s.gotSnapshot {
		s.mu.Unlock()
		s.logger.Warn("subscription error after first snapshot", "error", err)
		return
	}

	if !remote.Recoverable(err) {
		// Unexpected failure: resolve loading without data and surface it,
		// rather than pretending it was handled.
		s.loading = false
		s.err = err
		s.emitLocked()
		s.mu.Unlock()
		s.logger.Error("unclassified subscription error", "error", err)
		return
	}

	s.seedLocalLocked()
	s.state = stateLocalFallback
	stop := s.stop
	s.stop = nil
	s.mu.Unlock()

	s.logger.Warn("remote unavailable, serving local mirror", "error", err)
	if stop != nil {
		stop()
	}
}

// seedLocalLocked loads the mirror snapshot, or the built-in defaults when
// the key is absent or corrupt. Everything seeded locally is local-origin.
func (s *Store[T]) seedLocalLocked() {
	items := append([]T(nil), s.defaults...)

	raw, ok, err := s.mirror.Get(mirror.Key(s.collection))
	if err != nil {
		s.logger.Warn("mirror read failed, using defaults", "error", err)
	} else if ok {
		var stored []T
		if err := json.Unmarshal(raw, &stored); err != nil {
			s.logger.Warn("corrupt mirror snapshot, using defaults", "error", err)
		} else {
			items = stored
		}
	}

	for _, rec := range items {
		s.localIDs[rec.EntityID()] = struct{}{}
	}
	s.data = items
	s.loading = false
	s.err = nil
	s.emitLocked()
}

// Watch registers an observer. The channel is conflated: it always holds
// the latest snapshot, starting with the current one. cancel releases the
// observer; Close releases them all.
func (s *Store[T]) Watch() (<-chan Snapshot[T], func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Snapshot[T], 1)
	id := s.nextWatch
	s.nextWatch++
	s.watchers[id] = ch
	ch <- s.snapshotLocked()

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.watchers[id]; ok {
			delete(s.watchers, id)
			close(ch)
		}
	}
}

// Items returns a copy of the current snapshot.
func (s *Store[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.data...)
}

// Loading reports whether the first read has resolved yet.
func (s *Store[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the surfaced unclassified read failure, if any.
func (s *Store[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close releases the subscription and all watchers. The instance is done;
// a new tenant context means a new instance.
func (s *Store[T]) Close() {
	s.mu.Lock()
	if s.state == stateDisposed {
		s.mu.Unlock()
		return
	}
	s.state = stateDisposed
	stop := s.stop
	s.stop = nil
	for id, ch := range s.watchers {
		delete(s.watchers, id)
		close(ch)
	}
	s.mu.Unlock()

	if stop != nil {
		stop()
	}
}

// Add appends a record. Local tenants persist to the mirror directly;
// remote tenants issue a create stamped with company, creator and
// timestamps, degrading to the mirror on any remote failure. The returned
// error is non-nil only when the mirror itself cannot persist.
func (s *Store[T]) Add(ctx context.Context, rec T) (SaveResult, error) {
	if s.tenant.Local() {
		return s.addLocally(rec, "Élément ajouté (Local)")
	}

	doc, err := toDoc(rec)
	if err != nil {
		s.logger.Warn("record not encodable for remote create", "error", err)
		return s.addLocally(rec, "Ajouté localement (Mode Hors-ligne)")
	}
	delete(doc, "id")
	now := time.Now().UTC()
	doc["companyId"] = s.tenant.CompanyID
	doc["createdBy"] = s.tenant.UserID
	doc["createdAt"] = now.Format(time.RFC3339)
	doc["updatedAt"] = now.Format(time.RFC3339)

	id, err := s.remote.Create(ctx, s.collection, doc)
	if err != nil {
		s.logger.Warn("remote create failed, saving locally", "error", err)
		msg := "Ajouté localement (Mode Hors-ligne)"
		if code, ok := remote.CodeOf(err); ok && code == remote.CodePermissionDenied {
			msg = "Permissions manquantes (Mode Local)"
		}
		return s.addLocally(rec, msg)
	}

	s.notify("Élément ajouté avec succès", DestinationRemote)
	return SaveResult{ID: id, PersistedTo: DestinationRemote}, nil
}

func (s *Store[T]) addLocally(rec T, message string) (SaveResult, error) {
	id := localIDPrefix + uuid.NewString()
	rec, err := withID(rec, id)
	if err != nil {
		return SaveResult{}, err
	}

	s.mu.Lock()
	next := append(append([]T(nil), s.data...), rec)
	if err := s.persistLocked(next); err != nil {
		s.mu.Unlock()
		return SaveResult{}, err
	}
	s.data = next
	s.localIDs[id] = struct{}{}
	s.emitLocked()
	s.mu.Unlock()

	s.notify(message, DestinationLocal)
	return SaveResult{ID: id, PersistedTo: DestinationLocal}, nil
}

// Update applies a partial record. Local-origin ids and local tenants
// mutate the snapshot synchronously with no remote call; otherwise a remote
// update is attempted and degrades to the local path on failure.
func (s *Store[T]) Update(ctx context.Context, id string, patch map[string]any) (SaveResult, error) {
	if s.tenant.Local() || s.isLocalID(id) {
		return s.updateLocally(id, patch, "")
	}

	fields := make(remote.Document, len(patch)+1)
	for k, v := range patch {
		if k == "id" {
			continue
		}
		fields[k] = v
	}
	fields["updatedAt"] = time.Now().UTC().Format(time.RFC3339)

	if err := s.remote.Update(ctx, s.collection, id, fields); err != nil {
		s.logger.Warn("remote update failed, saving locally", "error", err)
		return s.updateLocally(id, patch, "Modifié localement (Mode Hors-ligne)")
	}
	return SaveResult{ID: id, PersistedTo: DestinationRemote}, nil
}

func (s *Store[T]) updateLocally(id string, patch map[string]any, message string) (SaveResult, error) {
	s.mu.Lock()
	next := make([]T, len(s.data))
	for i, item := range s.data {
		if item.EntityID() != id {
			next[i] = item
			continue
		}
		patched, err := applyPatch(item, patch)
		if err != nil {
			s.mu.Unlock()
			return SaveResult{}, err
		}
		next[i] = patched
	}
	if err := s.persistLocked(next); err != nil {
		s.mu.Unlock()
		return SaveResult{}, err
	}
	s.data = next
	s.emitLocked()
	s.mu.Unlock()

	if message != "" {
		s.notify(message, DestinationLocal)
	}
	return SaveResult{ID: id, PersistedTo: DestinationLocal}, nil
}

// Remove deletes a record, symmetric to Update. Filter-based removal keeps
// it idempotent: removing an absent id changes nothing and does not fail.
func (s *Store[T]) Remove(ctx context.Context, id string) (SaveResult, error) {
	if s.tenant.Local() || s.isLocalID(id) {
		return s.removeLocally(id, "Élément supprimé (Local)")
	}

	if err := s.remote.Delete(ctx, s.collection, id); err != nil {
		s.logger.Warn("remote delete failed, removing locally", "error", err)
		return s.removeLocally(id, "Supprimé localement (Mode Hors-ligne)")
	}
	s.notify("Élément supprimé", DestinationRemote)
	return SaveResult{ID: id, PersistedTo: DestinationRemote}, nil
}

func (s *Store[T]) removeLocally(id string, message string) (SaveResult, error) {
	s.mu.Lock()
	next := make([]T, 0, len(s.data))
	for _, item := range s.data {
		if item.EntityID() != id {
			next = append(next, item)
		}
	}
	if err := s.persistLocked(next); err != nil {
		s.mu.Unlock()
		return SaveResult{}, err
	}
	s.data = next
	delete(s.localIDs, id)
	s.emitLocked()
	s.mu.Unlock()

	s.notify(message, DestinationLocal)
	return SaveResult{ID: id, PersistedTo: DestinationLocal}, nil
}

// persistLocked writes the candidate snapshot to the mirror. The in-memory
// snapshot is only replaced once the mirror accepted it, so a failed write
// leaves no half-applied state behind.
func (s *Store[T]) persistLocked(items []T) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.mirror.Set(mirror.Key(s.collection), raw)
}

func (s *Store[T]) isLocalID(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.localIDs[id]
	return ok
}

func (s *Store[T]) snapshotLocked() Snapshot[T] {
	return Snapshot[T]{
		Items:   append([]T(nil), s.data...),
		Loading: s.loading,
		Err:     s.err,
	}
}

func (s *Store[T]) emitLocked() {
	snap := s.snapshotLocked()
	for _, ch := range s.watchers {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

func (s *Store[T]) notify(message string, dest Destination) {
	if s.notifier != nil {
		s.notifier.Notify(message, dest)
	}
}
