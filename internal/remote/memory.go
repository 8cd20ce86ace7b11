package remote

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Collection: a document store with standing
// company-filtered queries, used when the server runs without a hosted
// backend and as the live-query implementation under test.
type Memory struct {
	mu   sync.Mutex
	docs map[string]map[string]Document // collection -> id -> doc
	subs map[int]*memorySub
	next int
}

type memorySub struct {
	collection string
	companyID  string
	onSnapshot func([]Document)
}

// NewMemory creates an empty in-process document store.
func NewMemory() *Memory {
	return &Memory{
		docs: make(map[string]map[string]Document),
		subs: make(map[int]*memorySub),
	}
}

// Subscribe registers a standing query and delivers the current snapshot
// immediately, then again after every mutation of the collection.
func (m *Memory) Subscribe(ctx context.Context, collection, companyID string, onSnapshot func([]Document), onError func(error)) (StopFunc, error) {
	m.mu.Lock()
	id := m.next
	m.next++
	m.subs[id] = &memorySub{collection: collection, companyID: companyID, onSnapshot: onSnapshot}
	snap := m.snapshotLocked(collection, companyID)
	m.mu.Unlock()

	onSnapshot(snap)

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}, nil
}

// Create stores a new document under a generated id.
func (m *Memory) Create(ctx context.Context, collection string, doc Document) (string, error) {
	id := uuid.NewString()

	m.mu.Lock()
	coll := m.docs[collection]
	if coll == nil {
		coll = make(map[string]Document)
		m.docs[collection] = coll
	}
	stored := cloneDoc(doc)
	stored["id"] = id
	coll[id] = stored
	m.mu.Unlock()

	m.broadcast(collection)
	return id, nil
}

// Update merges fields into an existing document.
func (m *Memory) Update(ctx context.Context, collection, id string, fields Document) error {
	m.mu.Lock()
	doc, ok := m.docs[collection][id]
	if !ok {
		m.mu.Unlock()
		return Errorf(CodeNotFound, "%s/%s", collection, id)
	}
	for k, v := range fields {
		doc[k] = v
	}
	m.mu.Unlock()

	m.broadcast(collection)
	return nil
}

// Delete removes a document. Deleting an absent id is a no-op, matching the
// hosted service's semantics.
func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	delete(m.docs[collection], id)
	m.mu.Unlock()

	m.broadcast(collection)
	return nil
}

func (m *Memory) broadcast(collection string) {
	m.mu.Lock()
	type delivery struct {
		fn   func([]Document)
		snap []Document
	}
	var deliveries []delivery
	for _, sub := range m.subs {
		if sub.collection != collection {
			continue
		}
		deliveries = append(deliveries, delivery{sub.onSnapshot, m.snapshotLocked(collection, sub.companyID)})
	}
	m.mu.Unlock()

	for _, d := range deliveries {
		d.fn(d.snap)
	}
}

func (m *Memory) snapshotLocked(collection, companyID string) []Document {
	var out []Document
	for _, doc := range m.docs[collection] {
		if cid, _ := doc["companyId"].(string); cid != companyID {
			continue
		}
		out = append(out, cloneDoc(doc))
	}
	sort.Slice(out, func(i, j int) bool {
		a, _ := out[i]["id"].(string)
		b, _ := out[j]["id"].(string)
		return a < b
	})
	return out
}

func cloneDoc(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
