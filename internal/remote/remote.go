// Package remote defines the boundary to the hosted synchronized document
// service backing each tenant's collections, and an in-process
// implementation of it for single-node deployments and tests.
package remote

import "context"

// Document is a schemaless record as the document service sees it. The "id"
// field is the document identity.
type Document = map[string]any

// StopFunc releases a standing subscription.
type StopFunc func()

// Collection is the document-service surface the resilient store consumes.
//
// Subscribe establishes a standing query filtered by company identity.
// onSnapshot receives the full matching set on every change (snapshot
// replacement, not deltas); onError receives subscription failures. Both are
// invoked from the service's own goroutine; neither is called again after
// the returned StopFunc runs.
//
// Write operations return classified (*Error) failures where the condition
// is one the caller may recover from.
type Collection interface {
	Subscribe(ctx context.Context, collection, companyID string, onSnapshot func([]Document), onError func(error)) (StopFunc, error)
	Create(ctx context.Context, collection string, doc Document) (string, error)
	Update(ctx context.Context, collection, id string, fields Document) error
	Delete(ctx context.Context, collection, id string) error
}
