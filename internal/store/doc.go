package store

import (
	"encoding/json"
	"fmt"

	"github.com/revobtp/revo-server/internal/remote"
)

// Entity is any record the store can manage. Identity is an opaque string;
// generated local ids carry the "local_" prefix for compatibility with
// persisted data, but the store tracks origin structurally, never by
// sniffing the prefix.
type Entity interface {
	EntityID() string
}

func toDoc[T Entity](rec T) (remote.Document, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	var doc remote.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	return doc, nil
}

func fromDoc[T Entity](doc remote.Document) (T, error) {
	var rec T
	raw, err := json.Marshal(doc)
	if err != nil {
		return rec, fmt.Errorf("encoding document: %w", err)
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return rec, fmt.Errorf("decoding document: %w", err)
	}
	return rec, nil
}

// applyPatch merges a partial record into rec, JSON merge style. The id
// field is never patchable.
func applyPatch[T Entity](rec T, patch map[string]any) (T, error) {
	doc, err := toDoc(rec)
	if err != nil {
		return rec, err
	}
	for k, v := range patch {
		if k == "id" {
			continue
		}
		doc[k] = v
	}
	return fromDoc[T](doc)
}

// withID returns rec with its id field replaced.
func withID[T Entity](rec T, id string) (T, error) {
	doc, err := toDoc(rec)
	if err != nil {
		return rec, err
	}
	doc["id"] = id
	return fromDoc[T](doc)
}
