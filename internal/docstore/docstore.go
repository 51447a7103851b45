// Package docstore abstracts the document database behind a small
// collection-oriented query API. Production runs on MongoDB; tests and
// local development use the in-memory backend.
package docstore

import (
	"context"
	"errors"
)

// Doc is one stored document. Timestamp values are native time.Time;
// conversion to wire representations happens above this layer.
type Doc map[string]any

// Op is a filter comparison operator.
type Op string

const (
	Eq       Op = "eq"
	Gte      Op = "gte"
	Lte      Op = "lte"
	Prefix   Op = "prefix"   // string starts-with, via a bounded range
	Contains Op = "contains" // array field holds the value
)

// PrefixBound closes the half-open range [term, term+PrefixBound) that
// implements prefix search. U+F8FF is the highest BMP codepoint the
// indexed fields can contain, so the bound covers every completion of
// the term. Backends must keep codepoint ordering for this to hold.
const PrefixBound = "\uf8ff"

// Filter is one predicate over a document field. A filter list is
// conjunctive: every filter must match. There is no OR.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Sort names the order of a result set.
type Sort struct {
	Field string
	Desc  bool
}

// FindOpts controls ordering and paging of a Find call. Limit 0 means
// unbounded.
type FindOpts struct {
	Sort  *Sort
	Skip  int64
	Limit int64
}

// ErrNotFound reports that no document has the requested id.
var ErrNotFound = errors.New("document not found")

// Store is the document database contract. Returned documents carry the
// store-assigned id under the "id" key. Update merges the given fields
// into the existing document; it never replaces the whole document.
type Store interface {
	Insert(ctx context.Context, collection string, doc Doc) (string, error)
	Get(ctx context.Context, collection, id string) (Doc, error)
	Update(ctx context.Context, collection, id string, fields Doc) error
	Delete(ctx context.Context, collection, id string) error
	Find(ctx context.Context, collection string, filters []Filter, opts FindOpts) ([]Doc, error)
	Count(ctx context.Context, collection string, filters []Filter) (int64, error)
}

// Clone returns a copy of doc sharing no mutable state with the
// original. Nested documents and slices are copied recursively, so
// callers can mutate the result without touching store-owned memory.
func Clone(doc Doc) Doc {
	out := make(Doc, len(doc))
	for k, v := range doc {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Doc:
		return Clone(t)
	case map[string]any:
		return Clone(Doc(t))
	case []any:
		out := make([]any, len(t))
		for i, el := range t {
			out[i] = cloneValue(el)
		}
		return out
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	case []Doc:
		out := make([]Doc, len(t))
		for i, el := range t {
			out[i] = Clone(el)
		}
		return out
	default:
		return v
	}
}
