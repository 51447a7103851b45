package docstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is a mutex-guarded in-process Store. It backs the test suite
// and local development when no mongo instance is around. Insertion
// order is preserved so unsorted queries stay stable. Documents cross
// the boundary as deep copies in both directions, so callers never
// alias store-owned state.
type Memory struct {
	mu   sync.RWMutex
	cols map[string][]Doc
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{cols: make(map[string][]Doc)}
}

func (m *Memory) Insert(ctx context.Context, collection string, doc Doc) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := Clone(doc)
	stored["id"] = uuid.NewString()
	m.cols[collection] = append(m.cols[collection], stored)
	return stored["id"].(string), nil
}

func (m *Memory) Get(ctx context.Context, collection, id string) (Doc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, doc := range m.cols[collection] {
		if doc["id"] == id {
			return Clone(doc), nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) Update(ctx context.Context, collection, id string, fields Doc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, doc := range m.cols[collection] {
		if doc["id"] == id {
			for k, v := range fields {
				if k == "id" {
					continue
				}
				doc[k] = cloneValue(v)
			}
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := m.cols[collection]
	for i, doc := range docs {
		if doc["id"] == id {
			m.cols[collection] = append(docs[:i:i], docs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) Find(ctx context.Context, collection string, filters []Filter, opts FindOpts) ([]Doc, error) {
	m.mu.RLock()
	var matched []Doc
	for _, doc := range m.cols[collection] {
		if matchesAll(doc, filters) {
			matched = append(matched, Clone(doc))
		}
	}
	m.mu.RUnlock()

	if opts.Sort != nil {
		field, desc := opts.Sort.Field, opts.Sort.Desc
		sort.SliceStable(matched, func(i, j int) bool {
			c := compareValues(matched[i][field], matched[j][field])
			if desc {
				return c > 0
			}
			return c < 0
		})
	}

	if opts.Skip > 0 {
		if opts.Skip >= int64(len(matched)) {
			return nil, nil
		}
		matched = matched[opts.Skip:]
	}
	if opts.Limit > 0 && int64(len(matched)) > opts.Limit {
		matched = matched[:opts.Limit]
	}
	return matched, nil
}

func (m *Memory) Count(ctx context.Context, collection string, filters []Filter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for _, doc := range m.cols[collection] {
		if matchesAll(doc, filters) {
			n++
		}
	}
	return n, nil
}

func matchesAll(doc Doc, filters []Filter) bool {
	for _, f := range filters {
		if !matches(doc, f) {
			return false
		}
	}
	return true
}

func matches(doc Doc, f Filter) bool {
	val, ok := doc[f.Field]
	if !ok {
		return false
	}
	switch f.Op {
	case Eq:
		return compareValues(val, f.Value) == 0
	case Gte:
		return compareValues(val, f.Value) >= 0
	case Lte:
		return compareValues(val, f.Value) <= 0
	case Prefix:
		term, _ := f.Value.(string)
		return anyElement(val, func(s string) bool { return strings.HasPrefix(s, term) })
	case Contains:
		want, _ := f.Value.(string)
		return anyElement(val, func(s string) bool { return s == want })
	}
	return false
}

// anyElement applies pred to a string value or to every string element
// of an array value, mirroring mongo's element-wise matching.
func anyElement(val any, pred func(string) bool) bool {
	switch t := val.(type) {
	case string:
		return pred(t)
	case []string:
		for _, s := range t {
			if pred(s) {
				return true
			}
		}
	case []any:
		for _, el := range t {
			if s, ok := el.(string); ok && pred(s) {
				return true
			}
		}
	}
	return false
}

// compareValues orders two document values of the same kind. Mixed or
// unknown kinds compare as equal, which keeps sorts stable.
func compareValues(a, b any) int {
	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			switch {
			case av.Before(bv):
				return -1
			case av.After(bv):
				return 1
			}
		}
		return 0
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
		return 0
	case bool:
		if bv, ok := b.(bool); ok {
			if av == bv {
				return 0
			}
			if !av {
				return -1
			}
			return 1
		}
		return 0
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	}
	return 0, false
}
