package records

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"academia/internal/docstore"
)

// filterAll is the sentinel the UI sends for "no filter on this key".
const filterAll = "all"

// ListParams carries the raw filter map from the request plus optional
// pagination. Page and Limit both zero means "everything".
type ListParams struct {
	Filters map[string]string
	Page    int
	Limit   int
}

func (p ListParams) paginated() bool {
	return p.Page != 0 || p.Limit != 0
}

// Page is one page of list results with the total match count computed
// independently of paging.
type Page struct {
	Records    []docstore.Doc `json:"data"`
	TotalCount int64          `json:"totalCount"`
	Page       int            `json:"page"`
	TotalPages int            `json:"totalPages"`
}

// collectionSpec describes how one collection interprets filter keys.
// Unrecognized keys are ignored rather than rejected.
type collectionSpec struct {
	collection  string
	equality    map[string]string // filter key -> document field
	intKeys     map[string]bool   // equality keys stored as integers
	searchField string            // prefix-search target, "" disables search
	lowerSearch bool              // fold the term before matching
	dateField   string            // dateFrom/dateTo target, "" disables
	tsFields    []string          // timestamp fields forced to null when absent
}

// buildFilters translates the sparse filter map into conjunctive store
// predicates, honoring only the keys the spec recognizes and treating
// "all" as no filter.
func buildFilters(spec collectionSpec, raw map[string]string) ([]docstore.Filter, error) {
	var filters []docstore.Filter
	for key, field := range spec.equality {
		v, ok := raw[key]
		if !ok || v == "" || v == filterAll {
			continue
		}
		var value any = v
		if spec.intKeys[key] {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("%w: %s %q", ErrInvalidFilter, key, v)
			}
			value = n
		}
		filters = append(filters, docstore.Filter{Field: field, Op: docstore.Eq, Value: value})
	}

	if spec.dateField != "" {
		if v := raw["dateFrom"]; v != "" {
			t, ok := parseDate(v)
			if !ok {
				return nil, fmt.Errorf("%w: dateFrom %q", ErrInvalidDate, v)
			}
			filters = append(filters, docstore.Filter{Field: spec.dateField, Op: docstore.Gte, Value: t})
		}
		if v := raw["dateTo"]; v != "" {
			t, ok := parseDate(v)
			if !ok {
				return nil, fmt.Errorf("%w: dateTo %q", ErrInvalidDate, v)
			}
			filters = append(filters, docstore.Filter{Field: spec.dateField, Op: docstore.Lte, Value: t})
		}
	}

	if spec.searchField != "" {
		if term := raw["search"]; term != "" {
			if spec.lowerSearch {
				term = strings.ToLower(term)
			}
			filters = append(filters, docstore.Filter{Field: spec.searchField, Op: docstore.Prefix, Value: term})
		}
	}
	return filters, nil
}

// listRecords runs the filtered, ordered, paginated query plus the
// independent count query against the same predicates. Ordering is
// descending by creation time so both executions see the same sequence.
func listRecords(ctx context.Context, st docstore.Store, spec collectionSpec, p ListParams) (Page, error) {
	if p.paginated() && (p.Page < 1 || p.Limit < 1) {
		return Page{}, ErrInvalidPage
	}

	filters, err := buildFilters(spec, p.Filters)
	if err != nil {
		return Page{}, err
	}

	total, err := st.Count(ctx, spec.collection, filters)
	if err != nil {
		return Page{}, wrapStore(err)
	}

	opts := docstore.FindOpts{Sort: &docstore.Sort{Field: "createdAt", Desc: true}}
	page := Page{Page: 1, TotalCount: total, TotalPages: 1}
	if p.paginated() {
		opts.Skip = int64(p.Page-1) * int64(p.Limit)
		opts.Limit = int64(p.Limit)
		page.Page = p.Page
		page.TotalPages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}

	docs, err := st.Find(ctx, spec.collection, filters, opts)
	if err != nil {
		return Page{}, wrapStore(err)
	}
	page.Records = normalizeReadAll(docs, spec.tsFields...)
	if page.Records == nil {
		page.Records = []docstore.Doc{}
	}
	return page, nil
}
