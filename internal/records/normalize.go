package records

import (
	"strings"
	"time"

	"academia/internal/docstore"
)

// Normalization between stored documents (native time.Time stamps) and
// the records handed to callers (ISO-8601 strings, null when absent).

// normalizeRead converts every timestamp-typed value on the document to
// an ISO-8601 string. The named fields are forced to appear: when one is
// missing on the document it normalizes to an explicit null instead of
// being dropped.
func normalizeRead(doc docstore.Doc, forced ...string) docstore.Doc {
	out := make(docstore.Doc, len(doc))
	for k, v := range doc {
		if ts, ok := v.(time.Time); ok {
			out[k] = ts.UTC().Format(time.RFC3339Nano)
			continue
		}
		out[k] = v
	}
	for _, f := range forced {
		if _, ok := out[f]; !ok {
			out[f] = nil
		}
	}
	return out
}

func normalizeReadAll(docs []docstore.Doc, forced ...string) []docstore.Doc {
	out := make([]docstore.Doc, 0, len(docs))
	for _, doc := range docs {
		out = append(out, normalizeRead(doc, forced...))
	}
	return out
}

// stampCreate sets createdAt and an identical updatedAt from the server
// clock. Client-supplied values are discarded.
func stampCreate(doc docstore.Doc) {
	now := time.Now().UTC()
	doc["createdAt"] = now
	doc["updatedAt"] = now
}

// stampUpdate refreshes updatedAt only. createdAt is immutable, so any
// client attempt to change it is stripped here, along with the id.
func stampUpdate(doc docstore.Doc) {
	delete(doc, "createdAt")
	delete(doc, "id")
	doc["updatedAt"] = time.Now().UTC()
}

// requireFields rejects a create payload missing any mandatory field.
// Empty strings count as missing.
func requireFields(doc docstore.Doc, fields ...string) error {
	for _, f := range fields {
		v, ok := doc[f]
		if !ok || v == nil {
			return &MissingFieldError{Field: f}
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			return &MissingFieldError{Field: f}
		}
	}
	return nil
}

// searchSourceFields are the student fields that feed searchKeywords.
var searchSourceFields = []string{
	"firstName", "secondName", "firstSurname", "secondSurname", "documentNumber",
}

// touchesSearchFields reports whether the payload carries any field that
// requires regenerating searchKeywords.
func touchesSearchFields(doc docstore.Doc) bool {
	for _, f := range searchSourceFields {
		if _, ok := doc[f]; ok {
			return true
		}
	}
	return false
}

// searchKeywords builds the lower-cased keyword list from the fields
// present on the payload. Absent or blank fields contribute nothing.
func searchKeywords(doc docstore.Doc) []string {
	var kw []string
	for _, f := range searchSourceFields {
		s, _ := doc[f].(string)
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			kw = append(kw, s)
		}
	}
	return kw
}

// parseDate accepts the two date shapes the UI sends.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
