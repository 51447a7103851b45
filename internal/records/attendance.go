package records

import (
	"context"
	"fmt"
	"time"

	"academia/internal/docstore"
)

const colAttendance = "attendance"

var attendanceSpec = collectionSpec{
	collection: colAttendance,
	equality: map[string]string{
		"subjectId": "subjectId",
		"group":     "group",
		"semester":  "semester",
	},
	intKeys:   map[string]bool{"semester": true},
	dateField: "date",
	tsFields:  []string{"createdAt", "updatedAt", "date"},
}

// StudentEntry is one student's row on an attendance sheet. A sheet
// holds at most one entry per student.
type StudentEntry struct {
	StudentID string `json:"studentId" binding:"required"`
	Attended  bool   `json:"attended"`
	Note      string `json:"note,omitempty"`
}

// Attendance manages attendance sheets. Sheets are never deleted.
type Attendance struct {
	store docstore.Store
}

func NewAttendance(store docstore.Store) *Attendance {
	return &Attendance{store: store}
}

// Create inserts a new attendance sheet. The session date is stored as a
// chronological value so range filters and ordering compare correctly.
func (s *Attendance) Create(ctx context.Context, payload docstore.Doc) (docstore.Doc, error) {
	if err := requireFields(payload, "subjectId", "date"); err != nil {
		return nil, err
	}

	doc := docstore.Clone(payload)
	if raw, ok := doc["date"].(string); ok {
		t, ok := parseDate(raw)
		if !ok {
			return nil, fmt.Errorf("%w: date %q", ErrInvalidDate, raw)
		}
		doc["date"] = t
	}
	if _, ok := doc["students"]; !ok {
		doc["students"] = []any{}
	}
	stampCreate(doc)

	id, err := s.store.Insert(ctx, colAttendance, doc)
	if err != nil {
		return nil, wrapStore(err)
	}
	doc["id"] = id
	return normalizeRead(doc, attendanceSpec.tsFields...), nil
}

// List returns sheets matching subjectId, group, semester, and the
// dateFrom/dateTo range, optionally paginated.
func (s *Attendance) List(ctx context.Context, p ListParams) (Page, error) {
	return listRecords(ctx, s.store, attendanceSpec, p)
}

func (s *Attendance) GetByID(ctx context.Context, id string) (docstore.Doc, error) {
	doc, err := s.store.Get(ctx, colAttendance, id)
	if err != nil {
		return nil, wrapStore(err)
	}
	return normalizeRead(doc, attendanceSpec.tsFields...), nil
}

// MergeEntry upserts one student's entry into the sheet's embedded list:
// an existing entry for the student is replaced in place, otherwise the
// entry is appended. The whole list is written back along with a fresh
// updatedAt. There is no concurrency check, so two simultaneous merges
// on the same sheet race and the last write wins.
func (s *Attendance) MergeEntry(ctx context.Context, id string, entry StudentEntry) error {
	doc, err := s.store.Get(ctx, colAttendance, id)
	if err != nil {
		return wrapStore(err)
	}

	entryDoc := docstore.Doc{
		"studentId": entry.StudentID,
		"attended":  entry.Attended,
		"note":      entry.Note,
	}

	entries := asList(doc["students"])
	replaced := false
	for i, el := range entries {
		if row, ok := el.(docstore.Doc); ok && row["studentId"] == entry.StudentID {
			entries[i] = entryDoc
			replaced = true
			break
		}
		if row, ok := el.(map[string]any); ok && row["studentId"] == entry.StudentID {
			entries[i] = entryDoc
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, entryDoc)
	}

	return wrapStore(s.store.Update(ctx, colAttendance, id, docstore.Doc{
		"students":  entries,
		"updatedAt": time.Now().UTC(),
	}))
}

// RosterCandidates lists the students enrolled in the subject for the
// given group, the set a new sheet is taken against.
func (s *Attendance) RosterCandidates(ctx context.Context, subjectID, group string) ([]docstore.Doc, error) {
	filters := []docstore.Filter{
		{Field: "subjects", Op: docstore.Contains, Value: subjectID},
	}
	if group != "" && group != filterAll {
		filters = append(filters, docstore.Filter{Field: "group", Op: docstore.Eq, Value: group})
	}
	docs, err := s.store.Find(ctx, colStudents, filters, docstore.FindOpts{
		Sort: &docstore.Sort{Field: "firstSurname"},
	})
	if err != nil {
		return nil, wrapStore(err)
	}
	return normalizeReadAll(docs, studentSpec.tsFields...), nil
}

func asList(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case nil:
		return nil
	default:
		return nil
	}
}
