package records

import (
	"context"

	"academia/internal/docstore"
)

const colSubjects = "subjects"

var subjectSpec = collectionSpec{
	collection: colSubjects,
	equality: map[string]string{
		"semester":     "semester",
		"departmentId": "departmentId",
	},
	intKeys:     map[string]bool{"semester": true},
	searchField: "name",
	tsFields:    []string{"createdAt", "updatedAt"},
}

// Subjects manages the subject catalog.
type Subjects struct {
	store docstore.Store
}

func NewSubjects(store docstore.Store) *Subjects {
	return &Subjects{store: store}
}

// Create inserts a new subject. Code and name are mandatory; code is the
// business key but uniqueness is not enforced here.
func (s *Subjects) Create(ctx context.Context, payload docstore.Doc) (docstore.Doc, error) {
	if err := requireFields(payload, "code", "name"); err != nil {
		return nil, err
	}

	doc := docstore.Clone(payload)
	stampCreate(doc)

	id, err := s.store.Insert(ctx, colSubjects, doc)
	if err != nil {
		return nil, wrapStore(err)
	}
	doc["id"] = id
	return normalizeRead(doc, subjectSpec.tsFields...), nil
}

// List returns subjects matching the filters (semester, departmentId,
// search over name), optionally paginated.
func (s *Subjects) List(ctx context.Context, p ListParams) (Page, error) {
	return listRecords(ctx, s.store, subjectSpec, p)
}

func (s *Subjects) GetByID(ctx context.Context, id string) (docstore.Doc, error) {
	doc, err := s.store.Get(ctx, colSubjects, id)
	if err != nil {
		return nil, wrapStore(err)
	}
	return normalizeRead(doc, subjectSpec.tsFields...), nil
}

func (s *Subjects) Update(ctx context.Context, id string, fields docstore.Doc) error {
	doc := docstore.Clone(fields)
	stampUpdate(doc)
	return wrapStore(s.store.Update(ctx, colSubjects, id, doc))
}

func (s *Subjects) Delete(ctx context.Context, id string) error {
	return wrapStore(s.store.Delete(ctx, colSubjects, id))
}
