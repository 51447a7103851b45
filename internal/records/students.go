package records

import (
	"context"

	"academia/internal/docstore"
)

const colStudents = "students"

var studentSpec = collectionSpec{
	collection: colStudents,
	equality: map[string]string{
		"departmentId": "departmentId",
		"faculty":      "faculty",
		"group":        "group",
		"status":       "status",
		"documentType": "documentType",
		"semester":     "semester",
	},
	intKeys:     map[string]bool{"semester": true},
	searchField: "searchKeywords",
	lowerSearch: true,
	tsFields:    []string{"createdAt", "updatedAt"},
}

// Students manages the student collection.
type Students struct {
	store docstore.Store
}

// NewStudents builds the service on an injected datastore handle.
func NewStudents(store docstore.Store) *Students {
	return &Students{store: store}
}

// Create inserts a new student and returns it with the assigned id.
func (s *Students) Create(ctx context.Context, payload docstore.Doc) (docstore.Doc, error) {
	if err := requireFields(payload, "firstName", "firstSurname", "documentType", "documentNumber"); err != nil {
		return nil, err
	}

	doc := docstore.Clone(payload)
	if _, ok := doc["status"]; !ok {
		doc["status"] = "active"
	}
	if _, ok := doc["subjects"]; !ok {
		doc["subjects"] = []string{}
	}
	doc["searchKeywords"] = searchKeywords(doc)
	stampCreate(doc)

	id, err := s.store.Insert(ctx, colStudents, doc)
	if err != nil {
		return nil, wrapStore(err)
	}
	doc["id"] = id
	return normalizeRead(doc, studentSpec.tsFields...), nil
}

// List returns students matching the filter map, paginated.
// Recognized keys: departmentId, faculty, group, status, documentType,
// semester, search. The search term matches keyword prefixes.
func (s *Students) List(ctx context.Context, p ListParams) (Page, error) {
	return listRecords(ctx, s.store, studentSpec, p)
}

// GetByID returns one student or ErrNotFound.
func (s *Students) GetByID(ctx context.Context, id string) (docstore.Doc, error) {
	doc, err := s.store.Get(ctx, colStudents, id)
	if err != nil {
		return nil, wrapStore(err)
	}
	return normalizeRead(doc, studentSpec.tsFields...), nil
}

// Update merges the given fields into the student. Name or document
// changes regenerate the search keywords from the incoming payload.
func (s *Students) Update(ctx context.Context, id string, fields docstore.Doc) error {
	doc := docstore.Clone(fields)
	if touchesSearchFields(doc) {
		doc["searchKeywords"] = searchKeywords(doc)
	}
	stampUpdate(doc)
	return wrapStore(s.store.Update(ctx, colStudents, id, doc))
}

// Delete removes the student record.
func (s *Students) Delete(ctx context.Context, id string) error {
	return wrapStore(s.store.Delete(ctx, colStudents, id))
}

// FindByDocument locates a student by its business key. The key is not
// enforced unique; the first match in stable order wins.
func (s *Students) FindByDocument(ctx context.Context, documentType, documentNumber string) (docstore.Doc, error) {
	filters := []docstore.Filter{
		{Field: "documentType", Op: docstore.Eq, Value: documentType},
		{Field: "documentNumber", Op: docstore.Eq, Value: documentNumber},
	}
	docs, err := s.store.Find(ctx, colStudents, filters, docstore.FindOpts{Limit: 1})
	if err != nil {
		return nil, wrapStore(err)
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	return normalizeRead(docs[0], studentSpec.tsFields...), nil
}
