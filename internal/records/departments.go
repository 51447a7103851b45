package records

import (
	"context"

	"academia/internal/docstore"
)

const (
	colDepartments = "departments"
	colStaff       = "staff"
)

var departmentSpec = collectionSpec{
	collection: colDepartments,
	equality: map[string]string{
		"status": "status",
	},
	searchField: "name",
	tsFields:    []string{"createdAt", "updatedAt"},
}

// DepartmentStats are the derived relationship counts for one
// department. They are recomputed from current data on every call and
// never cached.
type DepartmentStats struct {
	StudentCount int64 `json:"studentCount"`
	StaffCount   int64 `json:"staffCount"`
	SubjectCount int64 `json:"subjectCount"`
}

// Departments manages the department collection. Departments are never
// deleted.
type Departments struct {
	store docstore.Store
}

func NewDepartments(store docstore.Store) *Departments {
	return &Departments{store: store}
}

func (s *Departments) Create(ctx context.Context, payload docstore.Doc) (docstore.Doc, error) {
	if err := requireFields(payload, "name"); err != nil {
		return nil, err
	}

	doc := docstore.Clone(payload)
	if _, ok := doc["status"]; !ok {
		doc["status"] = "active"
	}
	stampCreate(doc)

	id, err := s.store.Insert(ctx, colDepartments, doc)
	if err != nil {
		return nil, wrapStore(err)
	}
	doc["id"] = id
	return normalizeRead(doc, departmentSpec.tsFields...), nil
}

// List returns departments matching status and search-by-name filters.
func (s *Departments) List(ctx context.Context, p ListParams) (Page, error) {
	return listRecords(ctx, s.store, departmentSpec, p)
}

func (s *Departments) GetByID(ctx context.Context, id string) (docstore.Doc, error) {
	doc, err := s.store.Get(ctx, colDepartments, id)
	if err != nil {
		return nil, wrapStore(err)
	}
	return normalizeRead(doc, departmentSpec.tsFields...), nil
}

func (s *Departments) Update(ctx context.Context, id string, fields docstore.Doc) error {
	doc := docstore.Clone(fields)
	stampUpdate(doc)
	return wrapStore(s.store.Update(ctx, colDepartments, id, doc))
}

// Stats counts the students, staff, and subjects referencing the
// department, each with an independent query over live data. Cost is
// linear in the matching sets; that trade-off is deliberate.
func (s *Departments) Stats(ctx context.Context, id string) (DepartmentStats, error) {
	byDept := []docstore.Filter{{Field: "departmentId", Op: docstore.Eq, Value: id}}

	var stats DepartmentStats
	var err error
	if stats.StudentCount, err = s.store.Count(ctx, colStudents, byDept); err != nil {
		return DepartmentStats{}, wrapStore(err)
	}
	if stats.StaffCount, err = s.store.Count(ctx, colStaff, byDept); err != nil {
		return DepartmentStats{}, wrapStore(err)
	}
	if stats.SubjectCount, err = s.store.Count(ctx, colSubjects, byDept); err != nil {
		return DepartmentStats{}, wrapStore(err)
	}
	return stats, nil
}
