package records

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"academia/internal/docstore"
)

func TestDepartmentCreateAndList(t *testing.T) {
	st := docstore.NewMemory()
	svc := NewDepartments(st)
	ctx := context.Background()

	created, err := svc.Create(ctx, docstore.Doc{
		"name":     "Ciencias Básicas",
		"director": "M. Torres",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, created["id"])
	assert.Equal(t, "active", created["status"])

	_, err = svc.Create(ctx, docstore.Doc{"name": "Humanidades", "status": "inactive"})
	assert.NoError(t, err)

	page, err := svc.List(ctx, ListParams{Filters: map[string]string{"status": "active"}})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)
	assert.Equal(t, "Ciencias Básicas", page.Records[0]["name"])

	page, err = svc.List(ctx, ListParams{Filters: map[string]string{"search": "Cien"}})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)
}

func TestDepartmentUpdate(t *testing.T) {
	st := docstore.NewMemory()
	svc := NewDepartments(st)
	ctx := context.Background()

	created, err := svc.Create(ctx, docstore.Doc{"name": "Ciencias"})
	assert.NoError(t, err)
	id := created["id"].(string)

	assert.NoError(t, svc.Update(ctx, id, docstore.Doc{"director": "L. Prieto"}))
	got, err := svc.GetByID(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, "L. Prieto", got["director"])
	assert.Equal(t, created["createdAt"], got["createdAt"])

	assert.ErrorIs(t, svc.Update(ctx, "missing", docstore.Doc{"director": "x"}), ErrNotFound)
}

func TestDepartmentStatsCountsLiveData(t *testing.T) {
	st := docstore.NewMemory()
	svc := NewDepartments(st)
	ctx := context.Background()

	dep, err := svc.Create(ctx, docstore.Doc{"name": "Ingeniería"})
	assert.NoError(t, err)
	depID := dep["id"].(string)

	seed := func(col string, n int) {
		for i := 0; i < n; i++ {
			_, err := st.Insert(ctx, col, docstore.Doc{"departmentId": depID})
			assert.NoError(t, err)
		}
	}
	seed(colStudents, 3)
	seed(colStaff, 2)
	seed(colSubjects, 1)
	// unrelated records must not count
	_, err = st.Insert(ctx, colStudents, docstore.Doc{"departmentId": "other"})
	assert.NoError(t, err)

	stats, err := svc.Stats(ctx, depID)
	assert.NoError(t, err)
	assert.Equal(t, DepartmentStats{StudentCount: 3, StaffCount: 2, SubjectCount: 1}, stats)

	// derived, not cached: a new student shows up on the next call
	seed(colStudents, 1)
	stats, err = svc.Stats(ctx, depID)
	assert.NoError(t, err)
	assert.Equal(t, int64(4), stats.StudentCount)
}
