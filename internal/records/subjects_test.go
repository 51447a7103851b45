package records

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"academia/internal/docstore"
)

func TestSubjectCRUD(t *testing.T) {
	st := docstore.NewMemory()
	svc := NewSubjects(st)
	ctx := context.Background()

	var missing *MissingFieldError
	_, err := svc.Create(ctx, docstore.Doc{"name": "Calculus"})
	assert.ErrorAs(t, err, &missing)
	assert.Equal(t, "code", missing.Field)

	created, err := svc.Create(ctx, docstore.Doc{
		"code": "MAT101", "name": "Calculus", "semester": 1, "credits": 4,
	})
	assert.NoError(t, err)
	id := created["id"].(string)
	assert.Equal(t, created["createdAt"], created["updatedAt"])

	assert.NoError(t, svc.Update(ctx, id, docstore.Doc{"credits": 3}))
	got, err := svc.GetByID(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, 3, got["credits"])
	assert.Equal(t, "Calculus", got["name"])
	assert.Equal(t, created["createdAt"], got["createdAt"])

	assert.NoError(t, svc.Delete(ctx, id))
	_, err = svc.GetByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubjectListFilters(t *testing.T) {
	st := docstore.NewMemory()
	svc := NewSubjects(st)
	ctx := context.Background()

	_, err := svc.Create(ctx, docstore.Doc{"code": "MAT101", "name": "Calculus", "semester": 1})
	assert.NoError(t, err)
	_, err = svc.Create(ctx, docstore.Doc{"code": "FIS201", "name": "Physics", "semester": 2})
	assert.NoError(t, err)

	page, err := svc.List(ctx, ListParams{Filters: map[string]string{"semester": "2"}})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)
	assert.Equal(t, "Physics", page.Records[0]["name"])

	page, err = svc.List(ctx, ListParams{Filters: map[string]string{"search": "Calc"}})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)
	assert.Equal(t, "MAT101", page.Records[0]["code"])
}
