package records

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"academia/internal/docstore"
)

func newStudents(t *testing.T) (*Students, *docstore.Memory) {
	t.Helper()
	st := docstore.NewMemory()
	return NewStudents(st), st
}

func studentPayload(overrides docstore.Doc) docstore.Doc {
	doc := docstore.Doc{
		"firstName":      "Ana",
		"firstSurname":   "Lopez",
		"documentType":   "CC",
		"documentNumber": "1001",
		"faculty":        "ING",
	}
	for k, v := range overrides {
		doc[k] = v
	}
	return doc
}

func TestStudentCreateRoundTrip(t *testing.T) {
	svc, _ := newStudents(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, studentPayload(nil))
	assert.NoError(t, err)
	assert.NotEmpty(t, created["id"])
	assert.Equal(t, "active", created["status"], "status defaults to active")
	assert.Equal(t, created["createdAt"], created["updatedAt"])

	got, err := svc.GetByID(ctx, created["id"].(string))
	assert.NoError(t, err)
	assert.Equal(t, created["createdAt"], got["createdAt"])
	assert.Equal(t, "Ana", got["firstName"])

	// timestamps come back as parseable ISO-8601 strings
	_, err = time.Parse(time.RFC3339Nano, got["createdAt"].(string))
	assert.NoError(t, err)
}

func TestStudentCreateMissingFieldWritesNothing(t *testing.T) {
	svc, _ := newStudents(t)
	ctx := context.Background()

	payload := studentPayload(nil)
	delete(payload, "firstName")
	_, err := svc.Create(ctx, payload)
	var missing *MissingFieldError
	assert.ErrorAs(t, err, &missing)
	assert.Equal(t, "firstName", missing.Field)

	page, err := svc.List(ctx, ListParams{})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), page.TotalCount)
	assert.Empty(t, page.Records)
}

func TestStudentListFiltersAreConjunctive(t *testing.T) {
	svc, _ := newStudents(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, studentPayload(nil))
	assert.NoError(t, err)
	_, err = svc.Create(ctx, studentPayload(docstore.Doc{
		"firstName": "Luis", "documentNumber": "1002", "faculty": "ART",
	}))
	assert.NoError(t, err)

	page, err := svc.List(ctx, ListParams{Filters: map[string]string{"faculty": "ING"}})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)
	assert.Equal(t, "Ana", page.Records[0]["firstName"])

	page, err = svc.List(ctx, ListParams{Filters: map[string]string{
		"faculty": "ING", "documentType": "TI",
	}})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), page.TotalCount)

	// "all" disables a key entirely
	page, err = svc.List(ctx, ListParams{Filters: map[string]string{"faculty": "all"}})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalCount)
}

func TestStudentPrefixSearch(t *testing.T) {
	svc, _ := newStudents(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, studentPayload(docstore.Doc{"firstName": "John", "documentNumber": "2001"}))
	assert.NoError(t, err)
	_, err = svc.Create(ctx, studentPayload(docstore.Doc{"firstName": "Joseph", "documentNumber": "2002"}))
	assert.NoError(t, err)
	_, err = svc.Create(ctx, studentPayload(docstore.Doc{"firstName": "Bob", "documentNumber": "2003"}))
	assert.NoError(t, err)
	_, err = svc.Create(ctx, studentPayload(docstore.Doc{"firstName": "Ajohn", "documentNumber": "2004"}))
	assert.NoError(t, err)

	page, err := svc.List(ctx, ListParams{Filters: map[string]string{"search": "jo"}})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalCount)
	var names []string
	for _, rec := range page.Records {
		names = append(names, rec["firstName"].(string))
	}
	assert.ElementsMatch(t, []string{"John", "Joseph"}, names)
}

func TestStudentUpdatePreservesCreatedAt(t *testing.T) {
	svc, _ := newStudents(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, studentPayload(nil))
	assert.NoError(t, err)
	id := created["id"].(string)

	err = svc.Update(ctx, id, docstore.Doc{
		"email":     "ana@example.edu",
		"createdAt": "2000-01-01T00:00:00Z", // must be ignored
	})
	assert.NoError(t, err)

	got, err := svc.GetByID(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, created["createdAt"], got["createdAt"])
	assert.Equal(t, "ana@example.edu", got["email"])

	cAt, _ := time.Parse(time.RFC3339Nano, got["createdAt"].(string))
	uAt, _ := time.Parse(time.RFC3339Nano, got["updatedAt"].(string))
	assert.True(t, uAt.After(cAt), "updatedAt must advance past createdAt")
}

func TestStudentUpdateRegeneratesKeywords(t *testing.T) {
	svc, _ := newStudents(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, studentPayload(nil))
	assert.NoError(t, err)
	id := created["id"].(string)

	page, err := svc.List(ctx, ListParams{Filters: map[string]string{"search": "smit"}})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), page.TotalCount)

	err = svc.Update(ctx, id, docstore.Doc{"firstSurname": "Smith"})
	assert.NoError(t, err)

	page, err = svc.List(ctx, ListParams{Filters: map[string]string{"search": "smit"}})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)
	assert.Equal(t, id, page.Records[0]["id"])
}

func TestStudentDelete(t *testing.T) {
	svc, _ := newStudents(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, studentPayload(nil))
	assert.NoError(t, err)
	id := created["id"].(string)

	assert.NoError(t, svc.Delete(ctx, id))
	_, err = svc.GetByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, id), ErrNotFound)
}

func TestStudentFindByDocument(t *testing.T) {
	svc, _ := newStudents(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, studentPayload(nil))
	assert.NoError(t, err)

	got, err := svc.FindByDocument(ctx, "CC", "1001")
	assert.NoError(t, err)
	assert.Equal(t, "Ana", got["firstName"])

	_, err = svc.FindByDocument(ctx, "TI", "1001")
	assert.ErrorIs(t, err, ErrNotFound)
}
