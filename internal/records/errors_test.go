package records

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"academia/internal/docstore"
)

// failingStore returns the same error from every operation.
type failingStore struct {
	err error
}

func (f failingStore) Insert(context.Context, string, docstore.Doc) (string, error) {
	return "", f.err
}

func (f failingStore) Get(context.Context, string, string) (docstore.Doc, error) {
	return nil, f.err
}

func (f failingStore) Update(context.Context, string, string, docstore.Doc) error {
	return f.err
}

func (f failingStore) Delete(context.Context, string, string) error {
	return f.err
}

func (f failingStore) Find(context.Context, string, []docstore.Filter, docstore.FindOpts) ([]docstore.Doc, error) {
	return nil, f.err
}

func (f failingStore) Count(context.Context, string, []docstore.Filter) (int64, error) {
	return 0, f.err
}

func TestStoreFailuresWrapIntoStoreError(t *testing.T) {
	cause := errors.New("connection reset by peer")
	svc := NewStudents(failingStore{err: cause})
	ctx := context.Background()

	var se *StoreError
	_, err := svc.Create(ctx, studentPayload(nil))
	assert.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, cause, "the original cause stays attached")
	assert.Contains(t, err.Error(), "datastore unavailable")
	assert.Contains(t, err.Error(), "connection reset by peer")

	_, err = svc.List(ctx, ListParams{})
	assert.ErrorAs(t, err, &se)

	_, err = svc.GetByID(ctx, "any")
	assert.ErrorAs(t, err, &se)

	assert.ErrorAs(t, svc.Update(ctx, "any", docstore.Doc{"email": "a@b.co"}), &se)
	assert.ErrorAs(t, svc.Delete(ctx, "any"), &se)
	_, err = svc.FindByDocument(ctx, "CC", "1001")
	assert.ErrorAs(t, err, &se)
}

func TestStoreFailuresAreNotValidationErrors(t *testing.T) {
	cause := errors.New("no reachable servers")
	svc := NewDepartments(failingStore{err: cause})

	_, err := svc.Stats(context.Background(), "dep-1")
	assert.NotErrorIs(t, err, ErrNotFound)
	var missing *MissingFieldError
	assert.False(t, errors.As(err, &missing))
	var se *StoreError
	assert.ErrorAs(t, err, &se)
}
