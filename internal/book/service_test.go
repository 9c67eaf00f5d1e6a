package book

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library/internal/apperr"
)

func newService() (*Service, *Memory) {
	repo := NewMemory()
	return NewService(repo), repo
}

func Test_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	created, err := svc.Create(ctx, "Dom Casmurro", "Machado de Assis")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, StatusAvailable, created.Status)

	fetched, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, fetched.Title)
	assert.Equal(t, created.Author, fetched.Author)
	assert.Equal(t, StatusAvailable, fetched.Status)
}

func Test_GetMissing(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.EqualError(t, err, "Book nope not found")
}

func Test_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("overwrites_title_and_author_only", func(t *testing.T) {
		svc, _ := newService()
		created, err := svc.Create(ctx, "Dom Casmuro", "M. Assis")
		require.NoError(t, err)
		require.NoError(t, svc.UpdateStatus(ctx, created.ID, StatusBorrowed))

		require.NoError(t, svc.Update(ctx, created.ID, "Dom Casmurro", "Machado de Assis"))

		b, err := svc.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dom Casmurro", b.Title)
		assert.Equal(t, "Machado de Assis", b.Author)
		assert.Equal(t, StatusBorrowed, b.Status)
	})

	t.Run("missing_book", func(t *testing.T) {
		svc, _ := newService()
		err := svc.Update(ctx, "nope", "t", "a")
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}

func Test_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	created, err := svc.Create(ctx, "Dom Casmurro", "Machado de Assis")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(ctx, created.ID, StatusBorrowed))

	b, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusBorrowed, b.Status)
}

func Test_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("available_book_is_removed", func(t *testing.T) {
		svc, _ := newService()
		created, err := svc.Create(ctx, "Dom Casmurro", "Machado de Assis")
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, created.ID))

		_, err = svc.Get(ctx, created.ID)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("borrowed_book_is_kept", func(t *testing.T) {
		svc, _ := newService()
		created, err := svc.Create(ctx, "Dom Casmurro", "Machado de Assis")
		require.NoError(t, err)
		require.NoError(t, svc.UpdateStatus(ctx, created.ID, StatusBorrowed))

		err = svc.Delete(ctx, created.ID)
		require.Error(t, err)
		assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
		assert.EqualError(t, err, "Cannot delete a book with borrowed status")

		b, err := svc.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusBorrowed, b.Status)
	})
}

func Test_List(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	for _, title := range []string{"a", "b", "c"} {
		_, err := svc.Create(ctx, title, "author")
		require.NoError(t, err)
	}

	first, total, err := svc.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, first, 2)
	assert.Equal(t, "a", first[0].Title)

	rest, total, err := svc.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, rest, 1)
	assert.Equal(t, "c", rest[0].Title)
}

func Test_ParseStatus(t *testing.T) {
	for _, raw := range []string{"AVAILABLE", "BORROWED"} {
		st, err := ParseStatus(raw)
		require.NoError(t, err)
		assert.Equal(t, Status(raw), st)
	}

	_, err := ParseStatus("LOST")
	assert.Error(t, err)
}
