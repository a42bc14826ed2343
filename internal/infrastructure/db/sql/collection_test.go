package sql

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/onedocs/tracker/internal/core/domain"
	"github.com/onedocs/tracker/internal/core/ports"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := Open(context.Background(), Config{
		Driver: DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func newTask(title string) *domain.Task {
	return &domain.Task{Title: title, Status: domain.StatusPending, Assignment: domain.Assignment{AssignedTo: 1, CreatedBy: 1}}
}

func TestCollection_InsertList(t *testing.T) {
	db := openTestDB(t)
	tasks := NewCollection[domain.Task](db, domain.CollectionTasks)
	ctx := context.Background()

	id1, err := tasks.Insert(ctx, newTask("Sunum Hazırlığı"))
	require.NoError(t, err)
	id2, err := tasks.Insert(ctx, newTask("Rapor Teslimi"))
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	list, err := tasks.List(ctx, ports.Order{Field: "created_at", Desc: true})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, id2, list[0].ID, "newest first")
	assert.Equal(t, int64(1), list[0].AssignedTo)
	assert.Nil(t, list[0].AssignedToProfile)
	assert.False(t, list[0].CreatedAt.IsZero())
}

func TestCollection_EmptyList(t *testing.T) {
	db := openTestDB(t)
	emails := NewCollection[domain.Email](db, domain.CollectionEmails)

	list, err := emails.List(context.Background(), ports.Order{Field: "created_at", Desc: true})
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestCollection_Update(t *testing.T) {
	db := openTestDB(t)
	docs := NewCollection[domain.Document](db, domain.CollectionDocuments)
	ctx := context.Background()

	id, err := docs.Insert(ctx, &domain.Document{Title: "Proje Planı", Assignment: domain.Assignment{AssignedTo: 2, CreatedBy: 1}})
	require.NoError(t, err)

	due := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, docs.Update(ctx, id, map[string]any{"title": "Proje Planı v2", "due_date": due}))

	list, err := docs.List(ctx, ports.Order{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Proje Planı v2", list[0].Title)
	require.NotNil(t, list[0].DueDate)
	assert.True(t, due.Equal(*list[0].DueDate))

	assert.ErrorIs(t, docs.Update(ctx, id+100, map[string]any{"title": "x"}), domain.ErrRecordNotFound)
}

func TestCollection_Delete(t *testing.T) {
	db := openTestDB(t)
	tasks := NewCollection[domain.Task](db, domain.CollectionTasks)
	ctx := context.Background()

	id, err := tasks.Insert(ctx, newTask("Kod İncelemesi"))
	require.NoError(t, err)

	require.NoError(t, tasks.Delete(ctx, id))
	assert.ErrorIs(t, tasks.Delete(ctx, id), domain.ErrRecordNotFound)
}

func TestProfileRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	_, err := repo.Insert(ctx, &domain.Profile{Email: "ayse@example.com", PasswordHash: "hash"})
	require.NoError(t, err)

	_, err = repo.Insert(ctx, &domain.Profile{Email: "ayse@example.com", PasswordHash: "other"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	p, err := repo.FindByEmail(ctx, "ayse@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hash", p.PasswordHash)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestProfileRepository_UnnamedLast(t *testing.T) {
	db := openTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()
	zeynep, ahmet := "Zeynep", "Ahmet"

	for _, p := range []*domain.Profile{
		{Email: "nameless@example.com", PasswordHash: "x"},
		{Email: "z@example.com", PasswordHash: "x", FullName: &zeynep},
		{Email: "a@example.com", PasswordHash: "x", FullName: &ahmet},
	} {
		_, err := repo.Insert(ctx, p)
		require.NoError(t, err)
	}

	list, err := repo.List(ctx, ports.Order{Field: "full_name"})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a@example.com", list[0].Email)
	assert.Equal(t, "z@example.com", list[1].Email)
	assert.Equal(t, "nameless@example.com", list[2].Email)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "oracle"}, zerolog.Nop())
	assert.Error(t, err)
}
