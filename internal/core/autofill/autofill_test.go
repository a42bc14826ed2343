package autofill

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onedocs/tracker/internal/core/domain"
)

var fixedNow = time.Date(2025, 3, 10, 9, 30, 15, 0, time.UTC)

func newTestGenerator(seed int64) *Generator {
	return New(WithRand(rand.New(rand.NewSource(seed))), WithClock(func() time.Time { return fixedNow }))
}

func TestDefaultPools(t *testing.T) {
	p := DefaultPools()
	assert.Len(t, p.Tasks.Titles, 6)
	assert.Contains(t, p.Documents.Titles, "Sözleşme Taslağı")
	assert.Contains(t, p.Emails.Bodies, "Ekibimize hoş geldiniz!")
}

func TestParsePools_RejectsEmpty(t *testing.T) {
	_, err := ParsePools([]byte("tasks:\n  titles: [a]\n  bodies: [b]\n"))
	assert.Error(t, err)

	_, err = ParsePools([]byte("::not yaml"))
	assert.Error(t, err)
}

func TestGenerator_Task(t *testing.T) {
	g := newTestGenerator(1)
	pools := DefaultPools()
	profiles := []domain.Profile{{ID: 4}, {ID: 7}}

	for i := 0; i < 50; i++ {
		task := g.Task(profiles)
		assert.Contains(t, pools.Tasks.Titles, task.Title)
		require.NotNil(t, task.Description)
		assert.Contains(t, pools.Tasks.Bodies, *task.Description)
		assert.Equal(t, domain.StatusPending, task.Status)
		assert.Equal(t, domain.DefaultCreatorID, task.CreatedBy)
		assert.True(t, task.AssignedTo == 4 || task.AssignedTo == 7, "assignee %d", task.AssignedTo)
		assertDueDate(t, task.DueDate)
		assert.Zero(t, task.ID)
	}
}

func TestGenerator_Document(t *testing.T) {
	g := newTestGenerator(2)
	doc := g.Document(nil)

	assert.Contains(t, DefaultPools().Documents.Titles, doc.Title)
	require.NotNil(t, doc.Content)
	assert.Empty(t, doc.Status, "documents carry no status default")
	assert.Equal(t, int64(1), doc.AssignedTo, "no profiles falls back to id 1")
	assert.Equal(t, domain.DefaultCreatorID, doc.CreatedBy)
	assertDueDate(t, doc.DueDate)
}

func TestGenerator_Email(t *testing.T) {
	g := newTestGenerator(3)
	email := g.Email([]domain.Profile{{ID: 12}})

	assert.Contains(t, DefaultPools().Emails.Titles, email.Subject)
	require.NotNil(t, email.Body)
	assert.Equal(t, domain.StatusPending, email.Status)
	assert.Equal(t, int64(12), email.AssignedTo)
	assertDueDate(t, email.DueDate)
}

func TestGenerator_Deterministic(t *testing.T) {
	a := newTestGenerator(42).Task([]domain.Profile{{ID: 1}, {ID: 2}, {ID: 3}})
	b := newTestGenerator(42).Task([]domain.Profile{{ID: 1}, {ID: 2}, {ID: 3}})
	assert.Equal(t, a, b)
}

func TestGenerator_CoversPool(t *testing.T) {
	g := newTestGenerator(7)
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		seen[g.Email(nil).Subject] = true
	}
	for _, s := range DefaultPools().Emails.Titles {
		assert.True(t, seen[s], "subject %q never drawn", s)
	}
}

func TestGenerator_CustomPools(t *testing.T) {
	p := Pools{
		Tasks:     Pool{Titles: []string{"only"}, Bodies: []string{"body"}},
		Documents: Pool{Titles: []string{"d"}, Bodies: []string{"d"}},
		Emails:    Pool{Titles: []string{"e"}, Bodies: []string{"e"}},
	}
	g := New(WithPools(p))
	assert.Equal(t, "only", g.Task(nil).Title)
}

func assertDueDate(t *testing.T, due *time.Time) {
	t.Helper()
	require.NotNil(t, due)
	assert.False(t, due.Before(fixedNow.Truncate(time.Minute)))
	assert.True(t, due.Before(fixedNow.Add(dueWindow)))
	assert.Zero(t, due.Second())
	assert.Zero(t, due.Nanosecond())
	assert.Equal(t, time.UTC, due.Location())
}
