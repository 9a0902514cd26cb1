package repositorytest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore-api/internal/shared/repository"
)

type note struct {
	ID   int64
	Text string
}

func (note) Table() string { return "notes" }
func (note) Columns() []string { return []string{"text"} }
func (n *note) Values() []any { return []any{n.Text} }
func (n *note) Fields() []any { return []any{&n.ID, &n.Text} }
func (n *note) Identifier() int64 { return n.ID }

var _ repository.Repository[note] = (*Memory[note, *note])(nil)

func TestMemory_Lifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemory[note, *note](note{Text: "seed"})

	n := &note{Text: "hello"}
	ok, err := m.Create(ctx, n)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(2), n.ID)

	all, err := m.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "seed", all[0].Text)
	assert.Equal(t, "hello", all[1].Text)

	n.Text = "changed"
	ok, err = m.Update(ctx, n)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := m.FindByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "changed", got.Text)

	ok, err = m.Delete(ctx, got)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = m.FindByID(ctx, 2)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, 3, m.Writes)
}

func TestMemory_MissingRowsAndRejects(t *testing.T) {
	ctx := context.Background()
	m := NewMemory[note, *note]()
	m.Reject = func(n *note) bool { return n.Text == "" }

	ok, err := m.Create(ctx, &note{})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, m.Len())

	_, err = m.Update(ctx, &note{ID: 9, Text: "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = m.Delete(ctx, &note{ID: 9})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	exists, err := m.IsExists(ctx, 9)
	require.NoError(t, err)
	assert.False(t, exists)
}
