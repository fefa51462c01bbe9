package usecase

import (
	"testing"

	"enterprise-blog/pkg/database/dbtest"
	"enterprise-blog/pkg/logger"
	"enterprise-blog/pkg/models"
	"enterprise-blog/pkg/session"
	"enterprise-blog/services/note/internal/repo/persistent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = &session.Identity{ID: "alice-id", Email: "alice@example.com", Role: models.RoleUser}
	bob   = &session.Identity{ID: "bob-id", Email: "bob@example.com", Role: models.RoleUser}
)

func newUseCase(t *testing.T) NoteUseCase {
	t.Helper()
	return NewNoteUseCase(persistent.NewNoteRepository(dbtest.New(t)), logger.Nop())
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"go", "blog"}, normalizeTags([]string{" go", "", "blog", "go "}))
	assert.NotNil(t, normalizeTags(nil))
}

func TestCreateNote_Defaults(t *testing.T) {
	uc := newUseCase(t)

	note, err := uc.CreateNote(alice, CreateNoteInput{Title: "Groceries", Content: "milk", Tags: []string{"home", " home", ""}})
	require.NoError(t, err)

	assert.Equal(t, DefaultColor, note.Color)
	assert.Equal(t, alice.ID, note.AuthorID)
	assert.False(t, note.IsPinned)
	require.Len(t, note.Tags, 1)
	assert.Equal(t, "home", note.Tags[0].Name)
}

func TestCreateNote_Validation(t *testing.T) {
	uc := newUseCase(t)

	_, err := uc.CreateNote(alice, CreateNoteInput{Title: "  ", Content: "x"})
	assert.ErrorIs(t, err, ErrTitleContentRequired)
	_, err = uc.CreateNote(alice, CreateNoteInput{Title: "x"})
	assert.ErrorIs(t, err, ErrTitleContentRequired)
	_, err = uc.CreateNote(nil, CreateNoteInput{Title: "x", Content: "y"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestForeignNotesLookMissing(t *testing.T) {
	uc := newUseCase(t)
	note, err := uc.CreateNote(alice, CreateNoteInput{Title: "secret", Content: "x"})
	require.NoError(t, err)

	_, err = uc.GetNote(bob, note.ID)
	assert.ErrorIs(t, err, ErrNoteNotFound)
	_, err = uc.UpdateNote(bob, note.ID, UpdateNoteInput{Title: strPtr("mine now")})
	assert.ErrorIs(t, err, ErrNoteNotFound)
	assert.ErrorIs(t, uc.DeleteNote(bob, note.ID), ErrNoteNotFound)

	notes, err := uc.ListNotes(bob)
	require.NoError(t, err)
	assert.Empty(t, notes)

	got, err := uc.GetNote(alice, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "secret", got.Title)
}

func TestUpdateNote(t *testing.T) {
	uc := newUseCase(t)
	note, err := uc.CreateNote(alice, CreateNoteInput{Title: "t", Content: "c", Color: "#ffeeaa", Tags: []string{"a"}})
	require.NoError(t, err)

	updated, err := uc.UpdateNote(alice, note.ID, UpdateNoteInput{IsArchived: boolPtr(true), Color: strPtr("")})
	require.NoError(t, err)
	assert.True(t, updated.IsArchived)
	assert.Equal(t, DefaultColor, updated.Color)
	assert.Equal(t, "t", updated.Title)
	assert.Len(t, updated.Tags, 1, "tags untouched when omitted")

	updated, err = uc.UpdateNote(alice, note.ID, UpdateNoteInput{Tags: []string{}})
	require.NoError(t, err)
	assert.Empty(t, updated.Tags)

	_, err = uc.UpdateNote(alice, note.ID, UpdateNoteInput{Content: strPtr(" ")})
	assert.ErrorIs(t, err, ErrTitleContentRequired)
}

func TestListNotes_PinnedFirst(t *testing.T) {
	uc := newUseCase(t)
	first, err := uc.CreateNote(alice, CreateNoteInput{Title: "first", Content: "c"})
	require.NoError(t, err)
	_, err = uc.CreateNote(alice, CreateNoteInput{Title: "second", Content: "c"})
	require.NoError(t, err)

	_, err = uc.UpdateNote(alice, first.ID, UpdateNoteInput{IsPinned: boolPtr(true)})
	require.NoError(t, err)

	notes, err := uc.ListNotes(alice)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "first", notes[0].Title)
	assert.True(t, notes[0].IsPinned)
}

func TestDeleteNote(t *testing.T) {
	uc := newUseCase(t)
	note, err := uc.CreateNote(alice, CreateNoteInput{Title: "t", Content: "c", Tags: []string{"x"}})
	require.NoError(t, err)

	require.NoError(t, uc.DeleteNote(alice, note.ID))
	_, err = uc.GetNote(alice, note.ID)
	assert.ErrorIs(t, err, ErrNoteNotFound)
}
