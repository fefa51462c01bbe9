package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestUser_BeforeCreate(t *testing.T) {
	user := &User{
		Email:    "test@example.com",
		Password: "password",
		Role:     RoleUser,
		IsActive: true,
	}

	// BeforeCreate should set ID if empty
	err := user.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)
}

func TestUser_BeforeCreate_WithID(t *testing.T) {
	existingID := "existing-id-123"
	user := &User{
		ID:       existingID,
		Email:    "test@example.com",
		Password: "password",
	}

	err := user.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.Equal(t, existingID, user.ID)
}

func TestPost_BeforeCreate(t *testing.T) {
	post := &Post{
		AuthorID:    "author-123",
		Title:       "Test Post",
		Slug:        "test-post",
		AccessLevel: AccessPublic,
		Status:      StatusDraft,
	}

	err := post.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, post.ID)
}

func TestEnumConstants(t *testing.T) {
	assert.Equal(t, UserRole("ADMIN"), RoleAdmin)
	assert.Equal(t, UserRole("USER"), RoleUser)
	assert.Equal(t, AccessLevel("PUBLIC"), AccessPublic)
	assert.Equal(t, AccessLevel("INTERNAL"), AccessInternal)
	assert.Equal(t, AccessLevel("PRIVATE"), AccessPrivate)
	assert.Equal(t, PostStatus("DRAFT"), StatusDraft)
	assert.Equal(t, PostStatus("PUBLISHED"), StatusPublished)
}

func TestAll_AutoMigrates(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(All()...))

	for _, table := range []string{"users", "posts", "comments", "likes", "follows", "notifications", "notes", "tags", "note_tags"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestNote_TagsAssociation(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(All()...))

	note := &Note{Title: "t", Content: "c", AuthorID: "author-1", Tags: []Tag{{Name: "go"}, {Name: "blog"}}}
	require.NoError(t, db.Create(note).Error)

	var loaded Note
	require.NoError(t, db.Preload("Tags").First(&loaded, "id = ?", note.ID).Error)
	assert.Len(t, loaded.Tags, 2)
	assert.Equal(t, "#ffffff", loaded.Color)
}
