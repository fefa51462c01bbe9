package usecase

import (
	"errors"
	"strings"

	"enterprise-blog/pkg/apperror"
	"enterprise-blog/pkg/logger"
	"enterprise-blog/pkg/session"
	"enterprise-blog/services/note/internal/entity"
	"enterprise-blog/services/note/internal/repo/persistent"
)

const DefaultColor = "#ffffff"

var (
	ErrUnauthorized         = apperror.New(apperror.Unauthenticated, "Unauthorized")
	ErrNoteNotFound         = apperror.New(apperror.NotFound, "Note not found")
	ErrTitleContentRequired = apperror.New(apperror.Validation, "Title and content are required")
)

type CreateNoteInput struct {
	Title   string
	Content string
	Color   string
	Tags    []string
}

type UpdateNoteInput struct {
	Title      *string
	Content    *string
	Color      *string
	IsPinned   *bool
	IsArchived *bool
	Tags       []string
}

type NoteUseCase interface {
	ListNotes(viewer *session.Identity) ([]*entity.Note, error)
	GetNote(viewer *session.Identity, id string) (*entity.Note, error)
	CreateNote(viewer *session.Identity, input CreateNoteInput) (*entity.Note, error)
	UpdateNote(viewer *session.Identity, id string, input UpdateNoteInput) (*entity.Note, error)
	DeleteNote(viewer *session.Identity, id string) error
}

type noteUseCase struct {
	noteRepo persistent.NoteRepository
	logger   *logger.Logger
}

func NewNoteUseCase(noteRepo persistent.NoteRepository, logger *logger.Logger) NoteUseCase {
	return &noteUseCase{
		noteRepo: noteRepo,
		logger:   logger,
	}
}

func (uc *noteUseCase) ListNotes(viewer *session.Identity) ([]*entity.Note, error) {
	if viewer == nil {
		return nil, ErrUnauthorized
	}
	notes, err := uc.noteRepo.ListByAuthor(viewer.ID)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "Failed to fetch notes", err)
	}
	return notes, nil
}

func (uc *noteUseCase) GetNote(viewer *session.Identity, id string) (*entity.Note, error) {
	if viewer == nil {
		return nil, ErrUnauthorized
	}
	note, err := uc.noteRepo.Get(id, viewer.ID)
	if err != nil {
		return nil, uc.translate(err, "Failed to fetch note")
	}
	return note, nil
}

func (uc *noteUseCase) CreateNote(viewer *session.Identity, input CreateNoteInput) (*entity.Note, error) {
	if viewer == nil {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Content) == "" {
		return nil, ErrTitleContentRequired
	}

	color := input.Color
	if color == "" {
		color = DefaultColor
	}

	note, err := uc.noteRepo.Create(&entity.Note{
		Title:    input.Title,
		Content:  input.Content,
		Color:    color,
		AuthorID: viewer.ID,
	}, normalizeTags(input.Tags))
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "Failed to create note", err)
	}

	uc.logger.Info("Note %s created by %s", note.ID, viewer.ID)
	return note, nil
}

func (uc *noteUseCase) UpdateNote(viewer *session.Identity, id string, input UpdateNoteInput) (*entity.Note, error) {
	if viewer == nil {
		return nil, ErrUnauthorized
	}
	if (input.Title != nil && strings.TrimSpace(*input.Title) == "") ||
		(input.Content != nil && strings.TrimSpace(*input.Content) == "") {
		return nil, ErrTitleContentRequired
	}

	changes := persistent.NoteChanges{
		Title:      input.Title,
		Content:    input.Content,
		Color:      input.Color,
		IsPinned:   input.IsPinned,
		IsArchived: input.IsArchived,
	}
	if input.Tags != nil {
		changes.Tags = normalizeTags(input.Tags)
	}
	if changes.Color != nil && *changes.Color == "" {
		color := DefaultColor
		changes.Color = &color
	}

	note, err := uc.noteRepo.Update(id, viewer.ID, changes)
	if err != nil {
		return nil, uc.translate(err, "Failed to update note")
	}
	return note, nil
}

func (uc *noteUseCase) DeleteNote(viewer *session.Identity, id string) error {
	if viewer == nil {
		return ErrUnauthorized
	}
	if err := uc.noteRepo.Delete(id, viewer.ID); err != nil {
		return uc.translate(err, "Failed to delete note")
	}
	return nil
}

func (uc *noteUseCase) translate(err error, message string) error {
	if errors.Is(err, persistent.ErrNotFound) {
		return ErrNoteNotFound
	}
	return apperror.Wrap(apperror.Internal, message, err)
}

// normalizeTags trims names, drops blanks and keeps the first of any duplicates.
// The result is never nil.
func normalizeTags(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
