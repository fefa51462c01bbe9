package usecase

import (
	"context"
	"errors"
	"time"

	"enterprise-blog/pkg/apperror"
	"enterprise-blog/pkg/logger"
	"enterprise-blog/pkg/session"
	"enterprise-blog/services/admin/internal/entity"
	"enterprise-blog/services/admin/internal/repo/persistent"
)

const activeWindow = 7 * 24 * time.Hour

type UserAction string

const (
	ActionActivate   UserAction = "activate"
	ActionDeactivate UserAction = "deactivate"
	ActionDeleteUser UserAction = "delete"
)

type PostAction string

const (
	ActionFeature    PostAction = "feature"
	ActionUnfeature  PostAction = "unfeature"
	ActionDeletePost PostAction = "delete"
)

var (
	ErrForbidden     = apperror.New(apperror.Forbidden, "Forbidden")
	ErrInvalidAction = apperror.New(apperror.Validation, "Invalid action")
	ErrSelfAction    = apperror.New(apperror.Validation, "You cannot modify your own account")
	ErrUserNotFound  = apperror.New(apperror.NotFound, "User not found")
	ErrPostNotFound  = apperror.New(apperror.NotFound, "Post not found")
)

type AdminUseCase interface {
	ListUsers(viewer *session.Identity) ([]*entity.UserSummary, error)
	UpdateUser(viewer *session.Identity, id string, action UserAction) (string, error)
	ListPosts(viewer *session.Identity) ([]*entity.PostSummary, error)
	UpdatePost(viewer *session.Identity, id string, action PostAction) (string, error)
	Analytics(ctx context.Context, viewer *session.Identity) (*entity.SiteAnalytics, error)
}

type adminUseCase struct {
	adminRepo persistent.AdminRepository
	logger    *logger.Logger
	now       func() time.Time
}

func NewAdminUseCase(adminRepo persistent.AdminRepository, logger *logger.Logger) AdminUseCase {
	return &adminUseCase{
		adminRepo: adminRepo,
		logger:    logger,
		now:       time.Now,
	}
}

func (uc *adminUseCase) ListUsers(viewer *session.Identity) ([]*entity.UserSummary, error) {
	if !viewer.IsAdmin() {
		return nil, ErrForbidden
	}
	users, err := uc.adminRepo.ListUsers()
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "Failed to fetch users", err)
	}
	return users, nil
}

// UpdateUser applies action to the user and returns the confirmation message.
func (uc *adminUseCase) UpdateUser(viewer *session.Identity, id string, action UserAction) (string, error) {
	if !viewer.IsAdmin() {
		return "", ErrForbidden
	}
	switch action {
	case ActionActivate, ActionDeactivate, ActionDeleteUser:
	default:
		return "", ErrInvalidAction
	}
	if id == viewer.ID {
		return "", ErrSelfAction
	}

	var err error
	message := "User updated successfully"
	switch action {
	case ActionActivate:
		err = uc.adminRepo.SetUserActive(id, true)
	case ActionDeactivate:
		err = uc.adminRepo.SetUserActive(id, false)
	case ActionDeleteUser:
		err = uc.adminRepo.DeleteUserCascade(id)
		message = "User deleted successfully"
	}

	if errors.Is(err, persistent.ErrNotFound) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", apperror.Wrap(apperror.Internal, "Failed to update user", err)
	}

	uc.logger.Info("[ADMIN] %s applied %s to user %s", viewer.ID, action, id)
	return message, nil
}

func (uc *adminUseCase) ListPosts(viewer *session.Identity) ([]*entity.PostSummary, error) {
	if !viewer.IsAdmin() {
		return nil, ErrForbidden
	}
	posts, err := uc.adminRepo.ListPosts()
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "Failed to fetch posts", err)
	}
	return posts, nil
}

func (uc *adminUseCase) UpdatePost(viewer *session.Identity, id string, action PostAction) (string, error) {
	if !viewer.IsAdmin() {
		return "", ErrForbidden
	}

	var err error
	message := "Post updated successfully"
	switch action {
	case ActionFeature:
		err = uc.adminRepo.SetPostFeatured(id, true)
	case ActionUnfeature:
		err = uc.adminRepo.SetPostFeatured(id, false)
	case ActionDeletePost:
		err = uc.adminRepo.DeletePostCascade(id)
		message = "Post deleted successfully"
	default:
		return "", ErrInvalidAction
	}

	if errors.Is(err, persistent.ErrNotFound) {
		return "", ErrPostNotFound
	}
	if err != nil {
		return "", apperror.Wrap(apperror.Internal, "Failed to update post", err)
	}

	uc.logger.Info("[ADMIN] %s applied %s to post %s", viewer.ID, action, id)
	return message, nil
}

func (uc *adminUseCase) Analytics(ctx context.Context, viewer *session.Identity) (*entity.SiteAnalytics, error) {
	if !viewer.IsAdmin() {
		return nil, ErrForbidden
	}

	now := uc.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats, err := uc.adminRepo.SiteAnalytics(ctx, now.Add(-activeWindow), dayStart)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "Failed to fetch analytics", err)
	}
	return stats, nil
}
