package usecase

import (
	"context"
	"errors"
	"time"

	"enterprise-blog/pkg/apperror"
	"enterprise-blog/pkg/cache"
	"enterprise-blog/pkg/logger"
	"enterprise-blog/pkg/queue"
	"enterprise-blog/pkg/session"
	"enterprise-blog/pkg/slug"
	"enterprise-blog/services/post/internal/access"
	"enterprise-blog/services/post/internal/entity"
	"enterprise-blog/services/post/internal/repo/persistent"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
	viewWindow      = 24 * time.Hour
)

var (
	ErrUnauthorized          = apperror.New(apperror.Unauthenticated, "Unauthorized")
	ErrPostNotFound          = apperror.New(apperror.NotFound, "Post not found")
	ErrTitleContentRequired  = apperror.New(apperror.Validation, "Title and content are required")
	ErrTitleNeedsAlnum       = apperror.New(apperror.Validation, "Title must contain at least one letter or digit")
	ErrInvalidAccessLevel    = apperror.New(apperror.Validation, "Invalid access level")
	ErrInvalidStatus         = apperror.New(apperror.Validation, "Invalid status")
	ErrTitleTaken            = apperror.New(apperror.Conflict, "A post with this title already exists")
	ErrEditForbidden         = apperror.New(apperror.Forbidden, "You can only edit your own posts")
	ErrDeleteForbidden       = apperror.New(apperror.Forbidden, "You can only delete your own posts")
	ErrCommentContentMissing = apperror.New(apperror.Validation, "Comment content is required")
)

type CreatePostInput struct {
	Title       string
	Content     string
	Excerpt     *string
	AccessLevel entity.AccessLevel
	Status      entity.PostStatus
	Featured    bool
}

// UpdatePostInput replaces title and content; nil fields keep their value.
type UpdatePostInput struct {
	Title       string
	Content     string
	Excerpt     *string
	AccessLevel *entity.AccessLevel
	Status      *entity.PostStatus
	Featured    *bool
}

type PostUseCase interface {
	ListPosts(viewer *session.Identity, page, limit int) ([]*entity.Post, entity.Pagination, error)
	SearchPosts(viewer *session.Identity, query string, page, limit int) ([]*entity.Post, entity.Pagination, error)
	ListOwnPosts(viewer *session.Identity, page, limit int) ([]*entity.Post, entity.Pagination, error)
	CreatePost(viewer *session.Identity, input CreatePostInput) (*entity.Post, error)
	GetPost(viewer *session.Identity, slug string) (*entity.PostDetail, error)
	UpdatePost(viewer *session.Identity, slug string, input UpdatePostInput) (*entity.Post, error)
	DeletePost(viewer *session.Identity, slug string) error
	AddComment(viewer *session.Identity, slug, content string) (*entity.Comment, error)
	ToggleLike(viewer *session.Identity, slug string) (bool, int64, error)
	RecordView(viewer *session.Identity, slug, clientIP string) (bool, error)
}

type postUseCase struct {
	postRepo    persistent.PostRepository
	redisClient *redis.Client
	publisher   queue.Publisher
	logger      *logger.Logger
	now         func() time.Time
}

func NewPostUseCase(
	postRepo persistent.PostRepository,
	redisClient *redis.Client,
	publisher queue.Publisher,
	logger *logger.Logger,
) PostUseCase {
	return &postUseCase{
		postRepo:    postRepo,
		redisClient: redisClient,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

// NormalizePage clamps paging input to a 1-indexed page and a bounded page size.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

func (uc *postUseCase) ListPosts(viewer *session.Identity, page, limit int) ([]*entity.Post, entity.Pagination, error) {
	return uc.list(access.BuildVisibilityFilter(viewer), "", page, limit)
}

func (uc *postUseCase) SearchPosts(viewer *session.Identity, query string, page, limit int) ([]*entity.Post, entity.Pagination, error) {
	page, limit = NormalizePage(page, limit)
	if query == "" {
		return []*entity.Post{}, entity.NewPagination(page, limit, 0), nil
	}
	return uc.list(access.BuildVisibilityFilter(viewer), query, page, limit)
}

func (uc *postUseCase) list(filter access.Predicate, search string, page, limit int) ([]*entity.Post, entity.Pagination, error) {
	page, limit = NormalizePage(page, limit)

	posts, total, err := uc.postRepo.List(filter, search, limit, (page-1)*limit)
	if err != nil {
		return nil, entity.Pagination{}, apperror.Wrap(apperror.Internal, "Failed to fetch posts", err)
	}
	return posts, entity.NewPagination(page, limit, total), nil
}

func (uc *postUseCase) ListOwnPosts(viewer *session.Identity, page, limit int) ([]*entity.Post, entity.Pagination, error) {
	if viewer == nil {
		return nil, entity.Pagination{}, ErrUnauthorized
	}
	page, limit = NormalizePage(page, limit)

	posts, total, err := uc.postRepo.ListByAuthor(viewer.ID, limit, (page-1)*limit)
	if err != nil {
		return nil, entity.Pagination{}, apperror.Wrap(apperror.Internal, "Failed to fetch posts", err)
	}
	return posts, entity.NewPagination(page, limit, total), nil
}

func (uc *postUseCase) CreatePost(viewer *session.Identity, input CreatePostInput) (*entity.Post, error) {
	if viewer == nil {
		return nil, ErrUnauthorized
	}
	if input.Title == "" || input.Content == "" {
		return nil, ErrTitleContentRequired
	}
	if input.AccessLevel == "" {
		input.AccessLevel = entity.AccessPublic
	}
	if input.Status == "" {
		input.Status = entity.StatusPublished
	}
	if !input.AccessLevel.Valid() {
		return nil, ErrInvalidAccessLevel
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	postSlug := slug.Make(input.Title)
	if postSlug == "" {
		return nil, ErrTitleNeedsAlnum
	}

	taken, err := uc.postRepo.SlugTaken(postSlug, "")
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "Failed to create post", err)
	}
	if taken {
		return nil, ErrTitleTaken
	}

	post := &entity.Post{
		Slug:        postSlug,
		Title:       input.Title,
		Excerpt:     emptyToNil(input.Excerpt),
		Content:     input.Content,
		AccessLevel: input.AccessLevel,
		Status:      input.Status,
		Featured:    input.Featured,
		AuthorID:    viewer.ID,
	}
	if post.Status == entity.StatusPublished {
		now := uc.now()
		post.PublishedAt = &now
	}

	if err := uc.postRepo.Create(post); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTitleTaken
		}
		return nil, apperror.Wrap(apperror.Internal, "Failed to create post", err)
	}

	uc.logger.Info("Post created: slug=%s author=%s access=%s", post.Slug, post.AuthorID, post.AccessLevel)
	return post, nil
}

func (uc *postUseCase) GetPost(viewer *session.Identity, slug string) (*entity.PostDetail, error) {
	post, err := uc.findBySlug(slug)
	if err != nil {
		return nil, err
	}
	if err := access.CheckRead(post, viewer); err != nil {
		return nil, err
	}

	comments, err := uc.postRepo.GetComments(post.ID)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "Failed to fetch post", err)
	}
	post.Comments = comments
	post.CommentCount = int64(len(comments))

	likeCount, err := uc.postRepo.GetLikeCount(post.ID)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "Failed to fetch post", err)
	}

	isLiked := false
	if viewer != nil {
		if isLiked, err = uc.postRepo.IsLiked(viewer.ID, post.ID); err != nil {
			return nil, apperror.Wrap(apperror.Internal, "Failed to fetch post", err)
		}
	}

	return &entity.PostDetail{Post: post, LikeCount: likeCount, IsLiked: isLiked}, nil
}

func (uc *postUseCase) UpdatePost(viewer *session.Identity, slugParam string, input UpdatePostInput) (*entity.Post, error) {
	if viewer == nil {
		return nil, ErrUnauthorized
	}
	if input.Title == "" || input.Content == "" {
		return nil, ErrTitleContentRequired
	}
	if input.AccessLevel != nil && !input.AccessLevel.Valid() {
		return nil, ErrInvalidAccessLevel
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	post, err := uc.findBySlug(slugParam)
	if err != nil {
		return nil, err
	}
	if !access.CanModify(post, viewer) {
		return nil, ErrEditForbidden
	}

	if input.Title != post.Title {
		newSlug := slug.Make(input.Title)
		if newSlug == "" {
			return nil, ErrTitleNeedsAlnum
		}
		if newSlug != post.Slug {
			taken, err := uc.postRepo.SlugTaken(newSlug, post.ID)
			if err != nil {
				return nil, apperror.Wrap(apperror.Internal, "Failed to update post", err)
			}
			if taken {
				return nil, ErrTitleTaken
			}
			post.Slug = newSlug
		}
	}

	post.Title = input.Title
	post.Content = input.Content
	if input.Excerpt != nil {
		post.Excerpt = emptyToNil(input.Excerpt)
	}
	if input.AccessLevel != nil {
		post.AccessLevel = *input.AccessLevel
	}
	if input.Status != nil {
		post.Status = *input.Status
	}
	if input.Featured != nil {
		post.Featured = *input.Featured
	}
	if post.Status == entity.StatusPublished && post.PublishedAt == nil {
		now := uc.now()
		post.PublishedAt = &now
	}

	if err := uc.postRepo.Update(post); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTitleTaken
		}
		return nil, apperror.Wrap(apperror.Internal, "Failed to update post", err)
	}

	return post, nil
}

func (uc *postUseCase) DeletePost(viewer *session.Identity, slug string) error {
	if viewer == nil {
		return ErrUnauthorized
	}

	post, err := uc.findBySlug(slug)
	if err != nil {
		return err
	}
	if !access.CanModify(post, viewer) {
		return ErrDeleteForbidden
	}

	if err := uc.postRepo.Delete(post.ID); err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return ErrPostNotFound
		}
		return apperror.Wrap(apperror.Internal, "Failed to delete post", err)
	}

	uc.logger.Info("Post deleted: slug=%s by=%s", post.Slug, viewer.ID)
	return nil
}

func (uc *postUseCase) AddComment(viewer *session.Identity, slug, content string) (*entity.Comment, error) {
	if viewer == nil {
		return nil, ErrUnauthorized
	}
	if content == "" {
		return nil, ErrCommentContentMissing
	}

	post, err := uc.findBySlug(slug)
	if err != nil {
		return nil, err
	}
	if err := access.CheckRead(post, viewer); err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		Content:  content,
		PostID:   post.ID,
		AuthorID: viewer.ID,
	}
	if err := uc.postRepo.CreateComment(comment); err != nil {
		return nil, apperror.Wrap(apperror.Internal, "Failed to create comment", err)
	}

	if post.AuthorID != viewer.ID {
		uc.notify(queue.NotificationTask{
			Type:      queue.RoutingComment,
			UserID:    post.AuthorID,
			ActorID:   viewer.ID,
			ActorName: displayName(viewer),
			PostID:    post.ID,
			PostSlug:  post.Slug,
			PostTitle: post.Title,
			Priority:  5,
		})
	}

	return comment, nil
}

func (uc *postUseCase) ToggleLike(viewer *session.Identity, slug string) (bool, int64, error) {
	if viewer == nil {
		return false, 0, ErrUnauthorized
	}

	post, err := uc.findBySlug(slug)
	if err != nil {
		return false, 0, err
	}
	if err := access.CheckRead(post, viewer); err != nil {
		return false, 0, err
	}

	liked, err := uc.postRepo.ToggleLike(viewer.ID, post.ID)
	if err != nil {
		return false, 0, apperror.Wrap(apperror.Internal, "Failed to like post", err)
	}

	count, err := uc.postRepo.GetLikeCount(post.ID)
	if err != nil {
		return false, 0, apperror.Wrap(apperror.Internal, "Failed to like post", err)
	}

	if liked && post.AuthorID != viewer.ID {
		uc.notify(queue.NotificationTask{
			Type:      queue.RoutingLike,
			UserID:    post.AuthorID,
			ActorID:   viewer.ID,
			ActorName: displayName(viewer),
			PostID:    post.ID,
			PostSlug:  post.Slug,
			PostTitle: post.Title,
			Priority:  3,
		})
	}

	return liked, count, nil
}

// RecordView counts a view at most once per viewer per day. Signed-in viewers
// are keyed by id, everyone else by client IP. Without redis every call counts.
func (uc *postUseCase) RecordView(viewer *session.Identity, slug, clientIP string) (bool, error) {
	post, err := uc.findBySlug(slug)
	if err != nil {
		return false, err
	}
	if err := access.CheckRead(post, viewer); err != nil {
		return false, err
	}

	viewerKey := clientIP
	if viewer != nil {
		viewerKey = viewer.ID
	}

	if uc.redisClient != nil {
		first, err := uc.redisClient.SetNX(context.Background(), cache.PostViewKey(post.ID, viewerKey), 1, viewWindow).Result()
		if err != nil {
			uc.logger.Warn("View dedupe unavailable for post %s: %v", post.ID, err)
		} else if !first {
			return false, nil
		}
	}

	if err := uc.postRepo.IncrementViews(post.ID); err != nil {
		return false, apperror.Wrap(apperror.Internal, "Failed to record view", err)
	}
	return true, nil
}

func (uc *postUseCase) findBySlug(slug string) (*entity.Post, error) {
	post, err := uc.postRepo.GetBySlug(slug)
	if errors.Is(err, persistent.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "Failed to fetch post", err)
	}
	return post, nil
}

func (uc *postUseCase) notify(task queue.NotificationTask) {
	if uc.publisher == nil {
		return
	}
	go func() {
		if err := uc.publisher.PublishNotificationTask(task); err != nil {
			uc.logger.Error("[NOTIFICATION QUEUE] Failed to publish %s task for user %s: %v", task.Type, task.UserID, err)
		}
	}()
}

func displayName(identity *session.Identity) string {
	if identity.Name != nil && *identity.Name != "" {
		return *identity.Name
	}
	return identity.Email
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
