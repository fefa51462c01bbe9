package persistent

import (
	"errors"
	"strings"

	"enterprise-blog/services/post/internal/access"
	"enterprise-blog/services/post/internal/entity"
	"enterprise-blog/services/post/internal/model"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned for lookups that match no row.
var ErrNotFound = errors.New("record not found")

const listColumns = "posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count"

type PostRepository interface {
	Create(post *entity.Post) error
	GetBySlug(slug string) (*entity.Post, error)
	SlugTaken(slug, excludeID string) (bool, error)
	List(filter access.Predicate, search string, limit, offset int) ([]*entity.Post, int64, error)
	ListByAuthor(authorID string, limit, offset int) ([]*entity.Post, int64, error)
	Update(post *entity.Post) error
	Delete(postID string) error
	IncrementViews(postID string) error
	GetComments(postID string) ([]*entity.Comment, error)
	CreateComment(comment *entity.Comment) error
	ToggleLike(userID, postID string) (bool, error)
	IsLiked(userID, postID string) (bool, error)
	GetLikeCount(postID string) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Visibility narrows a posts query to what the predicate admits.
func Visibility(filter access.Predicate) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.AuthorID == "" {
			return db.Where("posts.access_level IN ?", filter.Levels())
		}
		return db.Where("(posts.access_level IN ? OR posts.author_id = ?)", filter.Levels(), filter.AuthorID)
	}
}

// Search matches title or content case-insensitively. LIKE wildcards in the
// term are matched literally.
func Search(term string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term == "" {
			return db
		}
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		return db.Where(`(LOWER(posts.title) LIKE ? ESCAPE '\' OR LOWER(posts.content) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *postRepository) Create(post *entity.Post) error {
	postModel := ToPostModel(post)
	if err := r.db.Create(postModel).Error; err != nil {
		return err
	}
	if err := r.db.Preload("Author").First(postModel, "id = ?", postModel.ID).Error; err != nil {
		return err
	}
	*post = *ToPostEntity(postModel)
	return nil
}

func (r *postRepository) GetBySlug(slug string) (*entity.Post, error) {
	var postModel model.PostModel
	err := r.db.Preload("Author").Where("slug = ?", slug).First(&postModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ToPostEntity(&postModel), nil
}

func (r *postRepository) SlugTaken(slug, excludeID string) (bool, error) {
	var count int64
	query := r.db.Model(&model.PostModel{}).Where("slug = ?", slug)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List pages through visible posts, newest first. The page and the total are
// fetched concurrently against the same conditions.
func (r *postRepository) List(filter access.Predicate, search string, limit, offset int) ([]*entity.Post, int64, error) {
	scoped := func() *gorm.DB {
		return r.db.Model(&model.PostModel{}).Scopes(Visibility(filter), Search(search))
	}
	return r.page(scoped, limit, offset)
}

func (r *postRepository) ListByAuthor(authorID string, limit, offset int) ([]*entity.Post, int64, error) {
	scoped := func() *gorm.DB {
		return r.db.Model(&model.PostModel{}).Where("posts.author_id = ?", authorID)
	}
	return r.page(scoped, limit, offset)
}

func (r *postRepository) page(scoped func() *gorm.DB, limit, offset int) ([]*entity.Post, int64, error) {
	var (
		postModels []model.PostModel
		total      int64
		g          errgroup.Group
	)

	g.Go(func() error {
		return scoped().
			Select(listColumns).
			Preload("Author").
			Order("posts.created_at DESC").
			Limit(limit).
			Offset(offset).
			Find(&postModels).Error
	})
	g.Go(func() error {
		return scoped().Count(&total).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	posts := make([]*entity.Post, len(postModels))
	for i := range postModels {
		posts[i] = ToPostEntity(&postModels[i])
	}
	return posts, total, nil
}

// editableColumns are the only columns Update writes. Views and the like
// are owned by their own statements and must not be overwritten by a stale read.
var editableColumns = []string{
	"slug", "title", "excerpt", "content", "access_level",
	"status", "featured", "published_at", "updated_at",
}

func (r *postRepository) Update(post *entity.Post) error {
	result := r.db.Model(&model.PostModel{ID: post.ID}).
		Select(editableColumns).
		Updates(ToPostModel(post))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	var fresh model.PostModel
	if err := r.db.Preload("Author").First(&fresh, "id = ?", post.ID).Error; err != nil {
		return err
	}
	commentCount := post.CommentCount
	*post = *ToPostEntity(&fresh)
	post.CommentCount = commentCount
	return nil
}

// Delete removes comments, likes and the post in one transaction, in that order.
func (r *postRepository) Delete(postID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&model.CommentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&model.LikeModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", postID).Delete(&model.PostModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *postRepository) IncrementViews(postID string) error {
	return r.db.Model(&model.PostModel{}).Where("id = ?", postID).
		UpdateColumn("views", clause.Expr{SQL: "views + ?", Vars: []interface{}{1}}).Error
}

func (r *postRepository) GetComments(postID string) ([]*entity.Comment, error) {
	var commentModels []model.CommentModel
	if err := r.db.Preload("Author").Where("post_id = ?", postID).Order("created_at DESC").Find(&commentModels).Error; err != nil {
		return nil, err
	}

	comments := make([]*entity.Comment, len(commentModels))
	for i := range commentModels {
		comments[i] = ToCommentEntity(&commentModels[i])
	}
	return comments, nil
}

func (r *postRepository) CreateComment(comment *entity.Comment) error {
	commentModel := ToCommentModel(comment)
	if err := r.db.Create(commentModel).Error; err != nil {
		return err
	}
	if err := r.db.Preload("Author").First(commentModel, "id = ?", commentModel.ID).Error; err != nil {
		return err
	}
	*comment = *ToCommentEntity(commentModel)
	return nil
}

// ToggleLike reports whether the post is liked after the call.
func (r *postRepository) ToggleLike(userID, postID string) (bool, error) {
	liked := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&model.LikeModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}
		// A concurrent first like may already have inserted the row.
		liked = true
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.LikeModel{UserID: userID, PostID: postID}).Error
	})
	return liked, err
}

func (r *postRepository) IsLiked(userID, postID string) (bool, error) {
	var count int64
	if err := r.db.Model(&model.LikeModel{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *postRepository) GetLikeCount(postID string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.LikeModel{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
