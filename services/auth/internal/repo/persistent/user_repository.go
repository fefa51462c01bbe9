package persistent

import (
	"errors"
	"time"

	"enterprise-blog/services/auth/internal/entity"
	"enterprise-blog/services/auth/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("record not found")

type UserRepository interface {
	Create(user *entity.User) error
	GetByEmail(email string) (*entity.User, error)
	GetByID(id string) (*entity.User, error)
	Update(user *entity.User) error
	TouchLastLogin(userID string, at time.Time) error
	Follow(followerID, followingID string) (bool, error)
	Unfollow(followerID, followingID string) (bool, error)
	IsFollowing(followerID, followingID string) (bool, error)
	CountFollowers(userID string) (int64, error)
	CountFollowing(userID string) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *entity.User) error {
	userModel := ToUserModel(user)
	if err := r.db.Create(userModel).Error; err != nil {
		return err
	}
	*user = *ToUserEntity(userModel)
	return nil
}

func (r *userRepository) GetByEmail(email string) (*entity.User, error) {
	return r.first("email = ?", email)
}

func (r *userRepository) GetByID(id string) (*entity.User, error) {
	return r.first("id = ?", id)
}

func (r *userRepository) first(query string, arg string) (*entity.User, error) {
	var userModel model.UserModel
	err := r.db.Where(query, arg).First(&userModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) Update(user *entity.User) error {
	userModel := ToUserModel(user)
	if err := r.db.Save(userModel).Error; err != nil {
		return err
	}
	user.UpdatedAt = userModel.UpdatedAt
	return nil
}

func (r *userRepository) TouchLastLogin(userID string, at time.Time) error {
	return r.db.Model(&model.UserModel{}).Where("id = ?", userID).UpdateColumn("last_login_at", at).Error
}

// Follow reports whether a new follow row was written.
func (r *userRepository) Follow(followerID, followingID string) (bool, error) {
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.FollowModel{FollowerID: followerID, FollowingID: followingID})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *userRepository) Unfollow(followerID, followingID string) (bool, error) {
	result := r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&model.FollowModel{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *userRepository) IsFollowing(followerID, followingID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.FollowModel{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) CountFollowers(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.FollowModel{}).Where("following_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *userRepository) CountFollowing(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.FollowModel{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}
