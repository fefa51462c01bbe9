package usecase

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"math/big"
	"regexp"
	"strings"
	"time"

	"enterprise-blog/pkg/apperror"
	"enterprise-blog/pkg/email"
	"enterprise-blog/pkg/logger"
	"enterprise-blog/pkg/queue"
	"enterprise-blog/pkg/s3"
	"enterprise-blog/pkg/session"
	"enterprise-blog/services/auth/internal/entity"
	"enterprise-blog/services/auth/internal/repo/persistent"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	passwordCost      = 12
	minPasswordLength = 6
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	ErrUnauthorized          = apperror.New(apperror.Unauthenticated, "Unauthorized")
	ErrEmailPasswordRequired = apperror.New(apperror.Validation, "Email and password are required")
	ErrInvalidEmail          = apperror.New(apperror.Validation, "Invalid email format")
	ErrPasswordTooShort      = apperror.New(apperror.Validation, "Password must be at least 6 characters long")
	ErrUserExists            = apperror.New(apperror.Conflict, "User already exists")
	ErrEmailRequired         = apperror.New(apperror.Validation, "Email is required")
	ErrEmailOTPRequired      = apperror.New(apperror.Validation, "Email and OTP are required")
	ErrUserNotFound          = apperror.New(apperror.NotFound, "User not found")
	ErrAlreadyVerified       = apperror.New(apperror.Validation, "Email is already verified")
	ErrInvalidOTP            = apperror.New(apperror.Validation, "Invalid OTP")
	ErrOTPExpired            = apperror.New(apperror.Validation, "OTP has expired")
	ErrSendVerification      = apperror.New(apperror.Internal, "Failed to send verification email")
	ErrInvalidCredentials    = apperror.New(apperror.Unauthenticated, "Invalid credentials")
	ErrAccountDeactivated    = apperror.New(apperror.Forbidden, "Account is deactivated")
	ErrEmailNotVerified      = apperror.New(apperror.Forbidden, "Email not verified")
	ErrFollowSelf            = apperror.New(apperror.Validation, "You cannot follow yourself")
	ErrAvatarUnavailable     = apperror.New(apperror.Internal, "Avatar storage is not configured")
)

// TokenIssuer is satisfied by *session.Authenticator.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type UpdateProfileInput struct {
	Name     *string
	Password *string
}

type AuthUseCase interface {
	Register(email, password string, name *string) (*entity.User, error)
	SendVerification(email string) (time.Duration, error)
	VerifyEmail(email, otp string) error
	Login(email, password string) (*entity.User, string, error)
	Me(viewer *session.Identity) (*entity.User, error)
	UpdateProfile(viewer *session.Identity, input UpdateProfileInput) (*entity.User, error)
	UploadAvatar(viewer *session.Identity, file io.Reader, fileKey, contentType string) (*entity.User, error)
	GetProfile(userID string) (*entity.Profile, error)
	Follow(viewer *session.Identity, targetID string) (bool, error)
	Unfollow(viewer *session.Identity, targetID string) error
	IsFollowing(viewer *session.Identity, targetID string) (bool, error)
}

type authUseCase struct {
	userRepo  persistent.UserRepository
	tokens    TokenIssuer
	mailer    email.Sender
	uploader  s3.Uploader
	publisher queue.Publisher
	otpTTL    time.Duration
	logger    *logger.Logger
	now       func() time.Time
	newOTP    func() (string, error)
}

func NewAuthUseCase(
	userRepo persistent.UserRepository,
	tokens TokenIssuer,
	mailer email.Sender,
	uploader s3.Uploader,
	publisher queue.Publisher,
	otpTTL time.Duration,
	logger *logger.Logger,
) AuthUseCase {
	return &authUseCase{
		userRepo:  userRepo,
		tokens:    tokens,
		mailer:    mailer,
		uploader:  uploader,
		publisher: publisher,
		otpTTL:    otpTTL,
		logger:    logger,
		now:       time.Now,
		newOTP:    generateOTP,
	}
}

// generateOTP returns a uniformly distributed six digit code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// normalizeEmail is applied on every path that looks a user up by email.
func normalizeEmail(emailAddr string) string {
	return strings.TrimSpace(emailAddr)
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (uc *authUseCase) Register(emailAddr, password string, name *string) (*entity.User, error) {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" || password == "" {
		return nil, ErrEmailPasswordRequired
	}
	if !emailPattern.MatchString(emailAddr) {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := uc.userRepo.GetByEmail(emailAddr); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, persistent.ErrNotFound) {
		return nil, apperror.Wrap(apperror.Internal, "Failed to create user", err)
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "Failed to process registration", err)
	}

	if name != nil && *name == "" {
		name = nil
	}
	user := &entity.User{
		Email:    emailAddr,
		Name:     name,
		Password: hashed,
		Role:     entity.RoleUser,
		IsActive: true,
	}
	if err := uc.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, apperror.Wrap(apperror.Internal, "Failed to create user", err)
	}

	uc.logger.Info("User registered: id=%s", user.ID)
	return user, nil
}

// SendVerification stores a fresh code on the user and mails it. It returns
// how long the code stays valid.
func (uc *authUseCase) SendVerification(emailAddr string) (time.Duration, error) {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" {
		return 0, ErrEmailRequired
	}

	user, err := uc.findByEmail(emailAddr)
	if err != nil {
		return 0, err
	}
	if user.IsEmailVerified {
		return 0, ErrAlreadyVerified
	}

	code, err := uc.newOTP()
	if err != nil {
		return 0, apperror.Wrap(apperror.Internal, "Failed to generate verification code", err)
	}
	expires := uc.now().Add(uc.otpTTL)
	user.VerificationCode = &code
	user.VerificationExpires = &expires
	if err := uc.userRepo.Update(user); err != nil {
		return 0, apperror.Wrap(apperror.Internal, "Failed to store verification code", err)
	}

	name := ""
	if user.Name != nil {
		name = *user.Name
	}
	if err := uc.mailer.SendOTPEmail(user.Email, code, name); err != nil {
		uc.logger.Error("Failed to send verification email to user %s: %v", user.ID, err)
		return 0, ErrSendVerification
	}

	return uc.otpTTL, nil
}

func (uc *authUseCase) VerifyEmail(emailAddr, otp string) error {
	emailAddr = normalizeEmail(emailAddr)
	otp = strings.TrimSpace(otp)
	if emailAddr == "" || otp == "" {
		return ErrEmailOTPRequired
	}

	user, err := uc.findByEmail(emailAddr)
	if err != nil {
		return err
	}
	if user.IsEmailVerified {
		return ErrAlreadyVerified
	}
	if user.VerificationCode == nil || subtle.ConstantTimeCompare([]byte(*user.VerificationCode), []byte(otp)) != 1 {
		return ErrInvalidOTP
	}
	if user.VerificationExpires == nil || user.VerificationExpires.Before(uc.now()) {
		return ErrOTPExpired
	}

	user.IsEmailVerified = true
	user.VerificationCode = nil
	user.VerificationExpires = nil
	if err := uc.userRepo.Update(user); err != nil {
		return apperror.Wrap(apperror.Internal, "Failed to verify email", err)
	}
	return nil
}

func (uc *authUseCase) Login(emailAddr, password string) (*entity.User, string, error) {
	user, err := uc.userRepo.GetByEmail(normalizeEmail(emailAddr))
	if errors.Is(err, persistent.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", apperror.Wrap(apperror.Internal, "Failed to login", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", ErrAccountDeactivated
	}
	if !user.IsEmailVerified {
		return nil, "", ErrEmailNotVerified
	}

	token, err := uc.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", apperror.Wrap(apperror.Internal, "Failed to generate token", err)
	}

	now := uc.now()
	if err := uc.userRepo.TouchLastLogin(user.ID, now); err != nil {
		uc.logger.Warn("Failed to record login time for user %s: %v", user.ID, err)
	} else {
		user.LastLoginAt = &now
	}

	return user, token, nil
}

func (uc *authUseCase) Me(viewer *session.Identity) (*entity.User, error) {
	if viewer == nil {
		return nil, ErrUnauthorized
	}
	return uc.findByID(viewer.ID)
}

func (uc *authUseCase) UpdateProfile(viewer *session.Identity, input UpdateProfileInput) (*entity.User, error) {
	if viewer == nil {
		return nil, ErrUnauthorized
	}

	user, err := uc.findByID(viewer.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = input.Name
		if *input.Name == "" {
			user.Name = nil
		}
	}
	if input.Password != nil {
		if len(*input.Password) < minPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hashed, err := hashPassword(*input.Password)
		if err != nil {
			return nil, apperror.Wrap(apperror.Internal, "Failed to update user", err)
		}
		user.Password = hashed
	}

	if err := uc.userRepo.Update(user); err != nil {
		return nil, apperror.Wrap(apperror.Internal, "Failed to update user", err)
	}
	return user, nil
}

func (uc *authUseCase) UploadAvatar(viewer *session.Identity, file io.Reader, fileKey, contentType string) (*entity.User, error) {
	if viewer == nil {
		return nil, ErrUnauthorized
	}
	if uc.uploader == nil {
		return nil, ErrAvatarUnavailable
	}

	user, err := uc.findByID(viewer.ID)
	if err != nil {
		return nil, err
	}

	avatarURL, err := uc.uploader.UploadFile(fileKey, file, contentType)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "Failed to upload avatar", err)
	}

	user.AvatarURL = avatarURL
	if err := uc.userRepo.Update(user); err != nil {
		if delErr := uc.uploader.DeleteFile(fileKey); delErr != nil {
			uc.logger.Warn("Failed to remove orphaned avatar %s: %v", fileKey, delErr)
		}
		return nil, apperror.Wrap(apperror.Internal, "Failed to update user", err)
	}
	return user, nil
}

func (uc *authUseCase) GetProfile(userID string) (*entity.Profile, error) {
	user, err := uc.findByID(userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserNotFound
	}

	followers, err := uc.userRepo.CountFollowers(user.ID)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "Failed to fetch user", err)
	}
	following, err := uc.userRepo.CountFollowing(user.ID)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "Failed to fetch user", err)
	}

	return &entity.Profile{
		ID:        user.ID,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		Followers: followers,
		Following: following,
	}, nil
}

// Follow reports whether a new follow was created; following twice is a no-op.
func (uc *authUseCase) Follow(viewer *session.Identity, targetID string) (bool, error) {
	if viewer == nil {
		return false, ErrUnauthorized
	}
	if viewer.ID == targetID {
		return false, ErrFollowSelf
	}
	target, err := uc.findByID(targetID)
	if err != nil {
		return false, err
	}

	created, err := uc.userRepo.Follow(viewer.ID, target.ID)
	if err != nil {
		return false, apperror.Wrap(apperror.Internal, "Failed to follow user", err)
	}

	if created && uc.publisher != nil {
		task := queue.NotificationTask{
			Type:      queue.RoutingFollow,
			UserID:    target.ID,
			ActorID:   viewer.ID,
			ActorName: displayName(viewer),
			Priority:  4,
		}
		go func() {
			if err := uc.publisher.PublishNotificationTask(task); err != nil {
				uc.logger.Error("[NOTIFICATION QUEUE] Failed to publish follow task for user %s: %v", task.UserID, err)
			}
		}()
	}
	return created, nil
}

func (uc *authUseCase) Unfollow(viewer *session.Identity, targetID string) error {
	if viewer == nil {
		return ErrUnauthorized
	}
	if _, err := uc.userRepo.Unfollow(viewer.ID, targetID); err != nil {
		return apperror.Wrap(apperror.Internal, "Failed to unfollow user", err)
	}
	return nil
}

func (uc *authUseCase) IsFollowing(viewer *session.Identity, targetID string) (bool, error) {
	if viewer == nil {
		return false, ErrUnauthorized
	}
	following, err := uc.userRepo.IsFollowing(viewer.ID, targetID)
	if err != nil {
		return false, apperror.Wrap(apperror.Internal, "Failed to fetch follow status", err)
	}
	return following, nil
}

func (uc *authUseCase) findByID(id string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(id)
	if errors.Is(err, persistent.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "Failed to fetch user", err)
	}
	return user, nil
}

func (uc *authUseCase) findByEmail(emailAddr string) (*entity.User, error) {
	user, err := uc.userRepo.GetByEmail(emailAddr)
	if errors.Is(err, persistent.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "Failed to fetch user", err)
	}
	return user, nil
}

func displayName(identity *session.Identity) string {
	if identity.Name != nil && *identity.Name != "" {
		return *identity.Name
	}
	return identity.Email
}
