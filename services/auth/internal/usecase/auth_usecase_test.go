package usecase

import (
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"enterprise-blog/pkg/database/dbtest"
	"enterprise-blog/pkg/jwt"
	"enterprise-blog/pkg/logger"
	"enterprise-blog/pkg/queue"
	"enterprise-blog/pkg/session"
	"enterprise-blog/services/auth/internal/entity"
	"enterprise-blog/services/auth/internal/repo/persistent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentOTP struct{ to, code, name string }

type fakeSender struct {
	mu   sync.Mutex
	sent []sentOTP
	err  error
}

func (s *fakeSender) SendOTPEmail(to, code, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentOTP{to, code, name})
	return nil
}

type fakeUploader struct {
	uploaded map[string]string
	deleted  []string
}

func (u *fakeUploader) UploadFile(key string, file io.Reader, contentType string) (string, error) {
	body, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	u.uploaded[key] = string(body)
	return "https://cdn.example.com/" + key, nil
}

func (u *fakeUploader) DeleteFile(key string) error {
	u.deleted = append(u.deleted, key)
	return nil
}

type fakePublisher struct {
	mu    sync.Mutex
	tasks []queue.NotificationTask
}

func (p *fakePublisher) PublishNotificationTask(task queue.NotificationTask) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tasks = append(p.tasks, task)
	return nil
}

func (p *fakePublisher) sent() []queue.NotificationTask {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]queue.NotificationTask(nil), p.tasks...)
}

type env struct {
	uc        *authUseCase
	repo      persistent.UserRepository
	auth      *session.Authenticator
	mailer    *fakeSender
	uploader  *fakeUploader
	publisher *fakePublisher
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := dbtest.New(t)
	repo := persistent.NewUserRepository(db)
	auth := session.NewAuthenticator(jwt.NewService("test-secret-key"), session.NewUserLookup(db))

	e := &env{
		repo:      repo,
		auth:      auth,
		mailer:    &fakeSender{},
		uploader:  &fakeUploader{uploaded: map[string]string{}},
		publisher: &fakePublisher{},
	}
	e.uc = NewAuthUseCase(repo, auth, e.mailer, e.uploader, e.publisher, 10*time.Minute, logger.Nop()).(*authUseCase)
	e.uc.newOTP = func() (string, error) { return "123456", nil }
	return e
}

// verifiedUser registers and verifies an account.
func (e *env) verifiedUser(t *testing.T, emailAddr string) *entity.User {
	t.Helper()
	user, err := e.uc.Register(emailAddr, "secret123", nil)
	require.NoError(t, err)
	_, err = e.uc.SendVerification(emailAddr)
	require.NoError(t, err)
	require.NoError(t, e.uc.VerifyEmail(emailAddr, "123456"))
	return user
}

func identity(u *entity.User) *session.Identity {
	return &session.Identity{ID: u.ID, Email: u.Email, Name: u.Name}
}

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generateOTP()
		require.NoError(t, err)
		assert.Len(t, code, 6)
		assert.NotEqual(t, byte('0'), code[0])
	}
}

func TestRegister(t *testing.T) {
	e := newEnv(t)
	name := "Alice"

	user, err := e.uc.Register("alice@example.com", "secret123", &name)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsEmailVerified)
	assert.NotEqual(t, "secret123", user.Password)

	_, err = e.uc.Register("alice@example.com", "another1", nil)
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestRegister_Validation(t *testing.T) {
	e := newEnv(t)

	_, err := e.uc.Register("", "secret123", nil)
	assert.ErrorIs(t, err, ErrEmailPasswordRequired)

	_, err = e.uc.Register("not-an-email", "secret123", nil)
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = e.uc.Register("bob@example.com", "12345", nil)
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestSendVerification(t *testing.T) {
	e := newEnv(t)
	name := "Alice"
	_, err := e.uc.Register("alice@example.com", "secret123", &name)
	require.NoError(t, err)

	ttl, err := e.uc.SendVerification("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, ttl)
	require.Len(t, e.mailer.sent, 1)
	assert.Equal(t, sentOTP{"alice@example.com", "123456", "Alice"}, e.mailer.sent[0])

	_, err = e.uc.SendVerification("ghost@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = e.uc.SendVerification("")
	assert.ErrorIs(t, err, ErrEmailRequired)
}

func TestSendVerification_MailFailure(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.Register("alice@example.com", "secret123", nil)
	require.NoError(t, err)
	e.mailer.err = errors.New("smtp down")

	_, err = e.uc.SendVerification("alice@example.com")
	assert.ErrorIs(t, err, ErrSendVerification)
}

func TestVerifyEmail(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.Register("alice@example.com", "secret123", nil)
	require.NoError(t, err)
	_, err = e.uc.SendVerification("alice@example.com")
	require.NoError(t, err)

	assert.ErrorIs(t, e.uc.VerifyEmail("alice@example.com", ""), ErrEmailOTPRequired)
	assert.ErrorIs(t, e.uc.VerifyEmail("alice@example.com", "000000"), ErrInvalidOTP)
	require.NoError(t, e.uc.VerifyEmail("alice@example.com", "123456"))
	assert.ErrorIs(t, e.uc.VerifyEmail("alice@example.com", "123456"), ErrAlreadyVerified)

	user, err := e.repo.GetByEmail("alice@example.com")
	require.NoError(t, err)
	assert.True(t, user.IsEmailVerified)
	assert.Nil(t, user.VerificationCode)
	assert.Nil(t, user.VerificationExpires)

	_, err = e.uc.SendVerification("alice@example.com")
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestVerifyEmail_Expired(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.Register("alice@example.com", "secret123", nil)
	require.NoError(t, err)
	_, err = e.uc.SendVerification("alice@example.com")
	require.NoError(t, err)

	e.uc.now = func() time.Time { return time.Now().Add(11 * time.Minute) }
	assert.ErrorIs(t, e.uc.VerifyEmail("alice@example.com", "123456"), ErrOTPExpired)
}

func TestLogin(t *testing.T) {
	e := newEnv(t)
	registered := e.verifiedUser(t, "alice@example.com")

	user, token, err := e.uc.Login("alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotNil(t, user.LastLoginAt)

	resolved := e.auth.Resolve(token)
	require.NotNil(t, resolved)
	assert.Equal(t, registered.ID, resolved.ID)

	stored, err := e.repo.GetByID(registered.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestLogin_Failures(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.Register("pending@example.com", "secret123", nil)
	require.NoError(t, err)
	registered := e.verifiedUser(t, "disabled@example.com")
	disabled, err := e.repo.GetByID(registered.ID)
	require.NoError(t, err)
	disabled.IsActive = false
	require.NoError(t, e.repo.Update(disabled))

	_, _, err = e.uc.Login("ghost@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = e.uc.Login("pending@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = e.uc.Login("pending@example.com", "secret123")
	assert.ErrorIs(t, err, ErrEmailNotVerified)

	_, _, err = e.uc.Login("disabled@example.com", "secret123")
	assert.ErrorIs(t, err, ErrAccountDeactivated)
}

func TestEmailWhitespaceIgnoredOnEveryPath(t *testing.T) {
	e := newEnv(t)
	registered := e.verifiedUser(t, "  alice@example.com ")
	assert.Equal(t, "alice@example.com", registered.Email)

	for _, input := range []string{"  alice@example.com ", "alice@example.com"} {
		user, _, err := e.uc.Login(input, "secret123")
		require.NoError(t, err, input)
		assert.Equal(t, registered.ID, user.ID)
	}

	_, err := e.uc.SendVerification(" alice@example.com")
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestVerifyEmail_RejectsPartialCode(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.Register("alice@example.com", "secret123", nil)
	require.NoError(t, err)
	_, err = e.uc.SendVerification("alice@example.com")
	require.NoError(t, err)

	assert.ErrorIs(t, e.uc.VerifyEmail("alice@example.com", "12345"), ErrInvalidOTP)
	assert.ErrorIs(t, e.uc.VerifyEmail("alice@example.com", "1234567"), ErrInvalidOTP)
	assert.NoError(t, e.uc.VerifyEmail(" alice@example.com ", "123456"))
}

func TestUpdateProfile(t *testing.T) {
	e := newEnv(t)
	user := e.verifiedUser(t, "alice@example.com")

	name := "Alice Liddell"
	password := "new-secret"
	updated, err := e.uc.UpdateProfile(identity(user), UpdateProfileInput{Name: &name, Password: &password})
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", *updated.Name)

	_, _, err = e.uc.Login("alice@example.com", "new-secret")
	assert.NoError(t, err)

	short := "123"
	_, err = e.uc.UpdateProfile(identity(user), UpdateProfileInput{Password: &short})
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = e.uc.UpdateProfile(nil, UpdateProfileInput{Name: &name})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUploadAvatar(t *testing.T) {
	e := newEnv(t)
	user := e.verifiedUser(t, "alice@example.com")

	updated, err := e.uc.UploadAvatar(identity(user), strings.NewReader("png-bytes"), "avatars/a.png", "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/avatars/a.png", updated.AvatarURL)
	assert.Equal(t, "png-bytes", e.uploader.uploaded["avatars/a.png"])

	me, err := e.uc.Me(identity(user))
	require.NoError(t, err)
	assert.Equal(t, updated.AvatarURL, me.AvatarURL)
}

func TestUploadAvatar_NoStorage(t *testing.T) {
	e := newEnv(t)
	user := e.verifiedUser(t, "alice@example.com")
	e.uc.uploader = nil

	_, err := e.uc.UploadAvatar(identity(user), strings.NewReader("x"), "avatars/a.png", "image/png")
	assert.ErrorIs(t, err, ErrAvatarUnavailable)
}

func TestFollow(t *testing.T) {
	e := newEnv(t)
	alice := e.verifiedUser(t, "alice@example.com")
	bob := e.verifiedUser(t, "bob@example.com")

	_, err := e.uc.Follow(identity(alice), alice.ID)
	assert.ErrorIs(t, err, ErrFollowSelf)

	_, err = e.uc.Follow(identity(alice), "missing-user")
	assert.ErrorIs(t, err, ErrUserNotFound)

	created, err := e.uc.Follow(identity(alice), bob.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = e.uc.Follow(identity(alice), bob.ID)
	require.NoError(t, err)
	assert.False(t, created)

	assert.Eventually(t, func() bool { return len(e.publisher.sent()) == 1 }, time.Second, 10*time.Millisecond)
	task := e.publisher.sent()[0]
	assert.Equal(t, queue.RoutingFollow, task.Type)
	assert.Equal(t, bob.ID, task.UserID)
	assert.Equal(t, alice.ID, task.ActorID)

	following, err := e.uc.IsFollowing(identity(alice), bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	profile, err := e.uc.GetProfile(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.Followers)
	assert.Equal(t, int64(0), profile.Following)

	require.NoError(t, e.uc.Unfollow(identity(alice), bob.ID))
	following, err = e.uc.IsFollowing(identity(alice), bob.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestGetProfile_NotFound(t *testing.T) {
	e := newEnv(t)

	_, err := e.uc.GetProfile("missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
