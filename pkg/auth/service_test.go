package auth

import (
	"context"
	"testing"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadyhoon/RentEase/pkg/middleware"
	"github.com/shadyhoon/RentEase/pkg/models"
)

type fakeUserRepo struct {
	byEmail map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{byEmail: make(map[string]*models.User)}
	for _, u := range users {
		repo.byEmail[u.Email] = u
	}
	return repo
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	r.byEmail[user.Email] = user
	return user, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, httperror.NewHTTPError(404, "User not found")
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.byEmail[email], nil
}

func newTestService(repo *fakeUserRepo) *Service {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	return NewService(repo, logger, "test-secret", time.Hour)
}

func TestRegister(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	session, err := svc.Register(context.Background(), RegisterParams{
		Name:     "Asha",
		Email:    " Asha@Example.com ",
		Password: "supersecret",
		Role:     "tenant",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "asha@example.com", session.User.Email)
	assert.Equal(t, models.UserRoleTenant, session.User.Role)
	assert.NotEqual(t, "supersecret", session.User.PasswordHash)

	claims := &middleware.UserClaims{}
	_, err = jwt.ParseWithClaims(session.Token, claims, func(token *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.ID)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.Equal(t, "tenant", claims.Role)
}

func TestRegister_MissingFields(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), RegisterParams{Email: "a@b.com", Password: "x", Role: "tenant"})
	require.Error(t, err)
	assert.Equal(t, 400, httperror.GetStatusCode(err))
}

func TestRegister_InvalidRole(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), RegisterParams{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "supersecret",
		Role:     "admin",
	})
	require.Error(t, err)
	assert.Equal(t, 400, httperror.GetStatusCode(err))
	assert.Contains(t, err.Error(), "Role must be tenant or landlord")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo(&models.User{ID: "u1", Email: "asha@example.com"})
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), RegisterParams{
		Name:     "Asha",
		Email:    "ASHA@example.com",
		Password: "supersecret",
		Role:     "tenant",
	})
	require.Error(t, err)
	assert.Equal(t, 400, httperror.GetStatusCode(err))
	assert.Contains(t, err.Error(), "An account with this email already exists")
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), RegisterParams{
		Name:     "Ravi",
		Email:    "ravi@example.com",
		Password: "supersecret",
		Role:     "landlord",
	})
	require.NoError(t, err)

	session, err := svc.Login(context.Background(), "Ravi@Example.com", "supersecret")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, models.UserRoleLandlord, session.User.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), RegisterParams{
		Name:     "Ravi",
		Email:    "ravi@example.com",
		Password: "supersecret",
		Role:     "landlord",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "ravi@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, 401, httperror.GetStatusCode(err))
	assert.Contains(t, err.Error(), "Invalid email or password")
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	require.Error(t, err)
	assert.Equal(t, 401, httperror.GetStatusCode(err))
	assert.Contains(t, err.Error(), "Invalid email or password")
}
