package service_test

import (
	"context"
	"testing"

	"galeri/internal/model"
	"galeri/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestRegister_HashesPassword(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("GetByUsername", mock.Anything, "ali").Return(nil, gorm.ErrRecordNotFound).Once()
	repo.On("GetByEmail", mock.Anything, "ali@galeri.com").Return(nil, gorm.ErrRecordNotFound).Once()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		// Stored password must be a bcrypt hash of the plaintext, never the plaintext itself
		return u.Password != "sifre123" &&
			bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("sifre123")) == nil
	})).Return(nil).Once()

	svc := service.NewUserService(repo)

	user, err := svc.Register(context.Background(), service.RegisterUserRequest{
		Username: "ali",
		Email:    "ali@galeri.com",
		Password: "sifre123",
	})

	require.NoError(t, err)
	assert.Equal(t, "ali", user.Username)
	repo.AssertExpectations(t)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("GetByUsername", mock.Anything, "ali").Return(&model.User{Username: "ali"}, nil).Once()

	svc := service.NewUserService(repo)

	_, err := svc.Register(context.Background(), service.RegisterUserRequest{
		Username: "ali",
		Email:    "ali@galeri.com",
		Password: "sifre123",
	})

	assert.EqualError(t, err, "username already exists")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.DefaultCost)
	require.NoError(t, err)

	repo := new(MockUserRepository)
	repo.On("GetByEmail", mock.Anything, "ali@galeri.com").Return(&model.User{Email: "ali@galeri.com", Password: string(hash)}, nil).Once()

	svc := service.NewUserService(repo)

	_, err = svc.Login(context.Background(), service.LoginUserRequest{
		Email:    "ali@galeri.com",
		Password: "wrong",
	})

	assert.EqualError(t, err, "invalid email or password")
}

func TestLogin_IssuesToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("sifre123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	repo := new(MockUserRepository)
	repo.On("GetByEmail", mock.Anything, "ali@galeri.com").Return(&model.User{Email: "ali@galeri.com", Password: string(hash)}, nil).Once()

	svc := service.NewUserService(repo)

	token, err := svc.Login(context.Background(), service.LoginUserRequest{
		Email:    "ali@galeri.com",
		Password: "sifre123",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, token.Token)
}
