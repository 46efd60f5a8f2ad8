package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"medcare/internal/cache"
	"medcare/internal/domain"
	"medcare/internal/storage"
	"medcare/pkg/auth"
)

func setupUserService(files storage.FileStorage) (*UserServiceImpl, *MockUserRepository, *MockAuthRepository, *cache.Cache) {
	users := &MockUserRepository{}
	sessions := &MockAuthRepository{}
	c := cache.New(time.Minute, time.Minute)
	return NewUserService(users, sessions, files, c, zap.NewNop()), users, sessions, c
}

func TestUploadProfileImageReplacesPrevious(t *testing.T) {
	files := &MockFileStorage{}
	svc, users, _, c := setupUserService(files)
	users.On("GetByID", mock.Anything, int64(7)).
		Return(&domain.User{ID: 7, Role: domain.UserRoleDoctor, ProfileImage: "http://s3/medcare/users/old.png"}, nil)
	files.On("UploadImage", mock.Anything, "users", []byte("png"), "me.png").Return("http://s3/medcare/users/new.png", nil)
	users.On("UpdateProfileImage", mock.Anything, int64(7), "http://s3/medcare/users/new.png").Return(nil)
	files.On("DeleteFile", mock.Anything, "http://s3/medcare/users/old.png").Return(nil)
	c.Set(cache.Key(cache.EntityDoctor, 7), *testDoctor())

	url, err := svc.UploadProfileImage(context.Background(), 7, []byte("png"), "me.png")
	require.NoError(t, err)
	assert.Equal(t, "http://s3/medcare/users/new.png", url)

	_, cached := c.Get(cache.Key(cache.EntityDoctor, 7))
	assert.False(t, cached)
	files.AssertExpectations(t)
}

func TestUploadProfileImageRemovesOrphanOnFailure(t *testing.T) {
	files := &MockFileStorage{}
	svc, users, _, _ := setupUserService(files)
	users.On("GetByID", mock.Anything, int64(42)).Return(&domain.User{ID: 42, Role: domain.UserRolePatient}, nil)
	files.On("UploadImage", mock.Anything, "users", mock.Anything, "me.jpg").Return("http://s3/medcare/users/x.jpg", nil)
	users.On("UpdateProfileImage", mock.Anything, int64(42), "http://s3/medcare/users/x.jpg").Return(errors.New("db down"))
	files.On("DeleteFile", mock.Anything, "http://s3/medcare/users/x.jpg").Return(nil)

	_, err := svc.UploadProfileImage(context.Background(), 42, []byte("jpg"), "me.jpg")
	require.Error(t, err)
	files.AssertExpectations(t)
}

func TestUploadProfileImageRejectsNonImage(t *testing.T) {
	files := &MockFileStorage{}
	svc, users, _, _ := setupUserService(files)
	users.On("GetByID", mock.Anything, int64(42)).Return(&domain.User{ID: 42, Role: domain.UserRolePatient}, nil)
	files.On("UploadImage", mock.Anything, "users", mock.Anything, "notes.txt").Return("", storage.ErrNotAnImage)

	_, err := svc.UploadProfileImage(context.Background(), 42, []byte("hello"), "notes.txt")
	assert.ErrorIs(t, err, domain.ErrValidation)
	users.AssertNotCalled(t, "UpdateProfileImage", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadProfileImageWithoutStorage(t *testing.T) {
	svc, _, _, _ := setupUserService(nil)

	_, err := svc.UploadProfileImage(context.Background(), 42, []byte("png"), "me.png")
	assert.ErrorIs(t, err, ErrStorageDisabled)
}

func TestChangePassword(t *testing.T) {
	svc, users, sessions, _ := setupUserService(nil)
	hash, err := auth.HashPassword("old-secret")
	require.NoError(t, err)
	users.On("GetByID", mock.Anything, int64(42)).Return(&domain.User{ID: 42, PasswordHash: hash}, nil)
	users.On("UpdatePassword", mock.Anything, int64(42), mock.AnythingOfType("string")).Return(nil)
	sessions.On("DeleteSessionsByUserID", mock.Anything, int64(42)).Return(nil)

	err = svc.ChangePassword(context.Background(), 42, domain.PasswordUpdateDTO{OldPassword: "wrong", NewPassword: "new-secret"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)

	err = svc.ChangePassword(context.Background(), 42, domain.PasswordUpdateDTO{OldPassword: "old-secret", NewPassword: "new-secret"})
	require.NoError(t, err)
	sessions.AssertExpectations(t)
}

func TestCreateAdmin(t *testing.T) {
	svc, users, _, _ := setupUserService(nil)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u domain.CreateUserDTO) bool {
		return u.Role == domain.UserRoleAdmin && u.Email == "root@medcare.io" && u.PasswordHash != "supersecret"
	})).Return(int64(1), nil)

	id, err := svc.CreateAdmin(context.Background(), domain.CreateAdminDTO{
		Name:     "Root",
		Email:    " ROOT@medcare.io",
		Phone:    "(555) 000-1111",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	_, err = svc.CreateAdmin(context.Background(), domain.CreateAdminDTO{Name: "R", Email: "bad", Phone: "1", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPatientUpdateNormalizes(t *testing.T) {
	repo := &MockPatientRepository{}
	svc := NewPatientService(repo, zap.NewNop())
	repo.On("GetByID", mock.Anything, int64(42)).Return(&domain.Patient{ID: 42}, nil)
	repo.On("Update", mock.Anything, int64(42), domain.UpdatePatientDTO{
		Name:             domain.PointerTo("Jane"),
		Allergies:        &[]string{"latex"},
		EmergencyContact: &domain.EmergencyContact{Name: "John", Phone: "5559876543", Relation: "brother"},
	}).Return(nil)

	_, err := svc.Update(context.Background(), 42, domain.UpdatePatientDTO{
		Name:             domain.PointerTo(" Jane "),
		Allergies:        &[]string{" latex", ""},
		EmergencyContact: &domain.EmergencyContact{Name: "John ", Phone: "555.987.6543", Relation: "brother"},
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)

	_, err = svc.Update(context.Background(), 42, domain.UpdatePatientDTO{
		EmergencyContact: &domain.EmergencyContact{Phone: "12"},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
