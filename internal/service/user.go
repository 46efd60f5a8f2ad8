package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"medcare/internal/cache"
	"medcare/internal/domain"
	"medcare/internal/repository"
	"medcare/internal/storage"
	"medcare/pkg/auth"
)

var ErrStorageDisabled = errors.New("file storage is not configured")

const profileImageFolder = "users"

type UserServiceImpl struct {
	repo        repository.UserRepository
	authRepo    repository.AuthRepository
	fileStorage storage.FileStorage
	cache       *cache.Cache
	logger      *zap.Logger
}

func NewUserService(
	repo repository.UserRepository,
	authRepo repository.AuthRepository,
	fileStorage storage.FileStorage,
	cache *cache.Cache,
	logger *zap.Logger,
) *UserServiceImpl {
	return &UserServiceImpl{
		repo:        repo,
		authRepo:    authRepo,
		fileStorage: fileStorage,
		cache:       cache,
		logger:      logger,
	}
}

func (s *UserServiceImpl) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("failed to get user", zap.Int64("userId", id), zap.Error(err))
		}
		return nil, err
	}
	return user, nil
}

func (s *UserServiceImpl) CreateAdmin(ctx context.Context, dto domain.CreateAdminDTO) (int64, error) {
	dto, err := dto.Normalize()
	if err != nil {
		return 0, err
	}

	hash, err := auth.HashPassword(dto.Password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.repo.Create(ctx, domain.CreateUserDTO{
		Name:         dto.Name,
		Email:        dto.Email,
		Phone:        dto.Phone,
		PasswordHash: hash,
		Role:         domain.UserRoleAdmin,
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("admin account created", zap.Int64("userId", id), zap.String("email", dto.Email))
	return id, nil
}

// ChangePassword also ends every open session of the user.
func (s *UserServiceImpl) ChangePassword(ctx context.Context, id int64, dto domain.PasswordUpdateDTO) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	ok, err := auth.VerifyPassword(dto.OldPassword, user.PasswordHash)
	if err != nil || !ok {
		return domain.NewValidationError("oldPassword", "current password is incorrect")
	}

	hash, err := auth.HashPassword(dto.NewPassword)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return err
	}

	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		s.logger.Error("failed to update password", zap.Int64("userId", id), zap.Error(err))
		return err
	}

	if err := s.authRepo.DeleteSessionsByUserID(ctx, id); err != nil {
		s.logger.Warn("failed to drop sessions after password change", zap.Int64("userId", id), zap.Error(err))
	}

	return nil
}

func (s *UserServiceImpl) UploadProfileImage(ctx context.Context, id int64, data []byte, filename string) (string, error) {
	if s.fileStorage == nil {
		return "", ErrStorageDisabled
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	url, err := s.fileStorage.UploadImage(ctx, profileImageFolder, data, filename)
	if err != nil {
		if errors.Is(err, storage.ErrEmptyFile) || errors.Is(err, storage.ErrNotAnImage) {
			return "", domain.NewValidationError("photo", err.Error())
		}
		s.logger.Error("failed to upload profile image", zap.Int64("userId", id), zap.Error(err))
		return "", err
	}

	if err := s.repo.UpdateProfileImage(ctx, id, url); err != nil {
		s.logger.Error("failed to save profile image", zap.Int64("userId", id), zap.Error(err))
		if delErr := s.fileStorage.DeleteFile(ctx, url); delErr != nil {
			s.logger.Warn("failed to remove orphaned image", zap.String("url", url), zap.Error(delErr))
		}
		return "", err
	}

	if user.ProfileImage != "" {
		if err := s.fileStorage.DeleteFile(ctx, user.ProfileImage); err != nil {
			s.logger.Warn("failed to delete previous profile image", zap.String("url", user.ProfileImage), zap.Error(err))
		}
	}

	if user.Role == domain.UserRoleDoctor {
		s.cache.Invalidate(cache.Key(cache.EntityDoctor, id))
	}

	return url, nil
}
