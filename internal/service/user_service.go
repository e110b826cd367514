package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"mock_interview_backend/internal/model"
)

type UserService struct {
	Users   UserStore
	Storage *StorageService
}

func NewUserService(users UserStore, storage *StorageService) *UserService {
	return &UserService{
		Users:   users,
		Storage: storage,
	}
}

// UpdateProfile 只允许改邮箱和显示名，用户名与密码不在此处变更
func (s *UserService) UpdateProfile(userID uint, email, name string) (*model.User, error) {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if email != "" {
		user.Email = email
	}
	if name != "" {
		user.Name = name
	}

	if err := s.Users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetAvatar 上传头像并更新用户记录，返回可访问的URL
func (s *UserService) SetAvatar(ctx context.Context, userID uint, originalName string, reader io.Reader, size int64, contentType string) (string, error) {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		return "", err
	}

	ext := filepath.Ext(originalName)
	filename := fmt.Sprintf("avatars/%d_%d%s", userID, time.Now().UnixNano(), ext)

	url, err := s.Storage.Provider.Upload(ctx, filename, reader, size, contentType)
	if err != nil {
		return "", err
	}

	user.Avatar = url
	if err := s.Users.Update(user); err != nil {
		return "", err
	}
	return url, nil
}
