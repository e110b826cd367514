package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mock_interview_backend/internal/config"
	"mock_interview_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfileChangesEmailAndNameOnly(t *testing.T) {
	store := newStubUserStore()
	require.NoError(t, store.Create(&model.User{Username: "alice", Password: "hash", Email: "old@example.com"}))

	svc := NewUserService(store, nil)

	user, err := svc.UpdateProfile(1, "new@example.com", "Alice L")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, "Alice L", user.Name)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "hash", user.Password)
}

func TestUpdateProfileEmptyFieldsKeepExisting(t *testing.T) {
	store := newStubUserStore()
	require.NoError(t, store.Create(&model.User{Username: "alice", Email: "keep@example.com", Name: "Keep"}))

	svc := NewUserService(store, nil)

	user, err := svc.UpdateProfile(1, "", "")
	require.NoError(t, err)
	assert.Equal(t, "keep@example.com", user.Email)
	assert.Equal(t, "Keep", user.Name)
}

func TestSetAvatarStoresFileAndUpdatesUser(t *testing.T) {
	store := newStubUserStore()
	require.NoError(t, store.Create(&model.User{Username: "alice"}))

	dir := t.TempDir()
	storage := &StorageService{Provider: &LocalStorageProvider{
		Config: &config.StorageConfig{LocalPath: dir},
	}}
	svc := NewUserService(store, storage)

	url, err := svc.SetAvatar(context.Background(), 1, "me.png",
		strings.NewReader("png-bytes"), 9, "image/png")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "/uploads/avatars/"))
	assert.True(t, strings.HasSuffix(url, ".png"))
	assert.Equal(t, url, store.users["alice"].Avatar)

	rel := strings.TrimPrefix(url, "/uploads/")
	data, err := os.ReadFile(filepath.Join(dir, rel))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}
