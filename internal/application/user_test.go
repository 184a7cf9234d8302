package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"lens-rules/internal/domain/entity"
	"lens-rules/internal/infrastructure/storage"
)

func TestUserService_BeginCheckAndCancel(t *testing.T) {
	repo := storage.NewMemoryUserRepository("", "")
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.BeginCheck(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingAnnotation, user.State)

	user, err = svc.Cancel(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
}

func TestUserService_SetRules(t *testing.T) {
	repo := storage.NewMemoryUserRepository("default", "0101")
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.BeginRules(ctx, 2, 20)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingRules, user.State)
	require.Equal(t, "default", user.RulesName)

	user, err = svc.SetRules(ctx, 2, 20, "custom", "0102 x>1")
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
	require.Equal(t, "custom", user.RulesName)
	require.Equal(t, "0102 x>1", user.RulesText)
}
