package client_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fintrack/internal/client"
	"github.com/MrJamesThe3rd/fintrack/internal/client/store"
	"github.com/MrJamesThe3rd/fintrack/internal/fault"
	"github.com/MrJamesThe3rd/fintrack/internal/kv"
	"github.com/MrJamesThe3rd/fintrack/internal/kv/memory"
)

func TestService_Add(t *testing.T) {
	ctx := context.Background()
	svc := client.NewService(store.New(kv.New(memory.New())))

	require.NoError(t, svc.Add(ctx, "Acme"))
	require.NoError(t, svc.Add(ctx, "  Acme "))
	require.NoError(t, svc.Add(ctx, "Globex"))

	got, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Globex"}, got)

	assert.ErrorIs(t, svc.Add(ctx, "   "), fault.ErrValidation)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := client.NewService(store.New(kv.New(memory.New())))

	require.NoError(t, svc.Add(ctx, "Acme"))
	require.NoError(t, svc.Add(ctx, "Globex"))

	require.NoError(t, svc.Delete(ctx, "Acme"))
	require.NoError(t, svc.Delete(ctx, "Nobody"))

	got, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Globex"}, got)
}

func TestService_RepoErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := client.NewMockRepository(ctrl)
	repo.EXPECT().UpdateClients(gomock.Any(), gomock.Any()).Return(errors.New("disk"))
	repo.EXPECT().ListClients(gomock.Any()).Return(nil, errors.New("disk"))

	svc := client.NewService(repo)

	assert.Error(t, svc.Add(context.Background(), "Acme"))

	_, err := svc.List(context.Background())
	assert.Error(t, err)
}
