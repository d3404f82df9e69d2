package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/oakline/gatehouse/internal/domain/preauth"
	"github.com/oakline/gatehouse/internal/domain/signin"
	"github.com/oakline/gatehouse/internal/repository"
)

// SignInStore is a mock for repository.SignInStore.
type SignInStore struct {
	mock.Mock
}

func (m *SignInStore) BulkFetch(ctx context.Context, limit int) ([]*signin.SignInRecord, error) {
	args := m.Called(ctx, limit)
	if rows, ok := args.Get(0).([]*signin.SignInRecord); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SignInStore) SubscribeChanges(ctx context.Context) (<-chan repository.ChangeEvent, func(), error) {
	args := m.Called(ctx)
	var ch <-chan repository.ChangeEvent
	if c, ok := args.Get(0).(<-chan repository.ChangeEvent); ok {
		ch = c
	} else if c, ok := args.Get(0).(chan repository.ChangeEvent); ok {
		ch = c
	}
	dispose, _ := args.Get(1).(func())
	return ch, dispose, args.Error(2)
}

func (m *SignInStore) Submit(ctx context.Context, rec *signin.SignInRecord) (*signin.SignInRecord, error) {
	args := m.Called(ctx, rec)
	if out, ok := args.Get(0).(*signin.SignInRecord); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SignInStore) Query(ctx context.Context, opts repository.QueryOptions) ([]*signin.SignInRecord, error) {
	args := m.Called(ctx, opts)
	if rows, ok := args.Get(0).([]*signin.SignInRecord); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SignInStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// PreAuthStore is a mock for repository.PreAuthStore.
type PreAuthStore struct {
	mock.Mock
}

func (m *PreAuthStore) Query(ctx context.Context, term string, limit int) ([]preauth.Contractor, error) {
	args := m.Called(ctx, term, limit)
	if rows, ok := args.Get(0).([]preauth.Contractor); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PreAuthStore) Get(ctx context.Context, id string) (*preauth.Contractor, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*preauth.Contractor); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PreAuthStore) Insert(ctx context.Context, c *preauth.Contractor) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
