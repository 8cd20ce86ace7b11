// Package mocks provides a testify mock of the remote document service.
package mocks

import (
	"context"

	"github.com/revobtp/revo-server/internal/remote"
	"github.com/stretchr/testify/mock"
)

// Collection is a mock for remote.Collection.
type Collection struct {
	mock.Mock
}

func (m *Collection) Subscribe(ctx context.Context, collection, companyID string, onSnapshot func([]remote.Document), onError func(error)) (remote.StopFunc, error) {
	args := m.Called(ctx, collection, companyID, onSnapshot, onError)
	if stop, ok := args.Get(0).(remote.StopFunc); ok {
		return stop, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Collection) Create(ctx context.Context, collection string, doc remote.Document) (string, error) {
	args := m.Called(ctx, collection, doc)
	return args.String(0), args.Error(1)
}

func (m *Collection) Update(ctx context.Context, collection, id string, fields remote.Document) error {
	args := m.Called(ctx, collection, id, fields)
	return args.Error(0)
}

func (m *Collection) Delete(ctx context.Context, collection, id string) error {
	args := m.Called(ctx, collection, id)
	return args.Error(0)
}
