package http

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vadimbarashkov/uriz/internal/entity"
)

type MockShortenUseCase struct {
	mock.Mock
}

func (m *MockShortenUseCase) Shorten(ctx context.Context, longURL string) (string, bool, error) {
	args := m.Called(ctx, longURL)
	return args.String(0), args.Bool(1), args.Error(2)
}

type MockRedirectUseCase struct {
	mock.Mock
}

func (m *MockRedirectUseCase) Resolve(ctx context.Context, tok string) (string, error) {
	args := m.Called(ctx, tok)
	return args.String(0), args.Error(1)
}

func (m *MockRedirectUseCase) GetStats(ctx context.Context, tok string) (*entity.ShortURL, error) {
	args := m.Called(ctx, tok)

	url, _ := args.Get(0).(*entity.ShortURL)
	return url, args.Error(1)
}
