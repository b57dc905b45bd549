package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vadimbarashkov/uriz/internal/entity"
)

type MockURLRepository struct {
	mock.Mock
}

func (r *MockURLRepository) Exists(ctx context.Context, token string) (bool, error) {
	args := r.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (r *MockURLRepository) GetForward(ctx context.Context, token string) (*entity.ShortURL, error) {
	args := r.Called(ctx, token)
	url, _ := args.Get(0).(*entity.ShortURL)
	return url, args.Error(1)
}

func (r *MockURLRepository) GetReverse(ctx context.Context, longURL string) (string, error) {
	args := r.Called(ctx, longURL)
	return args.String(0), args.Error(1)
}

func (r *MockURLRepository) InsertForward(ctx context.Context, url *entity.ShortURL) error {
	args := r.Called(ctx, url)
	return args.Error(0)
}

func (r *MockURLRepository) InsertReverse(ctx context.Context, idx *entity.ReverseIndex) error {
	args := r.Called(ctx, idx)
	return args.Error(0)
}

func (r *MockURLRepository) IncrementVisits(ctx context.Context, token string) error {
	args := r.Called(ctx, token)
	return args.Error(0)
}
