package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vadimbarashkov/uriz/internal/entity"
)

// RedirectUseCase resolves tokens and counts visits.
type RedirectUseCase struct {
	urlRepo urlRepository
	logger  *slog.Logger
}

func NewRedirectUseCase(urlRepo urlRepository, logger *slog.Logger) *RedirectUseCase {
	return &RedirectUseCase{
		urlRepo: urlRepo,
		logger:  logger,
	}
}

// Resolve returns the long URL for tok and records a visit. A failed visit
// increment is logged and does not fail the redirect.
func (uc *RedirectUseCase) Resolve(ctx context.Context, tok string) (string, error) {
	const op = "usecase.RedirectUseCase.Resolve"

	url, err := uc.urlRepo.GetForward(ctx, tok)
	if err != nil {
		return "", fmt.Errorf("%s: failed to resolve token: %w", op, err)
	}

	if err := uc.urlRepo.IncrementVisits(ctx, tok); err != nil {
		uc.logger.Warn("failed to count visit",
			slog.String("op", op),
			slog.String("token", tok),
			slog.Any("err", err),
		)
	}

	return url.LongURL, nil
}

// GetStats returns the forward record for tok without counting a visit.
func (uc *RedirectUseCase) GetStats(ctx context.Context, tok string) (*entity.ShortURL, error) {
	const op = "usecase.RedirectUseCase.GetStats"

	url, err := uc.urlRepo.GetForward(ctx, tok)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get url stats: %w", op, err)
	}

	return url, nil
}
