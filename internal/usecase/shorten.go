package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vadimbarashkov/uriz/internal/entity"
	"github.com/vadimbarashkov/uriz/internal/token"
)

// ErrTokenSpaceExhausted is returned when collisions push the token length past the configured maximum.
var ErrTokenSpaceExhausted = errors.New("token length limit reached")

const (
	DefaultTokenLength = 5
	CollisionThreshold = 5
	MaxTokenLength     = 20
)

// Config controls token allocation. Zero fields fall back to the package defaults.
type Config struct {
	// DefaultTokenLength is the length of the first candidates.
	DefaultTokenLength int
	// CollisionThreshold is the number of consecutive collisions at one length
	// after which the length grows by one.
	CollisionThreshold int
	// MaxTokenLength bounds length growth.
	MaxTokenLength int
}

func (c Config) withDefaults() Config {
	if c.DefaultTokenLength <= 0 {
		c.DefaultTokenLength = DefaultTokenLength
	}
	if c.CollisionThreshold <= 0 {
		c.CollisionThreshold = CollisionThreshold
	}
	if c.MaxTokenLength <= 0 {
		c.MaxTokenLength = MaxTokenLength
	}
	if c.MaxTokenLength < c.DefaultTokenLength {
		c.MaxTokenLength = c.DefaultTokenLength
	}
	return c
}

// ShortenUseCase maps long URLs to tokens, reusing the existing token when the
// reverse index already knows the URL.
type ShortenUseCase struct {
	cfg      Config
	urlRepo  urlRepository
	logger   *slog.Logger
	generate func(length int) (string, error)
	now      func() time.Time
}

func NewShortenUseCase(cfg Config, urlRepo urlRepository, logger *slog.Logger) *ShortenUseCase {
	return &ShortenUseCase{
		cfg:      cfg.withDefaults(),
		urlRepo:  urlRepo,
		logger:   logger,
		generate: token.New,
		now:      time.Now,
	}
}

// ShortenURL returns the token for longURL, creating one if needed.
func (uc *ShortenUseCase) ShortenURL(ctx context.Context, longURL string) (string, error) {
	tok, _, err := uc.Shorten(ctx, longURL)
	return tok, err
}

// Shorten is ShortenURL that also reports whether the token was created by
// this call rather than found in the reverse index.
//
// Two concurrent calls for the same new URL may both create a token. Both
// tokens stay valid and the reverse index keeps whichever was written last.
func (uc *ShortenUseCase) Shorten(ctx context.Context, longURL string) (string, bool, error) {
	const op = "usecase.ShortenUseCase.Shorten"

	tok, err := uc.urlRepo.GetReverse(ctx, longURL)
	if err == nil {
		return tok, false, nil
	}
	if !errors.Is(err, entity.ErrNotFound) {
		return "", false, fmt.Errorf("%s: failed to look up reverse index: %w", op, err)
	}

	tok, err = uc.insertForward(ctx, longURL)
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}

	idx := &entity.ReverseIndex{
		LongURL: longURL,
		Token:   tok,
	}

	if err := uc.urlRepo.InsertReverse(ctx, idx); err != nil {
		return "", false, fmt.Errorf("%s: failed to insert reverse index: %w", op, err)
	}

	return tok, true, nil
}

// insertForward generates candidates until one is stored. A taken token,
// whether seen by Exists or by a lost insert race, counts as a collision.
func (uc *ShortenUseCase) insertForward(ctx context.Context, longURL string) (string, error) {
	length := uc.cfg.DefaultTokenLength
	collisions := 0

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		candidate, err := uc.generate(length)
		if err != nil {
			return "", fmt.Errorf("failed to generate token: %w", err)
		}

		exists, err := uc.urlRepo.Exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check token: %w", err)
		}

		if !exists {
			url := &entity.ShortURL{
				Token:     candidate,
				LongURL:   longURL,
				CreatedAt: uc.now().Unix(),
				Visits:    0,
			}

			err := uc.urlRepo.InsertForward(ctx, url)
			if err == nil {
				return candidate, nil
			}
			if !errors.Is(err, entity.ErrTokenExists) {
				return "", fmt.Errorf("failed to insert forward record: %w", err)
			}
		}

		collisions++
		if collisions < uc.cfg.CollisionThreshold {
			continue
		}

		if length >= uc.cfg.MaxTokenLength {
			uc.logger.Error("token length limit reached",
				slog.Int("length", length),
				slog.Int("collisions", collisions),
			)
			return "", ErrTokenSpaceExhausted
		}

		length++
		collisions = 0

		uc.logger.Warn("too many token collisions, growing token length",
			slog.Int("length", length),
		)
	}
}
