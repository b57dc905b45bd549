// Package redis implements the URL store on Redis. A forward record is a hash
// under "uriz:<token>" and the reverse index is a string key under
// "uriz_long:<long url>".
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/vadimbarashkov/uriz/internal/entity"
)

const (
	forwardPrefix = "uriz:"
	reversePrefix = "uriz_long:"
)

// insertIfAbsent writes the hash only when the key does not exist yet.
var insertIfAbsent = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], 'token', ARGV[1], 'long_url', ARGV[2], 'created', ARGV[3], 'visits', ARGV[4])
return 1
`)

// incrementIfExists never creates a hash for an unknown token.
var incrementIfExists = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
return redis.call('HINCRBY', KEYS[1], 'visits', 1)
`)

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", entity.ErrStorageUnavailable, err)
}

type urlHash struct {
	Token   string `redis:"token"`
	LongURL string `redis:"long_url"`
	Created int64  `redis:"created"`
	Visits  int64  `redis:"visits"`
}

func (u *urlHash) toEntity() *entity.ShortURL {
	return &entity.ShortURL{
		Token:     u.Token,
		LongURL:   u.LongURL,
		CreatedAt: u.Created,
		Visits:    u.Visits,
	}
}

type URLRepository struct {
	client redis.UniversalClient
}

func NewURLRepository(client redis.UniversalClient) *URLRepository {
	return &URLRepository{client: client}
}

func (r *URLRepository) Exists(ctx context.Context, token string) (bool, error) {
	const op = "adapter.repository.redis.URLRepository.Exists"

	n, err := r.client.Exists(ctx, forwardPrefix+token).Result()
	if err != nil {
		return false, fmt.Errorf("%s: failed to check key: %w", op, unavailable(err))
	}

	return n == 1, nil
}

func (r *URLRepository) GetForward(ctx context.Context, token string) (*entity.ShortURL, error) {
	const op = "adapter.repository.redis.URLRepository.GetForward"

	cmd := r.client.HGetAll(ctx, forwardPrefix+token)

	fields, err := cmd.Result()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get hash: %w", op, unavailable(err))
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrNotFound)
	}

	var url urlHash

	if err := cmd.Scan(&url); err != nil {
		return nil, fmt.Errorf("%s: failed to scan hash: %w", op, unavailable(err))
	}

	if url.Token == "" {
		url.Token = token
	}

	return url.toEntity(), nil
}

func (r *URLRepository) GetReverse(ctx context.Context, longURL string) (string, error) {
	const op = "adapter.repository.redis.URLRepository.GetReverse"

	token, err := r.client.Get(ctx, reversePrefix+longURL).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("%s: %w", op, entity.ErrNotFound)
		}

		return "", fmt.Errorf("%s: failed to get key: %w", op, unavailable(err))
	}

	return token, nil
}

func (r *URLRepository) InsertForward(ctx context.Context, url *entity.ShortURL) error {
	const op = "adapter.repository.redis.URLRepository.InsertForward"

	inserted, err := insertIfAbsent.Run(ctx, r.client,
		[]string{forwardPrefix + url.Token},
		url.Token,
		url.LongURL,
		strconv.FormatInt(url.CreatedAt, 10),
		strconv.FormatInt(url.Visits, 10),
	).Int64()
	if err != nil {
		return fmt.Errorf("%s: failed to insert hash: %w", op, unavailable(err))
	}

	if inserted == 0 {
		return fmt.Errorf("%s: %w", op, entity.ErrTokenExists)
	}

	return nil
}

func (r *URLRepository) InsertReverse(ctx context.Context, idx *entity.ReverseIndex) error {
	const op = "adapter.repository.redis.URLRepository.InsertReverse"

	if err := r.client.Set(ctx, reversePrefix+idx.LongURL, idx.Token, 0).Err(); err != nil {
		return fmt.Errorf("%s: failed to set key: %w", op, unavailable(err))
	}

	return nil
}

func (r *URLRepository) IncrementVisits(ctx context.Context, token string) error {
	const op = "adapter.repository.redis.URLRepository.IncrementVisits"

	visits, err := incrementIfExists.Run(ctx, r.client, []string{forwardPrefix + token}).Int64()
	if err != nil {
		return fmt.Errorf("%s: failed to increment visits: %w", op, unavailable(err))
	}

	if visits < 0 {
		return fmt.Errorf("%s: %w", op, entity.ErrNotFound)
	}

	return nil
}
