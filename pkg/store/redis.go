package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-variables/pkg/models"
	"github.com/mattsolo1/grove-variables/pkg/value"
)

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// RedisStore keeps one hash per floor and per scope, with values encoded as
// JSON, plus a sorted set of the floors that have variables.
type RedisStore struct {
	client *redis.Client
	prefix string
	logger *logrus.Entry
}

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, opts RedisOptions, logger *logrus.Entry) (*RedisStore, error) {
	if opts.Addr == "" {
		return nil, errors.New("redis store: no address configured")
	}
	if opts.Prefix == "" {
		opts.Prefix = "vars"
	}
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", opts.Addr, err)
	}
	return &RedisStore{client: client, prefix: opts.Prefix, logger: defaultLogger(logger, "redis")}, nil
}

func (s *RedisStore) floorKey(floor int) string {
	return s.prefix + ":floor:" + strconv.Itoa(floor)
}

func (s *RedisStore) scopeKey(scope models.Scope) string {
	return s.prefix + ":scope:" + string(scope)
}

func (s *RedisStore) floorsKey() string {
	return s.prefix + ":floors"
}

func (s *RedisStore) FloorVariables(ctx context.Context, floor int) (map[string]any, error) {
	return s.hash(ctx, s.floorKey(floor))
}

func (s *RedisStore) ScopeVariables(ctx context.Context, scope models.Scope) (map[string]any, error) {
	if scope == models.ScopeMessage {
		last, err := s.LastFloor(ctx)
		if err != nil || last == NoFloor {
			return map[string]any{}, err
		}
		return s.FloorVariables(ctx, last)
	}
	return s.hash(ctx, s.scopeKey(scope))
}

func (s *RedisStore) hash(ctx context.Context, key string) (map[string]any, error) {
	raw, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	vars := make(map[string]any, len(raw))
	for name, text := range raw {
		v, err := value.Parse(text)
		if err != nil {
			s.logger.WithError(err).WithField("key", key).Warn("stored value is not JSON, using raw text")
			v = text
		}
		vars[name] = v
	}
	return vars, nil
}

func (s *RedisStore) LastFloor(ctx context.Context) (int, error) {
	top, err := s.client.ZRevRangeWithScores(ctx, s.floorsKey(), 0, 0).Result()
	if err != nil {
		return NoFloor, fmt.Errorf("read last floor: %w", err)
	}
	if len(top) == 0 {
		return NoFloor, nil
	}
	return int(top[0].Score), nil
}

// Put writes the entries in one MULTI/EXEC transaction.
func (s *RedisStore) Put(ctx context.Context, entries ...Entry) error {
	for _, e := range entries {
		if err := validate(e); err != nil {
			return fmt.Errorf("put variable: %w", err)
		}
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, e := range entries {
			raw, err := value.Marshal(value.Plain(e.Value))
			if err != nil {
				return fmt.Errorf("marshal %q: %w", e.Name, err)
			}
			if e.Scope != models.ScopeMessage {
				pipe.HSet(ctx, s.scopeKey(e.Scope), e.Name, raw)
				continue
			}
			pipe.HSet(ctx, s.floorKey(e.Floor), e.Name, raw)
			pipe.ZAdd(ctx, s.floorsKey(), &redis.Z{Score: float64(e.Floor), Member: strconv.Itoa(e.Floor)})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store variables: %w", err)
	}
	return nil
}

// Delete removes the entries in one transaction, then drops floors that are
// left without variables from the floor index.
func (s *RedisStore) Delete(ctx context.Context, entries ...Entry) error {
	for _, e := range entries {
		if err := validate(e); err != nil {
			return fmt.Errorf("delete variable: %w", err)
		}
	}
	floors := make(map[int]bool)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, e := range entries {
			if e.Scope != models.ScopeMessage {
				pipe.HDel(ctx, s.scopeKey(e.Scope), e.Name)
				continue
			}
			pipe.HDel(ctx, s.floorKey(e.Floor), e.Name)
			floors[e.Floor] = true
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete variables: %w", err)
	}

	for floor := range floors {
		n, err := s.client.HLen(ctx, s.floorKey(floor)).Result()
		if err != nil {
			return fmt.Errorf("count floor %d: %w", floor, err)
		}
		if n == 0 {
			if err := s.client.ZRem(ctx, s.floorsKey(), strconv.Itoa(floor)).Err(); err != nil {
				return fmt.Errorf("unindex floor %d: %w", floor, err)
			}
		}
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
