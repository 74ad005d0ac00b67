package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/gallerydex/internal/db"
)

var (
	_ db.Pinger = (*Store)(nil)
	_ db.Blobs  = (*Store)(nil)
)

const dialRetry = 100 * time.Millisecond

// Options configure Dial. Works for Redis and Valkey alike.
type Options struct {
	Addrs    []string
	Username string
	Password string
	DB       int
	// Ready is how long Dial keeps retrying an unreachable server. Zero means one attempt.
	Ready time.Duration
}

// Store is the rueidis-backed shared cache.
type Store struct {
	client rueidis.Client
}

// Dial connects and pings, retrying until opts.Ready elapses.
func Dial(ctx context.Context, opts Options) (*Store, error) {
	if len(opts.Addrs) == 0 {
		return nil, errors.New("redis: no addresses configured")
	}
	co := rueidis.ClientOption{
		InitAddress:  opts.Addrs,
		Username:     opts.Username,
		Password:     opts.Password,
		SelectDB:     opts.DB,
		DisableCache: true,
	}

	if opts.Ready > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Ready)
		defer cancel()
	}

	for {
		s, err := connect(ctx, co)
		if err == nil {
			return s, nil
		}
		if opts.Ready <= 0 {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("redis %v not ready after %s: %w", opts.Addrs, opts.Ready, errors.Join(err, ctx.Err()))
		case <-time.After(dialRetry):
		}
	}
}

func connect(ctx context.Context, co rueidis.ClientOption) (*Store, error) {
	client, err := rueidis.NewClient(co)
	if err != nil {
		return nil, fmt.Errorf("redis: connect: %w", err)
	}
	s := &Store{client: client}
	if err := s.Ping(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return s, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Do(ctx, s.client.B().Ping().Build()).Error(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}
