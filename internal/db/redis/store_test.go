package redis

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/gallerydex/internal/db"
)

func newTestStore(c rueidis.Client) *Store {
	return &Store{client: c}
}

// closedAddr returns a local address nothing listens on.
func closedAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	_ = l.Close()
	return addr
}

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := newTestStore(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := newTestStore(c)
	err := s.Ping(context.Background())
	if !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestDial_RequiresAddrs(t *testing.T) {
	if _, err := Dial(context.Background(), Options{}); err == nil {
		t.Fatal("expected error for empty addrs")
	}
}

func TestDial_SingleAttemptWithoutReadyWindow(t *testing.T) {
	start := time.Now()
	_, err := Dial(context.Background(), Options{Addrs: []string{closedAddr(t)}})
	if err == nil {
		t.Fatal("expected connection error")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("single attempt should not wait for a deadline: %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Errorf("single attempt took %s", time.Since(start))
	}
}

func TestDial_RetriesUntilReadyWindowExpires(t *testing.T) {
	_, err := Dial(context.Background(), Options{
		Addrs: []string{closedAddr(t)},
		Ready: 250 * time.Millisecond,
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestGet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "gallerydex:corpus:snapshot")).
		Return(mock.Result(mock.RedisBlobString(`{"images":[]}`)))

	s := newTestStore(c)
	got, err := s.Get(context.Background(), "gallerydex:corpus:snapshot")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != `{"images":[]}` {
		t.Errorf("got %q", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "missing")).
		Return(mock.Result(mock.RedisNil()))

	s := newTestStore(c)
	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestGet_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "k")).
		Return(mock.ErrorResult(errors.New("connection refused")))

	s := newTestStore(c)
	_, err := s.Get(context.Background(), "k")
	if !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
	if errors.Is(err, db.ErrKeyNotFound) {
		t.Error("transport failure must not look like a miss")
	}
}

func TestPut_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return len(cmd) == 5 && cmd[0] == "SET" && cmd[1] == "k" && cmd[2] == "v" &&
				cmd[3] == "EX" && cmd[4] == "300"
		})).
		Return(mock.Result(mock.RedisString("OK")))

	s := newTestStore(c)
	if err := s.Put(context.Background(), "k", []byte("v"), 5*time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPut_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool { return cmd[0] == "SET" })).
		Return(mock.ErrorResult(errors.New("OOM")))

	s := newTestStore(c)
	err := s.Put(context.Background(), "k", []byte("v"), time.Minute)
	if !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("DEL", "mykey")).
		Return(mock.Result(mock.RedisInt64(0)))

	s := newTestStore(c)
	if err := s.Delete(context.Background(), "mykey"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}
