package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pamsartech/ldv-admin-panel-sub001/internal/auth"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/checkout"
)

func adminSession() *auth.Session {
	now := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)
	return &auth.Session{
		ID: "s1", AdminID: "a1", Email: "maria@ldv.shop", Role: "ADMIN",
		BackendToken: "remote", IssuedAt: now, ExpiresAt: now.Add(time.Hour),
	}
}

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemorySessionStore()

	_, err := m.Get(ctx, "s1")
	assert.ErrorIs(t, err, auth.ErrSessionNotFound)

	require.NoError(t, m.Save(ctx, adminSession()))
	got, err := m.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "remote", got.BackendToken)

	got.Role = "STAFF"
	again, _ := m.Get(ctx, "s1")
	assert.Equal(t, "ADMIN", again.Role, "returned sessions are copies")

	require.NoError(t, m.Delete(ctx, "s1"))
	assert.ErrorIs(t, m.Delete(ctx, "s1"), auth.ErrSessionNotFound)
}

func TestMemorySessionStore_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	m := NewMemorySessionStore()

	live := adminSession()
	require.NoError(t, m.Save(ctx, live))
	for i := 0; i < 1000; i++ {
		s := adminSession()
		s.ID = fmt.Sprintf("old-%d", i)
		s.ExpiresAt = s.IssuedAt.Add(-time.Minute)
		require.NoError(t, m.Save(ctx, s))
	}

	n, err := m.DeleteExpired(ctx, live.IssuedAt)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), n)

	_, err = m.Get(ctx, "old-0")
	assert.ErrorIs(t, err, auth.ErrSessionNotFound)
	_, err = m.Get(ctx, "s1")
	assert.NoError(t, err)

	n, err = m.DeleteExpired(ctx, live.ExpiresAt)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "a session expiring exactly now is removed")
}

func TestMemoryCheckoutStore_TTL(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryCheckoutStore()
	now := time.Now()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Save(ctx, &checkout.Session{ID: "c1"}, time.Minute))
	require.NoError(t, m.Save(ctx, &checkout.Session{ID: "c2"}, time.Hour))

	_, err := m.Get(ctx, "c1")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = m.Get(ctx, "c1")
	assert.ErrorIs(t, err, checkout.ErrSessionNotFound)

	now = now.Add(2 * time.Hour)
	assert.Equal(t, 1, m.Sweep())
	assert.ErrorIs(t, m.Delete(ctx, "c2"), checkout.ErrSessionNotFound)
}

// --- Postgres mocks ---

type mockRow struct {
	scanFn func(dest ...any) error
}

func (r mockRow) Scan(dest ...any) error { return r.scanFn(dest...) }

type mockDB struct {
	execFn     func(sql string, args ...any) (pgconn.CommandTag, error)
	queryRowFn func(sql string, args ...any) pgx.Row
}

func (m *mockDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return m.execFn(sql, args...)
}

func (m *mockDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	return m.queryRowFn(sql, args...)
}

func TestPostgresSessionStore_Save(t *testing.T) {
	var gotArgs []any
	db := &mockDB{execFn: func(sql string, args ...any) (pgconn.CommandTag, error) {
		assert.Contains(t, sql, "ON CONFLICT (id) DO UPDATE")
		gotArgs = args
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	}}

	s := adminSession()
	require.NoError(t, NewPostgresSessionStore(db).Save(context.Background(), s))
	require.Len(t, gotArgs, 8)
	assert.Equal(t, "s1", gotArgs[0])
	assert.Equal(t, s.ExpiresAt, gotArgs[7])
}

func TestPostgresSessionStore_Get(t *testing.T) {
	want := adminSession()
	db := &mockDB{queryRowFn: func(sql string, args ...any) pgx.Row {
		if args[0] != "s1" {
			return mockRow{scanFn: func(...any) error { return pgx.ErrNoRows }}
		}
		return mockRow{scanFn: func(dest ...any) error {
			*dest[0].(*string) = want.ID
			*dest[1].(*string) = want.AdminID
			*dest[2].(*string) = want.Email
			*dest[3].(*string) = want.Name
			*dest[4].(*string) = want.Role
			*dest[5].(*string) = want.BackendToken
			*dest[6].(*time.Time) = want.IssuedAt
			*dest[7].(*time.Time) = want.ExpiresAt
			return nil
		}}
	}}
	st := NewPostgresSessionStore(db)

	got, err := st.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = st.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, auth.ErrSessionNotFound)
}

func TestPostgresSessionStore_Delete(t *testing.T) {
	affected := "DELETE 1"
	db := &mockDB{execFn: func(sql string, args ...any) (pgconn.CommandTag, error) {
		return pgconn.NewCommandTag(affected), nil
	}}
	st := NewPostgresSessionStore(db)

	require.NoError(t, st.Delete(context.Background(), "s1"))

	affected = "DELETE 0"
	assert.ErrorIs(t, st.Delete(context.Background(), "s1"), auth.ErrSessionNotFound)
}

func TestPostgresSessionStore_ExecError(t *testing.T) {
	boom := errors.New("connection reset")
	db := &mockDB{execFn: func(string, ...any) (pgconn.CommandTag, error) {
		return pgconn.CommandTag{}, boom
	}}

	err := NewPostgresSessionStore(db).Save(context.Background(), adminSession())
	assert.ErrorIs(t, err, boom)

	_, err = NewPostgresSessionStore(db).DeleteExpired(context.Background(), time.Now())
	assert.ErrorIs(t, err, boom)
}

// --- Redis mocks ---

type mockRedis struct {
	data map[string]string
	ttls map[string]time.Duration
}

func newMockRedis() *mockRedis {
	return &mockRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *mockRedis) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = string(value.([]byte))
	m.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (m *mockRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisCheckoutStore(t *testing.T) {
	ctx := context.Background()
	client := newMockRedis()
	st := NewRedisCheckoutStore(client, "")

	sess := &checkout.Session{ID: "c1", Step: checkout.StepDelivery, Quantity: 2, Verified: true, CodeHash: "hash"}
	require.NoError(t, st.Save(ctx, sess, 10*time.Minute))

	assert.Equal(t, 10*time.Minute, client.ttls["checkout:session:c1"])
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(client.data["checkout:session:c1"]), &raw))
	assert.Equal(t, "DELIVERY", raw["step"])

	got, err := st.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, sess.Step, got.Step)
	assert.Equal(t, "hash", got.CodeHash)
	assert.True(t, got.Verified)

	require.NoError(t, st.Delete(ctx, "c1"))
	_, err = st.Get(ctx, "c1")
	assert.ErrorIs(t, err, checkout.ErrSessionNotFound)
	assert.ErrorIs(t, st.Delete(ctx, "c1"), checkout.ErrSessionNotFound)
}

func TestRedisCheckoutStore_CorruptValue(t *testing.T) {
	client := newMockRedis()
	client.data["custom:c1"] = "{not json"
	st := NewRedisCheckoutStore(client, "custom:")

	_, err := st.Get(context.Background(), "c1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, checkout.ErrSessionNotFound)
}
