package cache

import (
	"net/url"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

// fakeClock lets tests advance time manually.
type fakeClock struct {
	current time.Time
}

func (c *fakeClock) now() time.Time {
	return c.current
}

func (c *fakeClock) advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func newTestStore(ttl time.Duration) (*Store, *fakeClock) {
	clock := &fakeClock{current: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := NewStore(ttl)
	store.now = clock.now
	return store, clock
}

func TestKeyIsOrderIndependent(t *testing.T) {
	a := url.Values{}
	a.Set("q", "golang")
	a.Set("maxResults", "5")

	b := url.Values{}
	b.Set("maxResults", "5")
	b.Set("q", "golang")

	assert.Equal(t, Key("https://example.com/volumes", a), Key("https://example.com/volumes", b))
}

func TestKeyWithoutParams(t *testing.T) {
	assert.Equal(t, "https://example.com/volumes", Key("https://example.com/volumes", nil))
}

func TestRoundTrip(t *testing.T) {
	store, _ := newTestStore(15 * time.Minute)

	store.Set("k", []byte(`{"totalItems":1}`))

	data, ok := store.Get("k")
	assert.True(t, ok)
	assert.Equal(t, `{"totalItems":1}`, string(data))
}

func TestGetEvictsExpiredEntry(t *testing.T) {
	store, clock := newTestStore(15 * time.Minute)

	store.Set("k", []byte("v"))
	clock.advance(15 * time.Minute)

	_, ok := store.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestGetJustBeforeExpiry(t *testing.T) {
	store, clock := newTestStore(15 * time.Minute)

	store.Set("k", []byte("v"))
	clock.advance(15*time.Minute - time.Second)

	_, ok := store.Get("k")
	assert.True(t, ok)
}

func TestSetSweepsExpiredEntries(t *testing.T) {
	store, clock := newTestStore(10 * time.Minute)

	store.Set("old", []byte("v"))
	clock.advance(10 * time.Minute)
	store.Set("fresh", []byte("v"))

	assert.Equal(t, 1, store.Len())
	_, ok := store.Get("fresh")
	assert.True(t, ok)
}

func TestSetOverwritesTimestamp(t *testing.T) {
	store, clock := newTestStore(10 * time.Minute)

	store.Set("k", []byte("v1"))
	clock.advance(9 * time.Minute)
	store.Set("k", []byte("v2"))
	clock.advance(9 * time.Minute)

	data, ok := store.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v2", string(data))
}

func TestClear(t *testing.T) {
	store, _ := newTestStore(time.Hour)

	store.Set("a", []byte("1"))
	store.Set("b", []byte("2"))
	store.Clear()

	assert.Equal(t, 0, store.Len())
}

func TestStats(t *testing.T) {
	store, clock := newTestStore(15 * time.Minute)

	oldest := clock.current
	store.Set("a", []byte("1"))
	clock.advance(time.Minute)
	store.Set("b", []byte("2"))

	stats := store.Stats()
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, 15.0, stats.TTLMinutes)
	assert.True(t, stats.OldestEntry.Equal(oldest))
}

func TestStatsSweepsFirst(t *testing.T) {
	store, clock := newTestStore(5 * time.Minute)

	store.Set("a", []byte("1"))
	clock.advance(6 * time.Minute)

	stats := store.Stats()
	assert.Equal(t, 0, stats.Entries)
	assert.Zero(t, stats.OldestEntry)
}

func TestZeroTTLFallsBackToDefault(t *testing.T) {
	store := NewStore(0)
	assert.Equal(t, DefaultTTL, store.ttl)
}
