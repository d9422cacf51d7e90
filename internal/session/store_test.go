package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newTestStore() (*Store, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)}
	s := NewStore(15 * time.Minute)
	s.SetClock(clock.Now)
	return s, clock
}

func TestStoreTouchRefreshesIdleDeadline(t *testing.T) {
	s, clock := newTestStore()
	sess := s.Create(7)

	clock.Advance(14 * time.Minute)
	got, ok := s.Touch(sess.ID)
	require.True(t, ok)
	assert.EqualValues(t, 7, got.PersonnelID)

	clock.Advance(14 * time.Minute)
	_, ok = s.Touch(sess.ID)
	assert.True(t, ok, "activity must extend the session")
}

func TestStoreExpiresAfterIdleTimeout(t *testing.T) {
	s, clock := newTestStore()
	sess := s.Create(7)

	clock.Advance(15*time.Minute + time.Second)
	_, ok := s.Touch(sess.ID)
	assert.False(t, ok)
	assert.Zero(t, s.Len())
}

func TestStoreDestroyForPersonnel(t *testing.T) {
	s, _ := newTestStore()
	a := s.Create(1)
	s.Create(1)
	b := s.Create(2)

	assert.Equal(t, 2, s.DestroyForPersonnel(1))
	_, ok := s.Touch(a.ID)
	assert.False(t, ok)
	_, ok = s.Touch(b.ID)
	assert.True(t, ok)
}

func TestStoreOnRevokeHooks(t *testing.T) {
	s, _ := newTestStore()
	var revoked []uint
	s.OnRevoke(func(id uint) {
		// hooks run unlocked and may use the store
		assert.Equal(t, 0, s.Len())
		revoked = append(revoked, id)
	})
	s.Create(4)

	s.DestroyForPersonnel(4)
	assert.Equal(t, []uint{4}, revoked)
}

func TestStoreSweep(t *testing.T) {
	s, clock := newTestStore()
	s.Create(1)
	clock.Advance(10 * time.Minute)
	fresh := s.Create(2)
	clock.Advance(6 * time.Minute)

	assert.Equal(t, 1, s.Sweep())
	_, ok := s.Touch(fresh.ID)
	assert.True(t, ok)
}

func TestStoreIDsAreUnique(t *testing.T) {
	s, _ := newTestStore()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := s.Create(1).ID
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestCodecRoundTripAndTamper(t *testing.T) {
	c := NewCodec("secret", false)
	raw, err := c.Encode("abc")
	require.NoError(t, err)

	sid, err := c.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "abc", sid)

	_, err = NewCodec("other", false).Decode(raw)
	assert.ErrorIs(t, err, ErrInvalidCookie)

	_, err = c.Decode(raw + "x")
	assert.ErrorIs(t, err, ErrInvalidCookie)
}

func TestCodecCookieHelpers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := NewCodec("secret", false)

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, c.SetCookie(ctx, "sid-1"))

	header := w.Header().Get("Set-Cookie")
	assert.True(t, strings.HasPrefix(header, CookieName+"="))
	assert.Contains(t, header, "HttpOnly")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Cookie", strings.Split(header, ";")[0])
	ctx2, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx2.Request = req
	assert.Equal(t, "sid-1", c.SessionID(ctx2))

	ctx3, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx3.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, c.SessionID(ctx3))
}

func TestStartSweeperRejectsBadSpec(t *testing.T) {
	s, _ := newTestStore()
	_, err := StartSweeper(s, "not a spec")
	assert.Error(t, err)

	c, err := StartSweeper(s, "@every 1h")
	require.NoError(t, err)
	c.Stop()
}
