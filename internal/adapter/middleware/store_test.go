package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	lenderUser = "cccccccccccccccccccccccccccccccc"
	requestA   = "11111111111111111111111111111111"
	requestB   = "22222222222222222222222222222222"
)

func TestIdempKey_UsesActorAndConcretePath(t *testing.T) {
	e := echo.New()
	var got string
	e.Use(Actor())
	e.POST("/borrow-requests/:request_id/approve", func(c echo.Context) error {
		got = idempKey(c, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/borrow-requests/"+requestA+"/approve", nil)
	req.Header.Set(HeaderUserID, lenderUser)
	e.ServeHTTP(httptest.NewRecorder(), req)

	want := "idemp:ax:post:/borrow-requests/" + requestA + "/approve:" + lenderUser + ":aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	if got != want {
		t.Fatalf("key = %q, want %q", got, want)
	}
}

func TestIdempotency_SameRequestIDOnDifferentBorrowRequests(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()

	e := echo.New()
	e.Use(Actor(), IdempotencyMiddleware(rdb, time.Minute))
	calls := map[string]int{}
	e.POST("/borrow-requests/:request_id/approve", func(c echo.Context) error {
		calls[c.Param("request_id")]++
		return c.JSON(http.StatusOK, map[string]string{"request_id": c.Param("request_id")})
	})

	hdr := map[string]string{
		"Ax-Request-Id": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		"Ax-Request-At": time.Now().UTC().Format(time.RFC3339),
		HeaderUserID:    lenderUser,
	}
	for _, rid := range []string{requestA, requestB, requestA} {
		rec := doReq(t, e, http.MethodPost, "/borrow-requests/"+rid+"/approve", nil, hdr)
		if rec.Code != http.StatusOK {
			t.Fatalf("approve %s: status %d body=%s", rid, rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), rid) {
			t.Fatalf("approve %s answered with %s", rid, rec.Body.String())
		}
	}
	if calls[requestA] != 1 || calls[requestB] != 1 {
		t.Fatalf("handler calls = %v, want one per borrow request", calls)
	}
}

func TestIdempotency_DifferentActorsDoNotShareKeys(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupEcho(rdb, time.Minute, okCreatedHandler)

	for _, user := range []string{"bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", "dddddddddddddddddddddddddddddddd"} {
		rec := doReq(t, e, http.MethodPost, "/borrow-requests", strings.NewReader(`{"x":1}`), map[string]string{
			"Ax-Request-Id": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
			"Ax-Request-At": time.Now().UTC().Format(time.RFC3339),
			HeaderUserID:    user,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("user %s: status %d body=%s", user, rec.Code, rec.Body.String())
		}
	}
	if n := len(mr.Keys()); n != 2 {
		t.Fatalf("stored keys = %d, want 2", n)
	}
}

func TestIdempStore_LoadMissingKey(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	store := idempStore{rdb: rdb, ttl: time.Minute}

	_, found, err := store.load(context.Background(), "idemp:ax:post:/borrow-requests:missing")
	if err != nil || found {
		t.Fatalf("load missing: found=%v err=%v", found, err)
	}
}

func TestIdempStore_ReserveIsExclusive(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	store := idempStore{rdb: rdb, ttl: time.Minute}
	ctx := context.Background()
	key := "idemp:ax:post:/borrow-requests:" + lenderUser + ":x"

	if ok, err := store.reserve(ctx, key, idempEntry{InProgress: true}); err != nil || !ok {
		t.Fatalf("first reserve: ok=%v err=%v", ok, err)
	}
	if ok, err := store.reserve(ctx, key, idempEntry{InProgress: true}); err != nil || ok {
		t.Fatalf("second reserve: ok=%v err=%v", ok, err)
	}
	if ttl := mr.TTL(key); ttl != provisionalLockTTL {
		t.Fatalf("reservation ttl = %v, want %v", ttl, provisionalLockTTL)
	}

	if err := store.finish(ctx, key, idempEntry{Code: http.StatusOK, Body: []byte(`{}`)}); err != nil {
		t.Fatalf("finish: %v", err)
	}
	cur, found, err := store.load(ctx, key)
	if err != nil || !found || cur.InProgress || cur.Code != http.StatusOK {
		t.Fatalf("after finish: %+v found=%v err=%v", cur, found, err)
	}
	if ttl := mr.TTL(key); ttl != time.Minute {
		t.Fatalf("final ttl = %v, want %v", ttl, time.Minute)
	}
}

func TestValidRequestID(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", true},
		{"3f2b8c9e-4d1a-4f6b-9c2e-7a8b9c0d1e2f", true},
		{"3F2B8C9E-4D1A-4F6B-9C2E-7A8B9C0D1E2F", false},
		{"3f2b8c9e-4d1a-0f6b-9c2e-7a8b9c0d1e2f", false},
		{"{3f2b8c9e-4d1a-4f6b-9c2e-7a8b9c0d1e2f}", false},
		{"urn:uuid:3f2b8c9e-4d1a-4f6b-9c2e-7a8b9c0d1e2f", false},
		{"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := validRequestID(tc.in); got != tc.want {
			t.Errorf("validRequestID(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseRequestAt(t *testing.T) {
	sec, err := parseRequestAt("1757152800")
	if err != nil || !sec.Equal(time.Unix(1757152800, 0)) {
		t.Fatalf("epoch seconds: %v %v", sec, err)
	}
	ms, err := parseRequestAt("1757152800123")
	if err != nil || !ms.Equal(time.UnixMilli(1757152800123)) {
		t.Fatalf("epoch millis: %v %v", ms, err)
	}
	off, err := parseRequestAt("2025-09-06T17:00:00+07:00")
	if err != nil || !off.Equal(time.Date(2025, 9, 6, 10, 0, 0, 0, time.UTC)) || off.Location() != time.UTC {
		t.Fatalf("rfc3339 offset: %v %v", off, err)
	}
	for _, bad := range []string{"", "2025-09-06T10:00:00", "yesterday"} {
		if _, err := parseRequestAt(bad); err == nil {
			t.Errorf("parseRequestAt(%q) accepted", bad)
		}
	}
}
