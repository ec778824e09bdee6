package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type fakeCounter struct {
	counts map[string]int64
	err    error
}

func (f *fakeCounter) Hit(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if f.err != nil {
		return 0, 0, f.err
	}
	f.counts[key]++
	return f.counts[key], window, nil
}

func sessionCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSessionMiddlewareIssuesAndKeepsID(t *testing.T) {
	app := fiber.New()
	app.Use(SessionMiddleware("sid", time.Hour))
	app.Get("/", func(c fiber.Ctx) error { return c.SendString(SessionID(c)) })
	app.Get("/health", func(c fiber.Ctx) error { return c.SendString("[" + SessionID(c) + "]") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	cookie := sessionCookie(resp, "sid")
	if cookie == nil {
		t.Fatal("no session cookie issued")
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		t.Errorf("cookie value %q is not a uuid", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be HTTP-only")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: cookie.Value})
	resp, _ = app.Test(req)
	if got := readBody(t, resp); got != cookie.Value {
		t.Errorf("session id = %q, want %q", got, cookie.Value)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "forged"})
	resp, _ = app.Test(req)
	if got := readBody(t, resp); got == "forged" {
		t.Error("malformed cookie was trusted")
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	if got := readBody(t, resp); got != "[]" {
		t.Errorf("public path got session %q", got)
	}
}

func TestRateLimiter(t *testing.T) {
	counter := &fakeCounter{counts: map[string]int64{}}
	app := fiber.New()
	app.Use(SessionMiddleware("sid", time.Hour))
	limited := func(c fiber.Ctx) error { return c.Status(fiber.StatusTooManyRequests).SendString("limited") }
	app.Post("/submit", NewRateLimiter(counter, 2, 60).Handler(limited), func(c fiber.Ctx) error {
		return c.SendString("ok")
	})

	id := uuid.NewString()
	var codes []int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		req.AddCookie(&http.Cookie{Name: "sid", Value: id})
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		codes = append(codes, resp.StatusCode)
		if i == 0 && resp.Header.Get("X-RateLimit-Remaining") != "1" {
			t.Errorf("X-RateLimit-Remaining = %q, want 1", resp.Header.Get("X-RateLimit-Remaining"))
		}
	}

	want := []int{200, 200, 429}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("request %d status = %d, want %d", i, codes[i], want[i])
		}
	}
}

func TestRateLimiterFailsOpen(t *testing.T) {
	counter := &fakeCounter{err: errors.New("redis down")}
	app := fiber.New()
	app.Post("/submit", NewRateLimiter(counter, 1, 60).Handler(func(c fiber.Ctx) error {
		return c.SendStatus(fiber.StatusTooManyRequests)
	}), func(c fiber.Ctx) error { return c.SendString("ok") })

	for i := 0; i < 3; i++ {
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/submit", nil))
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, resp.StatusCode)
		}
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	var sb strings.Builder
	buf := make([]byte, 512)
	for {
		n, err := resp.Body.Read(buf)
		sb.Write(buf[:n])
		if err != nil {
			break
		}
	}
	return sb.String()
}
