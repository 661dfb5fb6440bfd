package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"jsadvpl/pkg/generator"
	"jsadvpl/pkg/logs"
)

func testServer(logger *slog.Logger) *Server {
	opts := generator.DefaultOptions()
	opts.Date = "01/01/2024"
	return New(Config{
		Timeout:   time.Second,
		Generator: opts,
		Logger:    logger,
	})
}

func post(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/transpile", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %q", rec.Body.String())
	}
	return rec, resp
}

func TestTranspileEndpoint(t *testing.T) {
	h := testServer(nil).Handler()

	tests := []struct {
		name   string
		body   string
		status int
		check  func(t *testing.T, resp map[string]any)
	}{
		{
			name:   "ok",
			body:   `{"code": "function add(a, b) { return a + b; }", "direction": "js2advpl"}`,
			status: http.StatusOK,
			check: func(t *testing.T, resp map[string]any) {
				result, _ := resp["result"].(string)
				if !strings.Contains(result, "User Function add(a, b)\nReturn (a + b)\n") {
					t.Errorf("unexpected result %q", result)
				}
				if !strings.Contains(result, "@since 01/01/2024") {
					t.Errorf("expected configured date in %q", result)
				}
			},
		},
		{
			name:   "default direction",
			body:   `{"code": "print(1);"}`,
			status: http.StatusOK,
		},
		{
			name:   "invalid json",
			body:   `{"code": `,
			status: http.StatusBadRequest,
		},
		{
			name:   "reverse direction",
			body:   `{"code": "ConOut(1)", "direction": "advpl2js"}`,
			status: http.StatusUnprocessableEntity,
			check: func(t *testing.T, resp map[string]any) {
				if resp["error"] != "unsupported direction" {
					t.Errorf("got %v", resp["error"])
				}
			},
		},
		{
			name:   "unknown direction",
			body:   `{"code": "x;", "direction": "sideways"}`,
			status: http.StatusBadRequest,
		},
		{
			name:   "parse error",
			body:   `{"code": "let x = ;"}`,
			status: http.StatusUnprocessableEntity,
			check: func(t *testing.T, resp map[string]any) {
				if resp["kind"] != "Parse" || resp["line"] != float64(1) || resp["column"] != float64(9) {
					t.Errorf("unexpected error response %v", resp)
				}
				if msg, _ := resp["error"].(string); !strings.Contains(msg, "found SEMICOLON") {
					t.Errorf("unexpected message %q", msg)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := post(t, h, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("got content type %q", ct)
			}
			if tt.check != nil {
				tt.check(t, resp)
			}
		})
	}
}

func TestTranspileTimeout(t *testing.T) {
	h := testServer(nil).Handler()
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	req := httptest.NewRequest(http.MethodPost, "/api/transpile", strings.NewReader(`{"code": "print(1);"}`)).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHealthAndMethods(t *testing.T) {
	h := testServer(nil).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected health response %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/transpile", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestRequestID(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := slog.New(&logs.Handler{Handler: slog.NewJSONHandler(buf, nil)})
	h := testServer(logger).Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "given-id")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-Id"); got != "given-id" {
		t.Errorf("expected echoed id, got %q", got)
	}
	if !strings.Contains(buf.String(), `"request_id":"given-id"`) || !strings.Contains(buf.String(), `"status":200`) {
		t.Errorf("unexpected log %q", buf.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if id := rec.Header().Get("X-Request-Id"); len(id) != 36 {
		t.Errorf("expected generated uuid, got %q", id)
	}
}

func TestServe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	s := New(Config{MaxConns: 2, Timeout: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx, ln)
	}()

	resp, err := http.Post("http://"+ln.Addr().String()+"/api/transpile", "application/json",
		strings.NewReader(`{"code": "print('hi');"}`))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `ConOut(\"hi\")`) {
		t.Fatalf("unexpected response %d %s", resp.StatusCode, body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
