package logs

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/reusee/dscope"
)

func testScope(buf *bytes.Buffer) dscope.Scope {
	return dscope.New(new(Module)).Fork(
		func() Writer {
			return buf
		},
		func() Journal {
			return false
		},
	)
}

func TestHandler(t *testing.T) {
	dscope.New(new(Module)).Call(func(
		logger Logger,
	) {
		logger.Info("test", "hello", "world!")
	})
}

func TestLoggerWritesJSON(t *testing.T) {
	buf := new(bytes.Buffer)
	testScope(buf).Call(func(
		logger Logger,
	) {
		ctx := WithRequestID(context.Background(), "req-1")
		logger.With("component", "server").InfoContext(ctx, "transpiled", "bytes", 42)

		var record map[string]any
		if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
			t.Fatalf("expected one JSON record, got %q: %v", buf.String(), err)
		}
		if record["msg"] != "transpiled" {
			t.Errorf("got msg %v", record["msg"])
		}
		if record["request_id"] != "req-1" {
			t.Errorf("got request_id %v", record["request_id"])
		}
		if record["component"] != "server" {
			t.Errorf("got component %v", record["component"])
		}
		if record["bytes"] != float64(42) {
			t.Errorf("got bytes %v", record["bytes"])
		}
	})
}

func TestSetLevel(t *testing.T) {
	defer level.Set(level.Level())

	buf := new(bytes.Buffer)
	testScope(buf).Call(func(
		logger Logger,
	) {
		if err := SetLevel("warn"); err != nil {
			t.Fatal(err)
		}
		logger.Info("hidden")
		if buf.Len() != 0 {
			t.Fatalf("info should be filtered at warn, got %q", buf.String())
		}

		if err := SetLevel("debug"); err != nil {
			t.Fatal(err)
		}
		if Level() != slog.LevelDebug {
			t.Fatalf("got %v", Level())
		}
		logger.Debug("shown")
		if !strings.Contains(buf.String(), `"msg":"shown"`) {
			t.Fatalf("got %q", buf.String())
		}
	})

	if err := SetLevel("loud"); err == nil {
		t.Fatal("should error")
	}
}

func TestRequestIDFrom(t *testing.T) {
	if _, ok := RequestIDFrom(context.Background()); ok {
		t.Fatal("unexpected request id")
	}
	id, ok := RequestIDFrom(WithRequestID(context.Background(), "x"))
	if !ok || id != "x" {
		t.Fatalf("got %q %v", id, ok)
	}
}

func TestToJournalKey(t *testing.T) {
	if got := toJournalKey("request_id.v2"); got != "REQUEST_ID_V2" {
		t.Fatalf("got %q", got)
	}
}
