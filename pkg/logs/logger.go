package logs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
	"golang.org/x/term"
)

var level = new(slog.LevelVar)

// SetLevel sets the level of every Logger: debug, info, warn or error.
func SetLevel(name string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return fmt.Errorf("log level %q: %w", name, err)
	}
	level.Set(l)
	return nil
}

func Level() slog.Level {
	return level.Level()
}

type Logger = *slog.Logger

// Journal reports whether records go to the systemd journal instead of Writer.
type Journal bool

func (Module) Journal() Journal {
	cgroupPath, err := getCgroupPath()
	if err != nil {
		return false
	}
	return Journal(strings.HasSuffix(
		path.Dir(cgroupPath),
		".service",
	))
}

func (Module) Logger(
	writer Writer,
	journal Journal,
) Logger {
	var handlers []slog.Handler
	isSystemdService := bool(journal)

	// local
	var localHandler slog.Handler
	if !isSystemdService {
		options := &slog.HandlerOptions{
			Level: level,
		}
		if isTerminal(writer) {
			localHandler = slog.NewTextHandler(writer, options)
		} else {
			localHandler = slog.NewJSONHandler(writer, options)
		}
		handlers = append(handlers, localHandler)
	}

	// systemd journal
	if isSystemdService {
		journalHandler, err := slogjournal.NewHandler(&slogjournal.Options{
			Level: level,
			ReplaceGroup: func(key string) string {
				return toJournalKey(key)
			},
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a.Key = toJournalKey(a.Key)
				return a
			},
		})
		if err != nil {
			// fall back to the writer so the failure is visible somewhere
			localHandler = slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level})
			record := slog.NewRecord(time.Now(), slog.LevelWarn, "new systemd journal handler", 0)
			record.Add("error", err)
			_ = localHandler.Handle(context.Background(), record)
			handlers = append(handlers, localHandler)
		} else {
			handlers = append(handlers, journalHandler)
		}
	}

	return slog.New(&Handler{
		Handler: slogmulti.Fanout(handlers...),
	})
}

func isTerminal(w Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func toJournalKey(str string) string {
	str = strings.ToUpper(str)
	str = strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' ||
			r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, str)
	return str
}

func getCgroupPath() (string, error) {
	content, err := os.ReadFile("/proc/self/cgroup")
	if err != nil {
		return "", err
	}
	parts := strings.Split(strings.TrimSpace(string(content)), ":")
	if len(parts) >= 3 {
		return parts[2], nil
	}
	return "", nil
}
