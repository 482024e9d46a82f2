package journal

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rl1809/crm-ops/internal/port"
)

// Timestamp layouts, both exactly 19 characters. The heartbeat stream has
// historically used a different shape from every other stream, which is why
// the layout is a per-stream parameter and not a package constant.
const (
	LayoutHeartbeat = "02/01/2006-15:04:05"
	LayoutDefault   = "2006-01-02 15:04:05"
)

const (
	appendLockTTL = 5 * time.Second
	rotateLockTTL = 30 * time.Second
	lockRetries   = 3
	lockRetryWait = 50 * time.Millisecond
)

// Stream is one append-only log file. Appends and rotation are serialized
// in-process by a mutex; when a LockRepository is configured they also hold
// an advisory cross-process lock keyed by the file path.
type Stream struct {
	name   string
	path   string
	layout string
	locks  port.LockRepository

	mu sync.Mutex
}

// NewStream creates a stream writing to path with the given timestamp
// layout. locks may be nil, in which case only in-process serialization
// applies.
func NewStream(name, path, layout string, locks port.LockRepository) *Stream {
	if layout == "" {
		layout = LayoutDefault
	}
	return &Stream{name: name, path: path, layout: layout, locks: locks}
}

func (s *Stream) Name() string { return s.name }

func (s *Stream) Path() string { return s.path }

func (s *Stream) Append(ts time.Time, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Advisory only: a flaky lock backend must never swallow a log line.
	if token, ok := s.tryLock(appendLockTTL); ok {
		defer s.unlock(token)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s %s\n", ts.Format(s.layout), message); err != nil {
		return fmt.Errorf("append %s: %w", s.path, err)
	}
	return nil
}

// Rotate keeps lines whose 19-character timestamp prefix parses with the
// stream layout and is strictly after cutoff. An unparseable prefix keeps
// the line: dropping data we cannot date is worse than keeping stale data.
func (s *Stream) Rotate(cutoff time.Time) (kept, dropped int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locks != nil {
		token, ok := s.tryLock(rotateLockTTL)
		if !ok {
			return 0, 0, fmt.Errorf("rotate %s: advisory lock held elsewhere", s.path)
		}
		defer s.unlock(token)
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("read %s: %w", s.path, err)
	}

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	remaining := make([]string, 0, len(lines))
	for _, line := range lines {
		if s.keepLine(line, cutoff) {
			remaining = append(remaining, line)
		} else {
			dropped++
		}
	}
	kept = len(remaining)

	var out string
	if kept > 0 {
		out = strings.Join(remaining, "\n") + "\n"
	}
	if err := os.WriteFile(s.path, []byte(out), 0o644); err != nil {
		return 0, 0, fmt.Errorf("rewrite %s: %w", s.path, err)
	}

	return kept, dropped, nil
}

func (s *Stream) keepLine(line string, cutoff time.Time) bool {
	if len(line) < len(s.layout) {
		return true
	}
	ts, err := time.Parse(s.layout, line[:len(s.layout)])
	if err != nil {
		return true
	}
	return ts.After(cutoff)
}

func (s *Stream) tryLock(ttl time.Duration) (string, bool) {
	if s.locks == nil {
		return "", false
	}

	ctx, cancel := context.WithTimeout(context.Background(), ttl)
	defer cancel()

	for i := 0; i < lockRetries; i++ {
		token, ok, err := s.locks.AcquireLock(ctx, s.path, ttl)
		if err != nil {
			return "", false
		}
		if ok {
			return token, true
		}
		time.Sleep(lockRetryWait)
	}
	return "", false
}

func (s *Stream) unlock(token string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = s.locks.ReleaseLock(ctx, s.path, token)
}
