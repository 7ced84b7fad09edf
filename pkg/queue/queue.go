// Package queue is the append-only telemetry event log. Each event is one
// JSON line; the queue is only ever appended to here and drained by an
// external uploader.
package queue

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/grovetools/agentgate/errors"
	"github.com/grovetools/agentgate/pkg/fsutil"
	"github.com/hpcloud/tail"
	"github.com/sirupsen/logrus"
)

// maxLineBytes bounds a single queued record when reading the queue back.
const maxLineBytes = 4 << 20

// Queue appends events to a newline-delimited file.
type Queue struct {
	path   string
	logger *logrus.Entry
}

// New creates a queue backed by path. The file is created on first append.
func New(path string, logger *logrus.Entry) *Queue {
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}
	return &Queue{path: path, logger: logger}
}

// Path returns the backing file.
func (q *Queue) Path() string {
	return q.path
}

// Append writes one event as a single line.
func (q *Queue) Append(ev Event) error {
	if ev == nil || strings.TrimSpace(ev.session()) == "" {
		return errors.InvalidInput("event has no session id")
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return errors.QueueWrite(q.path, err)
	}
	if err := fsutil.AppendLine(q.path, data); err != nil {
		return errors.QueueWrite(q.path, err)
	}
	return nil
}

// Enqueue appends an event and swallows any failure after logging it.
// Telemetry must never fail the calling hook.
func (q *Queue) Enqueue(ev Event) {
	if err := q.Append(ev); err != nil {
		q.logger.WithError(err).WithField("event_type", fmt.Sprintf("%T", ev)).Warn("Dropping telemetry event")
	}
}

// Count returns the number of queued events, or 0 if the queue does not exist.
func (q *Queue) Count() int {
	f, err := os.Open(q.path)
	if err != nil {
		if !os.IsNotExist(err) {
			q.logger.WithError(err).Debug("Queue unreadable while counting")
		}
		return 0
	}
	defer f.Close()

	count := 0
	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			count++
		}
		if err != nil {
			if err != io.EOF {
				q.logger.WithError(err).Debug("Queue read interrupted while counting")
			}
			break
		}
	}
	return count
}

// Record is a queued event decoded generically.
type Record map[string]interface{}

// Read returns every well-formed record in the queue. Lines that do not
// decode are reported through skipped rather than failing the read.
func (q *Queue) Read() (records []Record, skipped int, err error) {
	f, err := os.Open(q.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, nil
		}
		return nil, 0, errors.Wrap(err, errors.ErrCodeQueueRead, "failed to open queue").WithDetail("path", q.path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return records, skipped, errors.Wrap(err, errors.ErrCodeQueueRead, "failed to scan queue").WithDetail("path", q.path)
	}
	return records, skipped, nil
}

// Follow streams queue lines to fn. With follow unset it stops at the end
// of the file; otherwise it waits for new lines until ctx is done.
func (q *Queue) Follow(ctx context.Context, follow bool, fn func(line string)) error {
	t, err := tail.TailFile(q.path, tail.Config{
		Follow:    follow,
		ReOpen:    follow,
		MustExist: !follow,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeQueueRead, "failed to tail queue").WithDetail("path", q.path)
	}
	defer t.Cleanup()

	for {
		select {
		case <-ctx.Done():
			_ = t.Stop()
			return nil
		case line, ok := <-t.Lines:
			if !ok {
				return nil
			}
			if line.Err != nil {
				q.logger.WithError(line.Err).Debug("Tail reported an error")
				continue
			}
			if strings.TrimSpace(line.Text) != "" {
				fn(line.Text)
			}
		}
	}
}
