package queue

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/grovetools/agentgate/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueue(t *testing.T) *Queue {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "telemetry", "queue.jsonl"), nil)
}

func TestCountMissingQueue(t *testing.T) {
	assert.Equal(t, 0, newTestQueue(t).Count())
}

func TestEnqueueAppendsInOrder(t *testing.T) {
	q := newTestQueue(t)

	q.Enqueue(NewPromptEvent("s-1", "hello", false, fixedTime))
	q.Enqueue(NewEndEvent("s-1", "bash", "c-1", 5, "", fixedTime))
	q.Enqueue(NewEndEvent("s-1", "edit", "", 1, "boom", fixedTime))

	assert.Equal(t, 3, q.Count())

	records, skipped, err := q.Read()
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, records, 3)

	assert.Equal(t, "prompt", records[0]["eventType"])
	assert.Equal(t, "hello", records[0]["prompt"])
	assert.Equal(t, float64(5), records[0]["promptLength"])
	assert.Equal(t, false, records[0]["redacted"])

	assert.Equal(t, "end", records[1]["event"])
	assert.Equal(t, "bash", records[1]["toolName"])
	assert.Equal(t, true, records[1]["success"])
	assert.NotContains(t, records[1], "error")

	assert.Equal(t, "", records[2]["correlationId"], "empty correlation id is still emitted")
	assert.Equal(t, "boom", records[2]["error"])
}

func TestEnqueueRedactedPromptNeverPersistsText(t *testing.T) {
	q := newTestQueue(t)
	q.Enqueue(NewPromptEvent("s-1", "my secret plan", true, fixedTime))

	data, err := os.ReadFile(q.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "my secret plan")
	assert.Contains(t, string(data), Digest("my secret plan"))
}

func TestAppendRejectsMissingSession(t *testing.T) {
	q := newTestQueue(t)

	err := q.Append(NewPromptEvent("", "hello", false, fixedTime))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	q.Enqueue(NewPromptEvent(" ", "hello", false, fixedTime))
	assert.Equal(t, 0, q.Count())
}

func TestEnqueueSwallowsIOErrors(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "telemetry")
	require.NoError(t, os.WriteFile(blocker, []byte("not a dir"), 0644))

	q := New(filepath.Join(blocker, "queue.jsonl"), nil)
	assert.NotPanics(t, func() {
		q.Enqueue(NewPromptEvent("s", "hi", false, fixedTime))
	})
	err := q.Append(NewPromptEvent("s", "hi", false, fixedTime))
	assert.True(t, errors.Is(err, errors.ErrCodeQueueWrite))
}

func TestReadSkipsCorruptLines(t *testing.T) {
	q := newTestQueue(t)
	q.Enqueue(NewSessionEndEvent("s", 0, fixedTime))

	f, err := os.OpenFile(q.Path(), os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("{truncated\n\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	records, skipped, err := q.Read()
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, 2, q.Count(), "count reports raw non-empty lines")
}

func TestEventLinesAreSingleLine(t *testing.T) {
	q := newTestQueue(t)
	q.Enqueue(NewPromptEvent("s", "line one\nline two", false, fixedTime))

	data, err := os.ReadFile(q.Path())
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "\n"))

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &rec))
	assert.Equal(t, "line one\nline two", rec["prompt"])
}

func TestFollowWithoutFollowReadsToEnd(t *testing.T) {
	q := newTestQueue(t)
	q.Enqueue(NewEndEvent("s", "a", "1", 1, "", fixedTime))
	q.Enqueue(NewEndEvent("s", "b", "2", 1, "", fixedTime))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var lines []string
	require.NoError(t, q.Follow(ctx, false, func(line string) {
		lines = append(lines, line)
	}))
	assert.Len(t, lines, 2)
}
