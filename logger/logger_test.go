package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLog(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	l := New(&buf, WARN)
	l.Log(INFO, "hidden %v", 1)
	require.Empty(buf.String())

	l.Log(WARN, "duplicate candidate %q", "Vec3")
	require.Equal("WARNING: duplicate candidate \"Vec3\"\n", buf.String())
	buf.Reset()

	l.With("Vec3").Log(ERROR, "first\nsecond")
	require.Equal("ERROR: Vec3:\n  first\n  second\n", buf.String())
	buf.Reset()

	l.SetMinLevel(INFO)
	l.With("bevy_math").With("Vec3").Log(INFO, "bound")
	require.Equal("INFO: bevy_math Vec3: bound\n", buf.String())
}

func TestNop(t *testing.T) {
	var l *Logger
	l.Log(ERROR, "nothing")
	Nop().Log(ERROR, "nothing")
	Nop().With("x").SetMinLevel(INFO)
	require.NoError(t, Nop().Sync())
}

func TestLogConcurrent(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	l := New(&buf, INFO)
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := l.With("worker")
			for range 50 {
				w.Log(INFO, "loaded %v", i%2)
			}
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(lines, 16*50)
	for _, line := range lines {
		require.Contains([]string{"INFO: worker: loaded 0", "INFO: worker: loaded 1"}, line)
	}
}
