package loader_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/refaktor/newtypegen/loader"
	"github.com/refaktor/newtypegen/logger"
)

func writeDoc(t *testing.T, dir, crate, version string) string {
	t.Helper()
	path := filepath.Join(dir, crate+".json")
	data := fmt.Sprintf(`{
  "root": "0:0",
  "crate_version": %q,
  "index": {"0:0": {"crate_id": 0, "name": %q, "kind": "module", "inner": {"is_crate": true, "items": []}}},
  "paths": {},
  "external_crates": {}
}`, version, crate)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	var paths []string
	for i, crate := range []string{"bevy_math", "bevy_transform", "bevy_ecs", "glam"} {
		paths = append(paths, writeDoc(t, dir, crate, fmt.Sprintf("0.%v.0", i)))
	}

	var buf bytes.Buffer
	docs, err := loader.Load(context.Background(), &loader.Config{
		Paths:       paths,
		Concurrency: 2,
		Logger:      logger.New(&buf, logger.INFO),
	})
	require.NoError(err)
	require.Len(docs, len(paths))
	for i, doc := range docs {
		require.Equal(paths[i], doc.Name)
	}
	require.Contains(buf.String(), "bevy_ecs v0.2.0")
}

func TestLoadManyConcurrent(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	var paths []string
	for i := range 32 {
		paths = append(paths, writeDoc(t, dir, fmt.Sprintf("crate_%02d", i), fmt.Sprintf("1.%v.0", i)))
	}

	var buf bytes.Buffer
	docs, err := loader.Load(context.Background(), &loader.Config{
		Paths:       paths,
		Concurrency: 16,
		Logger:      logger.New(&buf, logger.INFO),
	})
	require.NoError(err)
	require.Len(docs, len(paths))
	for i, doc := range docs {
		require.Equal(paths[i], doc.Name)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(lines, len(paths))
	for i := range 32 {
		require.Contains(buf.String(), fmt.Sprintf("(crate_%02d v1.%v.0, 1 items)\n", i, i))
	}
}

func TestLoadErrors(t *testing.T) {
	require := require.New(t)

	_, err := loader.Load(context.Background(), &loader.Config{})
	require.Error(err)

	dir := t.TempDir()
	good := writeDoc(t, dir, "bevy_math", "0.8.1")
	bad := filepath.Join(dir, "bad.json")
	require.NoError(os.WriteFile(bad, []byte(`{"index": [`), 0o644))

	_, err = loader.Load(context.Background(), &loader.Config{Paths: []string{good, bad}})
	require.Error(err)
	require.Contains(err.Error(), "bad.json")

	_, err = loader.Load(context.Background(), &loader.Config{Paths: []string{filepath.Join(dir, "missing.json")}})
	require.Error(err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = loader.Load(ctx, &loader.Config{Paths: []string{good}})
	require.ErrorIs(err, context.Canceled)
}
