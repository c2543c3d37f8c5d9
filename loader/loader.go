package loader

import (
	"context"
	"os"
	"runtime"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/refaktor/newtypegen/logger"
	"github.com/refaktor/newtypegen/typegraph"
)

type Config struct {
	// Type graph documents to load, in priority order.
	Paths []string
	// Maximum number of documents decoded at once. Defaults to
	// GOMAXPROCS.
	Concurrency int
	Logger      *logger.Logger
}

// Load decodes all documents concurrently. The result has the
// same order as c.Paths.
func Load(ctx context.Context, c *Config) ([]*typegraph.Document, error) {
	if len(c.Paths) == 0 {
		return nil, errors.New("no type graph documents given")
	}
	limit := c.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	log := c.Logger
	if log == nil {
		log = logger.Nop()
	}

	docs := make([]*typegraph.Document, len(c.Paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range c.Paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := loadFile(path)
			if err != nil {
				return err
			}
			idx := typegraph.NewIndex(doc)
			if v := idx.CrateVersion(); v != "" {
				log.Log(logger.INFO, "loaded %v (%v %v, %v items)", path, idx.CrateName(), v, len(doc.Index))
			} else {
				log.Log(logger.INFO, "loaded %v (%v, %v items)", path, idx.CrateName(), len(doc.Index))
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

func loadFile(path string) (*typegraph.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := typegraph.Decode(f, path)
	if err != nil {
		return nil, errors.Wrapf(err, "load %v", path)
	}
	return doc, nil
}
