package app

import (
	"context"
	"fmt"

	"github.com/samprochar-hq/samprochar-tweet-resolver/internal/batch"
	"github.com/samprochar-hq/samprochar-tweet-resolver/internal/config"
	"github.com/samprochar-hq/samprochar-tweet-resolver/internal/fetcher"
	"github.com/samprochar-hq/samprochar-tweet-resolver/internal/logger"
	"github.com/samprochar-hq/samprochar-tweet-resolver/internal/metrics"
	"github.com/samprochar-hq/samprochar-tweet-resolver/internal/server"
	"github.com/samprochar-hq/samprochar-tweet-resolver/internal/store"
	"github.com/samprochar-hq/samprochar-tweet-resolver/pkg/httpclient"
	"github.com/samprochar-hq/samprochar-tweet-resolver/pkg/publishers"
)

// Resolver is the service runtime. It owns the store handle, the Nitter
// client, the optional publisher fanout and the HTTP server; all are built
// once at startup and torn down when Run returns. Failure to build any of
// them is fatal; the process never starts serving half-wired.
type Resolver struct {
	cfg      *config.Config
	store    store.Store
	batchSvc *batch.Service
	fanout   *publishers.Fanout
	server   *server.Server
	log      logger.Logger
}

// NewResolver wires the full runtime from config.
func NewResolver(ctx context.Context, cfg *config.Config, log logger.Logger) (*Resolver, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.NewStore(cfg.StorageType, cfg.BBoltPath)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type": cfg.StorageType,
		"path": cfg.BBoltPath,
	})

	nitter, err := fetcher.NewNitterClient(cfg.NitterInstanceURL, httpclient.NewRestyClient(cfg.FetchTimeout))
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("init nitter client: %w", err)
	}
	log.InfoObj("nitter client initialized", "nitter_config", map[string]any{
		"instance":        cfg.NitterInstanceURL,
		"timeout_seconds": int(cfg.FetchTimeout.Seconds()),
	})

	fanout, err := buildFanout(ctx, cfg.PublishersFile, log)
	if err != nil {
		st.Close()
		return nil, err
	}
	if fanout != nil {
		log.InfoObj("publishers loaded", "publishers_count", fanout.Size())
	}

	collector, err := metrics.NewCollector()
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	batchSvc := batch.NewService(st, nitter, eventSink(fanout), collector, log)
	srv := server.New(cfg, batchSvc, collector.Handler(), log)

	return &Resolver{
		cfg:      cfg,
		store:    st,
		batchSvc: batchSvc,
		fanout:   fanout,
		server:   srv,
		log:      log,
	}, nil
}

// buildFanout loads the publisher registry when a file is configured. Outcome
// events are a side channel, so no publishers file means no fanout.
func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	if path == "" {
		return nil, nil
	}

	reg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := reg.Enabled()
	if len(enabled) == 0 {
		return nil, nil
	}

	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	return publishers.NewFanout(pubs), nil
}

// eventSink avoids handing the batch service a typed nil interface.
func eventSink(fanout *publishers.Fanout) batch.EventSink {
	if fanout == nil {
		return nil
	}
	return fanout
}

// Run serves HTTP until the context is cancelled, then shuts down cleanly.
func (r *Resolver) Run(ctx context.Context) error {
	if r == nil || r.server == nil {
		return fmt.Errorf("resolver is not initialized")
	}
	defer r.closeAll()

	errCh := make(chan error, 1)
	go func() {
		errCh <- r.server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), r.cfg.ShutdownTimeout)
	defer cancel()
	if err := r.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// RunBatch executes one batch pass without serving HTTP, for the one-shot binary.
func (r *Resolver) RunBatch(ctx context.Context) (*batch.Summary, error) {
	if r == nil || r.batchSvc == nil {
		return nil, fmt.Errorf("resolver is not initialized")
	}
	return r.batchSvc.Run(ctx)
}

// Close releases the store and publisher connections.
func (r *Resolver) Close() {
	r.closeAll()
}

func (r *Resolver) closeAll() {
	if r == nil {
		return
	}
	if r.fanout != nil {
		if err := r.fanout.Close(); err != nil {
			r.log.ErrorObj("publishers close failed", "error", err)
		}
	}
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			r.log.ErrorObj("storage close failed", "error", err)
		}
	}
}
