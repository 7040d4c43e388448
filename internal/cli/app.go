package cli

import (
	"context"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/ppiankov/gamelore/internal/annotate"
	"github.com/ppiankov/gamelore/internal/cache"
	"github.com/ppiankov/gamelore/internal/model"
	"github.com/ppiankov/gamelore/internal/store"
)

// app holds what every command needs: the store and the annotator
type app struct {
	store     *store.Store
	annotator *annotate.Client
	cache     cache.Cache
}

func openApp() (*app, error) {
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, err
	}

	logger.Debug("opened store", zap.String("path", cfg.Store.Path), zap.Bool("cache", cfg.Cache.Enabled))
	c := cache.New(cfg.Cache)
	client := annotate.NewClient(cfg.Annotator, c, logger)
	return &app{store: st, annotator: client, cache: c}, nil
}

func (a *app) Close() error {
	if n := a.annotator.Throttled(); n > 0 {
		logger.Debug("annotation requests throttled", zap.Int64("count", n))
	}
	if lc, ok := a.cache.(*cache.LayeredCache); ok {
		s := lc.Stats()
		logger.Debug("annotation cache",
			zap.Int64("memory_hits", s.MemoryHits),
			zap.Int64("disk_hits", s.DiskHits),
			zap.Int64("misses", s.Misses))
	}
	return a.store.Close()
}

// identity returns the remembered user name, or the configured default
func (a *app) identity(ctx context.Context) (string, error) {
	user, ok, err := a.store.GetMetadata(ctx, model.SessionUser)
	if err != nil || ok {
		return user, err
	}
	return cfg.Session.DefaultUser, nil
}

// interruptContext is canceled on Ctrl-C
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
