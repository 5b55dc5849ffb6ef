// Package fikiri wires the client stack together: configuration, the REST
// client (live or mock per the feature flag), the fetch cache, the mutation
// executor and the live-update channel.
package fikiri

import (
	"context"

	"github.com/fikiri/go-client/api"
	"github.com/fikiri/go-client/cache"
	"github.com/fikiri/go-client/config"
	"github.com/fikiri/go-client/live"
	"github.com/fikiri/go-client/mock"
	"github.com/fikiri/go-client/mutation"
	"github.com/fikiri/go-client/notify"
)

// App is one constructed client instance. Nothing here is ambient module
// state; build one with New and tear it down with Teardown so tests never
// leak into each other.
type App struct {
	Config     config.Config
	API        *api.Client
	Cache      *cache.Store
	Mutations  *mutation.Executor
	Reconciler *live.Reconciler
	Notify     *notify.Center

	mockServer *mock.Server
	cancelLive context.CancelFunc
}

func New(cfg config.Config) *App {
	app := &App{Config: cfg}

	if cfg.UseMockData {
		app.mockServer = mock.NewServer(mock.Options{})
		app.API = api.New(app.mockServer.URL())
	} else {
		app.API = api.New(cfg.APIBaseURL)
	}

	app.Cache = cache.New(cache.Options{GCWindow: cfg.CacheGCWindow})
	app.Notify = notify.NewCenter()
	app.Mutations = mutation.NewExecutor(app.Cache)
	app.Mutations.SetNotifier(app.Notify)
	app.Reconciler = live.NewReconciler(app.Cache)
	return app
}

// Mock exposes the embedded mock backend, nil unless UseMockData is set.
// Tests and demos use it to mutate seeded state or push live frames.
func (a *App) Mock() *mock.Server {
	return a.mockServer
}

// StartLive opens the push connection and feeds its frames through the
// reconciler until Teardown. Returns the broker views can subscribe to for
// view-level merging.
func (a *App) StartLive() live.Broker {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancelLive = cancel

	frames := make(chan live.Frame, 8)
	stream := a.API.LiveStream(a.Config.LiveStreamPath)
	go func() {
		defer close(frames)
		stream.Run(ctx, func(frame live.Frame) {
			a.Reconciler.Apply(frame)
			select {
			case frames <- frame:
			case <-ctx.Done():
			}
		})
	}()

	return live.NewBroker(ctx, frames)
}

func (a *App) Teardown() {
	if a.cancelLive != nil {
		a.cancelLive()
	}
	a.Cache.Teardown()
	if a.mockServer != nil {
		a.mockServer.Close()
	}
}
