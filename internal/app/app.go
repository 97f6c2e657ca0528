package app

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"chargepanel/internal/auth"
	"chargepanel/internal/config"
	httpserver "chargepanel/internal/http"
	"chargepanel/internal/http/handlers"
	"chargepanel/internal/mqtt"
	"chargepanel/internal/service"
	"chargepanel/internal/storage"
	"chargepanel/internal/store"
	"chargepanel/internal/transport"
	"chargepanel/internal/ws"
)

// App wires the panel dependencies.
type App struct {
	server    *httpserver.Server
	flusher   *storage.Flusher
	publisher *mqtt.Publisher
	logger    *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	hasher := auth.NewBcryptHasher(0)

	passwordHash := strings.TrimSpace(cfg.Auth.PasswordHash)
	if passwordHash == "" {
		hashed, err := hasher.Hash(cfg.Auth.Password)
		if err != nil {
			return nil, err
		}
		passwordHash = hashed
	}

	tokenizer := auth.NewTokenService(cfg.Auth.TokenSecret, cfg.Auth.SessionTTL)
	sessions := auth.NewSessionService(cfg.Auth.Username, passwordHash, hasher, tokenizer, logger)

	snapshot := storage.NewSnapshot(cfg.Storage.DataFile, logger)
	st := store.New(cfg.MaxStations)
	doc := snapshot.Load()
	st.Load(doc.Stations, doc.BrokerSettings)

	flusher := storage.NewFlusher(st, snapshot, cfg.Storage.FlushInterval, logger)
	st.SetAfterChange(flusher.Kick)

	relays := ws.NewManager(logger)
	relayServer := ws.NewServer(relays, cfg.Relay.PingInterval, cfg.Relay.WriteTimeout, logger)

	publisher := mqtt.NewPublisher(logger)
	if err := publisher.Configure(st.Settings()); err != nil {
		// The panel still serves; broker sends fail until reconfigured.
		logger.Warn("broker transport unavailable at startup", zap.Error(err))
	}

	dispatcher := transport.NewDispatcher(relays, publisher, st, logger)
	stationService := service.NewStationService(st, dispatcher, logger)
	settingsService := service.NewSettingsService(st, publisher, logger)

	routes := httpserver.Routes{
		Login:          handlers.NewLoginHandler(sessions),
		Logout:         handlers.NewLogoutHandler(sessions),
		Session:        handlers.NewSessionHandler(sessions),
		StationsList:   handlers.NewStationsListHandler(stationService),
		StationsCreate: handlers.NewStationsCreateHandler(stationService, logger),
		StationsDelete: handlers.NewStationsDeleteHandler(stationService, logger),
		StationsToggle: handlers.NewStationsToggleHandler(stationService, logger),
		SettingsGet:    handlers.NewSettingsGetHandler(settingsService),
		SettingsSet:    handlers.NewSettingsSetHandler(settingsService),
		RelayWS:        relayServer.HandleWS,
		Health:         handlers.NewHealthHandler(),

		RequireAuth: handlers.NewAuthMiddleware(sessions),
		LoginLimit:  httpserver.RateLimit(rate.Limit(cfg.Auth.LoginRate), cfg.Auth.LoginBurst),
	}

	router := httpserver.NewRouter(routes)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server:    server,
		flusher:   flusher,
		publisher: publisher,
		logger:    logger,
	}, nil
}

// Run starts the flusher and the HTTP server. The final snapshot flush
// completes before Run returns.
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.flusher.Run(ctx)
	}()

	err := a.server.Run(ctx)
	wg.Wait()
	return err
}

// Close releases resources.
func (a *App) Close() {
	a.publisher.Close()
}
