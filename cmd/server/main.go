// Command server runs the JANUX authentication gateway.
//
// Startup is strictly sequential: configuration, secret material, the
// selected principal store, the revocation cache and the bootstrap seeder
// must all succeed before the HTTP listener accepts a single request.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/fox-techniques/janux-auth-gateway/internal/api"
	"github.com/fox-techniques/janux-auth-gateway/internal/api/handler"
	"github.com/fox-techniques/janux-auth-gateway/internal/core/ports"
	"github.com/fox-techniques/janux-auth-gateway/internal/core/service"
	"github.com/fox-techniques/janux-auth-gateway/internal/infrastructure/config"
	mongodb "github.com/fox-techniques/janux-auth-gateway/internal/infrastructure/db/mongo"
	"github.com/fox-techniques/janux-auth-gateway/internal/infrastructure/db/postgres"
	redisdb "github.com/fox-techniques/janux-auth-gateway/internal/infrastructure/db/redis"
	"github.com/fox-techniques/janux-auth-gateway/internal/infrastructure/secrets"
	"github.com/fox-techniques/janux-auth-gateway/internal/pkg/password"
	"github.com/fox-techniques/janux-auth-gateway/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fallback := logger.Init(logger.Options{})
		fallback.Fatal().Err(err).Msg("configuration failed")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	resolver := secrets.NewResolver()
	material, err := secrets.LoadMaterial(resolver, cfg.Token.Algorithm, cfg.Token.AllowedAlgorithms)
	if err != nil {
		log.Fatal().Err(err).Msg("secret material resolution failed")
	}

	pings := make(map[string]handler.PingFunc)

	repo, closeStore, err := buildStore(ctx, cfg, resolver, pings)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Backend).Msg("principal store initialisation failed")
	}
	defer closeStore()

	redisClient, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer redisClient.Close()
	pings["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }

	registry := redisdb.NewRevocationRegistry(redisClient)
	vault := password.NewVault()
	tokens := service.NewTokenService(material, registry,
		cfg.Token.Issuer, cfg.Token.Audience, cfg.TokenTTL(), cfg.Token.RevocationFailOpen, log)
	authService := service.NewAuthService(repo, vault, tokens, log)

	if err := seed(ctx, repo, vault, resolver, log); err != nil {
		log.Fatal().Err(err).Msg("bootstrap seeding failed")
	}

	e := api.NewRouter(api.Deps{
		AuthService: authService,
		Tokens:      tokens,
		Pings:       pings,
		Log:         log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("backend", cfg.Backend).Msg("gateway listening")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// buildStore connects the backend selected by AUTH_DB_BACKEND and guarantees
// its uniqueness constraint exists before anything can insert.
func buildStore(ctx context.Context, cfg *config.Config, resolver *secrets.Resolver, pings map[string]handler.PingFunc) (ports.PrincipalRepository, func(), error) {
	switch cfg.Backend {
	case config.BackendMongo:
		uri, err := resolver.Resolve(secrets.NameMongoURI)
		if err != nil {
			return nil, nil, err
		}
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: uri, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		repo := mongodb.NewPrincipalRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
		pings["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		closer := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}
		return repo, closer, nil

	case config.BackendPostgres:
		dsn, err := resolver.Resolve(secrets.NamePostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		pool, err := postgres.Connect(ctx, postgres.Config{DSN: dsn})
		if err != nil {
			return nil, nil, err
		}
		repo := postgres.NewPrincipalRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		pings["postgres"] = pool.Ping
		return repo, pool.Close, nil
	}

	// config.Load already rejected anything else.
	return nil, nil, errors.New("unknown backend " + cfg.Backend)
}

// seed resolves the bootstrap identities and runs the seeder. The
// super-admin is mandatory; the tester is seeded only when configured.
func seed(ctx context.Context, repo ports.PrincipalRepository, vault *password.Vault, resolver *secrets.Resolver, log zerolog.Logger) error {
	email, err := resolver.Resolve(secrets.NameSuperAdminEmail)
	if err != nil {
		return err
	}
	pw, err := resolver.Resolve(secrets.NameSuperAdminPassword)
	if err != nil {
		return err
	}
	fullName, _ := resolver.Lookup(secrets.NameSuperAdminFullName)
	superAdmin := service.Identity{Email: email, Password: pw, FullName: fullName}

	var tester *service.Identity
	if email, ok := resolver.Lookup(secrets.NameTesterEmail); ok {
		pw, _ := resolver.Lookup(secrets.NameTesterPassword)
		fullName, _ := resolver.Lookup(secrets.NameTesterFullName)
		tester = &service.Identity{Email: email, Password: pw, FullName: fullName}
	}

	return service.NewSeeder(repo, vault, log).Seed(ctx, superAdmin, tester)
}
