package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"reservas/config"
	"reservas/services/api"
	"reservas/services/auth"
	"reservas/services/cache"
	"reservas/services/notification"
	"reservas/services/reservation"
	"reservas/services/resource"
	"reservas/services/user"
	"reservas/utils"

	"go.uber.org/zap"
)

const usage = `usage: reservas <command> [flags]

commands:
  ping                       check the API answers
  login --email --password   log in and print the token to export as AUTH_TOKEN
  logout                     revoke AUTH_TOKEN
  me                         show the current user
  resources [--type --available]
  types                      list resource types
  availability --resource --start --end
  mine                       list your reservations
  check --resource --start --end
  book --resource --start --end [--comments]
  cancel --id
  history --id
  stats [--from --to | --days]  reservation statistics (admin)
  users                      list users (admin)
  notifications [--read ID | --read-all]
  stub                       run the stub API server

dates are YYYY-MM-DD HH:mm in the local time zone`

// app wires the API client and services used by the CLI commands.
type app struct {
	logger        *zap.Logger
	client        *api.Client
	session       *auth.Session
	cache         cache.QueryCache
	auth          *auth.Service
	reservations  *reservation.Service
	resources     *resource.Service
	users         *user.Service
	notifications *notification.Service
}

func newApp(logger *zap.Logger) *app {
	session := auth.NewSession()
	if config.AppConfig.AuthToken != "" {
		session = auth.NewSessionWithToken(config.AppConfig.AuthToken)
	}

	client := api.NewClient(config.AppConfig.APIURL, session, api.Options{
		Timeout:        config.AppConfig.APITimeout,
		RequestsPerSec: config.AppConfig.APIRequestsPerSec,
		Logger:         logger,
	})
	queryCache := cache.NewScoped(newQueryCache(logger), session.Scope)

	return &app{
		logger:        logger,
		client:        client,
		session:       session,
		cache:         queryCache,
		auth:          auth.NewService(client, session, logger),
		reservations:  reservation.NewService(client, queryCache, logger),
		resources:     resource.NewService(client, queryCache, logger),
		users:         user.NewService(client, logger),
		notifications: notification.NewService(client, queryCache, logger),
	}
}

func newQueryCache(logger *zap.Logger) cache.QueryCache {
	ttl := config.AppConfig.CacheTTL
	switch config.AppConfig.CacheDriver {
	case "redis":
		client, err := utils.GetCacheClient()
		if err != nil {
			logger.Warn("Redis cache unavailable, using memory cache", zap.Error(err))
			return cache.NewMemoryQueryCache(ttl)
		}
		return cache.NewRedisQueryCache(client, ttl)
	case "none":
		return cache.Noop{}
	default:
		return cache.NewMemoryQueryCache(ttl)
	}
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	cmd, args := os.Args[1], os.Args[2:]
	if cmd == "stub" {
		runStub(logger)
		return
	}

	a := newApp(logger)
	defer a.client.Close()

	timeout := 2 * config.AppConfig.APITimeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	commands := map[string]func(context.Context, []string) error{
		"ping":          a.pingCmd,
		"login":         a.loginCmd,
		"logout":        a.logoutCmd,
		"me":            a.meCmd,
		"resources":     a.resourcesCmd,
		"types":         a.typesCmd,
		"availability":  a.availabilityCmd,
		"mine":          a.mineCmd,
		"check":         a.checkCmd,
		"book":          a.bookCmd,
		"cancel":        a.cancelCmd,
		"history":       a.historyCmd,
		"stats":         a.statsCmd,
		"users":         a.usersCmd,
		"notifications": a.notificationsCmd,
	}

	run, ok := commands[cmd]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n%s\n", cmd, usage)
		os.Exit(2)
	}
	if err := run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", describe(err))
		os.Exit(1)
	}
}
