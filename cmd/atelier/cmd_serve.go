package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"atelier/internal/catalog"
	"atelier/internal/config"
	"atelier/internal/content"
	apphttp "atelier/internal/http"
	applog "atelier/internal/log"
	"atelier/internal/repos"
)

const shutdownTimeout = 10 * time.Second

var (
	servePort    string
	serveDSN     string
	serveCatalog string
	serveWatch   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storefront web server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

// serveConfig applies the command line flags on top of the environment.
func serveConfig(cmd *cobra.Command) config.Config {
	cfg := config.Load()
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port = servePort
	}
	if flags.Changed("db") {
		cfg.DBDSN = serveDSN
	}
	if flags.Changed("catalog") {
		cfg.CatalogFile = serveCatalog
	}
	if flags.Changed("watch") {
		cfg.WatchCatalog = serveWatch
	}
	return cfg
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := serveConfig(cmd)

	logger, err := applog.Init(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	cfg.Log()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return err
	}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()
	if err := repos.SyncCatalog(ctx, db, cat.Products, cat.Collections); err != nil {
		return fmt.Errorf("sync catalog: %w", err)
	}
	pages, err := content.Load()
	if err != nil {
		return fmt.Errorf("load pages: %w", err)
	}

	store := catalog.NewStore(cat)
	app := apphttp.New(db, store, pages, cfg)

	var watcher *catalog.Watcher
	if cfg.WatchCatalog {
		if cfg.CatalogFile == "" {
			logger.Warn("catalog.watch.skip", zap.String("reason", "no catalog file"))
		} else {
			watcher = catalog.NewWatcher(cfg.CatalogFile, func(c *catalog.Catalog) error {
				if err := repos.SyncCatalog(ctx, db, c.Products, c.Collections); err != nil {
					return err
				}
				store.Swap(c)
				return nil
			})
		}
	}

	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	logger.Info("server.listen", zap.String("addr", ln.Addr().String()))
	return serve(ctx, app, ln, watcher)
}

// serve runs the app on ln (and the catalog watcher, when set) until ctx
// is cancelled, then drains in-flight requests.
func serve(ctx context.Context, app *fiber.App, ln net.Listener, watcher *catalog.Watcher) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Listener(ln)
	})
	if watcher != nil {
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		applog.L().Info("server.shutdown")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})
	return g.Wait()
}
