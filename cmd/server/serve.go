package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"storefront-api/internal/auth"
	"storefront-api/internal/config"
	httpapi "storefront-api/internal/controllers/http"
	"storefront-api/internal/infra/database"
	"storefront-api/internal/infra/rabbitmq"
	rediscache "storefront-api/internal/infra/redis"
	"storefront-api/internal/repository/gormstore"
	"storefront-api/internal/services"
)

var (
	warmCache       int
	shutdownTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func init() {
	serveCmd.Flags().IntVar(&warmCache, "warm-cache", 20, "Number of products to preload into the cache at startup (0 disables)")
	serveCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "Grace period for in-flight requests on shutdown")
}

func serve(ctx context.Context, cfg *config.Config) error {
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	tx := gormstore.NewTransactor(db)
	users := gormstore.NewUserRepository(db)
	categories := gormstore.NewCategoryRepository(db)
	products := gormstore.NewProductRepository(db)
	carts := gormstore.NewCartRepository(db)
	orders := gormstore.NewOrderRepository(db)

	var sink rabbitmq.PublisherInterface = rabbitmq.LogPublisher{}
	if cfg.RabbitMQURL != "" {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			return err
		}
		defer pub.Close()
		sink = pub
	} else {
		log.Println("RABBITMQ_URL not set, order events are only logged")
	}
	events := rabbitmq.NewAsyncPublisher(sink, cfg.EventBuffer)
	defer events.Close()

	authSvc := services.NewAuthService(users, auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL, cfg.JWTIssuer))
	catalogSvc := services.NewCatalogService(tx, categories, products, carts)
	cartSvc := services.NewCartService(carts, products)
	orderSvc := services.NewOrderService(tx, orders, carts, products, events)

	cached := false
	if addr := cfg.RedisAddr(); addr != "" {
		rdb := rediscache.NewClient(addr, cfg.RedisPassword)
		defer rdb.Close()
		if err := rediscache.Ping(ctx, rdb); err != nil {
			log.Printf("redis %s unreachable, running without cache and token revocation: %v", addr, err)
		} else {
			cache := rediscache.NewProductCache(rdb, cfg.ProductCacheTTL)
			catalogSvc.SetProductCache(cache)
			orderSvc.SetProductCache(cache)
			authSvc.SetDenylist(rediscache.NewTokenDenylist(rdb))
			cached = true
		}
	}

	h := httpapi.NewHandler(authSvc, catalogSvc, cartSvc, orderSvc, pinger(db))
	gin.SetMode(cfg.GinMode)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpapi.NewRouter(h, cfg.CORSOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Starting storefront api on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if cached && warmCache > 0 {
		g.Go(func() error {
			n, err := catalogSvc.WarmProductCache(gctx, warmCache)
			if err != nil {
				log.Printf("Failed to warm up cache: %v", err)
				return nil
			}
			log.Printf("Cache warmed up with %d products", n)
			return nil
		})
	}
	return g.Wait()
}

func pinger(db *gorm.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}
}
