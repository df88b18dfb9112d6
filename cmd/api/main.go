package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-restaurant-pos.git/internal/auth"
	"github.com/ariefcatur/go-restaurant-pos.git/internal/catalog"
	"github.com/ariefcatur/go-restaurant-pos.git/internal/config"
	"github.com/ariefcatur/go-restaurant-pos.git/internal/httpx"
	kafkax "github.com/ariefcatur/go-restaurant-pos.git/internal/kafka"
	"github.com/ariefcatur/go-restaurant-pos.git/internal/ledger"
	"github.com/ariefcatur/go-restaurant-pos.git/internal/orders"
	"github.com/ariefcatur/go-restaurant-pos.git/internal/payments"
	"github.com/ariefcatur/go-restaurant-pos.git/internal/postgres"
	"github.com/ariefcatur/go-restaurant-pos.git/internal/redisx"
	"github.com/ariefcatur/go-restaurant-pos.git/internal/shifts"
	"github.com/ariefcatur/go-restaurant-pos.git/internal/syncx"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers
	pSynced := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderSynced, 1024)
	pSynced.Start(ctx)
	pKitchen := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicKitchenStatus, 1024)
	pKitchen.Start(ctx)

	// Repos & services
	userRepo := &auth.Repo{DB: db}
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	catalogRepo := &catalog.Repo{DB: db}
	ledg := &ledger.Ledger{DB: db}
	orderRepo := &orders.Repo{DB: db}
	shiftRepo := &shifts.Repo{DB: db}
	momo := payments.NewStore(&payments.RedisBackend{RDB: rdb}, 5*time.Second)
	defer momo.Close()

	reconciler := &syncx.Reconciler{
		Store:    syncx.NewPGStore(db),
		Producer: pSynced,
		Service:  cfg.ServiceName,
	}

	// Router & handlers
	router := httpx.NewRouter()
	mw := &httpx.AuthMiddleware{Issuer: issuer, Users: userRepo}

	(&httpx.AuthHandler{Users: userRepo, Issuer: issuer}).Register(router, mw)
	(&httpx.UsersHandler{Users: userRepo}).Register(router, mw)
	(&httpx.ProductsHandler{Catalog: catalogRepo, Ledger: ledg}).Register(router, mw)
	(&httpx.SyncHandler{Reconciler: reconciler}).Register(router)
	(&httpx.KitchenHandler{Orders: orderRepo, Redis: rdb, Producer: pKitchen, Service: cfg.ServiceName}).Register(router, mw)
	(&httpx.ShiftsHandler{Shifts: shiftRepo}).Register(router, mw)
	(&httpx.MomoHandler{Store: momo}).Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	pSynced.Close() // close inbox -> flush & close writer
	pKitchen.Close()
	pSynced.WaitClosed() // drain
	pKitchen.WaitClosed()
}
