package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariefcatur/go-restaurant-pos.git/internal/config"
	kafkax "github.com/ariefcatur/go-restaurant-pos.git/internal/kafka"
	"github.com/ariefcatur/go-restaurant-pos.git/internal/kitchenfeed"
	"github.com/ariefcatur/go-restaurant-pos.git/internal/orders"
	"github.com/ariefcatur/go-restaurant-pos.git/internal/redisx"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &kitchenfeed.Service{
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-kitchenfeed",
	}

	// one consumer per topic: synced orders become tickets, status changes retire them
	cSynced := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.FeedGroup, orders.TopicOrderSynced, cfg.FeedWorkers)
	cStatus := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.FeedGroup, orders.TopicKitchenStatus, cfg.FeedWorkers)

	go func() {
		log.Printf("kitchenfeed consumer started: group=%s topic=%s workers=%d", cfg.FeedGroup, orders.TopicOrderSynced, cfg.FeedWorkers)
		if err := cSynced.Start(ctx, svc.HandleOrderSynced); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()
	go func() {
		log.Printf("kitchenfeed consumer started: group=%s topic=%s workers=%d", cfg.FeedGroup, orders.TopicKitchenStatus, cfg.FeedWorkers)
		if err := cStatus.Start(ctx, svc.HandleKitchenStatus); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Println("shutting down consumers...")
	cancel()
}
