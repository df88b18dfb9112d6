package kitchenfeed

import (
	"context"
	"encoding/json"
	"fmt"

	kafkax "github.com/ariefcatur/go-restaurant-pos.git/internal/kafka"
	"github.com/ariefcatur/go-restaurant-pos.git/internal/orders"
	"github.com/ariefcatur/go-restaurant-pos.git/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

// Service keeps the kitchen display feed warm: freshly synced orders become
// redis tickets, status changes update or retire them. The display reads
// redis directly instead of hammering postgres.
type Service struct {
	Redis       *redis.Client
	ServiceName string
}

// HandleOrderSynced is the consumer handler for order.synced.
func (s *Service) HandleOrderSynced(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderSynced {
		return nil
	} // ignore

	// dedup via redis (event_id); re-delivered events must not refresh tickets twice
	dkey := fmt.Sprintf(redisx.KeyDedup, "kitchenfeed", env.EventID)
	exists, _ := redisx.Exists(ctx, s.Redis, dkey)
	if exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafkax.UnwrapPayload[orders.OrderSyncedPayload](env.Payload)
	if err != nil {
		return err
	}

	tkey := fmt.Sprintf(redisx.KeyKitchenTicket, p.OrderID)
	return s.Redis.Set(ctx, tkey, kafkax.MustMarshal(p), redisx.TTLKitchenTicket).Err()
}

// HandleKitchenStatus is the consumer handler for kitchen.status.changed.
func (s *Service) HandleKitchenStatus(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventKitchenStatusChanged {
		return nil
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, "kitchenfeed", env.EventID)
	exists, _ := redisx.Exists(ctx, s.Redis, dkey)
	if exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafkax.UnwrapPayload[orders.KitchenStatusPayload](env.Payload)
	if err != nil {
		return err
	}

	skey := fmt.Sprintf(redisx.KeyKitchenStatus, p.OrderID)
	if err := s.Redis.Set(ctx, skey, string(p.NewStatus), redisx.TTLStatusCache).Err(); err != nil {
		return err
	}
	if p.NewStatus == orders.KitchenServed {
		tkey := fmt.Sprintf(redisx.KeyKitchenTicket, p.OrderID)
		return s.Redis.Del(ctx, tkey).Err()
	}
	return nil
}
