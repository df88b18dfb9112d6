package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-restaurant-pos.git/internal/redisx"
	"github.com/redis/go-redis/v9"
)

type RedisBackend struct{ RDB *redis.Client }

func (b *RedisBackend) Put(ctx context.Context, tx Transaction) error {
	body, err := json.Marshal(tx)
	if err != nil {
		return err
	}
	key := fmt.Sprintf(redisx.KeyMomoTx, tx.ID)
	return b.RDB.Set(ctx, key, body, redisx.TTLMomoTx).Err()
}

func (b *RedisBackend) Get(ctx context.Context, id string) (Transaction, bool, error) {
	key := fmt.Sprintf(redisx.KeyMomoTx, id)
	raw, err := b.RDB.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return Transaction{}, false, nil
	}
	if err != nil {
		return Transaction{}, false, err
	}
	var tx Transaction
	if err := json.Unmarshal([]byte(raw), &tx); err != nil {
		return Transaction{}, false, err
	}
	return tx, true, nil
}
