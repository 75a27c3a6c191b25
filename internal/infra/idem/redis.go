package idem

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// TTL cobre com folga a janela de retry do processador
const eventTTL = 72 * time.Hour

const keyPrefix = "webhook:event:"

// RedisStore marca IDs de evento já processados. SETNX atômico: a
// primeira chamada marca e devolve seen=false, replays devolvem true.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Seen(ctx context.Context, eventID string) (bool, error) {
	set, err := s.client.SetNX(ctx, keyPrefix+eventID, 1, eventTTL).Result()
	if err != nil {
		return false, err
	}
	return !set, nil
}

// Forget libera o ID depois de uma aplicação que falhou; o retry do
// processador volta a passar pela guarda
func (s *RedisStore) Forget(ctx context.Context, eventID string) error {
	return s.client.Del(ctx, keyPrefix+eventID).Err()
}
