package store

import (
    "context"
    "encoding/json"
    "errors"
    "time"

    "github.com/redis/go-redis/v9"

    "github.com/cinephoria/cinephoria-go/internal/model"
)

// draftTTL bounds how long an abandoned draft lingers on a shared
// terminal before redis drops it.
const draftTTL = 24 * time.Hour

// RedisDraftStore keeps the draft slot in redis, keyed per visitor.
// It exists for kiosk installs where several terminals share one
// visitor session and a local file would not travel between them.
type RedisDraftStore struct {
    client  *redis.Client
    key     string
    timeout time.Duration
}

// NewRedisDraftStore returns a store scoped to the given visitor key.
func NewRedisDraftStore(client *redis.Client, visitorKey string) *RedisDraftStore {
    return &RedisDraftStore{
        client:  client,
        key:     "cinephoria:draft:" + visitorKey,
        timeout: 2 * time.Second,
    }
}

func (s *RedisDraftStore) Save(draft model.ReservationDraft) error {
    b, err := json.Marshal(draft)
    if err != nil {
        return err
    }
    ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
    defer cancel()
    return s.client.Set(ctx, s.key, b, draftTTL).Err()
}

func (s *RedisDraftStore) Load() (*model.ReservationDraft, error) {
    ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
    defer cancel()
    b, err := s.client.Get(ctx, s.key).Bytes()
    if errors.Is(err, redis.Nil) {
        return nil, nil
    }
    if err != nil {
        return nil, err
    }
    var draft model.ReservationDraft
    if err := json.Unmarshal(b, &draft); err != nil {
        return nil, nil
    }
    return &draft, nil
}

func (s *RedisDraftStore) Clear() error {
    ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
    defer cancel()
    return s.client.Del(ctx, s.key).Err()
}
