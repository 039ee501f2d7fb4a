package app

import (
	"context"
	"fmt"

	"github.com/coursepath/coursepath-backend/internal/clients/redis"
	"github.com/coursepath/coursepath-backend/internal/clients/youtube"
	"github.com/coursepath/coursepath-backend/internal/logger"
)

type Clients struct {
	YouTube youtube.Client
	Cache   redis.Cache
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")
	yt, err := youtube.NewClient(context.Background(), log)
	if err != nil {
		return Clients{}, fmt.Errorf("init youtube client: %w", err)
	}
	// The cache is an optimization; the app runs without redis.
	cache, err := redis.NewCache(log)
	if err != nil {
		log.Warn("Redis unavailable, dashboard caching disabled", "error", err)
		cache = nil
	}
	return Clients{YouTube: yt, Cache: cache}, nil
}
