package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Ahmed-Mansy/shoe-zone-online/models"
)

// ProductCache caches individual products by id. Writes through the catalog
// must call Invalidate so stale stock or prices never outlive a mutation.
type ProductCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewProductCache(rdb *redis.Client) *ProductCache {
	return &ProductCache{redis: rdb, ttl: 5 * time.Minute}
}

func productKey(id uint) string {
	return fmt.Sprintf("product:%d", id)
}

// Get returns the cached product or nil on a miss. Redis failures are logged
// and reported as misses.
func (c *ProductCache) Get(ctx context.Context, id uint) *models.Product {
	data, err := c.redis.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("redis error (continuing with DB): %v", err)
		}
		return nil
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		log.Printf("failed to unmarshal cached product (continuing with DB): %v", err)
		return nil
	}
	return &product
}

func (c *ProductCache) Set(ctx context.Context, product *models.Product) {
	data, err := json.Marshal(product)
	if err != nil {
		log.Printf("failed to marshal product for cache: %v", err)
		return
	}
	if err := c.redis.Set(ctx, productKey(product.ID), data, c.ttl).Err(); err != nil {
		log.Printf("failed to cache product %d: %v", product.ID, err)
	}
}

func (c *ProductCache) Invalidate(ctx context.Context, id uint) {
	if err := c.redis.Del(ctx, productKey(id)).Err(); err != nil {
		log.Printf("failed to invalidate product cache %d: %v", id, err)
	}
}
