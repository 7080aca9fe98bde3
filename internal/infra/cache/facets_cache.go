package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	domproduct "example.com/storefront/internal/domain/product"
	"example.com/storefront/internal/domain/pricing"
)

const productFacetsKey = "storefront:facets:products:v1"

type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// FacetsCache keeps the unfiltered product facets in Redis. A cache built
// without a reachable server is a no-op.
type FacetsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFacetsCache connects to Redis. When the server does not answer the cache
// is returned disabled along with the ping error, so callers may log it and
// carry on.
func NewFacetsCache(ctx context.Context, opts Options) (*FacetsCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return &FacetsCache{ttl: opts.TTL}, err
	}
	return &FacetsCache{client: client, ttl: opts.TTL}, nil
}

func (c *FacetsCache) Enabled() bool { return c != nil && c.client != nil }

type facetsPayload struct {
	Brands []string      `json:"brands"`
	Forms  []string      `json:"forms"`
	Price  pricing.Range `json:"priceRange"`
}

func (c *FacetsCache) GetProductFacets(ctx context.Context) (domproduct.Facets, bool, error) {
	if !c.Enabled() {
		return domproduct.Facets{}, false, nil
	}
	data, err := c.client.Get(ctx, productFacetsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return domproduct.Facets{}, false, nil
	}
	if err != nil {
		return domproduct.Facets{}, false, err
	}
	f, err := decodeFacets(data)
	if err != nil {
		return domproduct.Facets{}, false, err
	}
	return f, true, nil
}

func (c *FacetsCache) SetProductFacets(ctx context.Context, f domproduct.Facets) error {
	if !c.Enabled() {
		return nil
	}
	data, err := encodeFacets(f)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, productFacetsKey, data, c.ttl).Err()
}

func (c *FacetsCache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

func encodeFacets(f domproduct.Facets) ([]byte, error) {
	return json.Marshal(facetsPayload{Brands: f.Brands, Forms: f.Forms, Price: f.PriceRange})
}

func decodeFacets(data []byte) (domproduct.Facets, error) {
	var p facetsPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return domproduct.Facets{}, err
	}
	return domproduct.Facets{Brands: p.Brands, Forms: p.Forms, PriceRange: p.Price}, nil
}
