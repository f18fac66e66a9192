package services

import (
	"context"
	"log"
	"sync"
	"time"

	"cloud.google.com/go/firestore"

	"stocktracker/internal/config"
	"stocktracker/internal/models"
)

// Generic in-memory cache with type safety
type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]*cacheItem[V]
	ttl   time.Duration
}

type cacheItem[V any] struct {
	value      V
	expiration time.Time
}

func NewCache[K comparable, V any](ttl time.Duration) *Cache[K, V] {
	c := &Cache[K, V]{
		items: make(map[K]*cacheItem[V]),
		ttl:   ttl,
	}

	// Start cleanup goroutine
	go c.cleanup()

	return c
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.items[key]
	if !exists || time.Now().After(item.expiration) {
		var zero V
		return zero, false
	}

	return item.value, true
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &cacheItem[V]{
		value:      value,
		expiration: time.Now().Add(c.ttl),
	}
}

func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

// Purge drops every entry, expired or not.
func (c *Cache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*cacheItem[V])
}

func (c *Cache[K, V]) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, item := range c.items {
			if now.After(item.expiration) {
				delete(c.items, key)
			}
		}
		c.mu.Unlock()
	}
}

// CacheService layers an in-memory TTL cache over an optional Firestore tier.
// Quote and fundamentals documents survive restarts in Firestore; historical
// series are memory-only since they are cheap to re-fetch.
type CacheService struct {
	config          *config.Config
	firestoreClient *firestore.Client
	quoteCache      *Cache[string, *models.Quote]
	historyCache    *Cache[string, []models.Candle]
	fundCache       *Cache[string, *models.Fundamentals]
}

func NewCacheService(cfg *config.Config) *CacheService {
	var client *firestore.Client
	if cfg.FirestoreProject != "" {
		var err error
		client, err = firestore.NewClient(context.Background(), cfg.FirestoreProject)
		if err != nil {
			// Log error but don't fail - fallback to in-memory only
			log.Printf("[WARN] failed to initialize Firestore: %v", err)
			client = nil
		}
	}

	return &CacheService{
		config:          cfg,
		firestoreClient: client,
		quoteCache:      NewCache[string, *models.Quote](cfg.QuoteTTL),
		historyCache:    NewCache[string, []models.Candle](cfg.HistoryTTL),
		fundCache:       NewCache[string, *models.Fundamentals](cfg.FundamentalsTTL),
	}
}

// GetQuote retrieves a quote from cache
func (s *CacheService) GetQuote(ctx context.Context, symbol string) (*models.Quote, bool) {
	if quote, found := s.quoteCache.Get(symbol); found {
		return quote, true
	}

	if s.firestoreClient != nil {
		doc, err := s.firestoreClient.Collection("quotes").Doc(symbol).Get(ctx)
		if err == nil {
			var quote models.Quote
			if err := doc.DataTo(&quote); err == nil {
				if time.Since(quote.AsOf) < s.config.QuoteTTL {
					s.quoteCache.Set(symbol, &quote)
					return &quote, true
				}
			}
		}
	}

	return nil, false
}

// SetQuote stores a quote in cache
func (s *CacheService) SetQuote(ctx context.Context, symbol string, quote *models.Quote) error {
	s.quoteCache.Set(symbol, quote)

	if s.firestoreClient != nil {
		_, err := s.firestoreClient.Collection("quotes").Doc(symbol).Set(ctx, quote)
		return err
	}

	return nil
}

// GetHistory retrieves a historical series from cache
func (s *CacheService) GetHistory(symbol, rng string) ([]models.Candle, bool) {
	return s.historyCache.Get(symbol + ":" + rng)
}

// SetHistory stores a historical series in cache
func (s *CacheService) SetHistory(symbol, rng string, candles []models.Candle) {
	s.historyCache.Set(symbol+":"+rng, candles)
}

// GetFundamentals retrieves fundamentals from cache
func (s *CacheService) GetFundamentals(ctx context.Context, symbol string) (*models.Fundamentals, bool) {
	if fund, found := s.fundCache.Get(symbol); found {
		return fund, true
	}

	if s.firestoreClient != nil {
		doc, err := s.firestoreClient.Collection("fundamentals").Doc(symbol).Get(ctx)
		if err == nil {
			var fund models.Fundamentals
			if err := doc.DataTo(&fund); err == nil {
				if time.Since(fund.FetchedAt) < s.config.FundamentalsTTL {
					s.fundCache.Set(symbol, &fund)
					return &fund, true
				}
			}
		}
	}

	return nil, false
}

// SetFundamentals stores fundamentals in cache
func (s *CacheService) SetFundamentals(ctx context.Context, symbol string, fund *models.Fundamentals) error {
	s.fundCache.Set(symbol, fund)

	if s.firestoreClient != nil {
		_, err := s.firestoreClient.Collection("fundamentals").Doc(symbol).Set(ctx, fund)
		return err
	}

	return nil
}

// Clear drops every in-memory entry. The Firestore tier is left alone; its
// documents age out through the TTL checks above.
func (s *CacheService) Clear() {
	s.quoteCache.Purge()
	s.historyCache.Purge()
	s.fundCache.Purge()
}

// Close closes the Firestore client
func (s *CacheService) Close() error {
	if s.firestoreClient != nil {
		return s.firestoreClient.Close()
	}
	return nil
}
