// Package cache provides a Redis-backed response cache for the
// slow-changing CDO catalog endpoints (stations, datasets, datatypes,
// locations, categories).
//
// CDO sends no cache headers, so freshness is purely client-side: every
// entry is stored with a caller-configured TTL and Redis evicts it when
// the TTL lapses. The data endpoint is never cached by the client;
// time-bounded observation queries see negligible reuse.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	manager := cache.NewManager(redisClient)
//
//	key := cache.Key{
//		Endpoint: "stations",
//		Query:    url.Values{"locationid": []string{"FIPS:27"}},
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if err == cache.ErrCacheMiss {
//		// fetch from the API, then:
//		// manager.Set(ctx, key, cache.NewEntry(body, 200, ttl))
//	}
//
// # Metrics
//
// The cache manager exports Prometheus metrics:
//
//   - cdo_cache_hits_total{layer="redis"} - Cache hits
//   - cdo_cache_misses_total - Cache misses
//   - cdo_cache_size_bytes{layer="redis"} - Cache size
//   - cdo_cache_errors_total{operation} - Cache operation errors
package cache
