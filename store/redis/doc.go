// Package redis implements store.Store on Redis. Each record is a Hash at
// yuva:{collection}:{key} and every field value is indexed in a Set of
// record keys at yuva:{collection}:idx:{field}:{value}, so a subject's
// records are found without scanning. Batch deletes run as one MULTI/EXEC
// under WATCH, so a concurrent write to a record aborts the whole batch.
//
// The caller owns the Redis client lifecycle -- the store never closes it:
//
//	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	s := redisstore.New(client)
//	if err := s.Ping(ctx); err != nil { ... }
package redis
