// Package redis opens go-redis clients from environment configuration.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//	client, err := redis.Open(ctx, cfg)
//
// Open pings the server and retries with a growing delay, so applications
// started alongside Redis do not fail on the first refused connection.
// Healthcheck and Shutdown plug the client into the app's readiness checks
// and shutdown hooks. The client backs pkg/cache and the Redis session store.
package redis
