// Package health serves liveness and readiness probes.
//
//	r.Get("/health/live", health.Liveness())
//	r.Get("/health/ready", health.Readiness(health.Checks{
//		"postgres": db.Healthcheck(pool),
//		"redis":    redis.Healthcheck(client),
//	}))
//
// Checks run concurrently under a shared timeout. Responses are plain text
// unless the client asks for JSON with an Accept header or ?format=json.
package health
