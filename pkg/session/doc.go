// Package session stores server-side session values behind a cookie token.
//
// A Session carries a stable ID and a Token. The cookie holds only the
// token, which is rotated on privilege changes while the ID stays the same.
//
// Three stores are provided:
//
//	session.NewMemoryStore()                       // development and tests
//	session.NewRedisStore(client, session.RedisConfig{})
//	session.NewPostgresStore(pool)                 // after session.Migrate
//
// Values are encoded as JSON by the Redis and Postgres stores, so numbers
// come back as json.Number. Value and ValueOr convert them to the requested
// numeric type:
//
//	visits := session.ValueOr(sess, "visits", 0)
package session
