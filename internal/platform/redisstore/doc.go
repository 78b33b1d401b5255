// Package redisstore implements the session and history stores on Redis.
//
// A session user is a hash at storeboost:user:<id>. History is a list per
// user at storeboost:history:<id>, newest first, holding JSON-encoded
// records. Record IDs are reserved in storeboost:record:<id> so they stay
// unique across users. Every mutation runs as a Lua script, so a debit or
// an append followed by a debit is atomic on the server.
package redisstore
