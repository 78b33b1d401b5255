// Package store defines the persistence boundaries of StoreBoost: the session
// credit store and the append-only generation history. Implementations live
// under internal/platform (memory, filestore, postgres, redisstore) and share
// the error values declared here.
package store
