// Package domain contains the core business entities, value objects, and
// domain logic of StoreBoost: generation requests and results, the history
// records built from them, and the session user whose credits pay for them.
// It is independent of any specific infrastructure or delivery mechanism.
package domain
