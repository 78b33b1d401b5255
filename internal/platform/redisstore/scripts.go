package redisstore

import "github.com/redis/go-redis/v9"

// Script status codes returned in the first array slot.
const (
	statusUserMissing = -1
	statusDuplicate   = -2
)

// KEYS[1] user hash. ARGV: field/value pairs.
var createScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], unpack(ARGV))
return 1
`)

// KEYS[1] user hash. ARGV[1] amount.
var debitScript = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'credits_remaining')
if not cur then
	return {-1}
end
local left = tonumber(cur) - tonumber(ARGV[1])
if left < 0 then
	left = 0
end
redis.call('HSET', KEYS[1], 'credits_remaining', tostring(left))
return {left, tonumber(redis.call('HGET', KEYS[1], 'total_credits'))}
`)

// KEYS[1] record id key, KEYS[2] history list. ARGV[1] encoded record.
var appendScript = redis.NewScript(`
if not redis.call('SET', KEYS[1], '1', 'NX') then
	return -2
end
redis.call('LPUSH', KEYS[2], ARGV[1])
return 1
`)

// KEYS[1] user hash, KEYS[2] record id key, KEYS[3] history list.
// ARGV[1] amount, ARGV[2] encoded record.
var recordScript = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'credits_remaining')
if not cur then
	return {-1}
end
if not redis.call('SET', KEYS[2], '1', 'NX') then
	return {-2}
end
redis.call('LPUSH', KEYS[3], ARGV[2])
local left = tonumber(cur) - tonumber(ARGV[1])
if left < 0 then
	left = 0
end
redis.call('HSET', KEYS[1], 'credits_remaining', tostring(left))
return {left, tonumber(redis.call('HGET', KEYS[1], 'total_credits'))}
`)
