package swlredis

import "github.com/go-redis/redis/v8"

// redisAllowScript runs one admission check for the sliding window log on a
// Redis sorted set, atomically: evict aged entries, check capacity, record.
// KEYS[1]: The member set for one tenant (e.g. "tenant_rate_limit:42")
// ARGV[1]: Current timestamp in milliseconds
// ARGV[2]: Window size in milliseconds
// ARGV[3]: The maximum allowed requests inside the window
// ARGV[4]: Unique member for this request (scores collide when two requests share a millisecond)
// Returns 1 if the request is admitted, 0 if rejected.
var redisAllowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)

if redis.call('ZCARD', key) < limit then
    redis.call('ZADD', key, now, member)
    redis.call('PEXPIRE', key, window)
    return 1
end

return 0
`)
