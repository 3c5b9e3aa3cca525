package util

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ariebrainware/neuro-clinic/config"
	"github.com/redis/go-redis/v9"
)

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

func doctorSessionsKey(doctorID string) string {
	return fmt.Sprintf("doctor_sessions:%s", doctorID)
}

// StoreDoctorSession records token as an active session for doctorID. The session
// key expires with the token; the per-doctor set is kept until cleaned up explicitly.
// It is a no-op when Redis is not configured.
func StoreDoctorSession(ctx context.Context, doctorID, token string, ttl time.Duration) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	pipe := rdb.TxPipeline()
	pipe.Set(ctx, sessionKey(token), doctorID, ttl)
	pipe.SAdd(ctx, doctorSessionsKey(doctorID), token)
	_, err := pipe.Exec(ctx)
	return err
}

// SessionActive reports whether token is still an active session. Without Redis
// every signature-valid token is treated as active.
func SessionActive(ctx context.Context, token string) (bool, error) {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return true, nil
	}
	err := rdb.Get(ctx, sessionKey(token)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// RevokeDoctorSession removes a single session and drops it from the doctor's set.
// If the set becomes empty after removal, it is deleted.
func RevokeDoctorSession(ctx context.Context, doctorID, token string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	if err := rdb.Del(ctx, sessionKey(token)).Err(); err != nil {
		return err
	}
	// Use a Lua script to atomically remove the token and delete the set if empty
	script := `
		local removed = redis.call('SREM', KEYS[1], ARGV[1])
		if removed > 0 then
			local count = redis.call('SCARD', KEYS[1])
			if count == 0 then
				redis.call('DEL', KEYS[1])
			end
		end
		return removed
	`
	return rdb.Eval(ctx, script, []string{doctorSessionsKey(doctorID)}, token).Err()
}

// InvalidateDoctorSessions deletes every session of doctorID together with the
// per-doctor set.
func InvalidateDoctorSessions(ctx context.Context, doctorID string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	setKey := doctorSessionsKey(doctorID)
	members, err := rdb.SMembers(ctx, setKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	for _, tok := range members {
		if err := rdb.Del(ctx, sessionKey(tok)).Err(); err != nil {
			return err
		}
	}
	return rdb.Del(ctx, setKey).Err()
}
