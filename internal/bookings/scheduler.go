package bookings

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ExpiryScheduler accepts a deferred expiry check for a held booking. The
// task must outlive the scheduling caller; it is picked up later by the
// expiry processor, which never cancels a scheduled entry. Supersession
// happens through the status check in TryExpire.
type ExpiryScheduler interface {
	ScheduleExpiry(ctx context.Context, bookingID uuid.UUID, fireAt time.Time) error
}

const expiryQueueKey = "seatly:holds:expiry"

// RedisExpiryQueue persists pending expiry checks in a Redis sorted set
// scored by fire time, so pending expiries survive a process restart.
type RedisExpiryQueue struct {
	client *redis.Client
}

func NewRedisExpiryQueue(client *redis.Client) *RedisExpiryQueue {
	return &RedisExpiryQueue{client: client}
}

// ScheduleExpiry enqueues a due-time entry for the booking
func (q *RedisExpiryQueue) ScheduleExpiry(ctx context.Context, bookingID uuid.UUID, fireAt time.Time) error {
	err := q.client.ZAdd(ctx, expiryQueueKey, redis.Z{
		Score:  float64(fireAt.Unix()),
		Member: bookingID.String(),
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to enqueue expiry for booking %s: %w", bookingID, err)
	}
	return nil
}

// Due returns booking ids whose fire time is at or before now. Malformed
// members are dropped from the set and skipped.
func (q *RedisExpiryQueue) Due(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	members, err := q.client.ZRangeByScore(ctx, expiryQueueKey, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.Unix(), 10),
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read due expiries: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(members))
	for _, member := range members {
		id, err := uuid.Parse(member)
		if err != nil {
			q.client.ZRem(ctx, expiryQueueKey, member)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Remove drops a handled entry from the queue
func (q *RedisExpiryQueue) Remove(ctx context.Context, bookingID uuid.UUID) error {
	if err := q.client.ZRem(ctx, expiryQueueKey, bookingID.String()).Err(); err != nil {
		return fmt.Errorf("failed to remove expiry entry for booking %s: %w", bookingID, err)
	}
	return nil
}
