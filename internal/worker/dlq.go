package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DLQPrefix prefixes the dead letter queue key for a given work queue.
const DLQPrefix = "dlq:"

// DLQEntry records a job that exhausted its retries, with enough
// context to replay it by hand.
type DLQEntry struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Error    string          `json:"error"`
	Attempts int             `json:"attempts"`
	FailedAt time.Time       `json:"failed_at"`
}

// SendToDLQ moves an exhausted job onto the queue's dead letter list.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue, jobType string, payload json.RawMessage, errMsg string, attempts int) {
	entry := DLQEntry{
		Type:     jobType,
		Payload:  payload,
		Error:    errMsg,
		Attempts: attempts,
		FailedAt: time.Now().UTC(),
	}
	encoded, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal DLQ entry")
		return
	}
	key := DLQPrefix + queue
	if err := rdb.LPush(ctx, key, encoded).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to push to DLQ")
		return
	}
	log.Error().
		Str("queue", queue).
		Str("type", jobType).
		Int("attempts", attempts).
		Str("error", errMsg).
		Msg("job moved to dead letter queue")
}

// DLQLength returns the number of dead-lettered jobs for a queue.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}
