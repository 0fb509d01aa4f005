package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const DefaultSequenceKey = "recommendations:id_seq"

// seedScript raises the counter to ARGV[1] unless it is already higher.
var seedScript = redis.NewScript(`
local current = tonumber(redis.call("GET", KEYS[1]) or "0")
local floor = tonumber(ARGV[1])
if current < floor then
	redis.call("SET", KEYS[1], floor)
	return floor
end
return current
`)

type cmdable interface {
	redis.Scripter
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// IDSequenceRepository allocates recommendation ids with INCR so that every
// replica sharing the Redis instance draws from one sequence.
type IDSequenceRepository struct {
	client cmdable
	key    string
}

func NewIDSequenceRepository(client cmdable, key string) *IDSequenceRepository {
	if key == "" {
		key = DefaultSequenceKey
	}

	return &IDSequenceRepository{
		client: client,
		key:    key,
	}
}

// Seed makes sure the next id is greater than maxID.
func (r *IDSequenceRepository) Seed(ctx context.Context, maxID uint64) (uint64, error) {
	current, err := seedScript.Run(ctx, r.client, []string{r.key}, maxID).Uint64()
	if err != nil {
		return 0, fmt.Errorf("failed to seed id sequence: %w", err)
	}

	return current, nil
}

func (r *IDSequenceRepository) Next(ctx context.Context) (uint64, error) {
	id, err := r.client.Incr(ctx, r.key).Uint64()
	if err != nil {
		return 0, fmt.Errorf("failed to increment id sequence: %w", err)
	}

	return id, nil
}
