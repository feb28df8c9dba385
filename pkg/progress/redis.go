package progress

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

const redisChannel = "chestpain.progress"

// RedisBus fans events out across processes via Redis pub/sub, then
// broadcasts to local subscribers through an embedded MemoryBus, the same
// two-tier shape as the teacher's StartGlobalListener/BroadcastDiagnosis
// split (global relay + local fanout).
type RedisBus struct {
	local  *MemoryBus
	client *redis.Client
}

// NewRedisBus wires client and starts the background relay goroutine.
// Callers must cancel ctx to stop the relay at shutdown.
func NewRedisBus(ctx context.Context, client *redis.Client) *RedisBus {
	bus := &RedisBus{local: NewMemoryBus(), client: client}
	go bus.listen(ctx)
	return bus
}

func (b *RedisBus) listen(ctx context.Context) {
	pubsub := b.client.Subscribe(ctx, redisChannel)
	defer pubsub.Close()
	ch := pubsub.Channel()

	log.Println("progress: listening for global events on Redis")
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("progress: malformed event on redis channel: %v", err)
				continue
			}
			b.local.Publish(event)
		}
	}
}

// Publish relays event to every process subscribed via Redis; the local
// relay goroutine loops it back for in-process subscribers.
func (b *RedisBus) Publish(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("progress: failed to marshal event: %v", err)
		return
	}
	if err := b.client.Publish(context.Background(), redisChannel, payload).Err(); err != nil {
		log.Printf("progress: redis publish failed: %v", err)
	}
}

func (b *RedisBus) Subscribe(patientID string) (<-chan Event, func()) {
	return b.local.Subscribe(patientID)
}
