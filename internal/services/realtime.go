package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RealtimePublisher pushes playback state changes to the websocket hub via
// redis pubsub so open browser tabs stay in sync.
type RealtimePublisher struct {
	pubsub *redis.Client
}

func NewRealtimePublisher(pubsub *redis.Client) *RealtimePublisher {
	return &RealtimePublisher{pubsub: pubsub}
}

func (p *RealtimePublisher) ProgressChanged(userID, videoID uuid.UUID, percent float64) {
	p.publish(userID, map[string]interface{}{
		"event":    "progress",
		"video_id": videoID,
		"percent":  percent,
	})
}

func (p *RealtimePublisher) VideoCompleted(userID, videoID uuid.UUID) {
	p.publish(userID, map[string]interface{}{
		"event":    "video_completed",
		"video_id": videoID,
	})
}

func (p *RealtimePublisher) publish(userID uuid.UUID, msg map[string]interface{}) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	channel := fmt.Sprintf("user_updates:%s", userID)
	if err := p.pubsub.Publish(context.Background(), channel, payload).Err(); err != nil {
		log.Printf("Failed to publish realtime update to %s: %v", channel, err)
	}
}
