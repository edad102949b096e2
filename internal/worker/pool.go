package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"certify-backend/internal/models"
	"certify-backend/internal/services"
)

// Pool drains the playlist-import and certificate-issuance queues. Jobs are
// idempotent (certificate issuance dedupes on a unique constraint), so a
// crashed worker losing an in-flight job at worst delays it until the next
// triggering event.
type Pool struct {
	redis         *redis.Client
	courses       *services.CourseService
	certs         *services.CertificateService
	notifications *services.NotificationService
	workerCount   int
	stopChan      chan struct{}
}

func NewPool(
	redisClient *redis.Client,
	courses *services.CourseService,
	certs *services.CertificateService,
	notifications *services.NotificationService,
	workerCount int,
) *Pool {
	return &Pool{
		redis:         redisClient,
		courses:       courses,
		certs:         certs,
		notifications: notifications,
		workerCount:   workerCount,
		stopChan:      make(chan struct{}),
	}
}

func (p *Pool) Start() {
	queues := []string{
		services.QueuePlaylistImport,
		services.QueueCertificateIssuance,
	}

	for i := 0; i < p.workerCount; i++ {
		go p.worker(i, queues)
	}

	log.Printf("Started %d worker goroutines", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int, queues []string) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Worker %d shutting down", id)
			return
		default:
		}

		ctx := context.Background()

		// BLPOP with 30s timeout so the stop channel is checked regularly
		result, err := p.redis.BLPop(ctx, 30*time.Second, queues...).Result()
		if err != nil {
			continue
		}
		if len(result) < 2 {
			continue
		}

		queue, payload := result[0], result[1]

		var processErr error
		switch queue {
		case services.QueuePlaylistImport:
			processErr = p.processPlaylistImport(ctx, payload)
		case services.QueueCertificateIssuance:
			processErr = p.processCertificate(ctx, payload)
		default:
			processErr = fmt.Errorf("unknown queue: %s", queue)
		}

		if processErr != nil {
			log.Printf("Worker %d: job from %s failed: %v", id, queue, processErr)
		}
	}
}

func (p *Pool) processPlaylistImport(ctx context.Context, payload string) error {
	var job services.PlaylistImportJob
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		return fmt.Errorf("failed to parse playlist import job: %w", err)
	}

	added, err := p.courses.ExpandPlaylist(ctx, job)
	if err != nil {
		return fmt.Errorf("playlist expansion failed for course %q: %w", job.CourseTitle, err)
	}

	log.Printf("Imported %d videos into course %q for user %s", added, job.CourseTitle, job.UserID)

	p.notifications.Notify(ctx, job.UserID, models.NotificationTypeCourse,
		"Playlist imported",
		fmt.Sprintf("%d videos were added to \"%s\".", added, job.CourseTitle),
	)
	return nil
}

func (p *Pool) processCertificate(ctx context.Context, payload string) error {
	var job services.CertificateJob
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		return fmt.Errorf("failed to parse certificate job: %w", err)
	}
	return p.certs.Issue(ctx, job)
}
