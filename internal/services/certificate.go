package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"certify-backend/internal/models"
	"certify-backend/internal/progress"
	"certify-backend/internal/repository"
)

// QueueCertificateIssuance is the redis list course-completion events are
// pushed to for asynchronous certificate issuance.
const QueueCertificateIssuance = "queue:certificate-issuance"

// CertificateJob is the payload the worker pool dequeues.
type CertificateJob struct {
	UserID      uuid.UUID `json:"user_id"`
	CourseID    uuid.UUID `json:"course_id"`
	CourseTitle string    `json:"course_title"`
}

type CertificateService struct {
	certs         *repository.CertificateRepo
	users         *repository.UserRepo
	queue         *redis.Client
	notifications *NotificationService
	email         *EmailService
}

func NewCertificateService(certs *repository.CertificateRepo, users *repository.UserRepo, queue *redis.Client, notifications *NotificationService, email *EmailService) *CertificateService {
	return &CertificateService{
		certs:         certs,
		users:         users,
		queue:         queue,
		notifications: notifications,
		email:         email,
	}
}

// HandleCourseCompleted is wired as the completion tracker's emit callback.
// It only enqueues; a duplicate event for an already-certified pair is
// absorbed by the issuance step.
func (s *CertificateService) HandleCourseCompleted(ctx context.Context, event progress.CourseCompleted) {
	job := CertificateJob{
		UserID:      event.UserID,
		CourseID:    event.Course.ID,
		CourseTitle: event.Course.Title,
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return
	}

	if err := s.queue.RPush(ctx, QueueCertificateIssuance, payload).Err(); err != nil {
		log.Printf("Failed to enqueue certificate issuance for user %s course %s: %v", job.UserID, job.CourseID, err)
	}
}

// Issue runs on the worker pool. The unique constraint on (user, course)
// makes re-delivery of the same job a no-op.
func (s *CertificateService) Issue(ctx context.Context, job CertificateJob) error {
	issued, err := s.certs.Insert(ctx, job.UserID, job.CourseID)
	if err != nil {
		return err
	}
	if !issued {
		log.Printf("Certificate already issued for user %s course %s, skipping", job.UserID, job.CourseID)
		return nil
	}

	s.notifications.Notify(ctx, job.UserID, models.NotificationTypeCourse,
		"Course completed",
		fmt.Sprintf("Congratulations! You completed \"%s\" and earned a certificate.", job.CourseTitle),
	)

	user, err := s.users.GetByID(ctx, job.UserID)
	if err != nil {
		log.Printf("Failed to load user %s for certificate email: %v", job.UserID, err)
		return nil
	}

	name := user.FullName
	if user.PreferredCertificateName != nil && *user.PreferredCertificateName != "" {
		name = *user.PreferredCertificateName
	}
	if err := s.email.SendCertificateEmail(user.Email, name, job.CourseTitle); err != nil {
		log.Printf("Failed to send certificate email to %s: %v", user.Email, err)
	}
	return nil
}

func (s *CertificateService) List(ctx context.Context, userID uuid.UUID) ([]*models.Certificate, error) {
	return s.certs.ListByUser(ctx, userID)
}
