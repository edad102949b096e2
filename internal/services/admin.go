package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"certify-backend/internal/models"
	"certify-backend/internal/repository"
)

type AdminService struct {
	users         *repository.UserRepo
	courses       *repository.CourseRepo
	certs         *repository.CertificateRepo
	stats         *repository.WatchStatRepo
	assignments   *repository.AssignmentRepo
	notifications *NotificationService
}

func NewAdminService(users *repository.UserRepo, courses *repository.CourseRepo, certs *repository.CertificateRepo, stats *repository.WatchStatRepo, assignments *repository.AssignmentRepo, notifications *NotificationService) *AdminService {
	return &AdminService{
		users:         users,
		courses:       courses,
		certs:         certs,
		stats:         stats,
		assignments:   assignments,
		notifications: notifications,
	}
}

func (s *AdminService) Stats(ctx context.Context) (*models.AdminStats, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	certs, err := s.certs.Count(ctx)
	if err != nil {
		return nil, err
	}
	courses, err := s.courses.Count(ctx)
	if err != nil {
		return nil, err
	}
	minutes, err := s.stats.TotalMinutes(ctx)
	if err != nil {
		return nil, err
	}

	return &models.AdminStats{
		TotalUsers:        users,
		TotalCertificates: certs,
		TotalCourses:      courses,
		TotalWatchHours:   minutes / 60,
	}, nil
}

func (s *AdminService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.users.List(ctx)
}

func (s *AdminService) UpdateRole(ctx context.Context, userID uuid.UUID, role string) error {
	if role != models.RoleUser && role != models.RoleAdmin {
		return &ValidationError{Fields: map[string]string{"role": "Role must be user or admin"}}
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Resource: "user"}
		}
		return err
	}
	return s.users.UpdateRole(ctx, userID, role)
}

func (s *AdminService) DeactivateUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Resource: "user"}
		}
		return err
	}
	return s.users.Deactivate(ctx, userID)
}

// SendNotification delivers an admin announcement to a single user.
func (s *AdminService) SendNotification(ctx context.Context, req models.SendNotificationRequest) error {
	fields := make(map[string]string)
	if req.Title == "" {
		fields["title"] = "Title is required"
	}
	if req.Message == "" {
		fields["message"] = "Message is required"
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		fields["user_id"] = "Invalid user ID"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Resource: "user"}
		}
		return err
	}

	s.notifications.Notify(ctx, userID, models.NotificationTypeAdmin, req.Title, req.Message)
	return nil
}

// AssignCourse records the assignment and tells the user about it.
func (s *AdminService) AssignCourse(ctx context.Context, adminID uuid.UUID, req models.AssignCourseRequest) (*models.CourseAssignment, error) {
	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"course_id": "Invalid course ID"}}
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"user_id": "Invalid user ID"}}
	}

	course, err := s.courses.GetForUser(ctx, courseID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Resource: "course"}
		}
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Resource: "user"}
		}
		return nil, err
	}

	assignment := &models.CourseAssignment{
		CourseID:   courseID,
		UserID:     userID,
		AssignedBy: adminID,
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, err
	}

	s.notifications.Notify(ctx, userID, models.NotificationTypeAdmin,
		"New course assigned",
		fmt.Sprintf("You have been assigned the course \"%s\".", course.Title),
	)
	return assignment, nil
}

func (s *AdminService) ListAssignments(ctx context.Context, userID uuid.UUID) ([]*models.CourseAssignment, error) {
	return s.assignments.ListForUser(ctx, userID)
}
