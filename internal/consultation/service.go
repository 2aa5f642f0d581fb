package consultation

import (
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/treyfatech/sitecms/internal"
	"github.com/treyfatech/sitecms/internal/auth"
)

// Repository defines the data access methods for consultations.
type Repository interface {
	Create(c *Consultation) error
	GetByID(id int64) (*Consultation, error)
	List(status string, limit, offset int) ([]*Consultation, error)
	Count(status string) (int64, error)
	// Update rewrites the whole record, follow-ups included.
	Update(c *Consultation) error
	CountByStatus() (map[string]int64, error)
	CountCreatedSince(t time.Time) (int64, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Create handles the public submission form. Every consultation starts in
// pending with an empty follow-up list and medium priority.
func (s *Service) Create(dto CreateConsultationDTO) (*Consultation, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("consultation validation failed", "error", err)
		return nil, err
	}

	c := &Consultation{
		ClientName:    dto.ClientName,
		ClientEmail:   dto.ClientEmail,
		ClientPhone:   dto.ClientPhone,
		Company:       dto.Company,
		ServiceType:   dto.ServiceType,
		PreferredDate: dto.PreferredDate,
		PreferredTime: dto.PreferredTime,
		Message:       dto.Message,
		Status:        StatusPending,
		Priority:      PriorityMedium,
		FollowUps:     FollowUps{},
	}

	if err := s.repo.Create(c); err != nil {
		s.logger.Error("failed to create consultation", "error", err)
		return nil, internal.NewInternalError("failed to create consultation", err)
	}

	s.logger.Info("consultation submitted",
		"consultation_id", c.ID,
		"service_type", c.ServiceType)

	return c, nil
}

// List returns a page of consultations, newest first.
func (s *Service) List(q ListQuery, permissions []string) ([]*Consultation, *Pagination, error) {
	if !auth.HasPermission(permissions, auth.PermissionConsultationView) {
		s.logger.Warn("list consultations denied", "permissions", permissions)
		return nil, nil, internal.ErrAccessDenied
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Status != "" && !ValidStatus(q.Status) {
		return nil, nil, internal.NewValidationError("unknown status", internal.ErrCodeInvalidStatus)
	}

	offset := (q.Page - 1) * q.Limit
	items, err := s.repo.List(q.Status, q.Limit, offset)
	if err != nil {
		s.logger.Error("failed to list consultations", "error", err)
		return nil, nil, internal.NewInternalError("failed to list consultations", err)
	}

	count, err := s.repo.Count(q.Status)
	if err != nil {
		s.logger.Error("failed to count consultations", "error", err)
		return nil, nil, internal.NewInternalError("failed to list consultations", err)
	}

	pagination := &Pagination{
		Current: q.Page,
		Total:   int(math.Ceil(float64(count) / float64(q.Limit))),
		Count:   count,
	}

	return items, pagination, nil
}

func (s *Service) Get(id int64, permissions []string) (*Consultation, error) {
	if !auth.HasPermission(permissions, auth.PermissionConsultationView) {
		return nil, internal.ErrAccessDenied
	}

	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrConsultationNotFound
	}
	return c, nil
}

// UpdateStatus runs a lifecycle transition. Invalid transitions and denied
// permissions leave the record untouched.
func (s *Service) UpdateStatus(id int64, dto UpdateStatusDTO, actorID int64, permissions []string) (*Consultation, error) {
	if !auth.HasPermission(permissions, auth.PermissionConsultationApprove) {
		s.logger.Warn("status update denied: insufficient permissions",
			"consultation_id", id,
			"actor_id", actorID,
			"permissions", permissions)
		return nil, internal.ErrAccessDenied
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrConsultationNotFound
	}

	if !c.CanTransitionTo(dto.Status) {
		s.logger.Warn("invalid status transition",
			"consultation_id", id,
			"from", c.Status,
			"to", dto.Status)
		return nil, internal.ErrInvalidTransition
	}

	c.Transition(dto.Status, actorID, dto.Notes)

	if err := s.repo.Update(c); err != nil {
		s.logger.Error("failed to update consultation status", "error", err, "consultation_id", id)
		return nil, internal.NewInternalError("failed to update consultation", err)
	}

	s.logger.Info("consultation status updated",
		"consultation_id", id,
		"status", c.Status,
		"actor_id", actorID)

	return c, nil
}

// AddFollowUp appends a follow-up with the actor as creator.
func (s *Service) AddFollowUp(id int64, dto CreateFollowUpDTO, actorID int64, permissions []string) (*Consultation, error) {
	if !auth.HasPermission(permissions, auth.PermissionFollowUpCreate) {
		s.logger.Warn("add follow-up denied", "consultation_id", id, "actor_id", actorID)
		return nil, internal.ErrAccessDenied
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrConsultationNotFound
	}

	c.AddFollowUp(FollowUp{
		ID:            uuid.NewString(),
		Message:       dto.Message,
		Type:          dto.Type,
		ScheduledDate: dto.ScheduledDate,
		Completed:     false,
		CreatedBy:     actorID,
		CreatedAt:     time.Now(),
	})

	if err := s.repo.Update(c); err != nil {
		s.logger.Error("failed to add follow-up", "error", err, "consultation_id", id)
		return nil, internal.NewInternalError("failed to add follow-up", err)
	}

	s.logger.Info("follow-up added", "consultation_id", id, "actor_id", actorID, "type", dto.Type)
	return c, nil
}

// UpdateFollowUp toggles completion on one follow-up entry.
func (s *Service) UpdateFollowUp(id int64, followUpID string, dto UpdateFollowUpDTO, permissions []string) (*Consultation, error) {
	if !auth.HasPermission(permissions, auth.PermissionFollowUpManage) {
		s.logger.Warn("update follow-up denied", "consultation_id", id, "followup_id", followUpID)
		return nil, internal.ErrAccessDenied
	}

	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrConsultationNotFound
	}

	if !c.SetFollowUpCompleted(followUpID, dto.Completed) {
		return nil, internal.ErrFollowUpNotFound
	}

	if err := s.repo.Update(c); err != nil {
		s.logger.Error("failed to update follow-up", "error", err, "consultation_id", id)
		return nil, internal.NewInternalError("failed to update follow-up", err)
	}

	return c, nil
}

// Stats aggregates totals for the dashboard. thisMonth counts records created
// since the first instant of the current calendar month.
func (s *Service) Stats(permissions []string) (*Stats, error) {
	if !auth.HasPermission(permissions, auth.PermissionConsultationView) {
		return nil, internal.ErrAccessDenied
	}

	byStatus, err := s.repo.CountByStatus()
	if err != nil {
		s.logger.Error("failed to aggregate consultation stats", "error", err)
		return nil, internal.NewInternalError("failed to get stats", err)
	}

	var total int64
	for _, n := range byStatus {
		total += n
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	thisMonth, err := s.repo.CountCreatedSince(monthStart)
	if err != nil {
		s.logger.Error("failed to count consultations for current month", "error", err)
		return nil, internal.NewInternalError("failed to get stats", err)
	}

	return &Stats{
		Total:     total,
		ThisMonth: thisMonth,
		ByStatus:  byStatus,
	}, nil
}
