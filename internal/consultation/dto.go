package consultation

import (
	"regexp"
	"strings"
	"time"

	"github.com/treyfatech/sitecms/internal"
)

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// CreateConsultationDTO is the public submission form payload.
type CreateConsultationDTO struct {
	ClientName    string `json:"clientName"`
	ClientEmail   string `json:"clientEmail"`
	ClientPhone   string `json:"clientPhone"`
	Company       string `json:"company"`
	ServiceType   string `json:"serviceType"`
	PreferredDate string `json:"preferredDate"`
	PreferredTime string `json:"preferredTime"`
	Message       string `json:"message"`
}

func (dto *CreateConsultationDTO) Validate() error {
	dto.ClientName = strings.TrimSpace(dto.ClientName)
	dto.ClientEmail = strings.ToLower(strings.TrimSpace(dto.ClientEmail))
	dto.ClientPhone = strings.TrimSpace(dto.ClientPhone)
	dto.Company = strings.TrimSpace(dto.Company)

	if dto.ClientName == "" {
		return internal.NewValidationFieldError("clientName", "client name is required", internal.ErrCodeValidationFailed)
	}
	if !emailPattern.MatchString(dto.ClientEmail) {
		return internal.NewValidationFieldError("clientEmail", "Please enter a valid email", internal.ErrCodeInvalidEmail)
	}
	if dto.ClientPhone == "" {
		return internal.NewValidationFieldError("clientPhone", "client phone is required", internal.ErrCodeValidationFailed)
	}
	if dto.ServiceType == "" {
		return internal.NewValidationFieldError("serviceType", "service type is required", internal.ErrCodeValidationFailed)
	}
	if dto.PreferredDate == "" {
		return internal.NewValidationFieldError("preferredDate", "preferred date is required", internal.ErrCodeValidationFailed)
	}
	if dto.PreferredTime == "" {
		return internal.NewValidationFieldError("preferredTime", "preferred time is required", internal.ErrCodeValidationFailed)
	}
	if dto.Message == "" {
		return internal.NewValidationFieldError("message", "message is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateStatusDTO drives a lifecycle transition.
type UpdateStatusDTO struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

func (dto *UpdateStatusDTO) Validate() error {
	if dto.Status == "" {
		return internal.NewValidationFieldError("status", "status is required", internal.ErrCodeValidationFailed)
	}
	if !ValidStatus(dto.Status) {
		return internal.NewValidationError("unknown status", internal.ErrCodeInvalidStatus)
	}
	return nil
}

// CreateFollowUpDTO appends a follow-up entry.
type CreateFollowUpDTO struct {
	Message       string     `json:"message"`
	Type          string     `json:"type"`
	ScheduledDate *time.Time `json:"scheduledDate"`
}

func (dto *CreateFollowUpDTO) Validate() error {
	if strings.TrimSpace(dto.Message) == "" {
		return internal.NewValidationFieldError("message", "message is required", internal.ErrCodeValidationFailed)
	}
	if !ValidFollowUpType(dto.Type) {
		return internal.NewValidationFieldError("type", "type must be one of email, phone, meeting, note", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateFollowUpDTO toggles a follow-up's completed flag.
type UpdateFollowUpDTO struct {
	Completed bool `json:"completed"`
}

// ListQuery carries the list filters after parsing.
type ListQuery struct {
	Status string
	Page   int
	Limit  int
}

// Pagination is the envelope shape shared by list endpoints.
type Pagination struct {
	Current int   `json:"current"`
	Total   int   `json:"total"`
	Count   int64 `json:"count"`
}

// Stats is the aggregate shape for the dashboard.
type Stats struct {
	Total     int64            `json:"total"`
	ThisMonth int64            `json:"thisMonth"`
	ByStatus  map[string]int64 `json:"byStatus"`
}
