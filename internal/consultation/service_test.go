package consultation_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/treyfatech/sitecms/internal"
	"github.com/treyfatech/sitecms/internal/auth"
	"github.com/treyfatech/sitecms/internal/consultation"
)

func TestConsultation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Consultation Suite")
}

// Mock repository for testing
type mockConsultationRepository struct {
	records     map[int64]*consultation.Consultation
	order       []int64
	nextID      int64
	createError error
	updateError error
}

func newMockConsultationRepository() *mockConsultationRepository {
	return &mockConsultationRepository{
		records: make(map[int64]*consultation.Consultation),
		nextID:  1,
	}
}

func (m *mockConsultationRepository) Create(c *consultation.Consultation) error {
	if m.createError != nil {
		return m.createError
	}
	c.ID = m.nextID
	m.nextID++
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()
	m.records[c.ID] = c
	m.order = append(m.order, c.ID)
	return nil
}

func (m *mockConsultationRepository) GetByID(id int64) (*consultation.Consultation, error) {
	c, ok := m.records[id]
	if !ok {
		return nil, errors.New("consultation not found")
	}
	return c, nil
}

func (m *mockConsultationRepository) List(status string, limit, offset int) ([]*consultation.Consultation, error) {
	var filtered []*consultation.Consultation
	// newest first
	for i := len(m.order) - 1; i >= 0; i-- {
		c := m.records[m.order[i]]
		if status == "" || c.Status == status {
			filtered = append(filtered, c)
		}
	}
	if offset >= len(filtered) {
		return []*consultation.Consultation{}, nil
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[offset:end], nil
}

func (m *mockConsultationRepository) Count(status string) (int64, error) {
	var n int64
	for _, c := range m.records {
		if status == "" || c.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *mockConsultationRepository) Update(c *consultation.Consultation) error {
	if m.updateError != nil {
		return m.updateError
	}
	m.records[c.ID] = c
	return nil
}

func (m *mockConsultationRepository) CountByStatus() (map[string]int64, error) {
	out := make(map[string]int64)
	for _, c := range m.records {
		out[c.Status]++
	}
	return out, nil
}

func (m *mockConsultationRepository) CountCreatedSince(t time.Time) (int64, error) {
	var n int64
	for _, c := range m.records {
		if !c.CreatedAt.Before(t) {
			n++
		}
	}
	return n, nil
}

func validSubmission() consultation.CreateConsultationDTO {
	return consultation.CreateConsultationDTO{
		ClientName:    "Amina Bello",
		ClientEmail:   "amina@example.com",
		ClientPhone:   "+2348012345678",
		Company:       "Bello Logistics",
		ServiceType:   "software-development",
		PreferredDate: "2026-09-15",
		PreferredTime: "10:00",
		Message:       "We need a fleet tracking dashboard.",
	}
}

var _ = Describe("Consultation Service", func() {
	var (
		repo        *mockConsultationRepository
		service     *consultation.Service
		managerPerm []string
		viewOnly    []string
	)

	BeforeEach(func() {
		repo = newMockConsultationRepository()
		service = consultation.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
		managerPerm = auth.PermissionsForRole(auth.RoleConsultationManager)
		viewOnly = []string{auth.PermissionConsultationView}
	})

	Describe("Create", func() {
		It("starts every consultation pending with empty follow-ups and medium priority", func() {
			c, err := service.Create(validSubmission())
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Status).To(Equal(consultation.StatusPending))
			Expect(c.Priority).To(Equal(consultation.PriorityMedium))
			Expect(c.FollowUps).To(BeEmpty())
			Expect(c.AssignedTo).To(BeNil())
		})

		It("rejects a submission without a message", func() {
			dto := validSubmission()
			dto.Message = ""
			_, err := service.Create(dto)
			Expect(err).To(HaveOccurred())
			Expect(len(repo.records)).To(BeZero())
		})

		It("rejects a malformed email", func() {
			dto := validSubmission()
			dto.ClientEmail = "not-an-email"
			_, err := service.Create(dto)
			Expect(err).To(HaveOccurred())
		})

		It("lowercases and trims the submitted email", func() {
			dto := validSubmission()
			dto.ClientEmail = "  Amina@Example.COM "
			c, err := service.Create(dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.ClientEmail).To(Equal("amina@example.com"))
		})
	})

	Describe("UpdateStatus", func() {
		var created *consultation.Consultation

		BeforeEach(func() {
			var err error
			created, err = service.Create(validSubmission())
			Expect(err).NotTo(HaveOccurred())
		})

		It("approves a pending consultation and assigns the approver", func() {
			c, err := service.UpdateStatus(created.ID, consultation.UpdateStatusDTO{Status: consultation.StatusApproved}, 7, managerPerm)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Status).To(Equal(consultation.StatusApproved))
			Expect(c.AssignedTo).NotTo(BeNil())
			Expect(*c.AssignedTo).To(Equal(int64(7)))
		})

		It("keeps the first assignee across later transitions", func() {
			_, err := service.UpdateStatus(created.ID, consultation.UpdateStatusDTO{Status: consultation.StatusApproved}, 7, managerPerm)
			Expect(err).NotTo(HaveOccurred())

			c, err := service.UpdateStatus(created.ID, consultation.UpdateStatusDTO{Status: consultation.StatusCompleted}, 9, managerPerm)
			Expect(err).NotTo(HaveOccurred())
			Expect(*c.AssignedTo).To(Equal(int64(7)))
		})

		It("rejects completing a pending consultation without mutating it", func() {
			_, err := service.UpdateStatus(created.ID, consultation.UpdateStatusDTO{Status: consultation.StatusCompleted}, 7, managerPerm)
			Expect(err).To(MatchError(internal.ErrInvalidTransition))

			stored, _ := repo.GetByID(created.ID)
			Expect(stored.Status).To(Equal(consultation.StatusPending))
			Expect(stored.AssignedTo).To(BeNil())
		})

		It("rejects transitions out of a terminal state", func() {
			_, err := service.UpdateStatus(created.ID, consultation.UpdateStatusDTO{Status: consultation.StatusRejected}, 7, managerPerm)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.UpdateStatus(created.ID, consultation.UpdateStatusDTO{Status: consultation.StatusApproved}, 7, managerPerm)
			Expect(err).To(MatchError(internal.ErrInvalidTransition))
		})

		It("never transitions into cancelled", func() {
			_, err := service.UpdateStatus(created.ID, consultation.UpdateStatusDTO{Status: consultation.StatusCancelled}, 7, managerPerm)
			Expect(err).To(MatchError(internal.ErrInvalidTransition))
		})

		It("merges notes only when non-empty", func() {
			c, err := service.UpdateStatus(created.ID, consultation.UpdateStatusDTO{Status: consultation.StatusApproved, Notes: "call before noon"}, 7, managerPerm)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Notes).To(Equal("call before noon"))

			c, err = service.UpdateStatus(created.ID, consultation.UpdateStatusDTO{Status: consultation.StatusCompleted}, 7, managerPerm)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Notes).To(Equal("call before noon"))
		})

		It("denies actors without the approve permission", func() {
			_, err := service.UpdateStatus(created.ID, consultation.UpdateStatusDTO{Status: consultation.StatusApproved}, 7, viewOnly)
			Expect(err).To(MatchError(internal.ErrAccessDenied))
		})

		It("lets the wildcard permission approve", func() {
			_, err := service.UpdateStatus(created.ID, consultation.UpdateStatusDTO{Status: consultation.StatusApproved}, 7, []string{auth.PermissionAll})
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("Follow-ups", func() {
		var created *consultation.Consultation

		BeforeEach(func() {
			var err error
			created, err = service.Create(validSubmission())
			Expect(err).NotTo(HaveOccurred())
		})

		It("appends entries preserving order", func() {
			_, err := service.AddFollowUp(created.ID, consultation.CreateFollowUpDTO{Message: "first call", Type: consultation.FollowUpPhone}, 3, managerPerm)
			Expect(err).NotTo(HaveOccurred())

			c, err := service.AddFollowUp(created.ID, consultation.CreateFollowUpDTO{Message: "sent proposal", Type: consultation.FollowUpEmail}, 3, managerPerm)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.FollowUps).To(HaveLen(2))
			Expect(c.FollowUps[0].Message).To(Equal("first call"))
			Expect(c.FollowUps[1].Message).To(Equal("sent proposal"))
			Expect(c.FollowUps[0].ID).NotTo(BeEmpty())
			Expect(c.FollowUps[0].ID).NotTo(Equal(c.FollowUps[1].ID))
			Expect(c.FollowUps[0].Completed).To(BeFalse())
			Expect(c.FollowUps[0].CreatedBy).To(Equal(int64(3)))
		})

		It("rejects an unknown follow-up type", func() {
			_, err := service.AddFollowUp(created.ID, consultation.CreateFollowUpDTO{Message: "x", Type: "fax"}, 3, managerPerm)
			Expect(err).To(HaveOccurred())
		})

		It("toggles completion on exactly the matching entry", func() {
			c, err := service.AddFollowUp(created.ID, consultation.CreateFollowUpDTO{Message: "first", Type: consultation.FollowUpNote}, 3, managerPerm)
			Expect(err).NotTo(HaveOccurred())
			c, err = service.AddFollowUp(created.ID, consultation.CreateFollowUpDTO{Message: "second", Type: consultation.FollowUpNote}, 3, managerPerm)
			Expect(err).NotTo(HaveOccurred())

			target := c.FollowUps[0].ID
			c, err = service.UpdateFollowUp(created.ID, target, consultation.UpdateFollowUpDTO{Completed: true}, managerPerm)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.FollowUps[0].Completed).To(BeTrue())
			Expect(c.FollowUps[1].Completed).To(BeFalse())
		})

		It("returns not found for an unknown follow-up id", func() {
			_, err := service.UpdateFollowUp(created.ID, "no-such-id", consultation.UpdateFollowUpDTO{Completed: true}, managerPerm)
			Expect(err).To(MatchError(internal.ErrFollowUpNotFound))
		})

		It("denies follow-up creation without the permission", func() {
			_, err := service.AddFollowUp(created.ID, consultation.CreateFollowUpDTO{Message: "x", Type: consultation.FollowUpNote}, 3, viewOnly)
			Expect(err).To(MatchError(internal.ErrAccessDenied))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			for i := 0; i < 25; i++ {
				_, err := service.Create(validSubmission())
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("paginates with the requested page and limit", func() {
			items, pagination, err := service.List(consultation.ListQuery{Page: 2, Limit: 10}, viewOnly)
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(10))
			Expect(pagination.Current).To(Equal(2))
			Expect(pagination.Total).To(Equal(3))
			Expect(pagination.Count).To(Equal(int64(25)))
		})

		It("defaults page and limit", func() {
			items, pagination, err := service.List(consultation.ListQuery{}, viewOnly)
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(20))
			Expect(pagination.Current).To(Equal(1))
		})

		It("filters by status", func() {
			_, err := service.UpdateStatus(1, consultation.UpdateStatusDTO{Status: consultation.StatusApproved}, 7, managerPerm)
			Expect(err).NotTo(HaveOccurred())

			items, pagination, err := service.List(consultation.ListQuery{Status: consultation.StatusApproved}, viewOnly)
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(1))
			Expect(pagination.Count).To(Equal(int64(1)))
		})

		It("denies listing without the view permission", func() {
			_, _, err := service.List(consultation.ListQuery{}, []string{auth.PermissionBlogCreate})
			Expect(err).To(MatchError(internal.ErrAccessDenied))
		})
	})

	Describe("Stats", func() {
		It("aggregates totals by status and the current month", func() {
			for i := 0; i < 4; i++ {
				_, err := service.Create(validSubmission())
				Expect(err).NotTo(HaveOccurred())
			}
			_, err := service.UpdateStatus(1, consultation.UpdateStatusDTO{Status: consultation.StatusApproved}, 7, managerPerm)
			Expect(err).NotTo(HaveOccurred())

			stats, err := service.Stats(viewOnly)
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.Total).To(Equal(int64(4)))
			Expect(stats.ThisMonth).To(Equal(int64(4)))
			Expect(stats.ByStatus[consultation.StatusPending]).To(Equal(int64(3)))
			Expect(stats.ByStatus[consultation.StatusApproved]).To(Equal(int64(1)))
		})

		It("denies stats without the view permission", func() {
			_, err := service.Stats(nil)
			Expect(err).To(MatchError(internal.ErrAccessDenied))
		})
	})
})
