package sitedata_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/treyfatech/sitecms/internal"
	"github.com/treyfatech/sitecms/internal/auth"
	"github.com/treyfatech/sitecms/internal/sitedata"
)

func TestSiteData(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "SiteData Suite")
}

type mockSiteDataRepository struct {
	entries map[string]*sitedata.Entry
	nextID  int64
}

func newMockSiteDataRepository() *mockSiteDataRepository {
	return &mockSiteDataRepository{
		entries: make(map[string]*sitedata.Entry),
		nextID:  1,
	}
}

func (m *mockSiteDataRepository) GetAll() ([]sitedata.Entry, error) {
	out := make([]sitedata.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, *e)
	}
	return out, nil
}

func (m *mockSiteDataRepository) GetBySection(section string) (*sitedata.Entry, error) {
	e, ok := m.entries[section]
	if !ok {
		return nil, sitedata.ErrNotFound
	}
	return e, nil
}

func (m *mockSiteDataRepository) Upsert(entry *sitedata.Entry) error {
	if existing, ok := m.entries[entry.Section]; ok {
		existing.Data = entry.Data
		existing.UpdatedAt = time.Now()
		*entry = *existing
		return nil
	}
	entry.ID = m.nextID
	m.nextID++
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = time.Now()
	copied := *entry
	m.entries[entry.Section] = &copied
	return nil
}

var _ = Describe("SiteData Service", func() {
	var (
		repo    *mockSiteDataRepository
		service *sitedata.Service
		admin   *auth.Actor
		writer  *auth.Actor
	)

	BeforeEach(func() {
		repo = newMockSiteDataRepository()
		service = sitedata.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
		admin = &auth.Actor{ID: 1, Username: "admin", Role: auth.RoleSuperAdmin, Permissions: auth.PermissionsForRole(auth.RoleSuperAdmin)}
		writer = &auth.Actor{ID: 2, Username: "writer", Role: auth.RoleBlogUser, Permissions: auth.PermissionsForRole(auth.RoleBlogUser)}
	})

	Describe("GetAll", func() {
		It("flattens every section into one keyed object", func() {
			_, err := service.Update(sitedata.SectionHero, sitedata.Document(`{"title":"Welcome"}`), admin)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Update(sitedata.SectionFooter, sitedata.Document(`{"copyright":"2026"}`), admin)
			Expect(err).NotTo(HaveOccurred())

			all, err := service.GetAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(2))
			Expect(string(all[sitedata.SectionHero])).To(MatchJSON(`{"title":"Welcome"}`))
			Expect(string(all[sitedata.SectionFooter])).To(MatchJSON(`{"copyright":"2026"}`))
		})

		It("returns an empty object when nothing is stored", func() {
			all, err := service.GetAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(BeEmpty())
		})
	})

	Describe("Get", func() {
		It("returns a stored section document", func() {
			_, err := service.Update(sitedata.SectionAbout, sitedata.Document(`{"mission":"Empower"}`), admin)
			Expect(err).NotTo(HaveOccurred())

			doc, err := service.Get(sitedata.SectionAbout)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(doc)).To(MatchJSON(`{"mission":"Empower"}`))
		})

		It("returns not found for a missing section", func() {
			_, err := service.Get("pricing")
			Expect(err).To(MatchError(internal.ErrSectionNotFound))
		})
	})

	Describe("Update", func() {
		It("replaces an existing document wholesale", func() {
			_, err := service.Update(sitedata.SectionHero, sitedata.Document(`{"title":"Old","subtitle":"Keep?"}`), admin)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Update(sitedata.SectionHero, sitedata.Document(`{"title":"New"}`), admin)
			Expect(err).NotTo(HaveOccurred())

			doc, err := service.Get(sitedata.SectionHero)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(doc)).To(MatchJSON(`{"title":"New"}`))
		})

		It("is reserved for admins", func() {
			_, err := service.Update(sitedata.SectionHero, sitedata.Document(`{}`), writer)
			Expect(err).To(MatchError(internal.ErrAccessDenied))
		})

		It("rejects a blank section name", func() {
			_, err := service.Update("  ", sitedata.Document(`{}`), admin)
			Expect(err).To(HaveOccurred())
		})

		It("rejects malformed JSON", func() {
			_, err := service.Update(sitedata.SectionHero, sitedata.Document(`{"title":`), admin)
			Expect(err).To(HaveOccurred())

			_, err = service.Update(sitedata.SectionHero, nil, admin)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Initialize", func() {
		It("seeds every well-known section with default content", func() {
			sections, err := service.Initialize(admin)
			Expect(err).NotTo(HaveOccurred())
			Expect(sections).To(ConsistOf(
				sitedata.SectionHero,
				sitedata.SectionHeader,
				sitedata.SectionFooter,
				sitedata.SectionAbout,
				sitedata.SectionContact,
			))

			doc, err := service.Get(sitedata.SectionHeader)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(doc)).To(ContainSubstring("navigation"))
		})

		It("is reserved for admins", func() {
			_, err := service.Initialize(writer)
			Expect(err).To(MatchError(internal.ErrAccessDenied))
		})
	})
})
