package collection_test

import (
	"io"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/treyfatech/sitecms/internal"
	"github.com/treyfatech/sitecms/internal/auth"
	"github.com/treyfatech/sitecms/internal/collection"
	"github.com/treyfatech/sitecms/internal/sitedata"
)

func TestCollection(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Collection Suite")
}

type mockSectionRepository struct {
	entries map[string]*sitedata.Entry
}

func newMockSectionRepository() *mockSectionRepository {
	return &mockSectionRepository{entries: make(map[string]*sitedata.Entry)}
}

func (m *mockSectionRepository) GetAll() ([]sitedata.Entry, error) {
	out := make([]sitedata.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, *e)
	}
	return out, nil
}

func (m *mockSectionRepository) GetBySection(section string) (*sitedata.Entry, error) {
	e, ok := m.entries[section]
	if !ok {
		return nil, sitedata.ErrNotFound
	}
	return e, nil
}

func (m *mockSectionRepository) Upsert(entry *sitedata.Entry) error {
	copied := *entry
	m.entries[entry.Section] = &copied
	return nil
}

var _ = Describe("Collection Service", func() {
	var (
		repo    *mockSectionRepository
		service *collection.Service
		admin   *auth.Actor
		writer  *auth.Actor
	)

	BeforeEach(func() {
		repo = newMockSectionRepository()
		service = collection.NewService(sitedata.SectionPortfolio, "Portfolio", repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
		admin = &auth.Actor{ID: 1, Username: "admin", Role: auth.RoleSuperAdmin, Permissions: auth.PermissionsForRole(auth.RoleSuperAdmin)}
		writer = &auth.Actor{ID: 2, Username: "writer", Role: auth.RoleBlogUser, Permissions: auth.PermissionsForRole(auth.RoleBlogUser)}
	})

	Describe("List", func() {
		It("reads an untouched section as an empty collection", func() {
			items, err := service.List()
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(BeEmpty())
		})

		It("returns items in insertion order", func() {
			first, err := service.Add(collection.Item{"title": "Cloud Migration"}, admin)
			Expect(err).NotTo(HaveOccurred())
			second, err := service.Add(collection.Item{"title": "ERP Rollout"}, admin)
			Expect(err).NotTo(HaveOccurred())

			items, err := service.List()
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(2))
			Expect(items[0].ID()).To(Equal(first.ID()))
			Expect(items[1].ID()).To(Equal(second.ID()))
		})
	})

	Describe("Add", func() {
		It("assigns an id and creation timestamp", func() {
			item, err := service.Add(collection.Item{"title": "Cloud Migration"}, admin)
			Expect(err).NotTo(HaveOccurred())
			Expect(item.ID()).NotTo(BeEmpty())
			Expect(item["createdAt"]).NotTo(BeEmpty())
			Expect(item["title"]).To(Equal("Cloud Migration"))
		})

		It("assigns distinct ids to each item", func() {
			a, err := service.Add(collection.Item{}, admin)
			Expect(err).NotTo(HaveOccurred())
			b, err := service.Add(collection.Item{}, admin)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.ID()).NotTo(Equal(b.ID()))
		})

		It("overrides any client-supplied id", func() {
			item, err := service.Add(collection.Item{"id": "chosen-by-client"}, admin)
			Expect(err).NotTo(HaveOccurred())
			Expect(item.ID()).NotTo(Equal("chosen-by-client"))
		})

		It("is reserved for admins", func() {
			_, err := service.Add(collection.Item{"title": "x"}, writer)
			Expect(err).To(MatchError(internal.ErrAccessDenied))
		})
	})

	Describe("Update", func() {
		It("merges the patch without clobbering the id", func() {
			item, err := service.Add(collection.Item{"title": "Cloud Migration", "client": "Acme"}, admin)
			Expect(err).NotTo(HaveOccurred())

			updated, err := service.Update(item.ID(), collection.Item{"id": "spoofed", "title": "Cloud Migration v2"}, admin)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.ID()).To(Equal(item.ID()))
			Expect(updated["title"]).To(Equal("Cloud Migration v2"))
			Expect(updated["client"]).To(Equal("Acme"))
			Expect(updated["updatedAt"]).NotTo(BeEmpty())
		})

		It("returns collection not found when the section row is absent", func() {
			_, err := service.Update("any", collection.Item{}, admin)
			Expect(err).To(MatchError(collection.ErrCollectionMissing))
		})

		It("returns item not found for an unknown id", func() {
			_, err := service.Add(collection.Item{"title": "x"}, admin)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Update("missing", collection.Item{}, admin)
			Expect(err).To(MatchError(internal.ErrItemNotFound))
		})

		It("is reserved for admins", func() {
			_, err := service.Update("any", collection.Item{}, writer)
			Expect(err).To(MatchError(internal.ErrAccessDenied))
		})
	})

	Describe("Delete", func() {
		It("removes only the matching item", func() {
			keepMe, err := service.Add(collection.Item{"title": "Keep"}, admin)
			Expect(err).NotTo(HaveOccurred())
			dropMe, err := service.Add(collection.Item{"title": "Drop"}, admin)
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete(dropMe.ID(), admin)).To(Succeed())

			items, err := service.List()
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(1))
			Expect(items[0].ID()).To(Equal(keepMe.ID()))
		})

		It("returns collection not found when the section row is absent", func() {
			Expect(service.Delete("any", admin)).To(MatchError(collection.ErrCollectionMissing))
		})

		It("is reserved for admins", func() {
			Expect(service.Delete("any", writer)).To(MatchError(internal.ErrAccessDenied))
		})
	})

	It("keeps portfolio and gallery sections independent", func() {
		gallery := collection.NewService(sitedata.SectionGallery, "Gallery", repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

		_, err := service.Add(collection.Item{"title": "Project"}, admin)
		Expect(err).NotTo(HaveOccurred())
		_, err = gallery.Add(collection.Item{"url": "/uploads/a.png"}, admin)
		Expect(err).NotTo(HaveOccurred())

		portfolioItems, err := service.List()
		Expect(err).NotTo(HaveOccurred())
		galleryItems, err := gallery.List()
		Expect(err).NotTo(HaveOccurred())
		Expect(portfolioItems).To(HaveLen(1))
		Expect(galleryItems).To(HaveLen(1))
		Expect(portfolioItems[0]).To(HaveKey("title"))
		Expect(galleryItems[0]).To(HaveKey("url"))
	})
})
