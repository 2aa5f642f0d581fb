package postgres_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/treyfatech/sitecms/internal/sitedata"
	sitedataPostgres "github.com/treyfatech/sitecms/internal/sitedata/postgres"
)

func TestSiteDataPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "SiteData Postgres Suite")
}

// SQLiteSiteData is a SQLite-compatible model for testing
type SQLiteSiteData struct {
	ID        int64     `gorm:"primaryKey"`
	Section   string    `gorm:"column:section;uniqueIndex;not null"`
	Data      string    `gorm:"column:data;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (SQLiteSiteData) TableName() string {
	return "site_data"
}

var _ = Describe("SiteData PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo sitedata.Repository
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteSiteData{})
		Expect(err).NotTo(HaveOccurred())

		repo = sitedataPostgres.NewSiteDataRepository(db)
	})

	Describe("Upsert", func() {
		It("inserts a new section", func() {
			entry := &sitedata.Entry{Section: sitedata.SectionHero, Data: sitedata.Document(`{"title":"Welcome"}`)}
			Expect(repo.Upsert(entry)).To(Succeed())

			fetched, err := repo.GetBySection(sitedata.SectionHero)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(fetched.Data)).To(MatchJSON(`{"title":"Welcome"}`))
		})

		It("replaces the document of an existing section", func() {
			Expect(repo.Upsert(&sitedata.Entry{Section: sitedata.SectionHero, Data: sitedata.Document(`{"title":"Old"}`)})).To(Succeed())
			Expect(repo.Upsert(&sitedata.Entry{Section: sitedata.SectionHero, Data: sitedata.Document(`{"title":"New"}`)})).To(Succeed())

			fetched, err := repo.GetBySection(sitedata.SectionHero)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(fetched.Data)).To(MatchJSON(`{"title":"New"}`))

			all, err := repo.GetAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(1))
		})
	})

	Describe("GetBySection", func() {
		It("returns not found for a missing section", func() {
			_, err := repo.GetBySection("pricing")
			Expect(err).To(MatchError(sitedata.ErrNotFound))
		})
	})

	Describe("GetAll", func() {
		It("returns every section ordered by name", func() {
			Expect(repo.Upsert(&sitedata.Entry{Section: sitedata.SectionHero, Data: sitedata.Document(`{}`)})).To(Succeed())
			Expect(repo.Upsert(&sitedata.Entry{Section: sitedata.SectionAbout, Data: sitedata.Document(`{}`)})).To(Succeed())
			Expect(repo.Upsert(&sitedata.Entry{Section: sitedata.SectionFooter, Data: sitedata.Document(`{}`)})).To(Succeed())

			all, err := repo.GetAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(3))
			Expect(all[0].Section).To(Equal(sitedata.SectionAbout))
			Expect(all[1].Section).To(Equal(sitedata.SectionFooter))
			Expect(all[2].Section).To(Equal(sitedata.SectionHero))
		})
	})
})
