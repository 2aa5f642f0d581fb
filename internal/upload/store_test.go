package upload_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/treyfatech/sitecms/internal/upload"
)

func TestUpload(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Upload Suite")
}

var _ = Describe("Upload Store", func() {
	var (
		root  string
		store *upload.Store
	)

	BeforeEach(func() {
		root = GinkgoT().TempDir()
		store = upload.NewStore(root, "/uploads", 1)
	})

	Describe("Save", func() {
		It("stores the file under a fresh uuid name inside its category", func() {
			file, err := store.Save(strings.NewReader("png-bytes"), "logo.PNG", "branding", 9)
			Expect(err).NotTo(HaveOccurred())

			Expect(file.ID).NotTo(BeEmpty())
			Expect(file.Filename).To(Equal(file.ID + ".png"))
			Expect(file.Name).To(Equal("logo.PNG"))
			Expect(file.URL).To(Equal("/uploads/branding/" + file.Filename))
			Expect(file.Size).To(Equal(int64(9)))
			Expect(file.MimeType).To(Equal("image/png"))
			Expect(file.Category).To(Equal("branding"))

			stored, err := os.ReadFile(filepath.Join(root, "branding", file.Filename))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(stored)).To(Equal("png-bytes"))
		})

		It("defaults the category to general", func() {
			file, err := store.Save(strings.NewReader("x"), "a.jpg", "", 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(file.Category).To(Equal("general"))
			Expect(file.URL).To(HavePrefix("/uploads/general/"))
		})

		It("rejects non-image extensions", func() {
			_, err := store.Save(strings.NewReader("x"), "report.pdf", "", 1)
			Expect(err).To(MatchError(upload.ErrNotImage))
		})

		It("rejects declared sizes over the limit", func() {
			_, err := store.Save(strings.NewReader("x"), "a.jpg", "", 2*1024*1024)
			Expect(err).To(MatchError(upload.ErrFileTooLarge))
		})

		It("removes the partial file when the stream outruns its declared size", func() {
			big := strings.Repeat("a", 1024*1024+1)
			_, err := store.Save(strings.NewReader(big), "a.jpg", "photos", 10)
			Expect(err).To(MatchError(upload.ErrFileTooLarge))

			entries, readErr := os.ReadDir(filepath.Join(root, "photos"))
			Expect(readErr).NotTo(HaveOccurred())
			Expect(entries).To(BeEmpty())
		})

		It("rejects categories with path characters", func() {
			_, err := store.Save(strings.NewReader("x"), "a.jpg", "../escape", 1)
			Expect(err).To(MatchError(upload.ErrBadCategory))
		})
	})

	Describe("List", func() {
		It("reads an absent category as empty", func() {
			files, err := store.List("photos")
			Expect(err).NotTo(HaveOccurred())
			Expect(files).To(BeEmpty())
		})

		It("lists only the requested category", func() {
			_, err := store.Save(strings.NewReader("a"), "a.jpg", "photos", 1)
			Expect(err).NotTo(HaveOccurred())
			_, err = store.Save(strings.NewReader("b"), "b.jpg", "photos", 1)
			Expect(err).NotTo(HaveOccurred())
			_, err = store.Save(strings.NewReader("c"), "c.jpg", "banners", 1)
			Expect(err).NotTo(HaveOccurred())

			files, err := store.List("photos")
			Expect(err).NotTo(HaveOccurred())
			Expect(files).To(HaveLen(2))
			for _, f := range files {
				Expect(f.Category).To(Equal("photos"))
				Expect(f.URL).To(HavePrefix("/uploads/photos/"))
			}
		})
	})

	Describe("Delete", func() {
		It("removes a stored file", func() {
			file, err := store.Save(strings.NewReader("a"), "a.jpg", "photos", 1)
			Expect(err).NotTo(HaveOccurred())

			Expect(store.Delete("photos", file.Filename)).To(Succeed())

			files, err := store.List("photos")
			Expect(err).NotTo(HaveOccurred())
			Expect(files).To(BeEmpty())
		})

		It("returns not found for an unknown file", func() {
			Expect(store.Delete("photos", "missing.jpg")).To(MatchError(upload.ErrFileNotFound))
		})

		It("rejects filenames that traverse directories", func() {
			Expect(store.Delete("photos", "../secret.jpg")).To(MatchError(upload.ErrInvalidName))
		})
	})
})
