package transport_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/treyfatech/sitecms/internal"
	"github.com/treyfatech/sitecms/internal/transport"
)

func TestTransport(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Transport Suite")
}

var _ = Describe("BaseHandler", func() {
	var (
		handler  *transport.BaseHandler
		recorder *httptest.ResponseRecorder
	)

	BeforeEach(func() {
		handler = transport.NewBaseHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
		recorder = httptest.NewRecorder()
	})

	AfterEach(func() {
		transport.Init(true)
	})

	decode := func() map[string]interface{} {
		var body map[string]interface{}
		Expect(json.Unmarshal(recorder.Body.Bytes(), &body)).To(Succeed())
		return body
	}

	Describe("HandleServiceError", func() {
		It("writes typed errors with their own status and code", func() {
			handler.HandleServiceError(recorder, internal.ErrBlogPostNotFound)

			Expect(recorder.Code).To(Equal(http.StatusNotFound))
			body := decode()
			appErr, ok := body["error"].(map[string]interface{})
			Expect(ok).To(BeTrue())
			Expect(appErr["message"]).To(Equal("Blog post not found"))
			Expect(appErr["code"]).To(Equal("BLOG_POST_NOT_FOUND"))
		})

		It("masks unexpected errors in production", func() {
			transport.Init(true)
			handler.HandleServiceError(recorder, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

			Expect(recorder.Code).To(Equal(http.StatusInternalServerError))
			body := decode()
			Expect(body["message"]).To(Equal("Server error"))
		})

		It("surfaces the cause outside production", func() {
			transport.Init(false)
			handler.HandleServiceError(recorder, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

			Expect(recorder.Code).To(Equal(http.StatusInternalServerError))
			body := decode()
			Expect(body["message"]).To(Equal("dial tcp 10.0.0.5:5432: connection refused"))
		})
	})

	Describe("ExtractTokenFromHeader", func() {
		It("returns the bearer token", func() {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.Header.Set("Authorization", "Bearer abc.def.ghi")
			Expect(handler.ExtractTokenFromHeader(r)).To(Equal("abc.def.ghi"))
		})

		It("returns empty for missing or malformed headers", func() {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			Expect(handler.ExtractTokenFromHeader(r)).To(BeEmpty())

			r.Header.Set("Authorization", "Basic abc")
			Expect(handler.ExtractTokenFromHeader(r)).To(BeEmpty())
		})
	})
})
