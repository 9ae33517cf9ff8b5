package site

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestStatic(t *testing.T) {
	Convey("Given the static middleware over the embedded site", t, func() {
		fallthroughCalled := false
		next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fallthroughCalled = true
			w.WriteHeader(http.StatusTeapot)
		})
		h := Static(Embedded())(next)

		Convey("When requesting an existing stylesheet", func() {
			req := httptest.NewRequest(http.MethodGet, "/css/style.css", nil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then it should be served with its content type", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/css")
				So(fallthroughCalled, ShouldBeFalse)
			})
		})

		Convey("When requesting a missing file", func() {
			req := httptest.NewRequest(http.MethodGet, "/nope.js", nil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then it should fall through", func() {
				So(fallthroughCalled, ShouldBeTrue)
				So(w.Code, ShouldEqual, http.StatusTeapot)
			})
		})

		Convey("When requesting a directory", func() {
			req := httptest.NewRequest(http.MethodGet, "/css", nil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then it should fall through", func() {
				So(fallthroughCalled, ShouldBeTrue)
			})
		})

		Convey("When requesting the root", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then it should fall through to the router", func() {
				So(fallthroughCalled, ShouldBeTrue)
			})
		})

		Convey("When posting to a file path", func() {
			req := httptest.NewRequest(http.MethodPost, "/css/style.css", nil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then it should fall through", func() {
				So(fallthroughCalled, ShouldBeTrue)
			})
		})
	})
}

func TestFS(t *testing.T) {
	Convey("Given a static directory on disk", t, func() {
		dir := t.TempDir()
		So(os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>disk</h1>"), 0o600), ShouldBeNil)
		So(os.WriteFile(filepath.Join(dir, ".env"), []byte("SECRET=1"), 0o600), ShouldBeNil)

		Convey("When it exists", func() {
			fsys := FS(dir)

			Convey("Then it should be used instead of the embedded site", func() {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				w := httptest.NewRecorder()
				So(ServeFile(w, req, fsys, IndexFile), ShouldBeNil)
				So(w.Body.String(), ShouldEqual, "<h1>disk</h1>")
			})

			Convey("And dotfiles should never be served", func() {
				h := Static(fsys)(http.NotFoundHandler())
				req := httptest.NewRequest(http.MethodGet, "/.env", nil)
				w := httptest.NewRecorder()
				h.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(w.Body.String(), ShouldNotContainSubstring, "SECRET")
			})
		})

		Convey("When it does not exist", func() {
			fsys := FS(filepath.Join(dir, "missing"))

			Convey("Then the embedded site should be used", func() {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				w := httptest.NewRecorder()
				So(ServeFile(w, req, fsys, IndexFile), ShouldBeNil)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				So(w.Body.String(), ShouldContainSubstring, "contact-form")
			})
		})
	})
}

func TestServeFile(t *testing.T) {
	Convey("Given the embedded site", t, func() {
		fsys := Embedded()

		Convey("When serving a missing file", func() {
			w := httptest.NewRecorder()
			err := ServeFile(w, httptest.NewRequest(http.MethodGet, "/", nil), fsys, "missing.html")

			Convey("Then it should report not found without writing", func() {
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
				So(w.Body.Len(), ShouldEqual, 0)
			})
		})
	})
}
