package storage

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// Handler serves the outputs a FileStorage stored. This is how the
// URLs returned by FileStorage.Store resolve.
type Handler struct {
	router  chi.Router
	storage *FileStorage
	logger  *slog.Logger
}

func NewHandler(s *FileStorage) *Handler {
	h := Handler{
		storage: s,
		logger:  slog.New(slog.NewTextHandler(os.Stdout, nil)),
	}
	r := chi.NewRouter()
	r.Route("/outputs", func(r chi.Router) {
		r.Get("/{request}/{output}", h.download)
	})
	h.router = r
	return &h
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	request := chi.URLParam(r, "request")
	output := chi.URLParam(r, "output")
	if _, err := uuid.Parse(request); err != nil {
		http.Error(w, "request id is not a valid uuid", http.StatusBadRequest)
		return
	}
	// the output name is a single path element below the request dir
	if output != filepath.Base(output) {
		http.Error(w, "invalid output name", http.StatusBadRequest)
		return
	}
	path := filepath.Join(h.storage.Target, request, output)
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		http.Error(w, "no such output", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("opening stored output", slog.String("path", path), slog.String("msg", err.Error()))
		http.Error(w, "something went wrong while opening the output", http.StatusInternalServerError)
		return
	}
	defer f.Close()
	w.Header().Set("Content-Type", contentType(output))
	if _, err := io.Copy(w, f); err != nil {
		h.logger.Error("streaming stored output", slog.String("path", path), slog.String("msg", err.Error()))
	}
}

// contentType resolves the official mime type of the output name.
func contentType(name string) string {
	if typ := mime.TypeByExtension(filepath.Ext(name)); typ != "" {
		return typ
	}
	return "application/octet-stream"
}

func (h *Handler) Serve(addr string) error {
	return http.ListenAndServe(addr, h.router)
}
