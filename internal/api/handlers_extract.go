package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/coverdoc/internal/parser"
	"github.com/dgallion1/coverdoc/internal/service"
)

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := s.readUpload(file)
	if err != nil {
		jsonError(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	}

	res, err := s.svc.ExtractFile(r.Context(), service.File{Name: filename, Data: data})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if title := r.FormValue("title"); title != "" {
		res.Title = title
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleExtractBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	files := make([]service.File, 0, len(headers))
	var rejected []service.BatchItem
	for _, fh := range headers {
		filename := sanitizeFilename(fh.Filename)
		data, err := s.openUpload(fh)
		if err != nil {
			rejected = append(rejected, service.BatchItem{
				Filename: filename,
				Status:   service.StatusFailed,
				Error:    err.Error(),
			})
			continue
		}
		files = append(files, service.File{Name: filename, Data: data})
	}

	if len(files) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "no readable files",
			"items": rejected,
		})
		return
	}

	res, err := s.svc.Batch(r.Context(), files)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res.Items = append(res.Items, rejected...)
	res.Failed += len(rejected)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) openUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file")
	}
	defer f.Close()
	return s.readUpload(f)
}

// readUpload reads a file part, rejecting anything over the upload limit.
func (s *Server) readUpload(f io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file")
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)
	}
	return data, nil
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
