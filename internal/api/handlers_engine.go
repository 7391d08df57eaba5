package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dgallion1/coverdoc/internal/request"
)

// readBody reads a JSON request body up to the upload limit.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("request exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return nil, false
		}
		jsonError(w, "failed to read request body", http.StatusBadRequest)
		return nil, false
	}
	return data, true
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readBody(w, r)
	if !ok {
		return
	}
	page, err := request.ParsePage(data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.svc.Classify(page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleClassifyPages(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readBody(w, r)
	if !ok {
		return
	}
	req, err := request.ParsePages(data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.svc.ClassifyPages(r.Context(), req.Document())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pages": res})
}

func (s *Server) handleSegment(w http.ResponseWriter, r *http.Request) {
	req, ok := s.textRequest(w, r)
	if !ok {
		return
	}
	sections, err := s.svc.Segment(req.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sections": sections})
}

func (s *Server) handleStructure(w http.ResponseWriter, r *http.Request) {
	req, ok := s.textRequest(w, r)
	if !ok {
		return
	}
	st, err := s.svc.Structure(req.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	req, ok := s.textRequest(w, r)
	if !ok {
		return
	}
	parsed, err := s.svc.Items(req.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, parsed)
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readBody(w, r)
	if !ok {
		return
	}
	req, err := request.ParseFeedback(data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sections, err := s.svc.Feedback(req.Text, req.Normalize)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sections": sections})
}

func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readBody(w, r)
	if !ok {
		return
	}
	req, err := request.ParsePages(data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.svc.Split(r.Context(), req.Document())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) textRequest(w http.ResponseWriter, r *http.Request) (request.TextRequest, bool) {
	data, ok := s.readBody(w, r)
	if !ok {
		return request.TextRequest{}, false
	}
	req, err := request.ParseText(data)
	if err != nil {
		s.writeError(w, r, err)
		return req, false
	}
	return req, true
}

// writeError maps input errors to 400 and everything else to 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if request.IsInputError(err) {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.log.Error("request failed", "path", r.URL.Path, "error", err)
	jsonError(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, request.ErrorObject{Error: msg})
}
