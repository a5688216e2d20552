package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"ijus/contexts/legal-research/jurisprudence-service/domain/entities"
	jurisprudenceerrors "ijus/contexts/legal-research/jurisprudence-service/domain/errors"
	jurisprudencehttp "ijus/contexts/legal-research/jurisprudence-service/transport/http"
)

// multipart framing allowance on top of the file itself
const uploadOverheadBytes = 1 << 20

func (s *Server) registerJurisprudenceRoutes() {
	s.mux.HandleFunc("GET /api/v1/jurisprudence/search", s.handleSearch)
	s.mux.HandleFunc("POST /api/v1/jurisprudence/expand", s.handleExpand)
	s.mux.HandleFunc("GET /api/v1/jurisprudence/documents/{document_type}/{document_id}", s.handleGetDocument)
	s.mux.HandleFunc("GET /api/v1/jurisprudence/documents/{document_type}/{document_id}/pdf", s.handleDownloadPDF)
	s.mux.HandleFunc("POST /api/v1/jurisprudence/analyze", s.handleAnalyze)
	s.mux.HandleFunc("GET /api/v1/jurisprudence/credentials", s.handleCredentials)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := jurisprudencehttp.SearchRequest{
		Query:         query.Get("q"),
		Tribunal:      query.Get("tribunal"),
		TipoDocumento: query.Get("tipo_documento"),
		Relator:       query.Get("relator"),
		DeData:        query.Get("de_data"),
		AteData:       query.Get("ate_data"),
		OrdenaPor:     query.Get("ordena_por"),
	}
	if raw := strings.TrimSpace(query.Get("size")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 0 || size > entities.MaxPageSize {
			writeJurisprudenceError(w, http.StatusBadRequest, "invalid_size", fmt.Sprintf("size must be an integer between 1 and %d", entities.MaxPageSize))
			return
		}
		req.Size = size
	}
	if raw := strings.TrimSpace(query.Get("expand")); raw != "" {
		expand, err := strconv.ParseBool(raw)
		if err != nil {
			writeJurisprudenceError(w, http.StatusBadRequest, "invalid_expand", "expand must be a boolean")
			return
		}
		req.Expand = expand
	}

	resp, err := s.jurisprudence.Handler.SearchHandler(r.Context(), req)
	if err != nil {
		writeJurisprudenceDomainError(w, err)
		return
	}
	if req.Expand {
		s.recordActivity(r, "context")
	} else {
		s.recordActivity(r, "search")
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	var req jurisprudencehttp.ExpandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJurisprudenceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.jurisprudence.Handler.ExpandHandler(r.Context(), req)
	if err != nil {
		writeJurisprudenceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	resp, err := s.jurisprudence.Handler.GetDocumentHandler(
		r.Context(),
		documentTypeParam(r),
		r.PathValue("document_id"),
	)
	if err != nil {
		writeJurisprudenceDomainError(w, err)
		return
	}
	s.recordActivity(r, "open")
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDownloadPDF(w http.ResponseWriter, r *http.Request) {
	file, err := s.jurisprudence.Handler.DownloadPDFHandler(
		r.Context(),
		documentTypeParam(r),
		r.PathValue("document_id"),
	)
	if err != nil {
		writeJurisprudenceDomainError(w, err)
		return
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Data)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, entities.MaxUploadBytes+uploadOverheadBytes)
	if err := r.ParseMultipartForm(entities.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJurisprudenceDomainError(w, jurisprudenceerrors.ErrFileTooLarge)
			return
		}
		writeJurisprudenceError(w, http.StatusBadRequest, "invalid_form", "request must be multipart/form-data")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJurisprudenceError(w, http.StatusBadRequest, "missing_file", "form field file is required")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeJurisprudenceError(w, http.StatusBadRequest, "invalid_file", "file could not be read")
		return
	}

	resp, err := s.jurisprudence.Handler.AnalyzeHandler(r.Context(), jurisprudencehttp.AnalyzeRequest{
		Mode:        r.FormValue("mode"),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		writeJurisprudenceDomainError(w, err)
		return
	}
	s.recordActivity(r, entities.AnalysisMode(resp.Data.Mode).Activity())
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCredentials(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.jurisprudence.Handler.CredentialsHandler(r.Context()))
}

// documentTypeParam treats "_" and "auto" as a request to probe every type.
func documentTypeParam(r *http.Request) string {
	switch value := strings.TrimSpace(r.PathValue("document_type")); strings.ToLower(value) {
	case "_", "auto":
		return ""
	default:
		return value
	}
}

func writeJurisprudenceDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, jurisprudenceerrors.ErrInvalidInput):
		writeJurisprudenceError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, jurisprudenceerrors.ErrUnsupportedMode):
		writeJurisprudenceError(w, http.StatusBadRequest, "unsupported_mode", err.Error())
	case errors.Is(err, jurisprudenceerrors.ErrUnsupportedFileType):
		writeJurisprudenceError(w, http.StatusUnsupportedMediaType, "unsupported_file_type", err.Error())
	case errors.Is(err, jurisprudenceerrors.ErrFileTooLarge):
		writeJurisprudenceError(w, http.StatusRequestEntityTooLarge, "file_too_large", err.Error())
	case errors.Is(err, jurisprudenceerrors.ErrDocumentNotFound):
		writeJurisprudenceError(w, http.StatusNotFound, "document_not_found", err.Error())
	case errors.Is(err, jurisprudenceerrors.ErrQuotaExhausted):
		writeJurisprudenceError(w, http.StatusPaymentRequired, "quota_exhausted", err.Error())
	case errors.Is(err, jurisprudenceerrors.ErrCredentialsMissing):
		writeJurisprudenceError(w, http.StatusServiceUnavailable, "credentials_missing", err.Error())
	case errors.Is(err, jurisprudenceerrors.ErrUpstreamUnavailable):
		writeJurisprudenceError(w, http.StatusBadGateway, "upstream_unavailable", err.Error())
	default:
		writeJurisprudenceError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeJurisprudenceError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, jurisprudencehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
