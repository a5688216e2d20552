package errors

import "errors"

var (
	ErrInvalidInput        = errors.New("jurisprudence input is invalid")
	ErrDocumentNotFound    = errors.New("document not found")
	ErrQuotaExhausted      = errors.New("jurisprudence backend quota exhausted")
	ErrUpstreamUnavailable = errors.New("upstream provider unavailable")
	ErrCredentialsMissing  = errors.New("provider credentials are not configured")
	ErrUnsupportedFileType = errors.New("file type is not supported")
	ErrFileTooLarge        = errors.New("file exceeds size limit")
	ErrUnsupportedMode     = errors.New("analysis mode is not supported")
)
