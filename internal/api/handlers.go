package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/JakeFAU/sheetbridge/internal/bridge"
	"github.com/JakeFAU/sheetbridge/internal/metrics"
	"github.com/JakeFAU/sheetbridge/internal/sheet"
	"github.com/JakeFAU/sheetbridge/internal/upload"
)

const (
	typeField      = "type"
	pagesField     = "pages"
	maxFieldBytes  = 1 << 10
	templateName   = "import_template.xlsx"
	downloadSuffix = ".xlsx"
)

var errNoFile = errors.New("no file uploaded")

type uploadForm struct {
	file    *upload.File
	jobType string
	pages   string
}

func (s *Server) uploadSheet(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxBytes)

	form, err := s.readUpload(r)
	if err != nil {
		s.release(r.Context(), form.file)
		metrics.ObserveUpload(metrics.UploadRejected, 0)
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusBadRequest, s.messages.UploadTooLarge)
		case errors.Is(err, errNoFile):
			writeError(w, http.StatusBadRequest, s.messages.FileRequired)
		default:
			s.logger.Warn("read upload failed", zap.String("request_id", RequestID(r.Context())), zap.Error(err))
			writeError(w, http.StatusBadRequest, s.messages.FileRequired)
		}
		return
	}

	urls, err := s.decodeUpload(r.Context(), form.file)
	if err != nil {
		metrics.ObserveUpload(metrics.UploadRejected, 0)
		switch {
		case errors.Is(err, bridge.ErrNoValidURLs):
			writeError(w, http.StatusBadRequest, s.messages.NoValidURLs)
		case errors.Is(err, bridge.ErrValidation):
			writeError(w, http.StatusBadRequest, s.messages.UnreadableWorkbook)
		default:
			s.logger.Error("decode upload failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, s.messages.SubmitFailed+err.Error())
		}
		return
	}

	req := bridge.BuildJobRequest(urls, form.jobType, form.pages)
	handle, err := s.service.Submit(upstreamContext(r), req)
	if err != nil {
		metrics.ObserveUpload(metrics.UploadFailed, len(urls))
		s.logger.Error("task submission failed",
			zap.String("request_id", RequestID(r.Context())),
			zap.Int("urls", len(urls)),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, s.messages.SubmitFailed+upstreamMessage(err))
		return
	}
	metrics.ObserveUpload(metrics.UploadSubmitted, len(urls))
	writeRawJSON(w, http.StatusOK, handle.Descriptor)
}

// readUpload streams the multipart body: the first file in the configured
// field is spooled to disk, the type and pages fields are kept as text. The
// returned form may hold a spooled file even when err is non-nil.
func (s *Server) readUpload(r *http.Request) (uploadForm, error) {
	var form uploadForm
	mr, err := r.MultipartReader()
	if err != nil {
		return form, fmt.Errorf("%w: %w", errNoFile, err)
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return form, fmt.Errorf("read multipart: %w", err)
		}
		err = s.readPart(part, &form)
		_ = part.Close()
		if err != nil {
			return form, err
		}
	}
	if form.file == nil {
		return form, errNoFile
	}
	return form, nil
}

func (s *Server) readPart(part *multipart.Part, form *uploadForm) error {
	switch name := part.FormName(); {
	case name == s.cfg.Upload.Field && part.FileName() != "" && form.file == nil:
		file, err := s.spool.Save(part, uploadExt(part.FileName()))
		if err != nil {
			return fmt.Errorf("spool upload: %w", err)
		}
		form.file = file
	case name == typeField:
		value, err := readField(part)
		if err != nil {
			return err
		}
		form.jobType = value
	case name == pagesField:
		value, err := readField(part)
		if err != nil {
			return err
		}
		form.pages = value
	}
	return nil
}

// uploadExt keeps the CSV extension so the decoder can pick its reader; every
// other upload is spooled as a workbook.
func uploadExt(filename string) string {
	if strings.EqualFold(filepath.Ext(filename), sheet.ExtCSV) {
		return sheet.ExtCSV
	}
	return sheet.ExtXLSX
}

func readField(part *multipart.Part) (string, error) {
	b, err := io.ReadAll(io.LimitReader(part, maxFieldBytes))
	if err != nil {
		return "", fmt.Errorf("read field %q: %w", part.FormName(), err)
	}
	return string(b), nil
}

// decodeUpload extracts URLs from the spooled file and always deletes it,
// whatever the outcome.
func (s *Server) decodeUpload(ctx context.Context, file *upload.File) ([]string, error) {
	defer s.release(ctx, file)
	return sheet.DecodeFile(file.Path())
}

// release deletes a spooled upload. Failures are logged, never returned.
func (s *Server) release(ctx context.Context, file *upload.File) {
	if file == nil {
		return
	}
	if err := file.Remove(); err != nil {
		s.logger.Warn("failed to remove upload",
			zap.String("request_id", RequestID(ctx)),
			zap.String("path", file.Path()),
			zap.Error(err),
		)
	}
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	taskID := taskIDParam(r)
	doc, err := s.proxy.GetStatus(upstreamContext(r), taskID)
	if err != nil {
		s.logger.Error("status fetch failed", zap.String("task_id", taskID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, s.messages.StatusFailed)
		return
	}
	writeRawJSON(w, http.StatusOK, doc.Raw)
}

func (s *Server) downloadResult(w http.ResponseWriter, r *http.Request) {
	taskID := taskIDParam(r)
	records, err := s.proxy.GetResult(upstreamContext(r), taskID)
	if err != nil {
		if errors.Is(err, bridge.ErrJobNotReady) {
			metrics.ObserveDownload(metrics.DownloadResult, metrics.DownloadNotReady)
			writeText(w, http.StatusBadRequest, s.messages.JobNotReady)
			return
		}
		metrics.ObserveDownload(metrics.DownloadResult, metrics.DownloadFailed)
		s.logger.Error("result fetch failed", zap.String("task_id", taskID), zap.Error(err))
		writeText(w, http.StatusInternalServerError, s.messages.DownloadFailed)
		return
	}

	payload, err := s.encoder.Encode(records)
	if err != nil {
		metrics.ObserveDownload(metrics.DownloadResult, metrics.DownloadFailed)
		s.logger.Error("result encoding failed", zap.String("task_id", taskID), zap.Error(err))
		writeText(w, http.StatusInternalServerError, s.messages.DownloadFailed)
		return
	}
	metrics.ObserveDownload(metrics.DownloadResult, metrics.DownloadOK)
	writeSpreadsheet(w, s.cfg.Download.FilenamePrefix+taskID+downloadSuffix, payload)
}

func (s *Server) downloadTemplate(w http.ResponseWriter, _ *http.Request) {
	payload, err := sheet.EncodeTemplate()
	if err != nil {
		metrics.ObserveDownload(metrics.DownloadTemplate, metrics.DownloadFailed)
		s.logger.Error("template encoding failed", zap.Error(err))
		writeText(w, http.StatusInternalServerError, s.messages.TemplateFailed)
		return
	}
	metrics.ObserveDownload(metrics.DownloadTemplate, metrics.DownloadOK)
	writeSpreadsheet(w, templateName, payload)
}

// taskIDParam returns the decoded task id. chi matches against the escaped
// path whenever RawPath is set, leaving escapes such as %2F in the param.
func taskIDParam(r *http.Request) string {
	id := chi.URLParam(r, "taskId")
	if r.URL.RawPath == "" {
		return id
	}
	if decoded, err := url.PathUnescape(id); err == nil {
		return decoded
	}
	return id
}

// upstreamContext detaches task service calls from client disconnects: an
// issued submit or fetch runs to completion, bounded by the client timeout.
func upstreamContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func upstreamMessage(err error) string {
	var ue *bridge.UpstreamError
	if errors.As(err, &ue) {
		return ue.Message()
	}
	return err.Error()
}

// attachmentName replaces characters that would break a quoted
// Content-Disposition filename or read as a path separator.
func attachmentName(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '"' || r == '\\' || r == '/' || r < 0x20 || r == 0x7f {
			return '_'
		}
		return r
	}, name)
}
