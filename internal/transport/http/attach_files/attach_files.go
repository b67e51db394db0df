package attachfiles

import (
	"context"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/handywriterz/order-admin-svc/internal/service/models/order"
	"github.com/handywriterz/order-admin-svc/internal/service/models/session"
	"github.com/handywriterz/order-admin-svc/internal/service/services/ordersvc"
	"github.com/handywriterz/order-admin-svc/internal/transport/http/response"
)

const (
	noticeFailed = "Failed to upload files"
	filesField   = "files"

	// maxMemory is the part of the multipart body kept in memory; the rest spills to temp files.
	maxMemory = 32 << 20
)

type service interface {
	AttachResponseFiles(
		ctx context.Context,
		sess session.Session,
		id string,
		uploads []order.Upload,
	) (ordersvc.AttachResult, error)
}

// AttachFiles handles a multipart upload of response files.
func AttachFiles(w http.ResponseWriter, r *http.Request, service service) {
	sess, _ := session.FromContext(r.Context())

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		slog.Warn("Error parsing multipart form", "error", err)
		response.Error(w, http.StatusBadRequest, noticeFailed)

		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			slog.Warn("Error removing multipart temp files", "error", err)
		}
	}()

	headers := r.MultipartForm.File[filesField]
	if len(headers) == 0 {
		response.Error(w, http.StatusBadRequest, noticeFailed)

		return
	}

	uploads := make([]order.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			slog.Warn("Error opening uploaded file, skipping", "file", fh.Filename, "error", err)
			// The service reports it as skipped.
			uploads = append(uploads, order.Upload{Name: fh.Filename})

			continue
		}
		defer closeFile(f, fh.Filename)

		uploads = append(uploads, order.Upload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Content:     f,
		})
	}

	res, err := service.AttachResponseFiles(r.Context(), sess, chi.URLParam(r, "id"), uploads)
	if err != nil {
		response.ServiceError(w, r, err, noticeFailed)

		return
	}

	response.JSON(w, http.StatusOK, res)
}

func closeFile(f multipart.File, name string) {
	if err := f.Close(); err != nil {
		slog.Warn("Error closing uploaded file", "file", name, "error", err)
	}
}
