package ordermessages

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/handywriterz/order-admin-svc/internal/service/models/message"
	"github.com/handywriterz/order-admin-svc/internal/service/models/order"
	"github.com/handywriterz/order-admin-svc/internal/service/models/session"
	"github.com/handywriterz/order-admin-svc/internal/transport/http/response"
)

const (
	noticeSendFailed = "Failed to send message"
	noticeLoadFailed = "Failed to load messages"
)

var validate = validator.New()

type service interface {
	ListMessages(ctx context.Context, sess session.Session, id string) ([]message.OrderMessage, error)
	SendMessage(
		ctx context.Context,
		sess session.Session,
		id string,
		text string,
		files []order.File,
	) (message.OrderMessage, error)
}

type fileInSendMessageRequest struct {
	Name string `json:"name" validate:"required"`
	URL  string `json:"url"  validate:"required,url"`
	Path string `json:"path"`
	Size int64  `json:"size" validate:"gte=0"`
}

type sendMessageRequest struct {
	Message string                     `json:"message" validate:"required"`
	Files   []fileInSendMessageRequest `json:"files"   validate:"dive"`
}

func (r *sendMessageRequest) Validate() error {
	return validate.Struct(r)
}

func (r *sendMessageRequest) files() []order.File {
	if len(r.Files) == 0 {
		return nil
	}

	files := make([]order.File, len(r.Files))
	for i, f := range r.Files {
		files[i] = order.File{Name: f.Name, URL: f.URL, Path: f.Path, Size: f.Size}
	}

	return files
}

func ListMessages(w http.ResponseWriter, r *http.Request, service service) {
	sess, _ := session.FromContext(r.Context())

	messages, err := service.ListMessages(r.Context(), sess, chi.URLParam(r, "id"))
	if err != nil {
		response.ServiceError(w, r, err, noticeLoadFailed)

		return
	}

	response.JSON(w, http.StatusOK, messages)
}

func SendMessage(w http.ResponseWriter, r *http.Request, service service) {
	sess, _ := session.FromContext(r.Context())

	req := sendMessageRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Error decoding request body for send message", "error", err)
		response.Error(w, http.StatusBadRequest, noticeSendFailed)

		return
	}

	if err := req.Validate(); err != nil {
		slog.Warn("Error validating request body for send message", "error", err)
		response.Error(w, http.StatusBadRequest, noticeSendFailed)

		return
	}

	msg, err := service.SendMessage(r.Context(), sess, chi.URLParam(r, "id"), req.Message, req.files())
	if err != nil {
		response.ServiceError(w, r, err, noticeSendFailed)

		return
	}

	response.JSON(w, http.StatusCreated, msg)
}
