package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lallen30/skype-clone/internal/service"
	"github.com/lallen30/skype-clone/internal/transport/http/middleware"
	"github.com/lallen30/skype-clone/internal/upload"
)

type FileHandler struct {
	messageService *service.MessageService
	store          *upload.Store
}

func NewFileHandler(messageService *service.MessageService, store *upload.Store) *FileHandler {
	return &FileHandler{messageService: messageService, store: store}
}

// Upload accepts a multipart "file" of at most 50 MB and creates a file
// message in the conversation.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxFileSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Please upload a file")
		return
	}
	defer file.Close()

	convID, err := uuid.Parse(r.FormValue("conversation_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Please provide a conversation ID")
		return
	}

	name, size, err := h.store.Save("file", header.Filename, file)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	msg, err := h.messageService.SendFile(r.Context(), userID, convID, service.FileInput{
		URL:      "/uploads/" + name,
		Name:     header.Filename,
		Size:     size,
		MIMEType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

func (h *FileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	messageID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid file ID")
		return
	}

	meta, err := h.messageService.GetFile(r.Context(), userID, messageID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, meta)
}
