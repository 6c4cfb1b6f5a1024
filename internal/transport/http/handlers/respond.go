package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/lallen30/skype-clone/internal/service"
)

// All responses share a flat envelope: {success:true, data} on success and
// {success:false, message} on failure.

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"data":    data,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}

// writeServiceError maps service sentinel errors onto the HTTP taxonomy.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrAlreadyParticipant),
		errors.Is(err, service.ErrNotGroup),
		errors.Is(err, service.ErrGroupNameRequired),
		errors.Is(err, service.ErrNoParticipants),
		errors.Is(err, service.ErrDirectParticipants),
		errors.Is(err, service.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCreds):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrNotParticipant),
		errors.Is(err, service.ErrNotAdmin),
		errors.Is(err, service.ErrNotOwnProfile):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrConversationNotFound),
		errors.Is(err, service.ErrMessageNotFound),
		errors.Is(err, service.ErrFileNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		log.Printf("ERROR: %v", err)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
	}
}
