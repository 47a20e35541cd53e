package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"altairis-api/internal/middleware"
	"altairis-api/internal/model"
	"altairis-api/internal/service"
	"altairis-api/pkg/apierror"
)

type ProfileHandler struct {
	service       *service.ProfileService
	maxUploadSize int64
}

func NewProfileHandler(service *service.ProfileService, maxUploadSize int64) *ProfileHandler {
	return &ProfileHandler{service: service, maxUploadSize: maxUploadSize}
}

func (h *ProfileHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	profile, err := h.service.GetOwnProfile(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"user": profile}, nil)
}

// UserProfile serves another user's profile. The bearer token is optional
// here; it only changes the projection.
func (h *ProfileHandler) UserProfile(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())

	view, err := h.service.GetUserProfile(r.Context(), chi.URLParam(r, "userID"), claims)
	if err != nil {
		writeError(w, err)
		return
	}

	switch {
	case view.SameUser:
		writeSuccess(w, http.StatusOK, map[string]any{"sameUser": true}, nil)
	case view.Full != nil:
		writeSuccess(w, http.StatusOK, map[string]any{"user": view.Full}, nil)
	default:
		writeSuccess(w, http.StatusOK, map[string]any{"user": view.Restricted}, nil)
	}
}

func (h *ProfileHandler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	defer r.Body.Close()

	var payload model.UpdateEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Email == nil {
		writeError(w, apierror.BadRequest("invalid email", ""))
		return
	}

	email, err := h.service.UpdateEmail(r.Context(), claims.UserID, *payload.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"email": email}, nil)
}

func (h *ProfileHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	defer r.Body.Close()

	var payload model.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Status == nil {
		writeError(w, apierror.BadRequest("invalid status", ""))
		return
	}

	if err := h.service.UpdateStatus(r.Context(), claims.UserID, *payload.Status); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"status": *payload.Status}, nil)
}

func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		writeError(w, apierror.BadRequest("invalid multipart form", ""))
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeError(w, apierror.BadRequest("no file uploaded", "avatar"))
		return
	}
	defer file.Close()

	avatarURL, err := h.service.SetAvatar(r.Context(), claims.UserID, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"avatar": avatarURL}, nil)
}

func (h *ProfileHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	if err := h.service.DeleteAccount(r.Context(), claims.UserID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"message": "Account deleted successfully"}, nil)
}
