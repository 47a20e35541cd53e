package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"altairis-api/internal/middleware"
	"altairis-api/internal/model"
	"altairis-api/internal/service"
	"altairis-api/pkg/apierror"
)

type PostHandler struct {
	service       *service.ProfileService
	maxUploadSize int64
}

func NewPostHandler(service *service.ProfileService, maxUploadSize int64) *PostHandler {
	return &PostHandler{service: service, maxUploadSize: maxUploadSize}
}

// Create accepts a multipart form with an image and a description. An
// empty description is valid; an absent field is not.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, apierror.BadRequest("missing image or description", "image"))
		return
	}
	defer file.Close()

	descriptions, present := r.MultipartForm.Value["description"]
	if !present || len(descriptions) == 0 {
		writeError(w, apierror.BadRequest("missing image or description", "description"))
		return
	}

	post, err := h.service.CreatePost(r.Context(), claims.UserID, header.Filename, header.Header.Get("Content-Type"), descriptions[0], file)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]any{"post": post}, nil)
}

// Feed serves the global feed: every user's posts flattened, newest first,
// paginated by page/limit query parameters.
func (h *PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)

	posts, total, err := h.service.Feed(r.Context(), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"posts": posts, "total": total}, &model.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	defer r.Body.Close()

	var payload model.DeletePostRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	if err := h.service.DeletePost(r.Context(), claims.UserID, payload.ID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"}, nil)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}

	return v
}
