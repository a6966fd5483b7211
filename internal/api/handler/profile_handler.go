package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/openblog/blog-api/internal/api/metrics"
	"github.com/openblog/blog-api/internal/core/ports"
)

const defaultMaxUploadBytes = 500 * 1024

// allowedImageTypes is the MIME allowlist for profile pictures.
var allowedImageTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/gif":  {},
	"image/webp": {},
}

// ProfilePictureHandler handles profile-picture upload and download. One
// object per user, keyed by the user id, so a new upload replaces the old one.
type ProfilePictureHandler struct {
	store    ports.FileStore
	maxBytes int64
}

func NewProfilePictureHandler(store ports.FileStore, maxBytes int64) *ProfilePictureHandler {
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	return &ProfilePictureHandler{store: store, maxBytes: maxBytes}
}

// Upload handles POST /users/profile-picture.
//
// @Summary      Upload a profile picture
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Image file"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      413   {object}  map[string]string
// @Failure      415   {object}  map[string]string
// @Router       /users/profile-picture [post]
func (h *ProfilePictureHandler) Upload(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No file uploaded")
	}

	if fileHeader.Size > h.maxBytes {
		metrics.ProfileUploadsTotal.WithLabelValues("too_large").Inc()
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "File too large")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if _, ok := allowedImageTypes[contentType]; !ok {
		metrics.ProfileUploadsTotal.WithLabelValues("bad_type").Inc()
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, "Unsupported file type")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	// Sniff the leading bytes: the declared Content-Type is client-supplied
	// and must agree with the actual payload.
	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return err
	}
	if !strings.HasPrefix(http.DetectContentType(head[:n]), "image/") {
		metrics.ProfileUploadsTotal.WithLabelValues("bad_type").Inc()
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, "Unsupported file type")
	}
	body := io.MultiReader(bytes.NewReader(head[:n]), src)

	if err := h.store.UploadProfilePicture(c.Request().Context(), claims.UserID, contentType, body, fileHeader.Size); err != nil {
		metrics.ProfileUploadsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.ProfileUploadsTotal.WithLabelValues("ok").Inc()
	metrics.ProfileUploadBytes.Observe(float64(fileHeader.Size))
	return c.JSON(http.StatusOK, map[string]string{"message": "Profile picture uploaded successfully"})
}

// Download handles GET /users/profile-picture, streaming the caller's stored
// picture.
//
// @Summary      Download your profile picture
// @Tags         users
// @Produce      octet-stream
// @Security     BearerAuth
// @Success      200  {file}    file
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/profile-picture [get]
func (h *ProfilePictureHandler) Download(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	file, err := h.store.GetProfilePicture(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	defer file.Body.Close()

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return c.Stream(http.StatusOK, contentType, file.Body)
}
