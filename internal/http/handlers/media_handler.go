package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"

	"github.com/sakshiot4/UrbanWatch-plus/internal/http/handlers/common"
	"github.com/sakshiot4/UrbanWatch-plus/internal/pkg/apperror"
	"github.com/sakshiot4/UrbanWatch-plus/internal/storage"
)

// Allowed photo types. Both lists must stay in sync: the extension gate runs
// on the file name, the mime gate on the magic bytes.
var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// MediaHandler accepts photo uploads for complaint proof and completion
// evidence. The returned relative path is what complaint operations carry in
// proof_image and completion_image.
type MediaHandler struct {
	storage *storage.PhotoStorage
}

// NewMediaHandler creates the handler.
func NewMediaHandler(storage *storage.PhotoStorage) *MediaHandler {
	return &MediaHandler{storage: storage}
}

// UploadPhoto handles POST /media/photos.
func (h *MediaHandler) UploadPhoto(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.Error(err)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.New(apperror.ErrCodeValidation, "the file field is required"))
		return
	}

	if file.Size == 0 {
		c.Error(apperror.New(apperror.ErrCodeValidation, "file cannot be empty"))
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		c.Error(apperror.New(apperror.ErrCodeValidation,
			fmt.Sprintf("unsupported file extension %s, allowed: %s", ext, strings.Join(extensionList(), ", "))))
		return
	}

	src, err := file.Open()
	if err != nil {
		c.Error(apperror.Wrap(err, apperror.ErrCodeInternal, "cannot open uploaded file"))
		return
	}
	defer src.Close()

	// Magic bytes live in the first 512 bytes.
	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		c.Error(apperror.New(apperror.ErrCodeValidation, "cannot read uploaded file"))
		return
	}

	kind, err := filetype.Match(buffer[:n])
	if err != nil || kind == filetype.Unknown {
		c.Error(apperror.New(apperror.ErrCodeValidation, "cannot detect file type, only images are allowed"))
		return
	}

	contentType := kind.MIME.Value
	if !allowedMimeTypes[contentType] {
		c.Error(apperror.New(apperror.ErrCodeValidation,
			fmt.Sprintf("unsupported file type %s, only images are allowed", contentType)))
		return
	}

	// The declared extension must match the real type; .jpg and .jpeg are
	// the same format.
	expectedExt := "." + kind.Extension
	if ext != expectedExt && !(ext == ".jpg" && expectedExt == ".jpeg") && !(ext == ".jpeg" && expectedExt == ".jpg") {
		c.Error(apperror.New(apperror.ErrCodeValidation,
			fmt.Sprintf("file extension %s does not match actual type %s", ext, expectedExt)))
		return
	}

	// Rewind after sniffing so Save sees the whole file.
	if seeker, ok := src.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			c.Error(apperror.Wrap(err, apperror.ErrCodeInternal, "cannot rewind uploaded file"))
			return
		}
	}

	relativePath, size, err := h.storage.Save(c.Request.Context(), userID, file.Filename, src)
	if err != nil {
		c.Error(apperror.Wrap(err, apperror.ErrCodeInternal, "cannot store uploaded file"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"path": filepath.ToSlash(relativePath),
		"type": contentType,
		"size": size,
	})
}

func extensionList() []string {
	out := make([]string, 0, len(allowedExtensions))
	for ext := range allowedExtensions {
		out = append(out, ext)
	}
	return out
}
