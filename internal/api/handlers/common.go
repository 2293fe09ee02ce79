package handlers

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/yoojob/internal/models"
	"github.com/yoockh/yoojob/internal/services"
	"github.com/yoockh/yoojob/internal/utils"
)

const maxUploadBytes = 10 << 20 // 10MB

type APIError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)
	_ = c.Error(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		c.JSON(status, APIError{
			Code:    ae.Code,
			Message: ae.Message,
		})
		return
	}

	c.JSON(status, APIError{
		Code:    utils.CodeInternal,
		Message: http.StatusText(status),
	})
}

func badRequest(c *gin.Context, op string, err error) {
	writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
}

func requireUserID(c *gin.Context) (string, bool) {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
	return "", false
}

func currentRole(c *gin.Context) models.UserRole {
	v, _ := c.Get("role")
	role, _ := v.(models.UserRole)
	return role
}

// content types accepted per extension, with what the sniffer reports for them
type fileKind struct {
	contentType string
	sniffed     []string
}

var (
	documentKinds = map[string]fileKind{
		".pdf":  {"application/pdf", []string{"application/pdf"}},
		".doc":  {"application/msword", []string{"application/octet-stream", "application/x-ole-storage"}},
		".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", []string{"application/zip"}},
	}
	imageKinds = map[string]fileKind{
		".jpg":  {"image/jpeg", []string{"image/jpeg"}},
		".jpeg": {"image/jpeg", []string{"image/jpeg"}},
		".png":  {"image/png", []string{"image/png"}},
		".webp": {"image/webp", []string{"image/webp"}},
	}
	anyKinds = merge(documentKinds, imageKinds)
)

func merge(ms ...map[string]fileKind) map[string]fileKind {
	out := map[string]fileKind{}
	for _, m := range ms {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// openUpload vets a multipart file by size, extension and sniffed content.
// The caller closes the returned file.
func openUpload(fh *multipart.FileHeader, allowed map[string]fileKind) (*services.Upload, io.Closer, error) {
	const op = "Upload"

	if fh.Size > maxUploadBytes {
		return nil, nil, utils.E(utils.CodeInvalidArgument, op, "file is larger than 10MB", nil)
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	kind, ok := allowed[ext]
	if !ok {
		return nil, nil, utils.E(utils.CodeInvalidArgument, op, "unsupported file type", nil)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, nil, utils.E(utils.CodeInvalidArgument, op, "cannot read file", err)
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		_ = f.Close()
		return nil, nil, utils.E(utils.CodeInvalidArgument, op, "cannot read file", err)
	}
	head = head[:n]
	if n == 0 {
		_ = f.Close()
		return nil, nil, utils.E(utils.CodeInvalidArgument, op, "file is empty", nil)
	}

	sniffed := strings.SplitN(http.DetectContentType(head), ";", 2)[0]
	match := false
	for _, s := range kind.sniffed {
		if s == sniffed {
			match = true
			break
		}
	}
	if !match {
		_ = f.Close()
		return nil, nil, utils.E(utils.CodeInvalidArgument, op, "file content does not match its extension", nil)
	}

	return &services.Upload{
		FileName:    fh.Filename,
		ContentType: kind.contentType,
		Size:        fh.Size,
		Body:        io.MultiReader(bytes.NewReader(head), f),
	}, f, nil
}

// formUpload reads an optional multipart file field. A missing field yields nil.
func formUpload(c *gin.Context, field string, allowed map[string]fileKind) (*services.Upload, io.Closer, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes+1<<20)

	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nopCloser{}, nil
		}
		return nil, nil, utils.E(utils.CodeInvalidArgument, "Upload", "invalid multipart form", err)
	}
	return openUpload(fh, allowed)
}

func queryInt(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 0 {
		return def
	}
	return n
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
