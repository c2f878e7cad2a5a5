package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"hackathon-backend/errs"
	"hackathon-backend/log"
	"hackathon-backend/service"
)

const (
	// multipartSlack covers the form fields and boundaries around an upload.
	multipartSlack = 1 << 20
	formMemory     = 8 << 20
)

type countResponse struct {
	Count int64 `json:"count"`
}

func (h *Handler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) Submit(c *gin.Context) {
	if err := h.parseForm(c); err != nil {
		fail(c, err)
		return
	}

	presentationOnly, _ := strconv.ParseBool(c.PostForm("presentationOnly"))
	req := &service.SubmitRequest{
		TeamID:           c.PostForm("teamId"),
		GithubURL:        c.PostForm("githubUrl"),
		DeployedURL:      c.PostForm("deployedUrl"),
		PresentationURL:  c.PostForm("presentationUrl"),
		PresentationOnly: presentationOnly,
	}

	upload, closeFile, err := formUpload(c, "file")
	if err != nil {
		fail(c, err)
		return
	}
	defer closeFile()
	req.File = upload

	res, err := h.svc.Submit(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// parseForm reads a multipart or urlencoded body, capped at the upload limit.
func (h *Handler) parseForm(c *gin.Context) error {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxUploadBytes+multipartSlack)

	err := c.Request.ParseMultipartForm(formMemory)
	if err == nil || errors.Is(err, http.ErrNotMultipart) {
		return nil
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("%w: %w", errs.ErrValidation, errs.ErrFileTooLarge)
	}
	return fmt.Errorf("%w: %v", errs.ErrValidation, err)
}

// formUpload returns nil when the field is absent.
func formUpload(c *gin.Context, field string) (*service.Upload, func(), error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, errs.ErrValidation
	}
	return openUpload(fh)
}

func openUpload(fh *multipart.FileHeader) (*service.Upload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		log.Logger.Error("open form file", zap.Error(err))
		return nil, func() {}, errs.ErrUpload
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &service.Upload{
		Name:        filepath.Base(fh.Filename),
		Size:        fh.Size,
		ContentType: contentType,
		Body:        f,
	}, func() { f.Close() }, nil
}

func (h *Handler) RegisteredTeams(c *gin.Context) {
	n, err := h.svc.RegisteredTeamCount(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, countResponse{Count: n})
}

func (h *Handler) SubmissionCount(c *gin.Context) {
	n, err := h.svc.SubmissionCount(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, countResponse{Count: n})
}

func (h *Handler) PublicSubmissionStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.PublicSubmissionStatus(c.Request.Context()))
}

func (h *Handler) Team(c *gin.Context) {
	res, err := h.svc.LookupTeam(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// File streams a stored object back to the client.
func (h *Handler) File(c *gin.Context) {
	key := strings.TrimPrefix(path.Clean(c.Param("name")), "/")
	if key == "" {
		fail(c, errs.ErrNotFound)
		return
	}
	if strings.HasPrefix(key, service.CertificatePrefix) {
		if _, err := h.verifyAdmin(c); err != nil {
			fail(c, err)
			return
		}
	}

	r, err := h.bucket.Open(c.Request.Context(), key)
	if err != nil {
		fail(c, err)
		return
	}
	defer r.Close()

	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": filepath.Base(key)}))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, r); err != nil {
		log.Logger.Warn("file stream interrupted", zap.String("key", key), zap.Error(err))
	}
}

func (h *Handler) Health(c *gin.Context) {
	if h.opts.Ready != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.opts.Ready(ctx); err != nil {
			log.Logger.Warn("not ready", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
