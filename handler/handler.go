// Package handler exposes the hackathon service over HTTP.
package handler

import (
	"context"

	"hackathon-backend/internal/live"
	"hackathon-backend/service"
	"hackathon-backend/storage"
)

type Options struct {
	CORSOrigins    []string
	MaxUploadBytes int64
	// Ready backs /healthz. Nil means always ready.
	Ready func(ctx context.Context) error
}

type Handler struct {
	svc    *service.Service
	auth   *service.Authenticator
	bucket storage.Bucket
	hub    *live.Hub
	opts   Options
}

func New(svc *service.Service, auth *service.Authenticator, bucket storage.Bucket, hub *live.Hub, opts Options) *Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = service.DefaultMaxUploadBytes
	}
	if hub == nil {
		hub = live.NewHub()
	}

	return &Handler{
		svc:    svc,
		auth:   auth,
		bucket: bucket,
		hub:    hub,
		opts:   opts,
	}
}
