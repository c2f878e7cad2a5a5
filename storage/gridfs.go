package storage

import (
	"context"
	"errors"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"hackathon-backend/errs"
	"hackathon-backend/log"
)

// GridFS keeps objects in a MongoDB GridFS bucket. The driver's Bucket is not
// safe for concurrent use, so one is opened per call.
type GridFS struct {
	db      *mongo.Database
	name    string
	baseURL string
}

func NewGridFS(db *mongo.Database, name, baseURL string) *GridFS {
	return &GridFS{db: db, name: name, baseURL: baseURL}
}

func (g *GridFS) bucket(ctx context.Context) (*gridfs.Bucket, error) {
	b, err := gridfs.NewBucket(g.db, options.GridFSBucket().SetName(g.name))
	if err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = b.SetReadDeadline(deadline)
		_ = b.SetWriteDeadline(deadline)
	}
	return b, nil
}

func (g *GridFS) Put(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	logger := log.Logger.With(zap.String("key", key))

	b, err := g.bucket(ctx)
	if err != nil {
		logger.Error("gridfs bucket", zap.Error(err))
		return "", errs.ErrUpload
	}

	start := time.Now()
	opts := options.GridFSUpload().SetMetadata(bson.D{{Key: "contentType", Value: contentType}})
	id, err := b.UploadFromStream(key, r, opts)
	if err != nil {
		logger.Error("upload failed", zap.Error(err))
		return "", errs.ErrUpload
	}
	logger.Debug("uploaded", zap.String("id", id.Hex()), zap.Duration("took", time.Since(start)))

	return PublicURL(g.baseURL, key), nil
}

func (g *GridFS) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	b, err := g.bucket(ctx)
	if err != nil {
		log.Logger.Error("gridfs bucket", zap.Error(err))
		return nil, errs.ErrDatabase
	}

	s, err := b.OpenDownloadStreamByName(key)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, errs.ErrNotFound
		}
		log.Logger.Error("download failed", zap.String("key", key), zap.Error(err))
		return nil, errs.ErrDatabase
	}
	return s, nil
}
