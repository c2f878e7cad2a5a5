// Package service implements the hackathon workflows on top of the stores and
// outbound collaborators. Every exported method returns errors from errs.
package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"hackathon-backend/entity"
	"hackathon-backend/errs"
	"hackathon-backend/events"
	"hackathon-backend/lock"
	"hackathon-backend/log"
	"hackathon-backend/mail"
	"hackathon-backend/storage"
	"hackathon-backend/store"
)

const (
	DefaultCapacity       = 40
	DefaultMaxUploadBytes = 30 * 1024 * 1024

	// RegistrationLock guards the capacity check and the store writes of
	// registration and promotion. It is never held across mail or publish.
	RegistrationLock = "registration"
)

type Options struct {
	Capacity       int
	ContactURL     string
	MaxUploadBytes int64
}

type Service struct {
	stores    *store.Stores
	mailer    mail.Sender
	bucket    storage.Bucket
	publisher events.Publisher
	locker    lock.Locker

	capacity   int64
	contactURL string
	maxUpload  int64
	now        func() time.Time
}

func New(stores *store.Stores, mailer mail.Sender, bucket storage.Bucket, publisher events.Publisher, locker lock.Locker, opts Options) *Service {
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if publisher == nil {
		publisher = events.Discard{}
	}
	if locker == nil {
		locker = lock.NewLocal()
	}

	return &Service{
		stores:     stores,
		mailer:     mailer,
		bucket:     bucket,
		publisher:  publisher,
		locker:     locker,
		capacity:   int64(opts.Capacity),
		contactURL: opts.ContactURL,
		maxUpload:  opts.MaxUploadBytes,
		now: func() time.Time {
			return time.Now().UTC().Truncate(time.Millisecond)
		},
	}
}

// SetClock replaces the time source; tests use it to pin timestamps.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Service) Capacity() int64 {
	return s.capacity
}

func (s *Service) publish(e *events.Event) {
	if err := s.publisher.Publish(e); err != nil {
		log.Logger.Warn("event not published", zap.String("type", string(e.Type)), zap.Error(err))
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// fieldErrors maps json field names to the sentinel reported for them.
var fieldErrors = map[string]error{
	"teamName":    errs.ErrTeamNameRequired,
	"teamSize":    errs.ErrTeamSizeInvalid,
	"teamMembers": errs.ErrMembersRequired,
	"email":       errs.ErrEmailAddressFormat,
	"teamIds":     errs.ErrNoRecipients,
	"subject":     errs.ErrSubjectRequired,
	"message":     errs.ErrSubjectRequired,
	"teamId":      errs.ErrTeamIDRequired,
}

// validateStruct runs the tag validation and converts the first failure into
// an ErrValidation-wrapped sentinel naming the field.
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return fmt.Errorf("%w: %v", errs.ErrValidation, err)
	}

	fe := ve[0]
	path := fe.Namespace()
	if i := strings.Index(path, "."); i >= 0 {
		path = path[i+1:]
	}
	if sentinel, ok := fieldErrors[fe.Field()]; ok {
		return fmt.Errorf("%w: %w (%s)", errs.ErrValidation, sentinel, path)
	}
	if fe.Tag() == "http_url" {
		return fmt.Errorf("%w: %w (%s)", errs.ErrValidation, errs.ErrInvalidURL, path)
	}
	return fmt.Errorf("%w: %s failed on '%s'", errs.ErrValidation, path, fe.Tag())
}

func parseID(id string, invalid error) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, invalid
	}
	return oid, nil
}

func (s *Service) sendParticipation(ctx context.Context, team *entity.Team) {
	logger := log.Logger.With(zap.String("team", team.TeamName))

	body, err := mail.Participation(team.TeamName, team.MemberNames(), s.contactURL)
	if err != nil {
		logger.Error("render participation email", zap.Error(err))
		return
	}

	err = s.mailer.Send(ctx, &mail.Message{
		To:      team.Emails(),
		Subject: mail.ParticipationSubject,
		Body:    body,
		IsHTML:  true,
	})
	if err != nil {
		logger.Error("participation email failed", zap.Error(err))
	}
}
