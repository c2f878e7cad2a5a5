package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"hackathon-backend/entity"
	"hackathon-backend/events"
	"hackathon-backend/log"
)

type SubmissionStatusRequest struct {
	Open *bool `json:"open" validate:"required"`
}

type PublicStatus struct {
	SubmissionOpen bool       `json:"submissionOpen"`
	OpenedAt       *time.Time `json:"openedAt"`
	Message        string     `json:"message"`
}

func (s *Service) SubmissionStatus(ctx context.Context) (*entity.Settings, error) {
	return s.stores.Settings.Get(ctx)
}

func (s *Service) SetSubmissionOpen(ctx context.Context, req *SubmissionStatusRequest) (*entity.Settings, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	settings, err := s.stores.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	settings.SetOpen(*req.Open, s.now())
	if err := s.stores.Settings.Save(ctx, settings); err != nil {
		return nil, err
	}

	detail := "closed"
	if settings.SubmissionOpen {
		detail = "opened"
	}
	log.Logger.Info("submission window "+detail, zap.Time("at", settings.LastUpdatedAt))
	s.publish(events.New(events.SettingsChanged, "", "", "submission window "+detail))

	return settings, nil
}

// PublicSubmissionStatus never fails: an unreadable window is reported closed.
func (s *Service) PublicSubmissionStatus(ctx context.Context) *PublicStatus {
	settings, err := s.stores.Settings.Get(ctx)
	if err != nil {
		return &PublicStatus{
			Message: "Unable to determine submission status. Please try again later.",
		}
	}

	if !settings.SubmissionOpen {
		return &PublicStatus{
			OpenedAt: settings.SubmissionOpenedAt,
			Message:  "Submission period is currently closed. Please check back later.",
		}
	}
	return &PublicStatus{
		SubmissionOpen: true,
		OpenedAt:       settings.SubmissionOpenedAt,
		Message:        "Submission period is currently open. Submit your project now!",
	}
}
