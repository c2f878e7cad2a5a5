package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"hackathon-backend/entity"
	"hackathon-backend/errs"
	"hackathon-backend/events"
	"hackathon-backend/log"
)

// Upload is a file received with a request.
type Upload struct {
	Name        string
	Size        int64
	ContentType string
	Body        io.Reader
}

type SubmitRequest struct {
	TeamID           string `json:"teamId" validate:"required"`
	GithubURL        string `json:"githubUrl" validate:"omitempty,http_url"`
	DeployedURL      string `json:"deployedUrl" validate:"omitempty,http_url"`
	PresentationURL  string `json:"presentationUrl" validate:"omitempty,http_url"`
	PresentationOnly bool   `json:"presentationOnly"`
	File             *Upload `json:"-"`
}

type SubmitResult struct {
	Message    string             `json:"message"`
	Updated    bool               `json:"updated"`
	Submission *entity.Submission `json:"submission"`
}

// Submit records a team's project. Resubmission merges: fields sent non-empty
// replace the stored value, fields left empty keep it.
func (s *Service) Submit(ctx context.Context, req *SubmitRequest) (*SubmitResult, error) {
	req.TeamID = strings.TrimSpace(req.TeamID)
	req.GithubURL = strings.TrimSpace(req.GithubURL)
	req.DeployedURL = strings.TrimSpace(req.DeployedURL)
	req.PresentationURL = strings.TrimSpace(req.PresentationURL)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	id, err := parseID(req.TeamID, errs.ErrInvalidTeamID)
	if err != nil {
		return nil, err
	}
	team, err := s.stores.Teams.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.ErrInvalidTeamID
		}
		return nil, err
	}
	logger := log.Logger.With(zap.String("team", team.TeamName), zap.String("teamID", team.ID.Hex()))

	if req.PresentationOnly {
		return s.submitPresentation(ctx, team, req.PresentationURL)
	}

	settings, err := s.stores.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.SubmissionOpen {
		return nil, errs.ErrSubmissionClosed
	}

	hasFile := req.File != nil && req.File.Size > 0
	if req.GithubURL == "" && req.DeployedURL == "" && req.PresentationURL == "" && !hasFile {
		return nil, fmt.Errorf("%w: %w", errs.ErrValidation, errs.ErrSubmissionEmpty)
	}
	if hasFile && req.File.Size > s.maxUpload {
		return nil, fmt.Errorf("%w: %w", errs.ErrValidation, errs.ErrFileTooLarge)
	}

	existing, err := s.existingSubmission(ctx, team)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sub := existing
	if sub == nil {
		sub = &entity.Submission{TeamID: team.ID, SubmittedAt: now}
	}

	if hasFile {
		key := objectKey(team.TeamName, now.UnixMilli(), req.File.Name)
		url, err := s.bucket.Put(ctx, key, req.File.ContentType, io.LimitReader(req.File.Body, s.maxUpload))
		if err != nil {
			return nil, err
		}
		sub.FileURL = url
		sub.FileName = req.File.Name
		logger.Info("file uploaded", zap.String("key", key), zap.Int64("size", req.File.Size))
	}
	mergeString(&sub.GithubURL, req.GithubURL)
	mergeString(&sub.DeployedURL, req.DeployedURL)
	mergeString(&sub.PresentationURL, req.PresentationURL)
	sub.UpdatedAt = now

	if err := s.stores.Submissions.Save(ctx, sub); err != nil {
		return nil, err
	}

	res := &SubmitResult{Updated: existing != nil, Submission: sub}
	if res.Updated {
		res.Message = "Your project has been updated successfully!"
	} else {
		res.Message = "Your project has been submitted successfully!"
	}
	logger.Info("submission saved", zap.Bool("updated", res.Updated))
	s.publish(events.New(events.SubmissionSaved, team.ID.Hex(), team.TeamName, res.Message))

	return res, nil
}

// submitPresentation is open regardless of the submission window.
func (s *Service) submitPresentation(ctx context.Context, team *entity.Team, presentationURL string) (*SubmitResult, error) {
	if presentationURL == "" {
		return nil, fmt.Errorf("%w: %w", errs.ErrValidation, errs.ErrPresentationRequired)
	}

	existing, err := s.existingSubmission(ctx, team)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sub := existing
	if sub == nil {
		sub = &entity.Submission{TeamID: team.ID, SubmittedAt: now}
	}
	sub.PresentationURL = presentationURL
	sub.UpdatedAt = now

	if err := s.stores.Submissions.Save(ctx, sub); err != nil {
		return nil, err
	}

	res := &SubmitResult{Updated: existing != nil, Submission: sub}
	if res.Updated {
		res.Message = "Presentation URL updated successfully"
	} else {
		res.Message = "Presentation URL submitted successfully"
	}
	s.publish(events.New(events.SubmissionSaved, team.ID.Hex(), team.TeamName, res.Message))

	return res, nil
}

func (s *Service) existingSubmission(ctx context.Context, team *entity.Team) (*entity.Submission, error) {
	sub, err := s.stores.Submissions.FindByTeam(ctx, team.ID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return sub, nil
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// objectKey names an upload after the team and the upload time, keeping the
// original extension.
func objectKey(teamName string, unixMilli int64, fileName string) string {
	base := strings.Trim(unsafeKeyChars.ReplaceAllString(teamName, "-"), "-")
	if base == "" {
		base = "team"
	}

	key := fmt.Sprintf("%s-%d", base, unixMilli)
	if ext := unsafeKeyChars.ReplaceAllString(filepath.Ext(fileName), ""); ext != "" && ext != "." {
		key += ext
	}
	return key
}
