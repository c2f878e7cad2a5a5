package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"hackathon-backend/entity"
	"hackathon-backend/errs"
	"hackathon-backend/events"
	"hackathon-backend/log"
)

// CertificatePrefix is the object key prefix of stored certificates. Objects
// under it are only served to admins.
const CertificatePrefix = "certificates/"

type CertificateRequest struct {
	TeamID   string  `json:"teamId" validate:"required"`
	MemberID string  `json:"memberId" validate:"required"`
	File     *Upload `json:"-" validate:"required"`
}

// RegisterCertificate stores a member's certificate and records it so bulk
// email can attach it later. Registering again replaces the previous file.
func (s *Service) RegisterCertificate(ctx context.Context, req *CertificateRequest) (*entity.Certificate, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.File.Size <= 0 {
		return nil, fmt.Errorf("%w: certificate file is empty", errs.ErrValidation)
	}
	if req.File.Size > s.maxUpload {
		return nil, fmt.Errorf("%w: %w", errs.ErrValidation, errs.ErrFileTooLarge)
	}

	teamID, err := parseID(req.TeamID, errs.ErrInvalidTeamID)
	if err != nil {
		return nil, err
	}
	memberID, err := parseID(req.MemberID, errs.ErrMemberNotFound)
	if err != nil {
		return nil, err
	}

	team, err := s.stores.Teams.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	var member *entity.Member
	for i := range team.Members {
		if team.Members[i].ID == memberID {
			member = &team.Members[i]
			break
		}
	}
	if member == nil {
		return nil, errs.ErrMemberNotFound
	}

	ext := strings.ToLower(filepath.Ext(req.File.Name))
	key := fmt.Sprintf("%s%s/%s%s", CertificatePrefix, teamID.Hex(), memberID.Hex(), ext)
	if _, err := s.bucket.Put(ctx, key, req.File.ContentType, req.File.Body); err != nil {
		return nil, err
	}

	cert := &entity.Certificate{
		TeamID:      teamID,
		MemberID:    memberID,
		FileName:    req.File.Name,
		ObjectKey:   key,
		ContentType: req.File.ContentType,
		CreatedAt:   s.now(),
	}
	if err := s.stores.Certificates.Register(ctx, cert); err != nil {
		return nil, err
	}

	log.Logger.Info("certificate registered",
		zap.String("team", team.TeamName),
		zap.String("member", member.Name),
		zap.String("key", key),
	)
	s.publish(events.New(events.CertificateAdded, team.ID.Hex(), team.TeamName, member.Name))

	return cert, nil
}
