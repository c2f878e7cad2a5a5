package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"hackathon-backend/entity"
	"hackathon-backend/errs"
	"hackathon-backend/events"
	"hackathon-backend/log"
	"hackathon-backend/mail"
)

type BulkEmailRequest struct {
	TeamIDs             []string `json:"teamIds" validate:"required,min=1"`
	Subject             string   `json:"subject" validate:"required"`
	Message             string   `json:"message" validate:"required"`
	IsHTML              bool     `json:"isHtml"`
	UseTemplateVars     *bool    `json:"useTemplateVars"`
	IncludeCertificates bool     `json:"includeCertificates"`
}

type BulkEmailResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Sent    int    `json:"sent"`
	Failed  int    `json:"failed"`
	Skipped int    `json:"skipped"`
}

// SendBulk mails every member of the selected teams one at a time. A failed
// send is counted and the batch carries on.
func (s *Service) SendBulk(ctx context.Context, req *BulkEmailRequest) (*BulkEmailResult, error) {
	req.Subject = strings.TrimSpace(req.Subject)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	useVars := req.UseTemplateVars == nil || *req.UseTemplateVars

	teams, err := s.recipientTeams(ctx, req.TeamIDs)
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, errs.ErrNoTeamsFound
	}

	var checkIns map[primitive.ObjectID]*entity.CheckIn
	if req.IncludeCertificates {
		if checkIns, err = s.checkInsFor(ctx, teams); err != nil {
			return nil, err
		}
	}

	res := &BulkEmailResult{}
	for _, team := range teams {
		allMembers := strings.Join(team.MemberNames(), ", ")
		for _, member := range team.Members {
			if member.Email == "" {
				continue
			}
			logger := log.Logger.With(zap.String("team", team.TeamName), zap.String("to", member.Email))

			msg := &mail.Message{
				To:      []string{member.Email},
				Subject: req.Subject,
				Body:    req.Message,
				IsHTML:  req.IsHTML,
			}

			if req.IncludeCertificates {
				c := checkIns[team.ID]
				if c == nil || !c.MemberCheckedIn(member.ID, member.Email) {
					logger.Debug("member not checked in, skipped")
					res.Skipped++
					continue
				}
				attachment, err := s.certificateFor(ctx, team.ID, member.ID)
				if err != nil {
					logger.Warn("certificate not attached", zap.Error(err))
				} else if attachment != nil {
					msg.Attachments = []mail.Attachment{*attachment}
				}
			}

			if useVars {
				name := member.Name
				if name == "" {
					name = "Participant"
				}
				vars := map[string]string{
					"teamName":    team.TeamName,
					"teamId":      team.ID.Hex(),
					"memberName":  name,
					"memberEmail": member.Email,
					"allMembers":  allMembers,
				}
				msg.Subject = mail.ReplaceVars(msg.Subject, vars)
				msg.Body = mail.ReplaceVars(msg.Body, vars)
			}

			if err := s.mailer.Send(ctx, msg); err != nil {
				logger.Error("bulk email failed", zap.Error(err))
				res.Failed++
				continue
			}
			res.Sent++
		}
	}

	switch {
	case res.Sent == 0 && res.Failed > 0:
		res.Message = "Failed to send any emails. Please check your configuration."
	case res.Failed > 0:
		res.Success = true
		res.Message = fmt.Sprintf("Successfully sent %d emails, but %d failed.", res.Sent, res.Failed)
	case res.Sent > 0:
		res.Success = true
		res.Message = fmt.Sprintf("Successfully sent emails to %d recipients!", res.Sent)
	default:
		res.Message = "No emails were sent."
	}
	if res.Skipped > 0 {
		res.Message += fmt.Sprintf(" %d members were skipped because they are not checked in.", res.Skipped)
	}

	log.Logger.Info("bulk email finished",
		zap.Int("sent", res.Sent),
		zap.Int("failed", res.Failed),
		zap.Int("skipped", res.Skipped),
	)
	s.publish(events.New(events.BulkEmailSent, "", "", res.Message))

	return res, nil
}

// recipientTeams resolves ids against both the team and waitlist stores,
// keeping the order the ids were given in. Unparseable ids are ignored.
func (s *Service) recipientTeams(ctx context.Context, rawIDs []string) ([]*entity.Team, error) {
	ids := make([]primitive.ObjectID, 0, len(rawIDs))
	seen := make(map[primitive.ObjectID]bool, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	found := make(map[primitive.ObjectID]*entity.Team, len(ids))
	teams, err := s.stores.Teams.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, t := range teams {
		found[t.ID] = t
	}
	entries, err := s.stores.Waitlist.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, w := range entries {
		if _, ok := found[w.ID]; !ok {
			found[w.ID] = w.AsTeam()
		}
	}

	out := make([]*entity.Team, 0, len(found))
	for _, id := range ids {
		if t, ok := found[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Service) checkInsFor(ctx context.Context, teams []*entity.Team) (map[primitive.ObjectID]*entity.CheckIn, error) {
	ids := make([]primitive.ObjectID, 0, len(teams))
	for _, t := range teams {
		ids = append(ids, t.ID)
	}
	records, err := s.stores.CheckIns.FindByTeams(ctx, ids)
	if err != nil {
		return nil, err
	}

	m := make(map[primitive.ObjectID]*entity.CheckIn, len(records))
	for _, c := range records {
		m[c.TeamID] = c
	}
	return m, nil
}

// certificateFor returns nil without error when no certificate is registered.
func (s *Service) certificateFor(ctx context.Context, teamID, memberID primitive.ObjectID) (*mail.Attachment, error) {
	cert, err := s.stores.Certificates.Find(ctx, teamID, memberID)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	r, err := s.bucket.Open(ctx, cert.ObjectKey)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrUpload, err)
	}
	return &mail.Attachment{FileName: cert.FileName, Content: content}, nil
}
