package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"hackathon-backend/entity"
	"hackathon-backend/errs"
	"hackathon-backend/events"
	"hackathon-backend/log"
)

type CheckInRequest struct {
	TeamID    string  `json:"teamId" validate:"required"`
	MemberID  *string `json:"memberId"`
	CheckedIn *bool   `json:"checkedIn" validate:"required"`
}

// TeamCheckIn is the roster of a submitted team merged with its attendance.
type TeamCheckIn struct {
	TeamID      primitive.ObjectID     `json:"teamId"`
	TeamName    string                 `json:"teamName"`
	TeamSize    int                    `json:"teamSize"`
	TeamMembers []entity.Member        `json:"teamMembers"`
	IsCheckedIn bool                   `json:"isCheckedIn"`
	CheckedInAt *time.Time             `json:"checkedInAt"`
	Members     []entity.MemberCheckIn `json:"members"`
}

// ListCheckIns covers every team that has a submission. Teams without a
// check-in record show all members as not checked in.
func (s *Service) ListCheckIns(ctx context.Context) ([]*TeamCheckIn, error) {
	subs, err := s.stores.Submissions.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.TeamID)
	}
	if len(ids) == 0 {
		return []*TeamCheckIn{}, nil
	}

	teams, err := s.stores.Teams.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	records, err := s.stores.CheckIns.FindByTeams(ctx, ids)
	if err != nil {
		return nil, err
	}
	byTeam := make(map[primitive.ObjectID]*entity.CheckIn, len(records))
	for _, c := range records {
		byTeam[c.TeamID] = c
	}

	out := make([]*TeamCheckIn, 0, len(teams))
	for _, t := range teams {
		c, ok := byTeam[t.ID]
		if !ok {
			c = entity.NewCheckIn(t)
		}
		v := &TeamCheckIn{
			TeamID:      t.ID,
			TeamName:    t.TeamName,
			TeamSize:    t.TeamSize,
			TeamMembers: t.Members,
			IsCheckedIn: c.IsTeamCheckedIn,
			CheckedInAt: c.CheckedInAt,
			Members:     c.Members,
		}
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].TeamName) < strings.ToLower(out[j].TeamName)
	})

	return out, nil
}

// UpdateCheckIn toggles a team when no member id is given, otherwise the named
// member. The two levels are independent of each other.
func (s *Service) UpdateCheckIn(ctx context.Context, req *CheckInRequest) (*entity.CheckIn, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	teamID, err := parseID(req.TeamID, errs.ErrInvalidTeamID)
	if err != nil {
		return nil, err
	}

	team, err := s.stores.Teams.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	record, err := s.stores.CheckIns.FindByTeam(ctx, teamID)
	if errors.Is(err, errs.ErrNotFound) {
		record = entity.NewCheckIn(team)
	} else if err != nil {
		return nil, err
	}

	now := s.now()
	checkedIn := *req.CheckedIn
	logger := log.Logger.With(zap.String("team", team.TeamName), zap.Bool("checkedIn", checkedIn))

	detail := "team"
	if req.MemberID == nil {
		record.SetTeamCheckedIn(checkedIn, now)
	} else {
		memberID, err := parseID(*req.MemberID, errs.ErrMemberNotFound)
		if err != nil {
			return nil, err
		}
		if !record.SetMemberCheckedIn(memberID, checkedIn, now) {
			return nil, errs.ErrMemberNotFound
		}
		detail = "member " + memberID.Hex()
		logger = logger.With(zap.String("memberID", memberID.Hex()))
	}

	if err := s.stores.CheckIns.Save(ctx, record); err != nil {
		return nil, err
	}
	logger.Info("check-in updated")
	s.publish(events.New(events.CheckInChanged, team.ID.Hex(), team.TeamName, detail))

	return record, nil
}
