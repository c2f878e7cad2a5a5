package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"hackathon-backend/entity"
	"hackathon-backend/errs"
)

const recentLimit = 5

type StoreSummary struct {
	Count        int64       `json:"count"`
	MembersCount int64       `json:"membersCount"`
	Recent       interface{} `json:"recent"`
}

type Dashboard struct {
	RegisteredTeams StoreSummary `json:"registeredTeams"`
	WaitlistedTeams StoreSummary `json:"waitlistedTeams"`
	TotalTeams      int64        `json:"totalTeams"`
	TotalMembers    int64        `json:"totalMembers"`
}

type TeamList struct {
	Teams        []*entity.Team `json:"teams"`
	TotalTeams   int            `json:"totalTeams"`
	TotalMembers int64          `json:"totalMembers"`
}

type WaitlistView struct {
	WaitlistedTeams      []*entity.WaitlistEntry `json:"waitlistedTeams"`
	TotalWaitlistedTeams int                     `json:"totalWaitlistedTeams"`
	TotalWaitlistMembers int64                   `json:"totalWaitlistMembers"`
}

type EnrichedSubmission struct {
	*entity.Submission
	TeamName string `json:"teamName"`
	TeamSize int    `json:"teamSize"`
}

type SubmissionList struct {
	Submissions      []*EnrichedSubmission `json:"submissions"`
	SubmissionsCount int                   `json:"submissionsCount"`
}

type TeamSummary struct {
	ID   primitive.ObjectID `json:"id"`
	Name string             `json:"name"`
	Size int                `json:"size"`
}

type SubmissionSummary struct {
	ID              primitive.ObjectID `json:"id"`
	GithubURL       string             `json:"githubUrl"`
	DeployedURL     string             `json:"deployedUrl"`
	PresentationURL string             `json:"presentationUrl"`
	FileName        string             `json:"fileName"`
	SubmittedAt     time.Time          `json:"submittedAt"`
}

type TeamLookup struct {
	Team       TeamSummary        `json:"team"`
	Submission *SubmissionSummary `json:"submission"`
}

func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	teams, err := s.stores.Teams.List(ctx, 0)
	if err != nil {
		return nil, err
	}
	waitlist, err := s.stores.Waitlist.List(ctx, 0)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		RegisteredTeams: StoreSummary{
			Count:        int64(len(teams)),
			MembersCount: teamMembers(teams),
			Recent:       teams[:min(recentLimit, len(teams))],
		},
		WaitlistedTeams: StoreSummary{
			Count:        int64(len(waitlist)),
			MembersCount: waitlistMembers(waitlist),
			Recent:       waitlist[:min(recentLimit, len(waitlist))],
		},
	}
	d.TotalTeams = d.RegisteredTeams.Count + d.WaitlistedTeams.Count
	d.TotalMembers = d.RegisteredTeams.MembersCount + d.WaitlistedTeams.MembersCount

	return d, nil
}

func (s *Service) Teams(ctx context.Context) (*TeamList, error) {
	teams, err := s.stores.Teams.List(ctx, 0)
	if err != nil {
		return nil, err
	}
	return &TeamList{Teams: teams, TotalTeams: len(teams), TotalMembers: teamMembers(teams)}, nil
}

func (s *Service) Waitlist(ctx context.Context) (*WaitlistView, error) {
	entries, err := s.stores.Waitlist.List(ctx, 0)
	if err != nil {
		return nil, err
	}
	return &WaitlistView{
		WaitlistedTeams:      entries,
		TotalWaitlistedTeams: len(entries),
		TotalWaitlistMembers: waitlistMembers(entries),
	}, nil
}

// Submissions lists every submission with its team's name and size. Orphans
// are reported as "Unknown Team".
func (s *Service) Submissions(ctx context.Context) (*SubmissionList, error) {
	subs, err := s.stores.Submissions.List(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.TeamID)
	}
	teams, err := s.stores.Teams.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]*entity.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}

	out := make([]*EnrichedSubmission, 0, len(subs))
	for _, sub := range subs {
		e := &EnrichedSubmission{Submission: sub, TeamName: "Unknown Team"}
		if t, ok := byID[sub.TeamID]; ok {
			e.TeamName = t.TeamName
			e.TeamSize = t.TeamSize
		}
		out = append(out, e)
	}

	return &SubmissionList{Submissions: out, SubmissionsCount: len(out)}, nil
}

func (s *Service) RegisteredTeamCount(ctx context.Context) (int64, error) {
	return s.stores.Teams.Count(ctx)
}

func (s *Service) SubmissionCount(ctx context.Context) (int64, error) {
	return s.stores.Submissions.Count(ctx)
}

// LookupTeam returns the public view of a team and its submission, if any.
func (s *Service) LookupTeam(ctx context.Context, teamID string) (*TeamLookup, error) {
	if teamID == "" {
		return nil, errs.ErrTeamIDRequired
	}
	id, err := parseID(teamID, errs.ErrInvalidTeamID)
	if err != nil {
		return nil, err
	}

	team, err := s.stores.Teams.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	res := &TeamLookup{Team: TeamSummary{ID: team.ID, Name: team.TeamName, Size: team.TeamSize}}

	sub, err := s.stores.Submissions.FindByTeam(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		return res, nil
	}
	if err != nil {
		return nil, err
	}
	res.Submission = &SubmissionSummary{
		ID:              sub.ID,
		GithubURL:       sub.GithubURL,
		DeployedURL:     sub.DeployedURL,
		PresentationURL: sub.PresentationURL,
		FileName:        sub.FileName,
		SubmittedAt:     sub.SubmittedAt,
	}

	return res, nil
}

func teamMembers(teams []*entity.Team) int64 {
	var n int64
	for _, t := range teams {
		n += int64(t.TeamSize)
	}
	return n
}

func waitlistMembers(entries []*entity.WaitlistEntry) int64 {
	var n int64
	for _, w := range entries {
		n += int64(w.TeamSize)
	}
	return n
}
