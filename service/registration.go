package service

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"hackathon-backend/entity"
	"hackathon-backend/errs"
	"hackathon-backend/events"
	"hackathon-backend/log"
	"hackathon-backend/mail"
)

type MemberInput struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,max=32"`
}

type RegisterRequest struct {
	TeamName    string        `json:"teamName" validate:"required,max=100"`
	TeamSize    int           `json:"teamSize" validate:"required,min=1"`
	Experience  string        `json:"experience" validate:"max=2000"`
	TeamMembers []MemberInput `json:"teamMembers" validate:"required,min=1,dive"`
}

type RegisterResult struct {
	Message    string `json:"message"`
	TeamID     string `json:"teamId"`
	Waitlisted bool   `json:"waitlisted"`
	Position   int64  `json:"position,omitempty"`
}

// Register admits a team while the team store is below capacity and
// waitlists it otherwise. Member emails must be unused on both paths.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*RegisterResult, error) {
	req.TeamName = strings.TrimSpace(req.TeamName)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	members, err := newMembers(req.TeamMembers)
	if err != nil {
		return nil, err
	}
	experience := strings.TrimSpace(req.Experience)
	if experience == "" {
		experience = entity.DefaultExperience
	}

	logger := log.Logger.With(zap.String("team", req.TeamName))

	app := &entity.WaitlistEntry{
		TeamName:   req.TeamName,
		TeamSize:   req.TeamSize,
		Experience: experience,
		Members:    members,
	}
	team, count, err := s.admit(ctx, app)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return s.waitlisted(ctx, app)
	}
	logger.Info("team registered", zap.String("id", team.ID.Hex()), zap.Int64("teams", count+1))

	s.sendParticipation(ctx, team)
	s.publish(events.New(events.TeamRegistered, team.ID.Hex(), team.TeamName, ""))

	return &RegisterResult{
		Message: "Team registered successfully!",
		TeamID:  team.ID.Hex(),
	}, nil
}

// admit stores the application under the registration lock: as a team while
// below capacity, otherwise as a waitlist entry. A nil team means app was
// waitlisted. count is the team count seen before the insert.
func (s *Service) admit(ctx context.Context, app *entity.WaitlistEntry) (*entity.Team, int64, error) {
	unlock, err := s.locker.Lock(ctx, RegistrationLock)
	if err != nil {
		log.Logger.Warn("registration lock", zap.String("team", app.TeamName), zap.Error(err))
		return nil, 0, errs.ErrLock
	}
	defer unlock()

	count, err := s.stores.Teams.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	if err := s.checkEmailsFree(ctx, app.Emails()); err != nil {
		log.Logger.Debug("duplicate email", zap.String("team", app.TeamName), zap.Error(err))
		return nil, 0, err
	}

	if count >= s.capacity {
		app.RegisteredAt = s.now()
		if err := s.stores.Waitlist.Insert(ctx, app); err != nil {
			return nil, 0, err
		}
		return nil, count, nil
	}

	team := app.ToTeam()
	if err := s.stores.Teams.Insert(ctx, team); err != nil {
		return nil, 0, err
	}
	return team, count, nil
}

func (s *Service) waitlisted(ctx context.Context, entry *entity.WaitlistEntry) (*RegisterResult, error) {
	logger := log.Logger.With(zap.String("team", entry.TeamName))

	position, err := s.stores.Waitlist.Position(ctx, entry)
	if err != nil {
		// The entry is stored; only the email loses its position line.
		logger.Warn("waitlist position unavailable", zap.Error(err))
	}
	logger.Info("team waitlisted", zap.String("id", entry.ID.Hex()), zap.Int64("position", position))

	body, err := mail.Waitlist(entry.TeamName, position, s.contactURL)
	if err == nil {
		err = s.mailer.Send(ctx, &mail.Message{
			To:      entry.Emails(),
			Subject: mail.WaitlistSubject,
			Body:    body,
			IsHTML:  true,
		})
	}
	if err != nil {
		logger.Error("waitlist email failed", zap.Error(err))
	}

	s.publish(events.New(events.TeamWaitlisted, entry.ID.Hex(), entry.TeamName, fmt.Sprintf("position %d", position)))

	msg := "Registration is full. Your team has been added to the waitlist."
	if position > 0 {
		msg = fmt.Sprintf("Registration is full. Your team has been added to the waitlist at position %d.", position)
	}
	return &RegisterResult{
		Message:    msg,
		TeamID:     entry.ID.Hex(),
		Waitlisted: true,
		Position:   position,
	}, nil
}

// newMembers normalises emails, mints member ids and rejects an application
// that lists the same address twice.
func newMembers(in []MemberInput) ([]entity.Member, error) {
	seen := make(map[string]bool, len(in))
	members := make([]entity.Member, 0, len(in))
	for _, m := range in {
		email := entity.NormalizeEmail(m.Email)
		if seen[email] {
			return nil, fmt.Errorf("%w: %s", errs.ErrDuplicateEmail, email)
		}
		seen[email] = true

		members = append(members, entity.Member{
			ID:    primitive.NewObjectID(),
			Name:  strings.TrimSpace(m.Name),
			Email: email,
			Phone: strings.TrimSpace(m.Phone),
		})
	}
	return members, nil
}

// checkEmailsFree fails with the first email already used by a team or a
// waitlist entry, in the order given.
func (s *Service) checkEmailsFree(ctx context.Context, emails []string) error {
	used := make(map[string]bool)

	inTeams, err := s.stores.Teams.EmailsInUse(ctx, emails)
	if err != nil {
		return err
	}
	inWaitlist, err := s.stores.Waitlist.EmailsInUse(ctx, emails)
	if err != nil {
		return err
	}
	for _, e := range append(inTeams, inWaitlist...) {
		used[e] = true
	}

	for _, e := range emails {
		if used[e] {
			return fmt.Errorf("%w: %s", errs.ErrDuplicateEmail, e)
		}
	}
	return nil
}
