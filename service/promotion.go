package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"hackathon-backend/entity"
	"hackathon-backend/errs"
	"hackathon-backend/events"
	"hackathon-backend/log"
)

// Promote moves a waitlisted team into the team store under a new id and
// sends it the participation confirmation. Capacity is not enforced here.
func (s *Service) Promote(ctx context.Context, waitlistID string) (*entity.Team, error) {
	id, err := parseID(waitlistID, errs.ErrInvalidID)
	if err != nil {
		return nil, err
	}

	team, err := s.moveToTeams(ctx, id)
	if err != nil {
		return nil, err
	}
	log.Logger.Info("team promoted",
		zap.String("waitlistID", id.Hex()),
		zap.String("team", team.TeamName),
		zap.String("teamID", team.ID.Hex()))

	s.sendParticipation(ctx, team)
	s.publish(events.New(events.TeamPromoted, team.ID.Hex(), team.TeamName, "from waitlist "+id.Hex()))

	return team, nil
}

// moveToTeams inserts the entry as a team and removes it from the waitlist
// under the registration lock. If the removal fails the inserted team is
// deleted again so the entry stays promotable.
func (s *Service) moveToTeams(ctx context.Context, id primitive.ObjectID) (*entity.Team, error) {
	logger := log.Logger.With(zap.String("waitlistID", id.Hex()))

	unlock, err := s.locker.Lock(ctx, RegistrationLock)
	if err != nil {
		logger.Warn("registration lock", zap.Error(err))
		return nil, errs.ErrLock
	}
	defer unlock()

	entry, err := s.stores.Waitlist.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			logger.Info("waitlist entry does not exist")
		}
		return nil, err
	}

	team := entry.ToTeam()
	if err := s.stores.Teams.Insert(ctx, team); err != nil {
		return nil, err
	}

	if err := s.stores.Waitlist.Delete(ctx, entry.ID); err != nil {
		logger.Error("failed removing promoted entry", zap.String("teamID", team.ID.Hex()), zap.Error(err))
		if derr := s.stores.Teams.Delete(ctx, team.ID); derr != nil {
			logger.Error("promoted team left in both stores", zap.String("teamID", team.ID.Hex()), zap.Error(derr))
		}
		return nil, errs.ErrDatabase
	}
	return team, nil
}
