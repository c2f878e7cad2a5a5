package store

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"hackathon-backend/entity"
	"hackathon-backend/errs"
)

// Memory keeps every collection in process. Records are copied on the way in
// and out so callers never share state with the store.
type Memory struct {
	mu           sync.RWMutex
	teams        []*entity.Team
	waitlist     []*entity.WaitlistEntry
	submissions  map[primitive.ObjectID]*entity.Submission
	settings     *entity.Settings
	checkIns     map[primitive.ObjectID]*entity.CheckIn
	certificates map[[2]primitive.ObjectID]*entity.Certificate
}

func NewMemory() *Memory {
	return &Memory{
		submissions:  make(map[primitive.ObjectID]*entity.Submission),
		checkIns:     make(map[primitive.ObjectID]*entity.CheckIn),
		certificates: make(map[[2]primitive.ObjectID]*entity.Certificate),
	}
}

func (m *Memory) Stores() *Stores {
	return &Stores{
		Teams:        memTeams{m},
		Waitlist:     memWaitlist{m},
		Submissions:  memSubmissions{m},
		Settings:     memSettings{m},
		CheckIns:     memCheckIns{m},
		Certificates: memCertificates{m},
	}
}

func cloneTeam(t *entity.Team) *entity.Team {
	c := *t
	c.Members = append([]entity.Member(nil), t.Members...)
	return &c
}

func cloneEntry(w *entity.WaitlistEntry) *entity.WaitlistEntry {
	c := *w
	c.Members = append([]entity.Member(nil), w.Members...)
	return &c
}

func cloneCheckIn(ci *entity.CheckIn) *entity.CheckIn {
	c := *ci
	c.Members = append([]entity.MemberCheckIn(nil), ci.Members...)
	return &c
}

// emailsIn returns which of emails appear among members. Callers hold m.mu.
func (m *Memory) emailsIn(members [][]entity.Member, emails []string) []string {
	wanted := make(map[string]bool, len(emails))
	for _, e := range emails {
		wanted[e] = true
	}

	var found []string
	for _, ms := range members {
		for _, mem := range ms {
			if wanted[mem.Email] {
				found = append(found, mem.Email)
				delete(wanted, mem.Email)
			}
		}
	}
	return found
}

func (m *Memory) teamMembers() [][]entity.Member {
	out := make([][]entity.Member, 0, len(m.teams))
	for _, t := range m.teams {
		out = append(out, t.Members)
	}
	return out
}

func (m *Memory) waitlistMembers() [][]entity.Member {
	out := make([][]entity.Member, 0, len(m.waitlist))
	for _, w := range m.waitlist {
		out = append(out, w.Members)
	}
	return out
}

type memTeams struct{ m *Memory }

func (s memTeams) Count(context.Context) (int64, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	return int64(len(s.m.teams)), nil
}

func (s memTeams) Insert(_ context.Context, t *entity.Team) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	// Mirrors the unique members.email index.
	if len(s.m.emailsIn(s.m.teamMembers(), t.Emails())) > 0 {
		return errs.ErrDuplicateEmail
	}
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	s.m.teams = append(s.m.teams, cloneTeam(t))
	return nil
}

func (s memTeams) FindByID(_ context.Context, id primitive.ObjectID) (*entity.Team, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	for _, t := range s.m.teams {
		if t.ID == id {
			return cloneTeam(t), nil
		}
	}
	return nil, errs.ErrNotFound
}

func (s memTeams) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]*entity.Team, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	want := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	teams := make([]*entity.Team, 0)
	for _, t := range s.m.teams {
		if want[t.ID] {
			teams = append(teams, cloneTeam(t))
		}
	}
	return teams, nil
}

func (s memTeams) List(_ context.Context, limit int64) ([]*entity.Team, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	teams := make([]*entity.Team, 0, len(s.m.teams))
	for i := len(s.m.teams) - 1; i >= 0; i-- {
		if limit > 0 && int64(len(teams)) == limit {
			break
		}
		teams = append(teams, cloneTeam(s.m.teams[i]))
	}
	return teams, nil
}

func (s memTeams) EmailsInUse(_ context.Context, emails []string) ([]string, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	return s.m.emailsIn(s.m.teamMembers(), emails), nil
}

func (s memTeams) Delete(_ context.Context, id primitive.ObjectID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for i, t := range s.m.teams {
		if t.ID == id {
			s.m.teams = append(s.m.teams[:i], s.m.teams[i+1:]...)
			return nil
		}
	}
	return errs.ErrNotFound
}

type memWaitlist struct{ m *Memory }

func (s memWaitlist) Count(context.Context) (int64, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	return int64(len(s.m.waitlist)), nil
}

func (s memWaitlist) Insert(_ context.Context, w *entity.WaitlistEntry) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if len(s.m.emailsIn(s.m.waitlistMembers(), w.Emails())) > 0 {
		return errs.ErrDuplicateEmail
	}
	if w.ID.IsZero() {
		w.ID = primitive.NewObjectID()
	}
	s.m.waitlist = append(s.m.waitlist, cloneEntry(w))
	return nil
}

func (s memWaitlist) FindByID(_ context.Context, id primitive.ObjectID) (*entity.WaitlistEntry, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	for _, w := range s.m.waitlist {
		if w.ID == id {
			return cloneEntry(w), nil
		}
	}
	return nil, errs.ErrNotFound
}

func (s memWaitlist) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]*entity.WaitlistEntry, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	want := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	entries := make([]*entity.WaitlistEntry, 0)
	for _, w := range s.m.waitlist {
		if want[w.ID] {
			entries = append(entries, cloneEntry(w))
		}
	}
	return entries, nil
}

func (s memWaitlist) List(_ context.Context, limit int64) ([]*entity.WaitlistEntry, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	entries := make([]*entity.WaitlistEntry, 0, len(s.m.waitlist))
	for _, w := range s.m.waitlist {
		entries = append(entries, cloneEntry(w))
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].RegisteredAt.After(entries[j].RegisteredAt)
	})
	if limit > 0 && int64(len(entries)) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s memWaitlist) Delete(_ context.Context, id primitive.ObjectID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for i, w := range s.m.waitlist {
		if w.ID == id {
			s.m.waitlist = append(s.m.waitlist[:i], s.m.waitlist[i+1:]...)
			return nil
		}
	}
	return errs.ErrNotFound
}

func (s memWaitlist) EmailsInUse(_ context.Context, emails []string) ([]string, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	return s.m.emailsIn(s.m.waitlistMembers(), emails), nil
}

func (s memWaitlist) Position(_ context.Context, w *entity.WaitlistEntry) (int64, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	var ahead int64
	for _, o := range s.m.waitlist {
		if o.RegisteredAt.Before(w.RegisteredAt) ||
			(o.RegisteredAt.Equal(w.RegisteredAt) && o.ID.Hex() < w.ID.Hex()) {
			ahead++
		}
	}
	return ahead + 1, nil
}

type memSubmissions struct{ m *Memory }

func (s memSubmissions) Count(context.Context) (int64, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	return int64(len(s.m.submissions)), nil
}

func (s memSubmissions) FindByTeam(_ context.Context, teamID primitive.ObjectID) (*entity.Submission, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	sub, ok := s.m.submissions[teamID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *sub
	return &c, nil
}

func (s memSubmissions) Save(_ context.Context, sub *entity.Submission) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if prev, ok := s.m.submissions[sub.TeamID]; ok {
		sub.ID = prev.ID
	} else if sub.ID.IsZero() {
		sub.ID = primitive.NewObjectID()
	}
	c := *sub
	s.m.submissions[sub.TeamID] = &c
	return nil
}

func (s memSubmissions) List(context.Context) ([]*entity.Submission, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	subs := make([]*entity.Submission, 0, len(s.m.submissions))
	for _, sub := range s.m.submissions {
		c := *sub
		subs = append(subs, &c)
	}
	sort.Slice(subs, func(i, j int) bool {
		return subs[i].SubmittedAt.After(subs[j].SubmittedAt)
	})
	return subs, nil
}

type memSettings struct{ m *Memory }

func (s memSettings) Get(context.Context) (*entity.Settings, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.settings == nil {
		s.m.settings = &entity.Settings{}
	}
	c := *s.m.settings
	return &c, nil
}

func (s memSettings) Save(_ context.Context, st *entity.Settings) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	c := *st
	s.m.settings = &c
	return nil
}

type memCheckIns struct{ m *Memory }

func (s memCheckIns) FindByTeam(_ context.Context, teamID primitive.ObjectID) (*entity.CheckIn, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	c, ok := s.m.checkIns[teamID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return cloneCheckIn(c), nil
}

func (s memCheckIns) FindByTeams(_ context.Context, teamIDs []primitive.ObjectID) ([]*entity.CheckIn, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	out := make([]*entity.CheckIn, 0)
	for _, id := range teamIDs {
		if c, ok := s.m.checkIns[id]; ok {
			out = append(out, cloneCheckIn(c))
		}
	}
	return out, nil
}

func (s memCheckIns) Save(_ context.Context, c *entity.CheckIn) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if prev, ok := s.m.checkIns[c.TeamID]; ok {
		c.ID = prev.ID
	} else if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	s.m.checkIns[c.TeamID] = cloneCheckIn(c)
	return nil
}

type memCertificates struct{ m *Memory }

func (s memCertificates) Register(_ context.Context, cert *entity.Certificate) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	key := [2]primitive.ObjectID{cert.TeamID, cert.MemberID}
	if prev, ok := s.m.certificates[key]; ok {
		cert.ID = prev.ID
	} else if cert.ID.IsZero() {
		cert.ID = primitive.NewObjectID()
	}
	c := *cert
	s.m.certificates[key] = &c
	return nil
}

func (s memCertificates) Find(_ context.Context, teamID, memberID primitive.ObjectID) (*entity.Certificate, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	cert, ok := s.m.certificates[[2]primitive.ObjectID{teamID, memberID}]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *cert
	return &c, nil
}
