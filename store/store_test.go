package store_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"hackathon-backend/entity"
	"hackathon-backend/errs"
	"hackathon-backend/store"
)

func newTeam(name string, emails ...string) *entity.Team {
	t := &entity.Team{TeamName: name, TeamSize: len(emails), Experience: entity.DefaultExperience}
	for _, e := range emails {
		t.Members = append(t.Members, entity.Member{ID: primitive.NewObjectID(), Name: e, Email: e, Phone: "1"})
	}
	return t
}

func newEntry(name string, at time.Time, emails ...string) *entity.WaitlistEntry {
	t := newTeam(name, emails...)
	return &entity.WaitlistEntry{TeamName: t.TeamName, TeamSize: t.TeamSize, Members: t.Members, RegisteredAt: at}
}

func behavesLikeAStore(newStores func() *store.Stores) {
	var (
		ctx context.Context
		s   *store.Stores
	)

	BeforeEach(func() {
		ctx = context.Background()
		s = newStores()
	})

	Describe("Teams", func() {
		Specify("insert, count and find", func() {
			t := newTeam("alpha", "a@x.io", "b@x.io")
			Expect(s.Teams.Insert(ctx, t)).To(Succeed())
			Expect(t.ID.IsZero()).To(BeFalse())

			n, err := s.Teams.Count(ctx)
			Expect(err).To(BeNil())
			Expect(n).To(Equal(int64(1)))

			got, err := s.Teams.FindByID(ctx, t.ID)
			Expect(err).To(BeNil())
			Expect(got.TeamName).To(Equal("alpha"))
			Expect(got.Members).To(HaveLen(2))
		})
		Specify("unknown id is not found", func() {
			_, err := s.Teams.FindByID(ctx, primitive.NewObjectID())
			Expect(err).To(Equal(errs.ErrNotFound))
		})
		Specify("member emails are unique across teams", func() {
			Expect(s.Teams.Insert(ctx, newTeam("alpha", "a@x.io"))).To(Succeed())
			Expect(s.Teams.Insert(ctx, newTeam("beta", "a@x.io"))).To(Equal(errs.ErrDuplicateEmail))

			used, err := s.Teams.EmailsInUse(ctx, []string{"a@x.io", "z@x.io"})
			Expect(err).To(BeNil())
			Expect(used).To(ConsistOf("a@x.io"))
		})
		Specify("list is newest first and honours the limit", func() {
			for _, name := range []string{"one", "two", "three"} {
				Expect(s.Teams.Insert(ctx, newTeam(name, name+"@x.io"))).To(Succeed())
			}

			teams, err := s.Teams.List(ctx, 2)
			Expect(err).To(BeNil())
			Expect(teams).To(HaveLen(2))
			Expect(teams[0].TeamName).To(Equal("three"))
			Expect(teams[1].TeamName).To(Equal("two"))
		})
		Specify("delete frees the member emails", func() {
			t := newTeam("gone", "g@x.io")
			Expect(s.Teams.Insert(ctx, t)).To(Succeed())
			Expect(s.Teams.Delete(ctx, t.ID)).To(Succeed())
			Expect(s.Teams.Delete(ctx, t.ID)).To(Equal(errs.ErrNotFound))

			used, err := s.Teams.EmailsInUse(ctx, []string{"g@x.io"})
			Expect(err).To(BeNil())
			Expect(used).To(BeEmpty())
		})
	})

	Describe("Waitlist", func() {
		Specify("position follows registration order", func() {
			now := time.Now().UTC().Truncate(time.Millisecond)
			first := newEntry("first", now, "f@x.io")
			second := newEntry("second", now.Add(time.Second), "s@x.io")
			Expect(s.Waitlist.Insert(ctx, second)).To(Succeed())
			Expect(s.Waitlist.Insert(ctx, first)).To(Succeed())

			p, err := s.Waitlist.Position(ctx, first)
			Expect(err).To(BeNil())
			Expect(p).To(Equal(int64(1)))
			p, err = s.Waitlist.Position(ctx, second)
			Expect(err).To(BeNil())
			Expect(p).To(Equal(int64(2)))

			entries, err := s.Waitlist.List(ctx, 0)
			Expect(err).To(BeNil())
			Expect(entries[0].TeamName).To(Equal("second"))
		})
		Specify("delete removes the entry once", func() {
			w := newEntry("gone", time.Now(), "g@x.io")
			Expect(s.Waitlist.Insert(ctx, w)).To(Succeed())
			Expect(s.Waitlist.Delete(ctx, w.ID)).To(Succeed())
			Expect(s.Waitlist.Delete(ctx, w.ID)).To(Equal(errs.ErrNotFound))
		})
	})

	Describe("Submissions", func() {
		Specify("save upserts by team", func() {
			team := primitive.NewObjectID()
			sub := &entity.Submission{TeamID: team, GithubURL: "https://github.com/a/b", SubmittedAt: time.Now().UTC()}
			Expect(s.Submissions.Save(ctx, sub)).To(Succeed())

			again := &entity.Submission{TeamID: team, DeployedURL: "https://x.com", SubmittedAt: time.Now().UTC()}
			Expect(s.Submissions.Save(ctx, again)).To(Succeed())

			n, err := s.Submissions.Count(ctx)
			Expect(err).To(BeNil())
			Expect(n).To(Equal(int64(1)))

			got, err := s.Submissions.FindByTeam(ctx, team)
			Expect(err).To(BeNil())
			Expect(got.DeployedURL).To(Equal("https://x.com"))
		})
	})

	Describe("Settings", func() {
		Specify("default is closed and save round trips", func() {
			st, err := s.Settings.Get(ctx)
			Expect(err).To(BeNil())
			Expect(st.SubmissionOpen).To(BeFalse())

			st.SetOpen(true, time.Now().UTC().Truncate(time.Millisecond))
			Expect(s.Settings.Save(ctx, st)).To(Succeed())

			st, err = s.Settings.Get(ctx)
			Expect(err).To(BeNil())
			Expect(st.SubmissionOpen).To(BeTrue())
			Expect(st.SubmissionOpenedAt).NotTo(BeNil())
		})
	})

	Describe("CheckIns and certificates", func() {
		Specify("check-in save upserts by team", func() {
			team := newTeam("gamma", "c@x.io")
			team.ID = primitive.NewObjectID()
			c := entity.NewCheckIn(team)
			Expect(s.CheckIns.Save(ctx, c)).To(Succeed())

			c.SetTeamCheckedIn(true, time.Now().UTC())
			Expect(s.CheckIns.Save(ctx, c)).To(Succeed())

			all, err := s.CheckIns.FindByTeams(ctx, []primitive.ObjectID{team.ID})
			Expect(err).To(BeNil())
			Expect(all).To(HaveLen(1))
			Expect(all[0].IsTeamCheckedIn).To(BeTrue())
		})
		Specify("certificate lookup by team and member", func() {
			cert := &entity.Certificate{TeamID: primitive.NewObjectID(), MemberID: primitive.NewObjectID(), ObjectKey: "k1"}
			Expect(s.Certificates.Register(ctx, cert)).To(Succeed())
			cert.ObjectKey = "k2"
			Expect(s.Certificates.Register(ctx, cert)).To(Succeed())

			got, err := s.Certificates.Find(ctx, cert.TeamID, cert.MemberID)
			Expect(err).To(BeNil())
			Expect(got.ObjectKey).To(Equal("k2"))

			_, err = s.Certificates.Find(ctx, cert.TeamID, primitive.NewObjectID())
			Expect(err).To(Equal(errs.ErrNotFound))
		})
	})
}

var _ = Describe("Memory", func() {
	behavesLikeAStore(func() *store.Stores {
		return store.NewMemory().Stores()
	})
})

var _ = Describe("Mongo", func() {
	BeforeEach(func() {
		if mongoClient == nil {
			Skip("MONGO_URI not set")
		}
	})

	behavesLikeAStore(func() *store.Stores {
		db := mongoClient.Database(testDatabase)
		for _, c := range []string{store.TeamsCollection, store.WaitlistCollection, store.SubmissionsCollection,
			store.SettingsCollection, store.CheckInsCollection, store.CertificatesCollection} {
			_, err := db.Collection(c).DeleteMany(context.Background(), bson.M{})
			Expect(err).To(BeNil())
		}

		s, err := store.NewMongo(context.Background(), mongoClient, testDatabase)
		Expect(err).To(BeNil())
		return s
	})
})
