package service_test

import (
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"hackathon-backend/entity"
	"hackathon-backend/errs"
	"hackathon-backend/events"
	"hackathon-backend/service"
)

var _ = Describe("Admin views", func() {
	var f *fixture

	BeforeEach(func() {
		f = newFixture(2)
		f.register("Alpha", "a1@x.io", "a2@x.io")
		f.register("Beta", "b@x.io")
		f.register("Gamma", "g1@x.io", "g2@x.io", "g3@x.io")
	})

	Specify("dashboard totals both stores", func() {
		d, err := f.svc.Dashboard(f.ctx)
		Expect(err).To(BeNil())
		Expect(d.RegisteredTeams.Count).To(Equal(int64(2)))
		Expect(d.RegisteredTeams.MembersCount).To(Equal(int64(3)))
		Expect(d.WaitlistedTeams.Count).To(Equal(int64(1)))
		Expect(d.WaitlistedTeams.MembersCount).To(Equal(int64(3)))
		Expect(d.TotalTeams).To(Equal(int64(3)))
		Expect(d.TotalMembers).To(Equal(int64(6)))
		Expect(d.RegisteredTeams.Recent).To(HaveLen(2))
	})

	Specify("teams are listed newest first", func() {
		l, err := f.svc.Teams(f.ctx)
		Expect(err).To(BeNil())
		Expect(l.TotalTeams).To(Equal(2))
		Expect(l.TotalMembers).To(Equal(int64(3)))
		Expect(l.Teams[0].TeamName).To(Equal("Beta"))
	})

	Specify("waitlist lists entries with totals", func() {
		w, err := f.svc.Waitlist(f.ctx)
		Expect(err).To(BeNil())
		Expect(w.TotalWaitlistedTeams).To(Equal(1))
		Expect(w.TotalWaitlistMembers).To(Equal(int64(3)))
		Expect(w.WaitlistedTeams[0].TeamName).To(Equal("Gamma"))
	})

	Specify("submissions carry their team or Unknown Team", func() {
		teams, _ := f.stores.Teams.List(f.ctx, 0)
		_, err := f.svc.Submit(f.ctx, &service.SubmitRequest{
			TeamID:           teams[0].ID.Hex(),
			PresentationURL:  "https://slides.example.com",
			PresentationOnly: true,
		})
		Expect(err).To(BeNil())
		Expect(f.stores.Submissions.Save(f.ctx, &entity.Submission{
			TeamID:      mustID("5f1d7f3e9d1e8a0b1c2d3e4f"),
			GithubURL:   "https://github.com/orphan/x",
			SubmittedAt: fixedNow.Add(-time.Hour),
		})).To(Succeed())

		l, err := f.svc.Submissions(f.ctx)
		Expect(err).To(BeNil())
		Expect(l.SubmissionsCount).To(Equal(2))
		Expect(l.Submissions[0].TeamName).To(Equal("Beta"))
		Expect(l.Submissions[0].TeamSize).To(Equal(1))
		Expect(l.Submissions[1].TeamName).To(Equal("Unknown Team"))

		n, err := f.svc.SubmissionCount(f.ctx)
		Expect(err).To(BeNil())
		Expect(n).To(Equal(int64(2)))
	})

	Specify("registered team count excludes the waitlist", func() {
		n, err := f.svc.RegisteredTeamCount(f.ctx)
		Expect(err).To(BeNil())
		Expect(n).To(Equal(int64(2)))
	})

	Describe("team lookup", func() {
		Specify("returns a null submission before submitting", func() {
			teams, _ := f.stores.Teams.List(f.ctx, 0)
			l, err := f.svc.LookupTeam(f.ctx, teams[0].ID.Hex())
			Expect(err).To(BeNil())
			Expect(l.Team.Name).To(Equal("Beta"))
			Expect(l.Submission).To(BeNil())
		})
		Specify("rejects malformed and unknown ids", func() {
			_, err := f.svc.LookupTeam(f.ctx, "")
			Expect(err).To(MatchBackendError(errs.ErrTeamIDRequired))
			_, err = f.svc.LookupTeam(f.ctx, "xyz")
			Expect(err).To(MatchBackendError(errs.ErrInvalidTeamID))
			_, err = f.svc.LookupTeam(f.ctx, "5f1d7f3e9d1e8a0b1c2d3e4f")
			Expect(err).To(MatchBackendError(errs.ErrNotFound))
		})
	})
})

var _ = Describe("Submission window", func() {
	var f *fixture

	BeforeEach(func() {
		f = newFixture(40)
	})

	Specify("starts closed", func() {
		s, err := f.svc.SubmissionStatus(f.ctx)
		Expect(err).To(BeNil())
		Expect(s.SubmissionOpen).To(BeFalse())
		p := f.svc.PublicSubmissionStatus(f.ctx)
		Expect(p.SubmissionOpen).To(BeFalse())
		Expect(p.Message).To(ContainSubstring("closed"))
	})

	Specify("opening and closing stamp their times", func() {
		s, err := f.svc.SetSubmissionOpen(f.ctx, &service.SubmissionStatusRequest{Open: boolPtr(true)})
		Expect(err).To(BeNil())
		Expect(s.SubmissionOpen).To(BeTrue())
		Expect(*s.SubmissionOpenedAt).To(Equal(fixedNow))

		p := f.svc.PublicSubmissionStatus(f.ctx)
		Expect(p.SubmissionOpen).To(BeTrue())
		Expect(*p.OpenedAt).To(Equal(fixedNow))

		later := fixedNow.Add(time.Minute)
		f.svc.SetClock(func() time.Time { return later })
		s, err = f.svc.SetSubmissionOpen(f.ctx, &service.SubmissionStatusRequest{Open: boolPtr(false)})
		Expect(err).To(BeNil())
		Expect(*s.SubmissionClosedAt).To(Equal(later))
		Expect(*s.SubmissionOpenedAt).To(Equal(fixedNow))
		Expect(s.LastUpdatedAt).To(Equal(later))
		Expect(f.pub.types()).To(ContainElement(events.SettingsChanged))
	})

	Specify("open is required", func() {
		_, err := f.svc.SetSubmissionOpen(f.ctx, &service.SubmissionStatusRequest{})
		Expect(err).To(MatchBackendError(errs.ErrValidation))
	})
})
