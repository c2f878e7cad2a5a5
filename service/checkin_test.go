package service_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"hackathon-backend/entity"
	"hackathon-backend/errs"
	"hackathon-backend/events"
	"hackathon-backend/service"
)

var _ = Describe("Check-in", func() {
	var (
		f    *fixture
		team *entity.Team
	)

	BeforeEach(func() {
		f = newFixture(40)
		res := f.register("Zeta", "z1@x.io", "z2@x.io")
		var err error
		team, err = f.stores.Teams.FindByID(f.ctx, mustID(res.TeamID))
		Expect(err).To(BeNil())
		f.register("NoSubmission", "n@x.io")

		_, err = f.svc.Submit(f.ctx, &service.SubmitRequest{
			TeamID:           team.ID.Hex(),
			PresentationURL:  "https://slides.example.com",
			PresentationOnly: true,
		})
		Expect(err).To(BeNil())
	})

	Specify("lists only submitted teams, defaulting members to absent", func() {
		list, err := f.svc.ListCheckIns(f.ctx)
		Expect(err).To(BeNil())
		Expect(list).To(HaveLen(1))
		Expect(list[0].TeamName).To(Equal("Zeta"))
		Expect(list[0].IsCheckedIn).To(BeFalse())
		Expect(list[0].CheckedInAt).To(BeNil())
		Expect(list[0].Members).To(HaveLen(2))
		for _, m := range list[0].Members {
			Expect(m.CheckedIn).To(BeFalse())
		}
	})

	Specify("a team toggle stamps and clears the time", func() {
		c, err := f.svc.UpdateCheckIn(f.ctx, &service.CheckInRequest{TeamID: team.ID.Hex(), CheckedIn: boolPtr(true)})
		Expect(err).To(BeNil())
		Expect(c.IsTeamCheckedIn).To(BeTrue())
		Expect(*c.CheckedInAt).To(Equal(fixedNow))
		Expect(c.Members[0].CheckedIn).To(BeFalse())

		c, err = f.svc.UpdateCheckIn(f.ctx, &service.CheckInRequest{TeamID: team.ID.Hex(), CheckedIn: boolPtr(false)})
		Expect(err).To(BeNil())
		Expect(c.IsTeamCheckedIn).To(BeFalse())
		Expect(c.CheckedInAt).To(BeNil())
		Expect(f.pub.types()).To(ContainElement(events.CheckInChanged))
	})

	Specify("a member toggle leaves the team state alone", func() {
		c, err := f.svc.UpdateCheckIn(f.ctx, &service.CheckInRequest{
			TeamID:    team.ID.Hex(),
			MemberID:  strPtr(team.Members[1].ID.Hex()),
			CheckedIn: boolPtr(true),
		})
		Expect(err).To(BeNil())
		Expect(c.IsTeamCheckedIn).To(BeFalse())
		Expect(c.Members[1].CheckedIn).To(BeTrue())
		Expect(*c.Members[1].CheckedInAt).To(Equal(fixedNow))
		Expect(c.Members[0].CheckedIn).To(BeFalse())

		list, err := f.svc.ListCheckIns(f.ctx)
		Expect(err).To(BeNil())
		Expect(list[0].Members[1].CheckedIn).To(BeTrue())
		Expect(list[0].IsCheckedIn).To(BeFalse())
	})

	Specify("unknown teams and members are not found", func() {
		_, err := f.svc.UpdateCheckIn(f.ctx, &service.CheckInRequest{TeamID: "5f1d7f3e9d1e8a0b1c2d3e4f", CheckedIn: boolPtr(true)})
		Expect(err).To(MatchBackendError(errs.ErrNotFound))

		_, err = f.svc.UpdateCheckIn(f.ctx, &service.CheckInRequest{
			TeamID:    team.ID.Hex(),
			MemberID:  strPtr("5f1d7f3e9d1e8a0b1c2d3e4f"),
			CheckedIn: boolPtr(true),
		})
		Expect(err).To(MatchBackendError(errs.ErrMemberNotFound))
	})

	Specify("checkedIn is required", func() {
		_, err := f.svc.UpdateCheckIn(f.ctx, &service.CheckInRequest{TeamID: team.ID.Hex()})
		Expect(err).To(MatchBackendError(errs.ErrValidation))
	})
})
