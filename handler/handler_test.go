package handler_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"hackathon-backend/errs"
)

var _ = Describe("Public API", func() {
	var s *server

	BeforeEach(func() {
		s = newServer(1)
	})

	Specify("registration fills capacity and then waitlists", func() {
		res := s.doJSON(http.MethodPost, "/api/register", registerBody("Alpha", "a@x.io"))
		Expect(res.Code).To(Equal(http.StatusCreated))
		Expect(res.json()["message"]).To(Equal("Team registered successfully!"))

		res = s.doJSON(http.MethodPost, "/api/register", registerBody("Beta", "b@x.io"))
		Expect(res.Code).To(Equal(http.StatusCreated))
		Expect(res.json()["waitlisted"]).To(BeTrue())

		res = s.doJSON(http.MethodGet, "/api/registered-teams", nil)
		Expect(res.json()["count"]).To(BeEquivalentTo(1))
	})

	Specify("duplicate emails conflict", func() {
		s.doJSON(http.MethodPost, "/api/register", registerBody("Alpha", "a@x.io"))
		res := s.doJSON(http.MethodPost, "/api/register", registerBody("Beta", "a@x.io"))
		Expect(res.Code).To(Equal(http.StatusConflict))
		Expect(res.json()["error"]).To(ContainSubstring(errs.ErrDuplicateEmail.Error()))
	})

	Specify("unknown fields and bad input are rejected", func() {
		body := registerBody("Alpha", "a@x.io")
		body["admin"] = true
		res := s.doJSON(http.MethodPost, "/api/register", body)
		Expect(res.Code).To(Equal(http.StatusBadRequest))

		res = s.doJSON(http.MethodPost, "/api/register", registerBody("", "a@x.io"))
		Expect(res.Code).To(Equal(http.StatusBadRequest))
		Expect(res.json()["error"]).To(ContainSubstring(errs.ErrTeamNameRequired.Error()))
	})

	Describe("submission", func() {
		var teamID string

		BeforeEach(func() {
			res := s.doJSON(http.MethodPost, "/api/register", registerBody("Alpha", "a@x.io"))
			teamID = res.json()["teamId"].(string)
		})

		Specify("a closed window is forbidden but presentation-only passes", func() {
			body, ct := multipartBody(map[string]string{"teamId": teamID, "githubUrl": "https://github.com/a/b"})
			res := s.do(http.MethodPost, "/api/submit", body, ct)
			Expect(res.Code).To(Equal(http.StatusForbidden))

			body, ct = multipartBody(map[string]string{
				"teamId":           teamID,
				"presentationUrl":  "https://slides.example.com",
				"presentationOnly": "true",
			})
			res = s.do(http.MethodPost, "/api/submit", body, ct)
			Expect(res.Code).To(Equal(http.StatusOK))
			Expect(res.json()["message"]).To(Equal("Presentation URL submitted successfully"))

			res = s.doJSON(http.MethodGet, "/api/team/"+teamID, nil)
			Expect(res.Code).To(Equal(http.StatusOK))
			sub := res.json()["submission"].(map[string]interface{})
			Expect(sub["presentationUrl"]).To(Equal("https://slides.example.com"))

			res = s.doJSON(http.MethodGet, "/api/submission-count", nil)
			Expect(res.json()["count"]).To(BeEquivalentTo(1))
		})

		Specify("an uploaded file is served back", func() {
			s.login()
			res := s.doJSON(http.MethodPost, "/api/admin/submission-status", map[string]bool{"open": true})
			Expect(res.Code).To(Equal(http.StatusOK))
			Expect(res.json()["submissionOpen"]).To(BeTrue())
			s.token = ""

			res = s.doJSON(http.MethodGet, "/api/submission-status", nil)
			Expect(res.json()["submissionOpen"]).To(BeTrue())

			body, ct := multipartBody(map[string]string{"teamId": teamID}, file{"file", "deck.pdf", []byte("%PDF")})
			res = s.do(http.MethodPost, "/api/submit", body, ct)
			Expect(res.Code).To(Equal(http.StatusOK))
			sub := res.json()["submission"].(map[string]interface{})
			Expect(sub["fileName"]).To(Equal("deck.pdf"))

			url := sub["fileUrl"].(string)
			Expect(url).To(HavePrefix("http://files.test/files/Alpha-"))
			res = s.do(http.MethodGet, strings.TrimPrefix(url, "http://files.test"), nil, "")
			Expect(res.Code).To(Equal(http.StatusOK))
			Expect(res.Header().Get("Content-Type")).To(Equal("application/pdf"))
			Expect(res.Body.String()).To(Equal("%PDF"))
		})

		Specify("oversized uploads are refused", func() {
			s.login()
			s.doJSON(http.MethodPost, "/api/admin/submission-status", map[string]bool{"open": true})
			s.token = ""

			body, ct := multipartBody(map[string]string{"teamId": teamID}, file{"file", "big.zip", bytes.Repeat([]byte("x"), 2048)})
			res := s.do(http.MethodPost, "/api/submit", body, ct)
			Expect(res.Code).To(Equal(http.StatusRequestEntityTooLarge))
		})
	})

	Specify("team lookup maps errors", func() {
		Expect(s.doJSON(http.MethodGet, "/api/team/nope", nil).Code).To(Equal(http.StatusBadRequest))
		Expect(s.doJSON(http.MethodGet, "/api/team/5f1d7f3e9d1e8a0b1c2d3e4f", nil).Code).To(Equal(http.StatusNotFound))
	})

	Specify("missing files are not found", func() {
		Expect(s.do(http.MethodGet, "/files/missing.png", nil, "").Code).To(Equal(http.StatusNotFound))
	})

	Specify("health is ok", func() {
		res := s.doJSON(http.MethodGet, "/healthz", nil)
		Expect(res.Code).To(Equal(http.StatusOK))
		Expect(res.Header().Get("X-Request-ID")).NotTo(BeEmpty())
	})
})

var _ = Describe("Admin API", func() {
	var s *server

	BeforeEach(func() {
		s = newServer(1)
		s.doJSON(http.MethodPost, "/api/register", registerBody("Alpha", "a1@x.io", "a2@x.io"))
		s.doJSON(http.MethodPost, "/api/register", registerBody("Beta", "b@x.io"))
	})

	Specify("requires a session", func() {
		Expect(s.doJSON(http.MethodGet, "/api/admin/teams", nil).Code).To(Equal(http.StatusUnauthorized))

		s.token = "garbage"
		Expect(s.doJSON(http.MethodGet, "/api/admin/teams", nil).Code).To(Equal(http.StatusUnauthorized))

		s.token = ""
		res := s.doJSON(http.MethodPost, "/api/admin/login", map[string]string{"username": adminUser, "password": "wrong"})
		Expect(res.Code).To(Equal(http.StatusUnauthorized))
	})

	Specify("a token query parameter is accepted", func() {
		s.login()
		token := s.token
		s.token = ""
		Expect(s.doJSON(http.MethodGet, "/api/admin/dashboard?token="+token, nil).Code).To(Equal(http.StatusOK))
	})

	Context("logged in", func() {
		BeforeEach(func() {
			s.login()
		})

		Specify("dashboard and lists", func() {
			d := s.doJSON(http.MethodGet, "/api/admin/dashboard", nil).json()
			Expect(d["totalTeams"]).To(BeEquivalentTo(2))
			Expect(d["totalMembers"]).To(BeEquivalentTo(3))

			t := s.doJSON(http.MethodGet, "/api/admin/teams", nil).json()
			Expect(t["totalTeams"]).To(BeEquivalentTo(1))

			w := s.doJSON(http.MethodGet, "/api/admin/waitlist", nil).json()
			Expect(w["totalWaitlistedTeams"]).To(BeEquivalentTo(1))

			st := s.doJSON(http.MethodGet, "/api/admin/submission-status", nil).json()
			Expect(st["submissionOpen"]).To(BeFalse())

			sub := s.doJSON(http.MethodGet, "/api/admin/submissions", nil).json()
			Expect(sub["submissionsCount"]).To(BeEquivalentTo(0))
		})

		Specify("promotes a waitlisted team", func() {
			w := s.doJSON(http.MethodGet, "/api/admin/waitlist", nil).json()
			entry := w["waitlistedTeams"].([]interface{})[0].(map[string]interface{})

			res := s.doJSON(http.MethodPatch, "/api/admin/waitlist/"+entry["_id"].(string), nil)
			Expect(res.Code).To(Equal(http.StatusOK))
			Expect(res.json()["message"]).To(Equal("Team promoted successfully"))

			res = s.doJSON(http.MethodPatch, "/api/admin/waitlist/"+entry["_id"].(string), nil)
			Expect(res.Code).To(Equal(http.StatusNotFound))
		})

		Specify("check-in round trip", func() {
			t := s.doJSON(http.MethodGet, "/api/admin/teams", nil).json()
			team := t["teams"].([]interface{})[0].(map[string]interface{})
			teamID := team["_id"].(string)
			member := team["teamMembers"].([]interface{})[0].(map[string]interface{})

			res := s.doJSON(http.MethodPost, "/api/admin/checkin", map[string]interface{}{
				"teamId":    teamID,
				"memberId":  member["_id"],
				"checkedIn": true,
			})
			Expect(res.Code).To(Equal(http.StatusOK))
			Expect(res.json()["success"]).To(BeTrue())

			res = s.doJSON(http.MethodPost, "/api/admin/checkin", map[string]interface{}{
				"teamId":    teamID,
				"memberId":  "5f1d7f3e9d1e8a0b1c2d3e4f",
				"checkedIn": true,
			})
			Expect(res.Code).To(Equal(http.StatusNotFound))

			res = s.doJSON(http.MethodGet, "/api/admin/checkin", nil)
			Expect(res.Code).To(Equal(http.StatusOK))
			Expect(res.json()["teams"]).To(BeEmpty())
		})

		Specify("bulk email and certificates", func() {
			t := s.doJSON(http.MethodGet, "/api/admin/teams", nil).json()
			team := t["teams"].([]interface{})[0].(map[string]interface{})
			teamID := team["_id"].(string)
			member := team["teamMembers"].([]interface{})[0].(map[string]interface{})

			body, ct := multipartBody(map[string]string{"teamId": teamID, "memberId": member["_id"].(string)},
				file{"file", "cert.png", []byte("png")})
			res := s.do(http.MethodPost, "/api/admin/certificates", body, ct)
			Expect(res.Code).To(Equal(http.StatusCreated))
			Expect(res.json()["objectKey"]).To(HavePrefix("certificates/" + teamID))

			res = s.doJSON(http.MethodPost, "/api/admin/email", map[string]interface{}{
				"teamIds": []string{teamID},
				"subject": "Hello {{teamName}}",
				"message": "Hi {{memberName}}",
			})
			Expect(res.Code).To(Equal(http.StatusOK))
			Expect(res.json()["sent"]).To(BeEquivalentTo(2))

			res = s.doJSON(http.MethodPost, "/api/admin/email", map[string]interface{}{"teamIds": []string{}, "subject": "s", "message": "m"})
			Expect(res.Code).To(Equal(http.StatusBadRequest))
		})
	})
})

var _ = Describe("file streaming", func() {
	var s *server

	BeforeEach(func() {
		s = newServer(1)
		for key, body := range map[string]string{
			"submissions/a/b.pdf":  "pdf",
			"certificates/a/b.png": "img",
		} {
			_, err := s.bucket.Put(context.Background(), key, "", strings.NewReader(body))
			Expect(err).To(BeNil())
		}
	})

	Specify("nested keys resolve", func() {
		res := s.do(http.MethodGet, "/files/submissions/a/b.pdf", nil, "")
		Expect(res.Code).To(Equal(http.StatusOK))
		data, _ := io.ReadAll(res.Body)
		Expect(string(data)).To(Equal("pdf"))
	})

	Specify("certificates need an admin token", func() {
		res := s.do(http.MethodGet, "/files/certificates/a/b.png", nil, "")
		Expect(res.Code).To(Equal(http.StatusUnauthorized))

		res = s.do(http.MethodGet, "/files/submissions/../certificates/a/b.png", nil, "")
		Expect(res.Code).NotTo(Equal(http.StatusOK))

		s.token = "forged"
		res = s.do(http.MethodGet, "/files/certificates/a/b.png", nil, "")
		Expect(res.Code).To(Equal(http.StatusUnauthorized))

		s.login()
		res = s.do(http.MethodGet, "/files/certificates/a/b.png", nil, "")
		Expect(res.Code).To(Equal(http.StatusOK))
		data, _ := io.ReadAll(res.Body)
		Expect(string(data)).To(Equal("img"))
	})

	Specify("certificates accept the token as a query parameter", func() {
		s.login()
		token := s.token
		s.token = ""

		res := s.do(http.MethodGet, "/files/certificates/a/b.png?token="+token, nil, "")
		Expect(res.Code).To(Equal(http.StatusOK))
	})
})
