package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"hackathon-backend/entity"
	"hackathon-backend/service"
)

type checkInResponse struct {
	Success bool            `json:"success"`
	CheckIn *entity.CheckIn `json:"checkIn"`
}

type settingsResponse struct {
	Success bool `json:"success"`
	*entity.Settings
}

type promotionResponse struct {
	Message string       `json:"message"`
	Team    *entity.Team `json:"team"`
}

type bulkFailure struct {
	Error string `json:"error"`
	*service.BulkEmailResult
}

func (h *Handler) ListCheckIns(c *gin.Context) {
	teams, err := h.svc.ListCheckIns(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

func (h *Handler) UpdateCheckIn(c *gin.Context) {
	var req service.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	record, err := h.svc.UpdateCheckIn(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, checkInResponse{Success: true, CheckIn: record})
}

func (h *Handler) Dashboard(c *gin.Context) {
	d, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) SubmissionStatus(c *gin.Context) {
	s, err := h.svc.SubmissionStatus(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) SetSubmissionStatus(c *gin.Context) {
	var req service.SubmissionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	s, err := h.svc.SetSubmissionOpen(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, settingsResponse{Success: true, Settings: s})
}

func (h *Handler) Submissions(c *gin.Context) {
	l, err := h.svc.Submissions(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *Handler) Teams(c *gin.Context) {
	l, err := h.svc.Teams(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *Handler) Waitlist(c *gin.Context) {
	l, err := h.svc.Waitlist(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *Handler) Promote(c *gin.Context) {
	team, err := h.svc.Promote(c.Request.Context(), c.Param("teamId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, promotionResponse{Message: "Team promoted successfully", Team: team})
}

// SendBulkEmail answers 502 only when every attempted send failed.
func (h *Handler) SendBulkEmail(c *gin.Context) {
	var req service.BulkEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.svc.SendBulk(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	if res.Sent == 0 && res.Failed > 0 {
		c.JSON(http.StatusBadGateway, bulkFailure{Error: res.Message, BulkEmailResult: res})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) RegisterCertificate(c *gin.Context) {
	if err := h.parseForm(c); err != nil {
		fail(c, err)
		return
	}

	upload, closeFile, err := formUpload(c, "file")
	if err != nil {
		fail(c, err)
		return
	}
	defer closeFile()

	cert, err := h.svc.RegisterCertificate(c.Request.Context(), &service.CertificateRequest{
		TeamID:   c.PostForm("teamId"),
		MemberID: c.PostForm("memberId"),
		File:     upload,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cert)
}
