package interfaces

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/cyffeer/launchpad-jia/domain"
	"github.com/cyffeer/launchpad-jia/infrastructure"
	"github.com/cyffeer/launchpad-jia/screening"
)

type HTTPHandler struct {
	DB       *gorm.DB
	RMQ      *infrastructure.RabbitMQ
	Screener *screening.Screener
}

func NewHTTPHandler(router *gin.Engine, db *gorm.DB, rmq *infrastructure.RabbitMQ, screener *screening.Screener) {
	h := &HTTPHandler{DB: db, RMQ: rmq, Screener: screener}

	api := router.Group("/api")
	api.POST("/careers", h.CreateCareer)
	api.GET("/careers/:id", h.GetCareer)
	api.POST("/careers/:id/rescreen", h.RescreenCareer)

	api.POST("/apply-job", h.ApplyJob)
	api.POST("/submit-pre-screening", h.SubmitPreScreening)
	api.POST("/digitalize-cv", h.DigitalizeCV)
	api.POST("/screen-cv", h.ScreenCV)
	api.POST("/analyze-cv", h.AnalyzeCV)

	api.GET("/applications/:interviewID", h.GetApplication)
}

// CreateCareer persists a job posting. Rich-text sanitization of the
// description happens in the web client pipeline before this call.
func (h *HTTPHandler) CreateCareer(c *gin.Context) {
	var req struct {
		JobTitle              string                       `json:"jobTitle"`
		Description           string                       `json:"description"`
		OrgID                 string                       `json:"orgID"`
		Location              string                       `json:"location"`
		WorkSetup             string                       `json:"workSetup"`
		EmploymentType        string                       `json:"employmentType"`
		ScreeningSetting      string                       `json:"screeningSetting"`
		CVSecretPrompt        string                       `json:"cvSecretPrompt"`
		PreScreeningQuestions domain.PreScreeningQuestions `json:"preScreeningQuestions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.JobTitle) == "" || strings.TrimSpace(req.Description) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "jobTitle and description are required"})
		return
	}

	now := time.Now()
	career := domain.Career{
		ID:                    uuid.NewString(),
		OrgID:                 req.OrgID,
		JobTitle:              req.JobTitle,
		Description:           req.Description,
		Location:              req.Location,
		WorkSetup:             req.WorkSetup,
		EmploymentType:        req.EmploymentType,
		ScreeningSetting:      string(domain.NormalizeSetting(req.ScreeningSetting)),
		CVSecretPrompt:        req.CVSecretPrompt,
		PreScreeningQuestions: req.PreScreeningQuestions,
		Status:                "Active",
		LastActivityAt:        now,
	}
	if err := h.DB.Create(&career).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save career: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": career.ID, "message": "Career added successfully"})
}

func (h *HTTPHandler) GetCareer(c *gin.Context) {
	var career domain.Career
	if err := h.DB.Where("id = ?", c.Param("id")).First(&career).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "career not found"})
		return
	}
	c.JSON(http.StatusOK, career)
}

// ApplyJob creates an application from a career and an applicant. The initial
// status depends on whether the career defines pre-screening questions.
func (h *HTTPHandler) ApplyJob(c *gin.Context) {
	var req struct {
		CareerID string `json:"careerID"`
		Name     string `json:"name"`
		Email    string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.CareerID == "" || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "careerID and email are required"})
		return
	}

	var career domain.Career
	if err := h.DB.Where("id = ?", req.CareerID).First(&career).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "career not found"})
		return
	}

	var existing domain.Application
	err := h.DB.Where("career_id = ? AND email = ?", req.CareerID, req.Email).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Job Application Failed.",
			"message": "You have a pending application for this role.",
		})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check applications"})
		return
	}

	// Pre-screening questions gate the CV upload when they exist.
	status := domain.StatusForCVUpload
	if len(career.PreScreeningQuestions) > 0 {
		status = domain.StatusForPreScreening
	}

	now := time.Now()
	app := domain.Application{
		InterviewID:           uuid.NewString(),
		CareerID:              career.ID,
		OrgID:                 career.OrgID,
		Email:                 req.Email,
		Name:                  req.Name,
		JobTitle:              career.JobTitle,
		Description:           career.Description,
		ScreeningSetting:      career.ScreeningSetting,
		ApplicationStatus:     domain.ApplicationOngoing,
		CurrentStep:           domain.StepApplied,
		Status:                status,
		PreScreeningQuestions: career.PreScreeningQuestions,
		PreScreeningAnswers:   domain.PreScreeningAnswers{},
		StatusDate:            domain.StatusDates{domain.StepApplied: now},
	}
	if err := h.DB.Create(&app).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save application: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Application added successfully",
		"interviewID": app.InterviewID,
		"status":      app.Status,
	})
}

// SubmitPreScreening stores answers and advances For Pre-Screening -> For CV
// Upload. Entries without an answer value are dropped.
func (h *HTTPHandler) SubmitPreScreening(c *gin.Context) {
	var req struct {
		InterviewID string                      `json:"interviewID"`
		Answers     []domain.PreScreeningAnswer `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.InterviewID == "" || req.Answers == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "interviewID and answers array required"})
		return
	}

	cleaned, err := h.Screener.SubmitPreScreening(c.Request.Context(), req.InterviewID, req.Answers)
	if errors.Is(err, screening.ErrApplicationNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Interview not found"})
		return
	}
	if err != nil {
		logrus.Errorf("submit-pre-screening error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit pre-screening"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":             "Pre-screening answers submitted",
		"preScreeningAnswers": cleaned,
	})
}

// DigitalizeCV accepts a CV file, extracts its text and runs it through the
// provider cascade to produce the sectioned digital CV.
func (h *HTTPHandler) DigitalizeCV(c *gin.Context) {
	email := c.PostForm("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	cvHeader, err := c.FormFile("cv_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cv_file is required"})
		return
	}
	cvFile, err := cvHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open CV file"})
		return
	}
	defer cvFile.Close()

	text, err := infrastructure.ExtractTextFromFile(cvFile, cvHeader.Filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to extract CV text: " + err.Error()})
		return
	}

	cv, err := h.Screener.DigitalizeCV(c.Request.Context(), email, cvHeader.Filename, []string{text})
	if err != nil {
		h.renderScreeningError(c, "Digitalize CV failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "CV digitalized successfully",
		"digitalCV": cv.Sections,
	})
}

// ScreenCV runs the full pipeline: classification, promotion policy and the
// stage transition.
func (h *HTTPHandler) ScreenCV(c *gin.Context) {
	h.screen(c, true)
}

// AnalyzeCV classifies and stores the verdict without advancing the stage.
func (h *HTTPHandler) AnalyzeCV(c *gin.Context) {
	h.screen(c, false)
}

func (h *HTTPHandler) screen(c *gin.Context, advance bool) {
	var req struct {
		InterviewID string `json:"interviewID"`
		UserEmail   string `json:"userEmail"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var outcome *screening.Outcome
	var err error
	if advance {
		outcome, err = h.Screener.ScreenCV(c.Request.Context(), req.InterviewID, req.UserEmail)
	} else {
		outcome, err = h.Screener.AnalyzeCV(c.Request.Context(), req.InterviewID, req.UserEmail)
	}
	if err != nil {
		h.renderScreeningError(c, "CV Screening Failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "CV Screening Completed",
		"update":  outcome.Fields,
		"result":  outcome.Verdict,
	})
}

func (h *HTTPHandler) renderScreeningError(c *gin.Context, title string, err error) {
	switch {
	case errors.Is(err, screening.ErrApplicationNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   title,
			"message": "No application found for the selected job.",
		})
	case errors.Is(err, screening.ErrCVNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   title,
			"message": "You have not uploaded a CV for this application.",
		})
	case errors.Is(err, screening.ErrMissingInput):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   title,
			"message": err.Error(),
		})
	default:
		var exhausted *screening.CascadeExhaustedError
		if errors.As(err, &exhausted) {
			logrus.Errorf("screening cascade exhausted: %v", exhausted)
			c.JSON(http.StatusBadGateway, gin.H{
				"error":   title,
				"message": "Screening failed, please retry.",
			})
			return
		}
		logrus.Errorf("screening error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   title,
			"message": "Screening failed, please retry.",
		})
	}
}

func (h *HTTPHandler) GetApplication(c *gin.Context) {
	var app domain.Application
	if err := h.DB.Where("interview_id = ?", c.Param("interviewID")).First(&app).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "application not found"})
		return
	}
	c.JSON(http.StatusOK, app)
}

// RescreenCareer queues a re-screening job for every ongoing application of a
// career. The worker picks them up one by one.
func (h *HTTPHandler) RescreenCareer(c *gin.Context) {
	careerID := c.Param("id")

	var career domain.Career
	if err := h.DB.Where("id = ?", careerID).First(&career).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "career not found"})
		return
	}

	var apps []domain.Application
	if err := h.DB.Where("career_id = ? AND application_status = ?", careerID, domain.ApplicationOngoing).
		Find(&apps).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load applications"})
		return
	}

	queued := 0
	for _, app := range apps {
		job := infrastructure.ScreeningJob{
			InterviewID: app.InterviewID,
			Email:       app.Email,
			CareerID:    careerID,
		}
		if err := h.RMQ.PublishJob(job); err != nil {
			logrus.Errorf("failed to queue re-screening for %s: %v", app.InterviewID, err)
			continue
		}
		queued++
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Re-screening queued",
		"queued":  queued,
		"total":   len(apps),
	})
}
