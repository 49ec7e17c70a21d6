package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/threatflux/secureReviewGo/internal/analysis"
	"github.com/threatflux/secureReviewGo/internal/models"
	"github.com/threatflux/secureReviewGo/internal/utils"
)

// fail maps service errors onto the error envelope
func (s *Server) fail(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, analysis.ErrScanNotFound):
		utils.NotFound(c, "Scan not found")
	case errors.Is(err, analysis.ErrInvalidRequest):
		utils.UnprocessableEntity(c, err.Error(), nil)
	default:
		s.logger.WithError(err).WithField("operation", op).Error("Analysis request failed")
		utils.InternalServerError(c, err.Error())
	}
}

// info godoc
// @Summary Service banner
// @Tags System
// @Produce json
// @Success 200 {object} models.ServiceInfo
// @Router /api/ [get]
func (s *Server) info(c *gin.Context) {
	utils.SuccessResponse(c, models.ServiceInfo{Message: "SecureReview API", Version: Version})
}

// health godoc
// @Summary Health check
// @Description Reports service status and database reachability.
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} models.ErrorResponse
// @Router /api/health [get]
func (s *Server) health(c *gin.Context) {
	status := gin.H{"status": "ok", "version": Version}
	if s.db != nil {
		if err := s.db.Ping(); err != nil {
			s.logger.WithError(err).Warn("Database health check failed")
			utils.ErrorResponse(c, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", "Database unavailable", nil)
			return
		}
		status["database"] = "ok"
	}
	c.JSON(http.StatusOK, status)
}

// analyzeScan godoc
// @Summary Analyze source code
// @Description Runs the detection rules over the submitted code and stores the result.
// @Tags Scans
// @Accept json
// @Produce json
// @Param request body models.ScanRequest true "Code to analyze"
// @Success 200 {object} models.ScanResult
// @Failure 400 {object} models.ErrorResponse "Malformed JSON"
// @Failure 422 {object} models.ErrorResponse "Invalid request fields"
// @Failure 500 {object} models.ErrorResponse
// @Router /api/scan/analyze [post]
func (s *Server) analyzeScan(c *gin.Context) {
	var req models.ScanRequest
	if !utils.BindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		utils.UnprocessableEntity(c, "Invalid scan request", utils.ValidationDetails(err))
		return
	}

	result, err := s.service.Analyze(c.Request.Context(), &req)
	if err != nil {
		s.fail(c, err, "analyze")
		return
	}
	utils.SuccessResponse(c, result)
}

// getScan godoc
// @Summary Get a scan result
// @Tags Scans
// @Produce json
// @Param scanId path string true "Scan ID"
// @Success 200 {object} models.ScanResult
// @Failure 404 {object} models.ErrorResponse "Scan not found"
// @Router /api/scan/{scanId} [get]
func (s *Server) getScan(c *gin.Context) {
	result, err := s.service.Scan(c.Request.Context(), c.Param("scanId"))
	if err != nil {
		s.fail(c, err, "get_scan")
		return
	}
	utils.SuccessResponse(c, result)
}

// getAttackSimulation godoc
// @Summary Get the attack simulation of a scan
// @Tags Scans
// @Produce json
// @Param scanId path string true "Scan ID"
// @Success 200 {object} models.AttackSimulation
// @Failure 404 {object} models.ErrorResponse "Scan not found"
// @Router /api/attack-simulation/{scanId} [get]
func (s *Server) getAttackSimulation(c *gin.Context) {
	sim, err := s.service.Simulation(c.Request.Context(), c.Param("scanId"))
	if err != nil {
		s.fail(c, err, "attack_simulation")
		return
	}
	utils.SuccessResponse(c, sim)
}

// getSecureFix godoc
// @Summary Get a secure fix for a vulnerability
// @Description Unknown ids receive the SQL injection remediation.
// @Tags Remediation
// @Produce json
// @Param vulnId path string true "Vulnerability ID"
// @Success 200 {object} models.SecureFix
// @Router /api/secure-fix/{vulnId} [get]
func (s *Server) getSecureFix(c *gin.Context) {
	utils.SuccessResponse(c, s.service.Fix(c.Param("vulnId")))
}

// getCompliance godoc
// @Summary Get the compliance report of a scan
// @Tags Remediation
// @Produce json
// @Param scanId path string true "Scan ID"
// @Success 200 {object} models.ComplianceReport
// @Failure 404 {object} models.ErrorResponse "Scan not found"
// @Router /api/compliance/{scanId} [get]
func (s *Server) getCompliance(c *gin.Context) {
	report, err := s.service.Compliance(c.Request.Context(), c.Param("scanId"))
	if err != nil {
		s.fail(c, err, "compliance")
		return
	}
	utils.SuccessResponse(c, report)
}

// getSampleCode godoc
// @Summary Get vulnerable sample code
// @Tags Education
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/demo/sample-code [get]
func (s *Server) getSampleCode(c *gin.Context) {
	utils.SuccessResponse(c, s.service.Samples())
}

// getLessons godoc
// @Summary List security lessons
// @Tags Education
// @Produce json
// @Success 200 {object} models.LessonsResponse
// @Router /api/education/lessons [get]
func (s *Server) getLessons(c *gin.Context) {
	utils.SuccessResponse(c, models.LessonsResponse{Lessons: s.service.Lessons()})
}
