package api

import (
	"net/http"

	"abkit/domain/abtest"
	"abkit/internal/analysis/proportions"
	"abkit/internal/errors"

	"github.com/gin-gonic/gin"
)

type sampleSizeRequest struct {
	BaselineRate *float64 `json:"baseline_rate" binding:"required"`
	MDE          *float64 `json:"mde" binding:"required"`
	Alpha        *float64 `json:"alpha"`
	Power        *float64 `json:"power"`
}

type zTestRequest struct {
	ConversionsA *int     `json:"conversions_a" binding:"required"`
	TotalA       *int     `json:"total_a" binding:"required"`
	ConversionsB *int     `json:"conversions_b" binding:"required"`
	TotalB       *int     `json:"total_b" binding:"required"`
	Alpha        *float64 `json:"alpha"`
}

type cohensHRequest struct {
	P1 *float64 `json:"p1" binding:"required"`
	P2 *float64 `json:"p2" binding:"required"`
}

type mdeRequest struct {
	BaselineRate *float64 `json:"baseline_rate" binding:"required"`
	SampleSize   *int     `json:"sample_size" binding:"required"`
	Alpha        *float64 `json:"alpha"`
	Power        *float64 `json:"power"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleSampleSize(c *gin.Context) {
	var req sampleSizeRequest
	if !s.bind(c, &req) {
		return
	}

	res, err := proportions.SolveSampleSize(abtest.SampleSizeRequest{
		BaselineRate: *req.BaselineRate,
		MDE:          *req.MDE,
		Alpha:        orDefault(req.Alpha, s.defaults.alpha),
		Power:        orDefault(req.Power, s.defaults.power),
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	s.logger.Debug("sample size baseline=%v mde=%v -> %d per group", res.BaselineRate, res.MDE, res.SampleSize)
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleZTest(c *gin.Context) {
	var req zTestRequest
	if !s.bind(c, &req) {
		return
	}

	res, err := proportions.RunZTest(abtest.ZTestRequest{
		ConversionsA: *req.ConversionsA,
		TotalA:       *req.TotalA,
		ConversionsB: *req.ConversionsB,
		TotalB:       *req.TotalB,
		Alpha:        orDefault(req.Alpha, s.defaults.alpha),
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	s.logger.Debug("ztest a=%d/%d b=%d/%d -> z=%.4f p=%.4g", *req.ConversionsA, *req.TotalA, *req.ConversionsB, *req.TotalB, res.ZStatistic, res.PValue)
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleCohensH(c *gin.Context) {
	var req cohensHRequest
	if !s.bind(c, &req) {
		return
	}

	h, err := proportions.CohensH(*req.P1, *req.P2)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, abtest.EffectSizeResult{
		P1:        *req.P1,
		P2:        *req.P2,
		CohensH:   h,
		Magnitude: proportions.InterpretCohensH(h),
	})
}

func (s *Server) handleMDE(c *gin.Context) {
	var req mdeRequest
	if !s.bind(c, &req) {
		return
	}

	res, err := proportions.MinimumDetectableEffect(*req.BaselineRate, *req.SampleSize,
		proportions.WithAlpha(orDefault(req.Alpha, s.defaults.alpha)),
		proportions.WithPower(orDefault(req.Power, s.defaults.power)),
	)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// bind decodes the JSON body, writing a 400 INVALID_INPUT response on failure.
func (s *Server) bind(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		s.fail(c, errors.InvalidInput("malformed request body", err))
		return false
	}
	return true
}

func (s *Server) fail(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, errorBody(code, err.Error()))
}

func statusFor(code string) int {
	switch code {
	case errors.CodeInvalidParameter, errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeComputationError:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(code, message string) gin.H {
	return gin.H{"error": gin.H{"code": code, "message": message}}
}

func orDefault[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}
