package controller

import (
	"mock_interview_backend/internal/config"
	"mock_interview_backend/internal/model"
	"mock_interview_backend/internal/questionbank"
	"mock_interview_backend/internal/service"
	"mock_interview_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type InterviewController struct {
	Evaluation *service.EvaluationService
	Interviews *service.InterviewService
	Timing     config.InterviewConfig
}

func NewInterviewController(evaluation *service.EvaluationService, interviews *service.InterviewService, timing config.InterviewConfig) *InterviewController {
	return &InterviewController{
		Evaluation: evaluation,
		Interviews: interviews,
		Timing:     timing,
	}
}

// swagger:model EvaluateRequest
type EvaluateRequest struct {
	Question   string `json:"question"`
	UserAnswer string `json:"userAnswer"`
}

// Evaluate godoc
// @Summary 评估一条面试回答
// @Description 转发给外部模型评分；上游任何失败都不报错，返回固定的回退反馈
// @Tags 面试
// @Accept  json
// @Produce  json
// @Param   body body EvaluateRequest true "问题与回答"
// @Success 200 {object} model.Feedback
// @Failure 400 {object} util.ErrorResponse
// @Router /interview/evaluate [post]
func (c *InterviewController) Evaluate(ctx *gin.Context) {
	var req EvaluateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Missing question or userAnswer")
		return
	}
	if req.Question == "" || req.UserAnswer == "" {
		util.BadRequest(ctx, "Missing question or userAnswer")
		return
	}

	feedback := c.Evaluation.Evaluate(ctx.Request.Context(), req.Question, req.UserAnswer)
	util.Success(ctx, feedback)
}

// Questions godoc
// @Summary 按岗位和级别获取题目列表
// @Description 组合未识别时返回通用题目；timing 供客户端会话引擎配置倒计时
// @Tags 面试
// @Produce  json
// @Param   role query string false "岗位"
// @Param   level query string false "级别"
// @Success 200 {object} object
// @Router /interview/questions [get]
func (c *InterviewController) Questions(ctx *gin.Context) {
	role := ctx.Query("role")
	level := ctx.Query("level")

	util.Success(ctx, gin.H{
		"role":      role,
		"level":     level,
		"known":     questionbank.Known(role, level),
		"questions": questionbank.QuestionsFor(role, level),
		"timing": gin.H{
			"prepSeconds":     c.Timing.PrepSeconds,
			"questionSeconds": c.Timing.QuestionSeconds,
			"redirectSeconds": c.Timing.RedirectSeconds,
		},
	})
}

// SaveResult godoc
// @Summary 保存一次面试会话结果
// @Tags 面试
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body model.SessionResult true "会话结果"
// @Success 200 {object} object
// @Failure 400 {object} util.ErrorResponse
// @Router /interviews/save [post]
func (c *InterviewController) SaveResult(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var res model.SessionResult
	if err := ctx.ShouldBindJSON(&res); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Interviews.Save(ctx.Request.Context(), claims.UserID, res); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, gin.H{"message": "Interview result saved"})
}

// History godoc
// @Summary 获取当前用户的面试历史
// @Tags 面试
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {array} model.SessionResult
// @Router /interviews/history [get]
func (c *InterviewController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	results, err := c.Interviews.History(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, results)
}
