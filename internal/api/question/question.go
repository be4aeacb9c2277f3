package question

import (
	"strings"

	"robotapp-backend/internal/errors"
	"robotapp-backend/internal/middleware"
	"robotapp-backend/internal/model"
	"robotapp-backend/internal/service"
	"robotapp-backend/internal/util"

	"github.com/gin-gonic/gin"
)

// QuestionHandler serves the community Q&A board
type QuestionHandler struct {
	questionService *service.QuestionService
}

func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService}
}

func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	page, limit := util.ParsePagination(c)
	filter := model.QuestionFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Tag:      c.Query("tag"),
		Resolved: util.ParseBoolQuery(c, "resolved"),
		Page:     page,
		Limit:    limit,
	}

	questions, total, err := h.questionService.ListQuestions(c.Request.Context(), filter)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, util.NewListResponse(questions, page, limit, total), "")
}

func (h *QuestionHandler) AskQuestion(c *gin.Context) {
	var input service.AskQuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.FromBinding(err))
		return
	}

	question, err := h.questionService.AskQuestion(c.Request.Context(), middleware.CurrentActor(c), input)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleCreated(c, question, "Question posted")
}

// GetQuestion counts a view on every read
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	question, err := h.questionService.GetQuestion(c.Request.Context(), c.Param("id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, question, "")
}

func (h *QuestionHandler) AddAnswer(c *gin.Context) {
	var input struct {
		Body string `json:"body" binding:"required,min=10,max=5000"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.FromBinding(err))
		return
	}

	question, err := h.questionService.AddAnswer(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"), input.Body)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleCreated(c, question, "Answer posted")
}

func (h *QuestionHandler) UpvoteAnswer(c *gin.Context) {
	question, err := h.questionService.UpvoteAnswer(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"), c.Param("answerId"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, question, "")
}

func (h *QuestionHandler) AcceptAnswer(c *gin.Context) {
	question, err := h.questionService.AcceptAnswer(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"), c.Param("answerId"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, question, "Answer accepted")
}
