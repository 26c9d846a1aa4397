package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/consulting-marketplace/internal/interface/http/dto"
	"github.com/ignatzorin/consulting-marketplace/internal/interface/http/response"
	"github.com/ignatzorin/consulting-marketplace/internal/metrics"
	"github.com/ignatzorin/consulting-marketplace/internal/usecase/job"
)

type JobHandler struct {
	createJobUC        *job.CreateJobUseCase
	getJobUC           *job.GetJobUseCase
	listBuyerJobsUC    *job.ListBuyerJobsUseCase
	listJobProposalsUC *job.ListJobProposalsUseCase
	cancelJobUC        *job.CancelJobUseCase
}

func NewJobHandler(
	createJobUC *job.CreateJobUseCase,
	getJobUC *job.GetJobUseCase,
	listBuyerJobsUC *job.ListBuyerJobsUseCase,
	listJobProposalsUC *job.ListJobProposalsUseCase,
	cancelJobUC *job.CancelJobUseCase,
) *JobHandler {
	return &JobHandler{
		createJobUC:        createJobUC,
		getJobUC:           getJobUC,
		listBuyerJobsUC:    listBuyerJobsUC,
		listJobProposalsUC: listJobProposalsUC,
		cancelJobUC:        cancelJobUC,
	}
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	created, err := h.createJobUC.Execute(c.Request.Context(), job.CreateJobInput{
		BuyerID:     userID,
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		BudgetMin:   req.BudgetMin,
		BudgetMax:   req.BudgetMax,
		Timeline:    req.Timeline,
		Location:    req.Location,
	})
	metrics.ObserveOperation("create_job", err)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToJobResponse(created))
}

func (h *JobHandler) ListMyJobs(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	jobs, err := h.listBuyerJobsUC.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToJobResponses(jobs))
}

func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, ok := pathID(c, "id", "некорректный ID заказа")
	if !ok {
		return
	}

	found, err := h.getJobUC.Execute(c.Request.Context(), jobID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToJobResponse(found))
}

func (h *JobHandler) ListJobProposals(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	jobID, ok := pathID(c, "id", "некорректный ID заказа")
	if !ok {
		return
	}

	proposals, err := h.listJobProposalsUC.Execute(c.Request.Context(), jobID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProposalResponses(proposals))
}

func (h *JobHandler) CancelJob(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	jobID, ok := pathID(c, "id", "некорректный ID заказа")
	if !ok {
		return
	}

	cancelled, err := h.cancelJobUC.Execute(c.Request.Context(), jobID, userID)
	metrics.ObserveOperation("cancel_job", err)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToJobResponse(cancelled))
}
