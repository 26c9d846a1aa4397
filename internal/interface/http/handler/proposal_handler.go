package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/consulting-marketplace/internal/interface/http/dto"
	"github.com/ignatzorin/consulting-marketplace/internal/interface/http/response"
	"github.com/ignatzorin/consulting-marketplace/internal/metrics"
	"github.com/ignatzorin/consulting-marketplace/internal/usecase/proposal"
)

type ProposalHandler struct {
	submitProposalUC  *proposal.SubmitProposalUseCase
	acceptProposalUC  *proposal.AcceptProposalUseCase
	rejectProposalUC  *proposal.RejectProposalUseCase
	getProposalUC     *proposal.GetProposalUseCase
	listMyProposalsUC *proposal.ListMyProposalsUseCase
}

func NewProposalHandler(
	submitProposalUC *proposal.SubmitProposalUseCase,
	acceptProposalUC *proposal.AcceptProposalUseCase,
	rejectProposalUC *proposal.RejectProposalUseCase,
	getProposalUC *proposal.GetProposalUseCase,
	listMyProposalsUC *proposal.ListMyProposalsUseCase,
) *ProposalHandler {
	return &ProposalHandler{
		submitProposalUC:  submitProposalUC,
		acceptProposalUC:  acceptProposalUC,
		rejectProposalUC:  rejectProposalUC,
		getProposalUC:     getProposalUC,
		listMyProposalsUC: listMyProposalsUC,
	}
}

func (h *ProposalHandler) SubmitProposal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	jobID, ok := pathID(c, "id", "некорректный ID заказа")
	if !ok {
		return
	}

	var req dto.SubmitProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	created, err := h.submitProposalUC.Execute(c.Request.Context(), proposal.SubmitProposalInput{
		JobID:        jobID,
		ConsultantID: userID,
		BidAmount:    req.BidAmount,
		DeliveryTime: req.DeliveryTime,
		CoverLetter:  req.CoverLetter,
	})
	metrics.ObserveOperation("submit_proposal", err)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToProposalResponse(created))
}

func (h *ProposalHandler) AcceptProposal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	proposalID, ok := pathID(c, "id", "некорректный ID предложения")
	if !ok {
		return
	}

	result, err := h.acceptProposalUC.Execute(c.Request.Context(), proposalID, userID)
	metrics.ObserveOperation("accept_proposal", err)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.AcceptProposalResponse{
		Proposal: dto.ToProposalResponse(result.Proposal),
		Order:    dto.ToOrderResponse(result.Order),
	})
}

func (h *ProposalHandler) RejectProposal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	proposalID, ok := pathID(c, "id", "некорректный ID предложения")
	if !ok {
		return
	}

	rejected, err := h.rejectProposalUC.Execute(c.Request.Context(), proposalID, userID)
	metrics.ObserveOperation("reject_proposal", err)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProposalResponse(rejected))
}

func (h *ProposalHandler) GetProposal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	proposalID, ok := pathID(c, "id", "некорректный ID предложения")
	if !ok {
		return
	}

	p, err := h.getProposalUC.Execute(c.Request.Context(), proposalID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProposalResponse(p))
}

func (h *ProposalHandler) ListMyProposals(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	proposals, err := h.listMyProposalsUC.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProposalResponses(proposals))
}
