package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coopfin/backend/internal/application/confirmation"
	transactionapp "github.com/coopfin/backend/internal/application/transaction"
	"github.com/coopfin/backend/internal/domain/transaction"
	"github.com/coopfin/backend/internal/interfaces/http/dto"
	"github.com/coopfin/backend/internal/interfaces/http/middleware"
)

// TransactionHandler handles transaction submission and confirmation endpoints
type TransactionHandler struct {
	BaseHandler
	submissions  *transactionapp.SubmissionService
	controller   *confirmation.Controller
	transactions transaction.Repository
	pollCtx      context.Context
	logger       *zap.Logger
}

// TransactionHandlerConfig holds the handler's collaborators. PollCtx owns
// the lifetime of confirmation polling; it must outlive individual requests
// and is cancelled only on server shutdown.
type TransactionHandlerConfig struct {
	Submissions  *transactionapp.SubmissionService
	Controller   *confirmation.Controller
	Transactions transaction.Repository
	PollCtx      context.Context
	Logger       *zap.Logger
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(cfg TransactionHandlerConfig) *TransactionHandler {
	pollCtx := cfg.PollCtx
	if pollCtx == nil {
		pollCtx = context.Background()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransactionHandler{
		submissions:  cfg.Submissions,
		controller:   cfg.Controller,
		transactions: cfg.Transactions,
		pollCtx:      pollCtx,
		logger:       logger,
	}
}

// Submit handles POST /transactions. Synchronous transactions return 201
// with the completed record; a pending push payment returns 202 with the
// confirmation session the caller can poll and cancel.
func (h *TransactionHandler) Submit(c *gin.Context) {
	var req SubmitTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	domainReq, err := req.ToDomainRequest()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.submissions.Submit(c.Request.Context(), domainReq, req.Phone)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if !result.Pending() {
		resp := ToTransactionResponse(result.Completed)
		h.Created(c, SubmissionResponse{Transaction: &resp})
		return
	}

	// Polling outlives this request; it stops only on confirmation,
	// cancellation, or server shutdown.
	if err := h.controller.Start(h.pollCtx, result.Session); err != nil {
		h.HandleError(c, err)
		return
	}

	resp := ToConfirmationResponse(result.Session)
	h.Accepted(c, SubmissionResponse{Confirmation: &resp})
}

// Get handles GET /transactions/:id
func (h *TransactionHandler) Get(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}
	id, err := uuid.Parse(idReq.ID)
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	record, err := h.transactions.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToTransactionResponse(record))
}

// GetConfirmation handles GET /confirmations/:handle. A session is visible
// only while it is polling; once terminal it is released and this 404s.
func (h *TransactionHandler) GetConfirmation(c *gin.Context) {
	handle := c.Param("handle")
	session, ok := h.controller.Session(handle)
	if !ok {
		h.NotFound(c, "Confirmation session not found")
		return
	}
	h.Success(c, ToConfirmationResponse(session))
}

// CancelConfirmation handles DELETE /confirmations/:handle. Cancellation
// wins over any state the gateway would have reported later; a response
// already in flight is discarded.
func (h *TransactionHandler) CancelConfirmation(c *gin.Context) {
	handle := c.Param("handle")
	if err := h.controller.Cancel(c.Request.Context(), handle); err != nil {
		h.HandleError(c, err)
		return
	}

	h.logger.Info("Confirmation cancelled by operator",
		zap.String("handle", handle))
	h.NoContent(c)
}

// RegisterRoutes registers all transaction routes
func (h *TransactionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.Submit)
		transactions.GET("/:id", h.Get)
	}

	confirmations := rg.Group("/confirmations")
	{
		confirmations.GET("/:handle", h.GetConfirmation)
		confirmations.DELETE("/:handle", h.CancelConfirmation)
	}
}
