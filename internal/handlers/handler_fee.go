package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skolarity/fee_ledger_app/internal/apperrors"
	"github.com/skolarity/fee_ledger_app/internal/core/domain"
	portssvc "github.com/skolarity/fee_ledger_app/internal/core/ports/services"
	"github.com/skolarity/fee_ledger_app/internal/dto"
	"github.com/skolarity/fee_ledger_app/internal/middleware"
)

// feeHandler handles HTTP requests for enrollment fees and their line items.
type feeHandler struct {
	feeService     portssvc.FeeSvcFacade
	historyService portssvc.HistorySvcFacade
}

func newFeeHandler(feeService portssvc.FeeSvcFacade, historyService portssvc.HistorySvcFacade) *feeHandler {
	return &feeHandler{
		feeService:     feeService,
		historyService: historyService,
	}
}

// respondServiceError maps application errors onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrAlreadySettled):
		logger.Warn("Fee already settled", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Conflicting request", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Forbidden", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		logger.Error("Internal error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// actorFromContext extracts the authenticated user ID or aborts with 401.
func actorFromContext(c *gin.Context) (string, bool) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return actorID, true
}

// assignFee godoc
// @Summary Assign a fee to an enrollment
// @Description Creates an enrollment fee from a fee structure; the base amount is the structure's component sum
// @Tags fees
// @Accept  json
// @Produce  json
// @Param   fee body dto.AssignFeeRequest true "Fee assignment"
// @Success 201 {object} dto.EnrollmentFeeResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Fee structure not found"
// @Router /fees [post]
func (h *feeHandler) assignFee(c *gin.Context) {
	var req dto.AssignFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	fee, err := h.feeService.AssignFee(c.Request.Context(), req, actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToEnrollmentFeeResponse(fee))
}

// getFee godoc
// @Summary Get an enrollment fee
// @Description Retrieves a fee account with its derived amounts and payment status
// @Tags fees
// @Produce  json
// @Param   feeID path string true "Fee ID"
// @Success 200 {object} dto.EnrollmentFeeResponse
// @Failure 404 {object} map[string]string "Fee not found"
// @Router /fees/{feeID} [get]
func (h *feeHandler) getFee(c *gin.Context) {
	fee, err := h.feeService.GetFeeByID(c.Request.Context(), c.Param("feeID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToEnrollmentFeeResponse(fee))
}

// listStudentFees godoc
// @Summary List a student's fees
// @Tags fees
// @Produce  json
// @Param   studentID path string true "Student ID"
// @Success 200 {array} dto.EnrollmentFeeResponse
// @Router /students/{studentID}/fees [get]
func (h *feeHandler) listStudentFees(c *gin.Context) {
	fees, err := h.feeService.ListFeesByStudent(c.Request.Context(), c.Param("studentID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	responses := make([]dto.EnrollmentFeeResponse, len(fees))
	for i := range fees {
		responses[i] = dto.ToEnrollmentFeeResponse(&fees[i])
	}
	c.JSON(http.StatusOK, responses)
}

// listLineItems godoc
// @Summary List line items of a fee
// @Description Lists a fee's line items of one kind, including soft-removed ones
// @Tags fees
// @Produce  json
// @Param   feeID path string true "Fee ID"
// @Param   kind query string true "Line item kind" Enums(DISCOUNT, CHARGE, ARREAR, TRANSACTION)
// @Success 200 {array} dto.LineItemResponse
// @Failure 400 {object} map[string]string "Invalid kind"
// @Failure 404 {object} map[string]string "Fee not found"
// @Router /fees/{feeID}/items [get]
func (h *feeHandler) listLineItems(c *gin.Context) {
	kind := domain.LineItemKind(c.Query("kind"))
	switch kind {
	case domain.KindDiscount, domain.KindCharge, domain.KindArrear, domain.KindTransaction:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be one of DISCOUNT, CHARGE, ARREAR, TRANSACTION"})
		return
	}

	items, err := h.feeService.ListLineItems(c.Request.Context(), c.Param("feeID"), kind)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToLineItemResponses(items))
}

// addDiscount godoc
// @Summary Add a discount to a fee
// @Description Adds a discount line item; combined active discounts may not exceed the base amount
// @Tags fees
// @Accept  json
// @Produce  json
// @Param   feeID path string true "Fee ID"
// @Param   discount body dto.AddDiscountRequest true "Discount"
// @Success 201 {object} dto.LineItemResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Fee or discount type not found"
// @Router /fees/{feeID}/discounts [post]
func (h *feeHandler) addDiscount(c *gin.Context) {
	var req dto.AddDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	item, err := h.feeService.AddDiscount(c.Request.Context(), c.Param("feeID"), req, actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToLineItemResponse(item))
}

// removeDiscount godoc
// @Summary Remove a discount from a fee
// @Description Soft-removes the discount and restores the derived amounts
// @Tags fees
// @Param   feeID path string true "Fee ID"
// @Param   itemID path string true "Line item ID"
// @Success 204 "Removed"
// @Failure 404 {object} map[string]string "Discount not found on this fee"
// @Router /fees/{feeID}/discounts/{itemID} [delete]
func (h *feeHandler) removeDiscount(c *gin.Context) {
	actorID, _ := middleware.GetUserIDFromContext(c)
	if err := h.feeService.RemoveDiscount(c.Request.Context(), c.Param("feeID"), c.Param("itemID"), actorID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// addCharge godoc
// @Summary Add a charge to a fee
// @Tags fees
// @Accept  json
// @Produce  json
// @Param   feeID path string true "Fee ID"
// @Param   charge body dto.AddChargeRequest true "Charge"
// @Success 201 {object} dto.LineItemResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Fee not found"
// @Router /fees/{feeID}/charges [post]
func (h *feeHandler) addCharge(c *gin.Context) {
	var req dto.AddChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	item, err := h.feeService.AddCharge(c.Request.Context(), c.Param("feeID"), req, actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToLineItemResponse(item))
}

// removeCharge godoc
// @Summary Remove a charge from a fee
// @Tags fees
// @Param   feeID path string true "Fee ID"
// @Param   itemID path string true "Line item ID"
// @Success 204 "Removed"
// @Failure 404 {object} map[string]string "Charge not found on this fee"
// @Router /fees/{feeID}/charges/{itemID} [delete]
func (h *feeHandler) removeCharge(c *gin.Context) {
	actorID, _ := middleware.GetUserIDFromContext(c)
	if err := h.feeService.RemoveCharge(c.Request.Context(), c.Param("feeID"), c.Param("itemID"), actorID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// addArrear godoc
// @Summary Add an arrear to a fee
// @Description Records a carried-over balance from a previous term
// @Tags fees
// @Accept  json
// @Produce  json
// @Param   feeID path string true "Fee ID"
// @Param   arrear body dto.AddArrearRequest true "Arrear"
// @Success 201 {object} dto.LineItemResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Fee not found"
// @Router /fees/{feeID}/arrears [post]
func (h *feeHandler) addArrear(c *gin.Context) {
	var req dto.AddArrearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	item, err := h.feeService.AddArrear(c.Request.Context(), c.Param("feeID"), req, actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToLineItemResponse(item))
}

// removeArrear godoc
// @Summary Remove an arrear from a fee
// @Tags fees
// @Param   feeID path string true "Fee ID"
// @Param   itemID path string true "Line item ID"
// @Success 204 "Removed"
// @Failure 404 {object} map[string]string "Arrear not found on this fee"
// @Router /fees/{feeID}/arrears/{itemID} [delete]
func (h *feeHandler) removeArrear(c *gin.Context) {
	actorID, _ := middleware.GetUserIDFromContext(c)
	if err := h.feeService.RemoveArrear(c.Request.Context(), c.Param("feeID"), c.Param("itemID"), actorID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// addTransaction godoc
// @Summary Record a payment against a fee
// @Description Adds a payment transaction; a PAID or WAIVED fee accepts no further payments
// @Tags fees
// @Accept  json
// @Produce  json
// @Param   feeID path string true "Fee ID"
// @Param   transaction body dto.AddTransactionRequest true "Payment"
// @Success 201 {object} dto.LineItemResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Fee not found"
// @Failure 409 {object} map[string]string "Fee already settled"
// @Router /fees/{feeID}/transactions [post]
func (h *feeHandler) addTransaction(c *gin.Context) {
	var req dto.AddTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	item, err := h.feeService.AddTransaction(c.Request.Context(), c.Param("feeID"), req, actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToLineItemResponse(item))
}

// updateFeeStructure godoc
// @Summary Rebase a fee onto a different structure
// @Description Recomputes the base amount from the new structure and re-derives the balances
// @Tags fees
// @Accept  json
// @Produce  json
// @Param   feeID path string true "Fee ID"
// @Param   structure body dto.UpdateFeeStructureRequest true "New structure"
// @Success 200 {object} dto.EnrollmentFeeResponse
// @Failure 400 {object} map[string]string "Invalid request or discounts exceed new base"
// @Failure 404 {object} map[string]string "Fee or structure not found"
// @Router /fees/{feeID}/structure [put]
func (h *feeHandler) updateFeeStructure(c *gin.Context) {
	var req dto.UpdateFeeStructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	fee, err := h.feeService.UpdateEnrollmentFee(c.Request.Context(), c.Param("feeID"), req, actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToEnrollmentFeeResponse(fee))
}

// waiveFee godoc
// @Summary Waive a fee
// @Description Administratively marks the fee WAIVED; the status is terminal and never derived
// @Tags fees
// @Accept  json
// @Produce  json
// @Param   feeID path string true "Fee ID"
// @Param   waiver body dto.WaiveFeeRequest true "Waiver"
// @Success 200 {object} dto.EnrollmentFeeResponse
// @Failure 400 {object} map[string]string "Fee already waived"
// @Failure 404 {object} map[string]string "Fee not found"
// @Router /fees/{feeID}/waive [post]
func (h *feeHandler) waiveFee(c *gin.Context) {
	var req dto.WaiveFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	fee, err := h.feeService.WaiveFee(c.Request.Context(), c.Param("feeID"), req, actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToEnrollmentFeeResponse(fee))
}

// getFeeHistory godoc
// @Summary Get the mutation history of a fee
// @Description Returns the append-only audit journal, newest first, with token pagination
// @Tags fees
// @Produce  json
// @Param   feeID path string true "Fee ID"
// @Param   limit query int false "Page size (default 20, max 100)"
// @Param   nextToken query string false "Opaque pagination token"
// @Success 200 {object} dto.ListHistoryResponse
// @Failure 404 {object} map[string]string "Fee not found"
// @Router /fees/{feeID}/history [get]
func (h *feeHandler) getFeeHistory(c *gin.Context) {
	params := dto.ListHistoryParams{}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		params.Limit = limit
	}
	if token := c.Query("nextToken"); token != "" {
		params.NextToken = &token
	}

	resp, err := h.historyService.GetHistory(c.Request.Context(), c.Param("feeID"), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// registerFeeRoutes registers fee and history routes on the given group.
func registerFeeRoutes(group *gin.RouterGroup, feeService portssvc.FeeSvcFacade, historyService portssvc.HistorySvcFacade) {
	h := newFeeHandler(feeService, historyService)

	fees := group.Group("/fees")
	{
		fees.POST("", h.assignFee)
		fees.GET("/:feeID", h.getFee)
		fees.GET("/:feeID/items", h.listLineItems)
		fees.GET("/:feeID/history", h.getFeeHistory)

		fees.POST("/:feeID/discounts", h.addDiscount)
		fees.DELETE("/:feeID/discounts/:itemID", h.removeDiscount)
		fees.POST("/:feeID/charges", h.addCharge)
		fees.DELETE("/:feeID/charges/:itemID", h.removeCharge)
		fees.POST("/:feeID/arrears", h.addArrear)
		fees.DELETE("/:feeID/arrears/:itemID", h.removeArrear)
		fees.POST("/:feeID/transactions", h.addTransaction)

		fees.PUT("/:feeID/structure", h.updateFeeStructure)
		fees.POST("/:feeID/waive", h.waiveFee)
	}

	group.GET("/students/:studentID/fees", h.listStudentFees)
}
