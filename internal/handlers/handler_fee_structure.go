package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/skolarity/fee_ledger_app/internal/core/ports/services"
	"github.com/skolarity/fee_ledger_app/internal/dto"
)

// feeStructureHandler handles HTTP requests for fee structures and the
// discount catalog.
type feeStructureHandler struct {
	structureService    portssvc.FeeStructureSvcFacade
	discountTypeService portssvc.DiscountTypeSvcFacade
}

func newFeeStructureHandler(structureService portssvc.FeeStructureSvcFacade, discountTypeService portssvc.DiscountTypeSvcFacade) *feeStructureHandler {
	return &feeStructureHandler{
		structureService:    structureService,
		discountTypeService: discountTypeService,
	}
}

func listParams(c *gin.Context) (limit, offset int) {
	limit = 50
	offset = 0
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}

// createFeeStructure godoc
// @Summary Create a fee structure
// @Description Creates a named, per-term fee structure from its components
// @Tags fee-structures
// @Accept  json
// @Produce  json
// @Param   structure body dto.CreateFeeStructureRequest true "Fee structure"
// @Success 201 {object} dto.FeeStructureResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /fee-structures [post]
func (h *feeStructureHandler) createFeeStructure(c *gin.Context) {
	var req dto.CreateFeeStructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	fs, err := h.structureService.CreateFeeStructure(c.Request.Context(), req, actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToFeeStructureResponse(fs))
}

// getFeeStructure godoc
// @Summary Get a fee structure
// @Tags fee-structures
// @Produce  json
// @Param   structureID path string true "Structure ID"
// @Success 200 {object} dto.FeeStructureResponse
// @Failure 404 {object} map[string]string "Fee structure not found"
// @Router /fee-structures/{structureID} [get]
func (h *feeStructureHandler) getFeeStructure(c *gin.Context) {
	fs, err := h.structureService.GetFeeStructureByID(c.Request.Context(), c.Param("structureID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToFeeStructureResponse(fs))
}

// listFeeStructures godoc
// @Summary List fee structures
// @Tags fee-structures
// @Produce  json
// @Param   limit query int false "Page size"
// @Param   offset query int false "Offset"
// @Success 200 {array} dto.FeeStructureResponse
// @Router /fee-structures [get]
func (h *feeStructureHandler) listFeeStructures(c *gin.Context) {
	limit, offset := listParams(c)
	structures, err := h.structureService.ListFeeStructures(c.Request.Context(), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	responses := make([]dto.FeeStructureResponse, len(structures))
	for i := range structures {
		responses[i] = dto.ToFeeStructureResponse(&structures[i])
	}
	c.JSON(http.StatusOK, responses)
}

// createDiscountType godoc
// @Summary Create a discount type
// @Description Adds an entry to the discount catalog
// @Tags discount-types
// @Accept  json
// @Produce  json
// @Param   discountType body dto.CreateDiscountTypeRequest true "Discount type"
// @Success 201 {object} dto.DiscountTypeResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /discount-types [post]
func (h *feeStructureHandler) createDiscountType(c *gin.Context) {
	var req dto.CreateDiscountTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	dt, err := h.discountTypeService.CreateDiscountType(c.Request.Context(), req, actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToDiscountTypeResponse(dt))
}

// getDiscountType godoc
// @Summary Get a discount type
// @Tags discount-types
// @Produce  json
// @Param   discountTypeID path string true "Discount type ID"
// @Success 200 {object} dto.DiscountTypeResponse
// @Failure 404 {object} map[string]string "Discount type not found"
// @Router /discount-types/{discountTypeID} [get]
func (h *feeStructureHandler) getDiscountType(c *gin.Context) {
	dt, err := h.discountTypeService.GetDiscountTypeByID(c.Request.Context(), c.Param("discountTypeID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDiscountTypeResponse(dt))
}

// listDiscountTypes godoc
// @Summary List discount types
// @Tags discount-types
// @Produce  json
// @Param   limit query int false "Page size"
// @Param   offset query int false "Offset"
// @Success 200 {array} dto.DiscountTypeResponse
// @Router /discount-types [get]
func (h *feeStructureHandler) listDiscountTypes(c *gin.Context) {
	limit, offset := listParams(c)
	types, err := h.discountTypeService.ListDiscountTypes(c.Request.Context(), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	responses := make([]dto.DiscountTypeResponse, len(types))
	for i := range types {
		responses[i] = dto.ToDiscountTypeResponse(&types[i])
	}
	c.JSON(http.StatusOK, responses)
}

// registerFeeStructureRoutes registers fee structure and discount catalog
// routes on the given group.
func registerFeeStructureRoutes(group *gin.RouterGroup, structureService portssvc.FeeStructureSvcFacade, discountTypeService portssvc.DiscountTypeSvcFacade) {
	h := newFeeStructureHandler(structureService, discountTypeService)

	structures := group.Group("/fee-structures")
	{
		structures.POST("", h.createFeeStructure)
		structures.GET("", h.listFeeStructures)
		structures.GET("/:structureID", h.getFeeStructure)
	}

	discountTypes := group.Group("/discount-types")
	{
		discountTypes.POST("", h.createDiscountType)
		discountTypes.GET("", h.listDiscountTypes)
		discountTypes.GET("/:discountTypeID", h.getDiscountType)
	}
}
