package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tecnano/factura-api/internal/application/service"
	"github.com/tecnano/factura-api/internal/domain/enum"
	"github.com/tecnano/factura-api/internal/domain/repository"
	"github.com/tecnano/factura-api/internal/presentation/http/dto/response"
	"github.com/tecnano/factura-api/pkg/pagination"
)

// SaleHandler handles sale-related HTTP requests
type SaleHandler struct {
	saleService   *service.SaleService
	fiscalService *service.FiscalService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService, fiscalService *service.FiscalService) *SaleHandler {
	return &SaleHandler{
		saleService:   saleService,
		fiscalService: fiscalService,
	}
}

// Create handles finalizing a sale
func (h *SaleHandler) Create(c *gin.Context) {
	var req struct {
		PaymentMethod string `json:"payment_method" binding:"required"`
		Location      string `json:"location"`
		Customer      *struct {
			Name                 string  `json:"name" binding:"required"`
			IdentificationNumber string  `json:"identification_number" binding:"required"`
			IdentificationType   string  `json:"identification_type"`
			Email                *string `json:"email"`
		} `json:"customer"`
		Items []struct {
			ProductID   uuid.UUID        `json:"product_id" binding:"required"`
			Quantity    int              `json:"quantity"`
			UnitPrice   *decimal.Decimal `json:"unit_price"`
			KitchenNote *string          `json:"kitchen_note"`
		} `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	paymentMethod, err := enum.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		response.BadRequest(c, "Invalid payment method: "+req.PaymentMethod)
		return
	}

	input := &service.CreateSaleInput{
		PaymentMethod: paymentMethod,
		Location:      req.Location,
	}

	if req.Customer != nil {
		identificationType := enum.IdentificationTypeFinalConsumer
		if req.Customer.IdentificationType != "" {
			identificationType, err = enum.ParseIdentificationType(req.Customer.IdentificationType)
			if err != nil {
				response.BadRequest(c, "Invalid identification type: "+req.Customer.IdentificationType)
				return
			}
		}
		input.Customer = &service.CustomerInput{
			Name:                 req.Customer.Name,
			IdentificationNumber: req.Customer.IdentificationNumber,
			IdentificationType:   identificationType,
			Email:                req.Customer.Email,
		}
	}

	items := make([]service.SaleItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.SaleItemInput{
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			KitchenNote: item.KitchenNote,
		}
	}
	input.Items = items

	sale, err := h.saleService.CreateSale(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale registered successfully", sale)
}

// List handles listing sales
func (h *SaleHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.SaleFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if statusStr := c.Query("fiscal_status"); statusStr != "" {
		status, err := enum.ParseFiscalStatus(statusStr)
		if err != nil {
			response.BadRequest(c, "Invalid fiscal status: "+statusStr)
			return
		}
		params.FiscalStatus = &status
	}

	if customerIDStr := c.Query("customer_id"); customerIDStr != "" {
		if customerID, err := uuid.Parse(customerIDStr); err == nil {
			params.CustomerID = &customerID
		}
	}

	if startDateStr := c.Query("start_date"); startDateStr != "" {
		if startDate, err := time.Parse("2006-01-02", startDateStr); err == nil {
			params.StartDate = &startDate
		}
	}

	if endDateStr := c.Query("end_date"); endDateStr != "" {
		if endDate, err := time.Parse("2006-01-02", endDateStr); err == nil {
			params.EndDate = &endDate
		}
	}

	result, err := h.saleService.ListSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sales retrieved successfully", result)
}

// Get handles getting a single sale
func (h *SaleHandler) Get(c *gin.Context) {
	id, err := ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// GetArtifact streams the rendered receipt of a sale
func (h *SaleHandler) GetArtifact(c *gin.Context) {
	id, err := ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	artifact, err := h.saleService.GetArtifact(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if len(artifact) == 0 {
		response.NotFound(c, "Sale has no rendered artifact")
		return
	}

	c.Data(200, "application/octet-stream", artifact)
}

// FiscalWorklist handles listing sales pending fiscal resolution
func (h *SaleHandler) FiscalWorklist(c *gin.Context) {
	sales, err := h.fiscalService.Worklist(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Pending sales retrieved successfully", sales)
}

// RetryFiscal handles re-submitting a sale for fiscal authorization
func (h *SaleHandler) RetryFiscal(c *gin.Context) {
	id, err := ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	sale, err := h.fiscalService.Retry(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Fiscal submission retried", sale)
}

// Kitchen handles listing sales still in preparation
func (h *SaleHandler) Kitchen(c *gin.Context) {
	sales, err := h.saleService.ListForKitchen(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Kitchen queue retrieved successfully", sales)
}

// UpdateKitchenStatus handles advancing a sale through preparation
func (h *SaleHandler) UpdateKitchenStatus(c *gin.Context) {
	id, err := ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	status, err := enum.ParseKitchenStatus(req.Status)
	if err != nil {
		response.BadRequest(c, "Invalid kitchen status: "+req.Status)
		return
	}

	if err := h.saleService.UpdateKitchenStatus(c.Request.Context(), id, status); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Kitchen status updated successfully", nil)
}
