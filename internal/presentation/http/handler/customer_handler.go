package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tecnano/factura-api/internal/application/service"
	"github.com/tecnano/factura-api/internal/domain/entity"
	"github.com/tecnano/factura-api/internal/domain/enum"
	"github.com/tecnano/factura-api/internal/presentation/http/dto/response"
	"github.com/tecnano/factura-api/pkg/pagination"
)

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// Create handles creating a customer
func (h *CustomerHandler) Create(c *gin.Context) {
	var req struct {
		Name                 string  `json:"name" binding:"required"`
		IdentificationNumber string  `json:"identification_number" binding:"required"`
		IdentificationType   string  `json:"identification_type"`
		Email                *string `json:"email"`
		Phone                *string `json:"phone"`
		Address              *string `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	identificationType := enum.IdentificationTypeFinalConsumer
	if req.IdentificationType != "" {
		var err error
		identificationType, err = enum.ParseIdentificationType(req.IdentificationType)
		if err != nil {
			response.BadRequest(c, "Invalid identification type: "+req.IdentificationType)
			return
		}
	}

	customer := &entity.Customer{
		Name:                 req.Name,
		IdentificationNumber: req.IdentificationNumber,
		IdentificationType:   identificationType,
		Email:                req.Email,
		Phone:                req.Phone,
		Address:              req.Address,
	}

	if err := h.customerService.CreateCustomer(c.Request.Context(), customer); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Customer created successfully", customer)
}

// List handles listing customers
func (h *CustomerHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))
	search := c.Query("search")

	params := &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}

	result, err := h.customerService.ListCustomers(c.Request.Context(), search, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Customers retrieved successfully", result)
}

// Get handles getting a single customer
func (h *CustomerHandler) Get(c *gin.Context) {
	id, err := ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer retrieved successfully", customer)
}

// GetByIdentification handles getting a customer by identification number
func (h *CustomerHandler) GetByIdentification(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		response.BadRequest(c, "Invalid identification number")
		return
	}

	customer, err := h.customerService.GetCustomerByIdentification(c.Request.Context(), number)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer retrieved successfully", customer)
}

// Update handles updating a customer
func (h *CustomerHandler) Update(c *gin.Context) {
	id, err := ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req struct {
		Name    *string `json:"name"`
		Email   *string `json:"email"`
		Phone   *string `json:"phone"`
		Address *string `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Email != nil {
		customer.Email = req.Email
	}
	if req.Phone != nil {
		customer.Phone = req.Phone
	}
	if req.Address != nil {
		customer.Address = req.Address
	}

	if err := h.customerService.UpdateCustomer(c.Request.Context(), customer); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer updated successfully", customer)
}
