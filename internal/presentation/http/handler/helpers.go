package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tecnano/factura-api/pkg/apperror"
)

// ParseIDParam parses a UUID path parameter, returning a bad request
// error for malformed values.
func ParseIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperror.NewBadRequestError("Invalid " + name + " parameter")
	}
	return id, nil
}
