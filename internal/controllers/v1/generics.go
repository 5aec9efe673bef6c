package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reckon-ledger/reckon/internal/httputil"
	"github.com/reckon-ledger/reckon/internal/models"
)

type resource interface {
	models.Record | models.Category | models.MatchRule | models.Schedule
}

// selectFields converts field names for gorm's Select.
func selectFields(fields []string) []any {
	s := make([]any, 0, len(fields))
	for _, f := range fields {
		s = append(s, f)
	}
	return s
}

// resourceOptionsDetail returns the appropriate response for an HTTP OPTIONS request for a specific resource.
func resourceOptionsDetail[R resource](c *gin.Context, resource R) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&resource, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// resourceDelete deletes the resource with the ID from the URI.
func resourceDelete[R resource](c *gin.Context, resource R) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&resource, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&resource).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
