package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reckon-ledger/reckon/internal/httputil"
	"github.com/reckon-ledger/reckon/internal/models"
)

func RegisterRootRoutes(r *gin.RouterGroup) {
	r.GET("", Get)
	r.OPTIONS("", Options)
}

type Response struct {
	Links Links `json:"links"` // Links for the v1 API
}

type Links struct {
	Records    string `json:"records" example:"https://example.com/api/v1/records"`         // URL of Record collection endpoint
	Categories string `json:"categories" example:"https://example.com/api/v1/categories"`   // URL of Category collection endpoint
	MatchRules string `json:"matchRules" example:"https://example.com/api/v1/match-rules"`  // URL of Match Rule collection endpoint
	Import     string `json:"import" example:"https://example.com/api/v1/import"`           // URL of the import endpoint
	Schedules  string `json:"schedules" example:"https://example.com/api/v1/schedules"`     // URL of Schedule collection endpoint
	Calendar   string `json:"calendar" example:"https://example.com/api/v1/calendar"`       // URL of the calendar endpoint
	Links      string `json:"links" example:"https://example.com/api/v1/links"`             // URL of the link group endpoint
}

// Get returns the link list for v1
//
//	@Summary		v1 API
//	@Description	Returns general information about the v1 API
//	@Tags			v1
//	@Success		200	{object}	Response
//	@Router			/v1 [get]
func Get(c *gin.Context) {
	url := c.GetString(string(models.DBContextURL))

	c.JSON(http.StatusOK, Response{
		Links: Links{
			Records:    url + "/v1/records",
			Categories: url + "/v1/categories",
			MatchRules: url + "/v1/match-rules",
			Import:     url + "/v1/import",
			Schedules:  url + "/v1/schedules",
			Calendar:   url + "/v1/calendar",
			Links:      url + "/v1/links",
		},
	})
}

// Options returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			v1
//	@Success		204
//	@Router			/v1 [options]
func Options(c *gin.Context) {
	httputil.OptionsGet(c)
}
