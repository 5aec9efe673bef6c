package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reckon-ledger/reckon/internal/calendar"
	"github.com/reckon-ledger/reckon/internal/httputil"
	"github.com/reckon-ledger/reckon/internal/models"
)

type CalendarResponse struct {
	Data  *calendar.Calendar `json:"data"`                                                          // Records and schedule occurrences per day
	Error *string            `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// RegisterCalendarRoutes registers the routes for the calendar with
// the RouterGroup that is passed.
func RegisterCalendarRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsCalendar)
		r.GET("", GetCalendar)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Calendar
// @Success		204
// @Router			/v1/calendar [options]
func OptionsCalendar(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get calendar
// @Description	Returns the records, schedules and projected schedule occurrences in the time window, grouped by day. On each day, records are listed before schedules and projected occurrences.
// @Tags			Calendar
// @Produce		json
// @Success		200		{object}	CalendarResponse
// @Failure		400		{object}	CalendarResponse
// @Failure		500		{object}	CalendarResponse
// @Param			from	query		string	false	"First day of the window"
// @Param			until	query		string	false	"Last day of the window, inclusive"
// @Param			month	query		string	false	"Whole month as YYYY-MM, instead of from and until"
// @Router			/v1/calendar [get]
func GetCalendar(c *gin.Context) {
	var query QueryWindow
	if err := c.BindQuery(&query); err != nil {
		s := httputil.ErrInvalidQuery.Error()
		c.JSON(http.StatusBadRequest, CalendarResponse{
			Error: &s,
		})
		return
	}

	window, err := query.window()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CalendarResponse{
			Error: &s,
		})
		return
	}

	var records []models.Record
	err = models.DB.
		Where("date >= ? AND date <= ?", window.Start, window.End).
		Order("date ASC").
		Find(&records).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CalendarResponse{
			Error: &s,
		})
		return
	}

	// Schedules starting after the window cannot occur in it
	var schedules []models.Schedule
	err = models.DB.
		Where("date <= ?", window.End).
		Find(&schedules).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CalendarResponse{
			Error: &s,
		})
		return
	}

	data := calendar.Build(records, schedules, window, settings.Projection())
	c.JSON(http.StatusOK, CalendarResponse{Data: &data})
}
