package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reckon-ledger/reckon/internal/calendar"
	"github.com/reckon-ledger/reckon/internal/httputil"
	"github.com/reckon-ledger/reckon/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm/clause"
)

// RegisterScheduleRoutes registers the routes for schedules with
// the RouterGroup that is passed.
func RegisterScheduleRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsScheduleList)
		r.GET("", GetSchedules)
		r.POST("", CreateSchedule)
	}

	// Schedule with ID
	{
		r.OPTIONS("/:id", OptionsScheduleDetail)
		r.GET("/:id", GetSchedule)
		r.PATCH("/:id", UpdateSchedule)
		r.DELETE("/:id", DeleteSchedule)

		r.OPTIONS("/:id/occurrences", OptionsScheduleOccurrences)
		r.GET("/:id/occurrences", GetScheduleOccurrences)

		r.OPTIONS("/:id/materialize", OptionsScheduleMaterialize)
		r.POST("/:id/materialize", MaterializeSchedule)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Schedules
// @Success		204
// @Router			/v1/schedules [options]
func OptionsScheduleList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Schedules
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/schedules/{id} [options]
func OptionsScheduleDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Schedule{})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Schedules
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/schedules/{id}/occurrences [options]
func OptionsScheduleOccurrences(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Schedules
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/schedules/{id}/materialize [options]
func OptionsScheduleMaterialize(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Create schedule
// @Description	Creates a new schedule
// @Tags			Schedules
// @Produce		json
// @Success		201			{object}	ScheduleResponse
// @Failure		400			{object}	ScheduleResponse
// @Failure		404			{object}	ScheduleResponse
// @Failure		500			{object}	ScheduleResponse
// @Param			schedule	body		ScheduleEditable	true	"Schedule"
// @Router			/v1/schedules [post]
func CreateSchedule(c *gin.Context) {
	var editable ScheduleEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ScheduleResponse{
			Error: &s,
		})
		return
	}

	schedule := editable.model()
	if schedule.Currency == "" {
		schedule.Currency = settings.DefaultCurrency
	}

	if schedule.Interval == 0 {
		schedule.Interval = 1
	}

	err = models.DB.Omit(clause.Associations).Create(&schedule).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ScheduleResponse{
			Error: &s,
		})
		return
	}

	data := newSchedule(c, schedule)
	c.JSON(http.StatusCreated, ScheduleResponse{Data: &data})
}

// @Summary		Get schedules
// @Description	Returns all schedules, ordered by the date of their first occurrence
// @Tags			Schedules
// @Produce		json
// @Success		200	{object}	ScheduleListResponse
// @Failure		500	{object}	ScheduleListResponse
// @Router			/v1/schedules [get]
func GetSchedules(c *gin.Context) {
	var schedules []models.Schedule
	err := models.DB.Order("date ASC, description ASC").Find(&schedules).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ScheduleListResponse{
			Error: &s,
		})
		return
	}

	data := make([]Schedule, 0, len(schedules))
	for _, schedule := range schedules {
		data = append(data, newSchedule(c, schedule))
	}

	c.JSON(http.StatusOK, ScheduleListResponse{Data: data})
}

// getSchedule binds the ID from the URI and loads the schedule.
func getSchedule(c *gin.Context) (models.Schedule, error) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		return models.Schedule{}, err
	}

	var schedule models.Schedule
	err = models.DB.First(&schedule, uri.ID).Error
	if err != nil {
		return models.Schedule{}, err
	}

	return schedule, nil
}

// @Summary		Get schedule
// @Description	Returns a specific schedule
// @Tags			Schedules
// @Produce		json
// @Success		200	{object}	ScheduleResponse
// @Failure		400	{object}	ScheduleResponse
// @Failure		404	{object}	ScheduleResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/schedules/{id} [get]
func GetSchedule(c *gin.Context) {
	schedule, err := getSchedule(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ScheduleResponse{
			Error: &s,
		})
		return
	}

	data := newSchedule(c, schedule)
	c.JSON(http.StatusOK, ScheduleResponse{Data: &data})
}

// @Summary		Update schedule
// @Description	Updates an existing schedule. Only values to be updated need to be specified. Setting done to true records the completion time.
// @Tags			Schedules
// @Accept			json
// @Produce		json
// @Success		200			{object}	ScheduleResponse
// @Failure		400			{object}	ScheduleResponse
// @Failure		404			{object}	ScheduleResponse
// @Failure		500			{object}	ScheduleResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			schedule	body		ScheduleEditable	true	"Schedule"
// @Router			/v1/schedules/{id} [patch]
func UpdateSchedule(c *gin.Context) {
	schedule, err := getSchedule(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ScheduleResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, ScheduleEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ScheduleResponse{
			Error: &s,
		})
		return
	}

	var data ScheduleEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ScheduleResponse{
			Error: &s,
		})
		return
	}

	// Save runs the hooks, so the rule is validated and the completion time follows done
	data.apply(&schedule, updateFields)
	err = models.DB.Omit(clause.Associations).Save(&schedule).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ScheduleResponse{
			Error: &s,
		})
		return
	}

	r := newSchedule(c, schedule)
	c.JSON(http.StatusOK, ScheduleResponse{Data: &r})
}

// @Summary		Delete schedule
// @Description	Deletes a schedule. Records materialized from it are kept.
// @Tags			Schedules
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/schedules/{id} [delete]
func DeleteSchedule(c *gin.Context) {
	resourceDelete(c, models.Schedule{})
}

// @Summary		Get occurrences
// @Description	Returns the projected occurrences of a schedule in the time window. The first occurrence on the schedule's date is not part of the projection.
// @Tags			Schedules
// @Produce		json
// @Success		200		{object}	ScheduleOccurrencesResponse
// @Failure		400		{object}	ScheduleOccurrencesResponse
// @Failure		404		{object}	ScheduleOccurrencesResponse
// @Param			id		path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			from	query		string	false	"First day of the window"
// @Param			until	query		string	false	"Last day of the window, inclusive"
// @Param			month	query		string	false	"Whole month as YYYY-MM, instead of from and until"
// @Router			/v1/schedules/{id}/occurrences [get]
func GetScheduleOccurrences(c *gin.Context) {
	var query QueryWindow
	if err := c.BindQuery(&query); err != nil {
		s := httputil.ErrInvalidQuery.Error()
		c.JSON(http.StatusBadRequest, ScheduleOccurrencesResponse{
			Error: &s,
		})
		return
	}

	window, err := query.window()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ScheduleOccurrencesResponse{
			Error: &s,
		})
		return
	}

	schedule, err := getSchedule(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ScheduleOccurrencesResponse{
			Error: &s,
		})
		return
	}

	projected := calendar.Project(schedule, window, settings.Projection())
	data := make([]calendar.Item, 0, len(projected))
	for _, p := range projected {
		data = append(data, calendar.ItemOf(p))
	}

	c.JSON(http.StatusOK, ScheduleOccurrencesResponse{Data: data})
}

// @Summary		Materialize occurrence
// @Description	Creates a record for the occurrence of the schedule on the given date. If the occurrence has already been materialized, the existing record is returned with status 409.
// @Tags			Schedules
// @Accept			json
// @Produce		json
// @Success		201		{object}	RecordResponse
// @Failure		400		{object}	RecordResponse
// @Failure		404		{object}	RecordResponse
// @Failure		409		{object}	RecordResponse
// @Failure		500		{object}	RecordResponse
// @Param			id		path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			request	body		MaterializeRequest	true	"Occurrence"
// @Router			/v1/schedules/{id}/materialize [post]
func MaterializeSchedule(c *gin.Context) {
	schedule, err := getSchedule(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecordResponse{
			Error: &s,
		})
		return
	}

	var request MaterializeRequest
	err = httputil.BindData(c, &request)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecordResponse{
			Error: &s,
		})
		return
	}

	occurrence, ok := calendar.At(schedule, request.Date, settings.Projection())
	if !ok {
		s := errNotAnOccurrence.Error()
		c.JSON(http.StatusBadRequest, RecordResponse{
			Error: &s,
		})
		return
	}

	var existing []models.Record
	err = models.DB.
		Where("schedule_id = ? AND date = ?", schedule.ID, occurrence.Date).
		Limit(1).
		Find(&existing).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecordResponse{
			Error: &s,
		})
		return
	}

	if len(existing) > 0 {
		s := errAlreadyMaterialized.Error()
		data := newRecord(c, existing[0])
		c.JSON(http.StatusConflict, RecordResponse{
			Data:  &data,
			Error: &s,
		})
		return
	}

	record := calendar.Materialize(occurrence)
	err = models.DB.Omit(clause.Associations).Create(&record).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecordResponse{
			Error: &s,
		})
		return
	}

	log.Debug().Str("schedule", schedule.ID.String()).Str("date", occurrence.Date.String()).Msg("materialized occurrence")

	data := newRecord(c, record)
	c.JSON(http.StatusCreated, RecordResponse{Data: &data})
}
