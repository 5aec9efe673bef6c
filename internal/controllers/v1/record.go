package v1

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/reckon-ledger/reckon/internal/httputil"
	"github.com/reckon-ledger/reckon/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RegisterRecordRoutes registers the routes for records with
// the RouterGroup that is passed.
func RegisterRecordRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsRecordList)
		r.GET("", GetRecords)
		r.POST("", CreateRecords)
	}

	// Record with ID
	{
		r.OPTIONS("/:id", OptionsRecordDetail)
		r.GET("/:id", GetRecord)
		r.PATCH("/:id", UpdateRecord)
		r.DELETE("/:id", DeleteRecord)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Records
// @Success		204
// @Router			/v1/records [options]
func OptionsRecordList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Records
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/records/{id} [options]
func OptionsRecordDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Record{})
}

// @Summary		Create records
// @Description	Creates records from the list of submitted record data. The response code is the highest response code number that a single record creation would have caused. If it is not equal to 201, at least one record has an error.
// @Tags			Records
// @Produce		json
// @Success		201		{object}	RecordCreateResponse
// @Failure		400		{object}	RecordCreateResponse
// @Failure		404		{object}	RecordCreateResponse
// @Failure		500		{object}	RecordCreateResponse
// @Param			records	body		[]RecordEditable	true	"Records"
// @Router			/v1/records [post]
func CreateRecords(c *gin.Context) {
	var editables []RecordEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RecordCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := RecordCreateResponse{}

	for _, editable := range editables {
		if err := editable.checkLink(models.Record{}, []string{"LinkGroupID"}); err != nil {
			status = r.appendError(err, status)
			continue
		}

		record := editable.model()
		if record.Currency == "" {
			record.Currency = settings.DefaultCurrency
		}

		err = models.DB.Omit(clause.Associations).Create(&record).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newRecord(c, record)
		r.Data = append(r.Data, RecordResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get records
// @Description	Returns a list of records, ordered by date
// @Tags			Records
// @Produce		json
// @Success		200			{object}	RecordListResponse
// @Failure		400			{object}	RecordListResponse
// @Failure		500			{object}	RecordListResponse
// @Param			from		query		string	false	"Records on or after this date"
// @Param			until		query		string	false	"Records on or before this date"
// @Param			description	query		string	false	"Search for this text in the description"
// @Param			kind		query		string	false	"Filter by kind"
// @Param			currency	query		string	false	"Filter by currency"
// @Param			category	query		string	false	"Filter by category ID"
// @Param			linkGroup	query		string	false	"Filter by link group ID. Empty for records without link group"
// @Param			schedule	query		string	false	"Filter by schedule ID"
// @Param			offset		query		uint	false	"The offset of the first Record returned. Defaults to 0."
// @Param			limit		query		int		false	"Maximum number of Records to return. Defaults to 50."
// @Router			/v1/records [get]
func GetRecords(c *gin.Context) {
	var filter RecordQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := httputil.ErrInvalidQuery.Error()
		c.JSON(http.StatusBadRequest, RecordListResponse{
			Error: &s,
		})
		return
	}

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	model := filter.model()
	q := models.DB.
		Order("date ASC, created_at ASC").
		Where(&model, queryFields...)

	if !filter.From.IsZero() {
		q = q.Where("date >= ?", filter.From)
	}

	if !filter.Until.IsZero() {
		q = q.Where("date <= ?", filter.Until)
	}

	if filter.Description != "" {
		q = q.Where("description LIKE ?", fmt.Sprintf("%%%s%%", filter.Description))
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 Records and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var records []models.Record
	err := q.Find(&records).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecordListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Model(&models.Record{}).Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecordListResponse{
			Error: &s,
		})
		return
	}

	data := make([]Record, 0, len(records))
	for _, record := range records {
		data = append(data, newRecord(c, record))
	}

	c.JSON(http.StatusOK, RecordListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get record
// @Description	Returns a specific record
// @Tags			Records
// @Produce		json
// @Success		200	{object}	RecordResponse
// @Failure		400	{object}	RecordResponse
// @Failure		404	{object}	RecordResponse
// @Failure		500	{object}	RecordResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/records/{id} [get]
func GetRecord(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecordResponse{
			Error: &s,
		})
		return
	}

	var record models.Record
	err = models.DB.First(&record, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecordResponse{
			Error: &s,
		})
		return
	}

	data := newRecord(c, record)
	c.JSON(http.StatusOK, RecordResponse{Data: &data})
}

// @Summary		Update record
// @Description	Updates an existing record. Only values to be updated need to be specified. Setting linkGroupId to null removes the record from its link group, other link group IDs are rejected.
// @Tags			Records
// @Accept			json
// @Produce		json
// @Success		200		{object}	RecordResponse
// @Failure		400		{object}	RecordResponse
// @Failure		404		{object}	RecordResponse
// @Failure		500		{object}	RecordResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			record	body		RecordEditable	true	"Record"
// @Router			/v1/records/{id} [patch]
func UpdateRecord(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecordResponse{
			Error: &s,
		})
		return
	}

	var record models.Record
	err = models.DB.First(&record, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecordResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, RecordEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecordResponse{
			Error: &s,
		})
		return
	}

	var data RecordEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecordResponse{
			Error: &s,
		})
		return
	}

	err = data.checkLink(record, updateFields)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecordResponse{
			Error: &s,
		})
		return
	}

	previous := linkGroups([]models.Record{record})

	// Save runs the hooks, so the import hash follows the new values
	data.apply(&record, updateFields)
	updated := []models.Record{record}
	err = saveRecords(updated, previous)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecordResponse{
			Error: &s,
		})
		return
	}
	record = updated[0]

	r := newRecord(c, record)
	c.JSON(http.StatusOK, RecordResponse{Data: &r})
}

// @Summary		Delete record
// @Description	Deletes a record. A link group left with a single record is dissolved.
// @Tags			Records
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/records/{id} [delete]
func DeleteRecord(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var record models.Record
	err = models.DB.First(&record, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&record).Error; err != nil {
			return err
		}
		return dissolveGroups(tx, linkGroups([]models.Record{record}))
	})
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
