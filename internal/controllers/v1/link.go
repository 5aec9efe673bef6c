package v1

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/reckon-ledger/reckon/internal/httputil"
	"github.com/reckon-ledger/reckon/internal/link"
	"github.com/reckon-ledger/reckon/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LinkSuggestRequest names the records to suggest roles for.
type LinkSuggestRequest struct {
	RecordIDs []uuid.UUID `json:"recordIds"` // IDs of the records to link
}

type LinkSuggestion struct {
	Roles   map[uuid.UUID]link.Role `json:"roles" swaggertype:"object"` // Suggested role per record ID
	Balance link.Balance            `json:"balance"`                    // Balance of the records with the suggested roles
}

type LinkSuggestResponse struct {
	Data  *LinkSuggestion `json:"data"`                                                          // The suggested roles
	Error *string         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// LinkCreateRequest assigns a role to every record of a new link group.
type LinkCreateRequest struct {
	Roles      map[uuid.UUID]link.Role  `json:"roles" swaggertype:"object"`      // Role per record ID. All records in this map are linked
	Categories map[uuid.UUID]*uuid.UUID `json:"categories" swaggertype:"object"` // Category per record ID, optional
	KeepKinds  bool                     `json:"keepKinds" example:"false"`       // Keep the kinds of the records instead of setting transfer for the source and expense for allocations
}

type LinkLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/links/4e9a4a0d-2b2c-4b0c-a4b7-0d2b6c6f2d7e"` // The link group itself
}

// Link is a link group with its records.
type Link struct {
	ID      uuid.UUID    `json:"id" example:"4e9a4a0d-2b2c-4b0c-a4b7-0d2b6c6f2d7e"` // ID of the link group
	Records []Record     `json:"records"`                                           // The records of the group
	Balance link.Balance `json:"balance"`                                           // Whether the sources match the allocations
	Links   LinkLinks    `json:"links"`
}

func newLink(c *gin.Context, id uuid.UUID, records []models.Record, balance link.Balance) Link {
	url := c.GetString(string(models.DBContextURL))

	data := make([]Record, 0, len(records))
	for _, record := range records {
		data = append(data, newRecord(c, record))
	}

	return Link{
		ID:      id,
		Records: data,
		Balance: balance,
		Links: LinkLinks{
			Self: fmt.Sprintf("%s/v1/links/%s", url, id),
		},
	}
}

type LinkResponse struct {
	Data  *Link   `json:"data"`                                                          // The link group
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// RegisterLinkRoutes registers the routes for link groups with
// the RouterGroup that is passed.
func RegisterLinkRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsLinkList)
		r.POST("", CreateLink)

		r.OPTIONS("/suggest", OptionsLinkSuggest)
		r.POST("/suggest", SuggestLink)
	}

	// Link group with ID
	{
		r.OPTIONS("/:id", OptionsLinkDetail)
		r.GET("/:id", GetLink)
		r.DELETE("/:id", DeleteLink)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Links
// @Success		204
// @Router			/v1/links [options]
func OptionsLinkList(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Links
// @Success		204
// @Router			/v1/links/suggest [options]
func OptionsLinkSuggest(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Links
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/links/{id} [options]
func OptionsLinkDetail(c *gin.Context) {
	_, err := linkMembers(c)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetDelete(c)
}

// loadRecords loads the records with the given IDs in date order.
// It fails if any of them does not exist.
func loadRecords(ids []uuid.UUID) ([]models.Record, error) {
	var records []models.Record
	err := models.DB.
		Where("id IN ?", ids).
		Order("date ASC, created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	if len(records) != len(ids) {
		return nil, fmt.Errorf("%w record for every ID", models.ErrResourceNotFound)
	}

	return records, nil
}

// linkMembers binds the link group ID from the URI and loads its records.
func linkMembers(c *gin.Context) ([]models.Record, error) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		return nil, err
	}

	var records []models.Record
	err = models.DB.
		Where(&models.Record{LinkGroupID: &uri.ID.UUID}).
		Order("date ASC, created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w link group matching your query", models.ErrResourceNotFound)
	}

	return records, nil
}

// roles returns the link roles of the records.
func roles(records []models.Record) map[uuid.UUID]link.Role {
	r := make(map[uuid.UUID]link.Role, len(records))
	for _, record := range records {
		r[record.ID] = record.LinkRole
	}
	return r
}

// @Summary		Suggest roles
// @Description	Suggests the record with the largest amount as source and all others as allocations. Nothing is stored.
// @Tags			Links
// @Accept			json
// @Produce		json
// @Success		200		{object}	LinkSuggestResponse
// @Failure		400		{object}	LinkSuggestResponse
// @Failure		404		{object}	LinkSuggestResponse
// @Param			request	body		LinkSuggestRequest	true	"Records"
// @Router			/v1/links/suggest [post]
func SuggestLink(c *gin.Context) {
	var request LinkSuggestRequest
	err := httputil.BindData(c, &request)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LinkSuggestResponse{
			Error: &s,
		})
		return
	}

	if len(request.RecordIDs) == 0 {
		s := errLinkNoRecords.Error()
		c.JSON(http.StatusBadRequest, LinkSuggestResponse{
			Error: &s,
		})
		return
	}

	records, err := loadRecords(request.RecordIDs)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LinkSuggestResponse{
			Error: &s,
		})
		return
	}

	suggested := link.SuggestRoles(records)
	c.JSON(http.StatusOK, LinkSuggestResponse{
		Data: &LinkSuggestion{
			Roles:   suggested,
			Balance: link.Check(records, suggested, settings.Tolerance()),
		},
	})
}

// @Summary		Create link group
// @Description	Links the records to a new link group. Records that already were in a link group are moved to the new one, a group left with a single record is dissolved. The group is stored even if it does not balance, the response contains the difference.
// @Tags			Links
// @Accept			json
// @Produce		json
// @Success		201		{object}	LinkResponse
// @Failure		400		{object}	LinkResponse
// @Failure		404		{object}	LinkResponse
// @Failure		500		{object}	LinkResponse
// @Param			request	body		LinkCreateRequest	true	"Roles"
// @Router			/v1/links [post]
func CreateLink(c *gin.Context) {
	var request LinkCreateRequest
	err := httputil.BindData(c, &request)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LinkResponse{
			Error: &s,
		})
		return
	}

	ids := make([]uuid.UUID, 0, len(request.Roles))
	for id := range request.Roles {
		ids = append(ids, id)
	}

	records, err := loadRecords(ids)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LinkResponse{
			Error: &s,
		})
		return
	}

	previous := linkGroups(records)

	result, err := link.Reconcile(records, request.Roles, link.Options{
		Tolerance:  settings.Tolerance(),
		KeepKinds:  request.KeepKinds,
		Categories: request.Categories,
	})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LinkResponse{
			Error: &s,
		})
		return
	}

	err = saveRecords(result.Records, previous)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LinkResponse{
			Error: &s,
		})
		return
	}

	data := newLink(c, result.GroupID, result.Records, result.Balance)
	c.JSON(http.StatusCreated, LinkResponse{Data: &data})
}

// saveRecords stores all records in a single transaction. Of the link
// groups in previous, those left with fewer than two records are dissolved.
func saveRecords(records []models.Record, previous []uuid.UUID) error {
	return models.DB.Transaction(func(tx *gorm.DB) error {
		for i := range records {
			if err := tx.Omit(clause.Associations).Save(&records[i]).Error; err != nil {
				return err
			}
		}
		return dissolveGroups(tx, previous)
	})
}

// linkGroups returns the distinct link groups of the records.
func linkGroups(records []models.Record) []uuid.UUID {
	var ids []uuid.UUID
	for _, r := range records {
		if r.LinkGroupID != nil && !slices.Contains(ids, *r.LinkGroupID) {
			ids = append(ids, *r.LinkGroupID)
		}
	}
	return ids
}

// dissolveGroups unlinks the last member of every group that has
// fewer than two records left.
func dissolveGroups(tx *gorm.DB, groupIDs []uuid.UUID) error {
	for _, id := range groupIDs {
		var members []models.Record
		err := tx.Where(&models.Record{LinkGroupID: &id}).Find(&members).Error
		if err != nil {
			return err
		}

		if len(members) >= 2 {
			continue
		}

		for _, r := range link.Unlink(members) {
			if err := tx.Omit(clause.Associations).Save(&r).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// @Summary		Get link group
// @Description	Returns the records of a link group and whether they balance
// @Tags			Links
// @Produce		json
// @Success		200	{object}	LinkResponse
// @Failure		400	{object}	LinkResponse
// @Failure		404	{object}	LinkResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/links/{id} [get]
func GetLink(c *gin.Context) {
	records, err := linkMembers(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LinkResponse{
			Error: &s,
		})
		return
	}

	balance := link.Check(records, roles(records), settings.Tolerance())
	data := newLink(c, *records[0].LinkGroupID, records, balance)
	c.JSON(http.StatusOK, LinkResponse{Data: &data})
}

// @Summary		Delete link group
// @Description	Removes all records from the link group. The records themselves are kept.
// @Tags			Links
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/links/{id} [delete]
func DeleteLink(c *gin.Context) {
	records, err := linkMembers(c)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = saveRecords(link.Unlink(records), nil)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
