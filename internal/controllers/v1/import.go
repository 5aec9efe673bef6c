package v1

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/reckon-ledger/reckon/internal/httputil"
	"github.com/reckon-ledger/reckon/internal/importer"
	"github.com/reckon-ledger/reckon/internal/importer/parser"
	"github.com/reckon-ledger/reckon/internal/models"
)

type ImportPreviewQuery struct {
	Currency string `form:"currency" example:"EUR"`     // Currency of the records in the file. Defaults to the configured currency
	Sheet    string `form:"sheet" example:"Statement"`  // Sheet to read for .xlsx files. Defaults to the first sheet
	JSONRoot string `form:"jsonRoot" example:"$.data"` // JSONPath selecting the rows for .json files. Defaults to $[*]
}

type ImportPreviewResponse struct {
	Data  []importer.ClassifiedRecord `json:"data"`                                                          // The classified records of the file
	Error *string                     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type ImportCreateData struct {
	Created   []Record                    `json:"created"`   // The records that have been stored
	Conflicts []importer.ClassifiedRecord `json:"conflicts"` // Records that have not been stored because a duplicate was stored after the preview
}

type ImportCreateResponse struct {
	Data  *ImportCreateData `json:"data"`                                                          // The result of the import
	Error *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type ImportResponse struct {
	Links ImportLinks `json:"links"` // Links for the import API
}

type ImportLinks struct {
	Preview string `json:"preview" example:"https://example.com/api/v1/import/preview"` // URL of the preview endpoint
	Create  string `json:"create" example:"https://example.com/api/v1/import"`          // URL of the endpoint storing the previewed records
}

// RegisterImportRoutes registers the routes for imports.
func RegisterImportRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsImport)
		r.GET("", GetImport)
		r.POST("", CreateImport)

		r.OPTIONS("/preview", OptionsImportPreview)
		r.POST("/preview", ImportPreview)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs.
// @Tags			Import
// @Success		204
// @Router			/v1/import [options]
func OptionsImport(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs.
// @Tags			Import
// @Success		204
// @Router			/v1/import/preview [options]
func OptionsImportPreview(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Import API overview
// @Description	Returns general information about the import API
// @Tags			Import
// @Success		200	{object}	ImportResponse
// @Router			/v1/import [get]
func GetImport(c *gin.Context) {
	url := c.GetString(string(models.DBContextURL))

	c.JSON(http.StatusOK, ImportResponse{
		Links: ImportLinks{
			Preview: url + "/v1/import/preview",
			Create:  url + "/v1/import",
		},
	})
}

// getUploadedFile returns the form file and its name.
func getUploadedFile(c *gin.Context) (io.ReadCloser, string, error) {
	formFile, err := c.FormFile("file")
	if formFile == nil {
		return nil, "", errNoFilePost
	}

	if err != nil {
		return nil, "", err
	}

	if !parser.Supported(formFile.Filename) {
		return nil, "", fmt.Errorf("%w, got %q", errWrongFileSuffix, formFile.Filename)
	}

	f, err := formFile.Open()
	if err != nil {
		return nil, "", err
	}

	return f, formFile.Filename, nil
}

// @Summary		Preview an import
// @Description	Parses a bank statement export and classifies every record against the stored records and the rest of the file. Nothing is stored.
// @Tags			Import
// @Accept			multipart/form-data
// @Produce		json
// @Success		200			{object}	ImportPreviewResponse
// @Failure		400			{object}	ImportPreviewResponse
// @Failure		500			{object}	ImportPreviewResponse
// @Param			file		formData	file	true	"File to import. Supported types are .csv, .xlsx and .json"
// @Param			currency	query		string	false	"Currency of the records in the file"
// @Param			sheet		query		string	false	"Sheet to read for .xlsx files"
// @Param			jsonRoot	query		string	false	"JSONPath selecting the rows for .json files"
// @Router			/v1/import/preview [post]
func ImportPreview(c *gin.Context) {
	var query ImportPreviewQuery
	if err := c.BindQuery(&query); err != nil {
		s := httputil.ErrInvalidQuery.Error()
		c.JSON(http.StatusBadRequest, ImportPreviewResponse{
			Error: &s,
		})
		return
	}

	opts := settings.Classify()
	if query.Currency != "" {
		opts.Currency = strings.ToUpper(strings.TrimSpace(query.Currency))
	}

	f, name, err := getUploadedFile(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportPreviewResponse{
			Error: &s,
		})
		return
	}
	defer f.Close()

	batch, err := parser.Parse(f, name, parser.Options{
		Currency: opts.Currency,
		Sheet:    query.Sheet,
		JSONRoot: query.JSONRoot,
	})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportPreviewResponse{
			Error: &s,
		})
		return
	}

	existing, err := importer.Existing(models.DB, batch, opts.Currency)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportPreviewResponse{
			Error: &s,
		})
		return
	}

	rules, err := matchRules()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportPreviewResponse{
			Error: &s,
		})
		return
	}

	records := importer.Classify(batch, existing, opts)
	importer.ApplyMatchRules(records, rules)

	c.JSON(http.StatusOK, ImportPreviewResponse{Data: records})
}

// @Summary		Import records
// @Description	Stores all records of a preview that are not excluded. Records that became duplicates after the preview are not stored and returned as conflicts.
// @Tags			Import
// @Accept			json
// @Produce		json
// @Success		201		{object}	ImportCreateResponse
// @Failure		400		{object}	ImportCreateResponse
// @Failure		500		{object}	ImportCreateResponse
// @Param			records	body		[]importer.ClassifiedRecord	true	"The records from the preview"
// @Router			/v1/import [post]
func CreateImport(c *gin.Context) {
	var records []importer.ClassifiedRecord
	err := httputil.BindData(c, &records)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportCreateResponse{
			Error: &s,
		})
		return
	}

	result, err := importer.Create(models.DB, records, settings.Classify())
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportCreateResponse{
			Error: &s,
		})
		return
	}

	data := ImportCreateData{
		Created:   make([]Record, 0, len(result.Created)),
		Conflicts: result.Conflicts,
	}
	for _, record := range result.Created {
		data.Created = append(data.Created, newRecord(c, record))
	}

	c.JSON(http.StatusCreated, ImportCreateResponse{Data: &data})
}
