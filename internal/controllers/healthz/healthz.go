// Package healthz reports whether the server can serve requests.
package healthz

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reckon-ledger/reckon/internal/httputil"
	"github.com/reckon-ledger/reckon/internal/models"
	"github.com/rs/zerolog/log"
)

var errNoDatabase = errors.New("the database connection is not set up")

type httpError struct {
	Error string `json:"error" example:"sql: database is closed"`
}

func RegisterRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", Options)
	r.GET("", Get)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/healthz [options]
func Options(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get health
// @Description	Returns the application health and, if not healthy, an error
// @Tags			General
// @Produce		json
// @Success		204
// @Failure		500	{object}	httpError
// @Router			/healthz [get]
func Get(c *gin.Context) {
	if err := check(); err != nil {
		log.Error().Err(err).Msg("health check failed")
		c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// check pings the database and reads from the records table.
func check() error {
	if models.DB == nil {
		return errNoDatabase
	}

	sqlDB, err := models.DB.DB()
	if err != nil {
		return err
	}

	if err := sqlDB.Ping(); err != nil {
		return err
	}

	var count int64
	return models.DB.Model(&models.Record{}).Limit(1).Count(&count).Error
}
