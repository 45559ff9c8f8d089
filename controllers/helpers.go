package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Imanuelpalenewen/Final-Clinic/services"
)

// currentActor builds the service-layer actor from the verified JWT claims
// stored by the auth middleware.
func currentActor(c *gin.Context) services.Actor {
	return services.Actor{
		ID:       c.GetUint("userID"),
		Username: c.GetString("username"),
		Role:     c.GetString("role"),
	}
}

func statusFor(kind string) int {
	switch kind {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConflict, services.KindState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps a service error to its HTTP status and response body.
// Store failures are logged here; the services themselves never swallow them.
func respondError(c *gin.Context, err error) {
	kind := services.KindOf(err)
	if kind == services.KindPersistence {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(statusFor(kind), gin.H{
		"success": false,
		"message": err.Error(),
		"code":    kind,
	})
}
