package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"loan-origination.backend/internal/domain/entities"
	domainerrors "loan-origination.backend/internal/domain/errors"
	"loan-origination.backend/internal/interfaces/http/middleware"
	"loan-origination.backend/internal/interfaces/http/response"
	"loan-origination.backend/pkg/utils"
)

// requireActor writes a 401 and returns false when the request carries no staff identity
func requireActor(c *gin.Context) (entities.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return entities.Actor{}, false
	}
	return actor, true
}

// uuidParam writes a 400 and returns false when the path parameter is not a UUID
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, ok := utils.ParseUUID(c.Param(name))
	if !ok {
		response.Error(c, domainerrors.BadRequest("Invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return false
	}
	return true
}
