package handlers

import (
	"github.com/gin-gonic/gin"

	"fleetfin/internal/services"
)

// GET /api/v1/users
func ListUsers(c *gin.Context) {
	users, err := userService().List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, users)
}

// GET /api/v1/users/:id
func GetUser(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	u, err := userService().Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, u)
}

// POST /api/v1/users
func CreateUser(c *gin.Context) {
	var in services.UserInput
	if !BindJSONOrError(c, &in) {
		return
	}
	u, err := userService().Create(c.Request.Context(), actor(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	created(c, u)
}

// PUT /api/v1/users/:id
func UpdateUser(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var in services.UserInput
	if !BindJSONOrError(c, &in) {
		return
	}
	u, err := userService().Update(c.Request.Context(), actor(c), id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, u)
}
