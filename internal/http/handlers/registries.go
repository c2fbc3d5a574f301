package handlers

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"fleetfin/internal/domain/models"
	"fleetfin/internal/services"
)

// Registry serves the CRUD endpoints of one registry entity.
type Registry[T any] struct {
	svc func(db *sql.DB) services.RegistryService[T]
}

func newRegistry[T any](svc func(db *sql.DB) services.RegistryService[T]) Registry[T] {
	return Registry[T]{svc: svc}
}

var (
	Drivers   = newRegistry(services.NewDriverService)
	Vehicles  = newRegistry(services.NewVehicleService)
	BusRoutes = newRegistry(services.NewRouteService)
	Agencies  = newRegistry(services.NewAgencyService)
	Clients   = newRegistry(services.NewClientService)
	Suppliers = newRegistry(services.NewSupplierService)
)

func (h Registry[T]) service() services.RegistryService[T] { return h.svc(nil) }

// List returns active rows; ?active=all includes inactive ones.
func (h Registry[T]) List(c *gin.Context) {
	rows, err := h.service().List(c.Request.Context(), c.Query("active") == "all")
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, rows)
}

func (h Registry[T]) Get(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	v, err := h.service().Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, v)
}

func (h Registry[T]) Create(c *gin.Context) {
	var in T
	if !BindJSONOrError(c, &in) {
		return
	}
	v, err := h.service().Create(c.Request.Context(), actor(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	created(c, v)
}

func (h Registry[T]) Update(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var in T
	if !BindJSONOrError(c, &in) {
		return
	}
	v, err := h.service().Update(c.Request.Context(), actor(c), id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, v)
}

// Delete is a soft delete.
func (h Registry[T]) Delete(c *gin.Context) {
	h.setActive(c, false)
}

func (h Registry[T]) Activate(c *gin.Context) {
	h.setActive(c, true)
}

func (h Registry[T]) setActive(c *gin.Context, active bool) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	v, err := h.service().SetActive(c.Request.Context(), actor(c), id, active)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, v)
}

// RegistryMount is the subset of Registry used by the router.
type RegistryMount interface {
	List(*gin.Context)
	Get(*gin.Context)
	Create(*gin.Context)
	Update(*gin.Context)
	Delete(*gin.Context)
	Activate(*gin.Context)
}

var (
	_ RegistryMount = Registry[models.Driver]{}
	_ RegistryMount = Registry[models.Supplier]{}
)
