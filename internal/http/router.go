package api

import (
	"context"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fleetfin/internal/auth"
	intconfig "fleetfin/internal/config"
	"fleetfin/internal/domain"
	h "fleetfin/internal/http/handlers"
	"fleetfin/internal/http/middleware"
	"fleetfin/internal/services"
	"fleetfin/internal/utils"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}
	tokens := auth.NewTokens(env.JWTSecret, env.TokenTTL)
	h.SetTokens(tokens)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), middleware.Recovery(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.Log().Warn("failed to set trusted proxies", zap.Error(err))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, h.ErrorResponse{
			Error:     "route not found",
			Code:      "not_found",
			Message:   c.Request.Method + " " + c.Request.URL.Path,
			RequestID: middleware.GetRequestID(c),
		})
	})

	v1 := r.Group("/api/v1")
	v1.GET("/health", h.Health)
	v1.POST("/auth/login", h.Login)

	api := v1.Group("", middleware.Auth(tokens, currentActor))
	{
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)
		api.GET("/auth/me", h.Me)

		read := api.Group("", middleware.RequirePermission(domain.PermRead))
		write := api.Group("", middleware.RequirePermission(domain.PermWrite))

		// Registries
		mountRegistry(read, write, "/drivers", h.Drivers)
		mountRegistry(read, write, "/vehicles", h.Vehicles)
		mountRegistry(read, write, "/bus-routes", h.BusRoutes)
		mountRegistry(read, write, "/agencies", h.Agencies)
		mountRegistry(read, write, "/clients", h.Clients)
		mountRegistry(read, write, "/suppliers", h.Suppliers)

		// Cash
		read.GET("/route-cash", h.ListRouteCash)
		read.GET("/route-cash/:id", h.GetRouteCash)
		write.POST("/route-cash", h.CreateRouteCash)
		write.PUT("/route-cash/:id", h.UpdateRouteCash)
		write.DELETE("/route-cash/:id", h.DeleteRouteCash)

		read.GET("/agency-cash", h.ListAgencyCash)
		read.GET("/agency-cash/:id", h.GetAgencyCash)
		write.POST("/agency-cash", h.CreateAgencyCash)
		write.PUT("/agency-cash/:id", h.UpdateAgencyCash)
		write.DELETE("/agency-cash/:id", h.DeleteAgencyCash)

		// Fuel
		read.GET("/fuel", h.ListFuel)
		read.GET("/fuel/report", h.FuelReport)
		read.GET("/fuel/:id", h.GetFuel)
		write.POST("/fuel", h.CreateFuel)
		write.PUT("/fuel/:id", h.UpdateFuel)
		write.DELETE("/fuel/:id", h.DeleteFuel)

		// Expenses & payables
		read.GET("/expenses", h.ListExpenses)
		read.GET("/expenses/:id", h.GetExpense)
		write.POST("/expenses", h.CreateExpense)
		write.PUT("/expenses/:id", h.UpdateExpense)
		write.DELETE("/expenses/:id", h.DeleteExpense)

		read.GET("/payables", h.ListPayables)
		read.GET("/payables/:id", h.GetPayable)
		write.POST("/payables", h.CreatePayable)
		write.PUT("/payables/:id", h.UpdatePayable)
		write.POST("/payables/:id/pay", h.PayPayable)
		write.POST("/payables/:id/cancel", h.CancelPayable)

		// Tourism
		read.POST("/tourism/quote", h.QuoteTourism)
		read.GET("/tourism", h.ListTourism)
		read.GET("/tourism/:id", h.GetTourism)
		write.POST("/tourism", h.CreateTourism)
		write.PUT("/tourism/:id", h.UpdateTourism)
		write.POST("/tourism/:id/status", h.SetTourismStatus)
		write.POST("/tourism/:id/receive", h.ReceiveTourism)
		write.DELETE("/tourism/:id", h.DeleteTourism)

		// Driver ledger
		read.GET("/drivers/:id/statement", h.DriverStatement)
		read.GET("/ledger/balances", h.DriverBalances)
		write.POST("/ledger", h.AddLedgerEntry)
		write.DELETE("/ledger/:id", h.DeleteLedgerEntry)

		// Daily close
		read.GET("/closes", h.ListCloses)
		read.GET("/closes/:date", h.GetClose)
		read.GET("/closes/:date/preview", h.PreviewClose)
		closing := api.Group("/closes", middleware.RequirePermission(domain.PermClose))
		closing.POST("/:date", h.CloseDay)
		closing.POST("/:date/reopen", h.ReopenDay)

		// Reports
		read.GET("/reports/daily/:date", h.DailyReport)
		read.GET("/reports/period", h.PeriodReport)

		api.GET("/audit", middleware.RequirePermission(domain.PermAudit), h.ListAudit)

		users := api.Group("/users", middleware.RequirePermission(domain.PermUsers))
		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUser)
		users.POST("", h.CreateUser)
		users.PUT("/:id", h.UpdateUser)

		api.GET("/backup/export", middleware.RequirePermission(domain.PermExport), h.ExportBackup)
		api.POST("/backup/import", middleware.RequirePermission(domain.PermImport), h.ImportBackup)
	}

	h.SetRouter(r)
	return r
}

// currentActor checks every token against the users table.
func currentActor(ctx context.Context, claimed domain.Actor) (domain.Actor, error) {
	u, err := services.UserService{}.Me(ctx, claimed)
	if err != nil {
		return domain.Actor{}, err
	}
	return u.Actor(), nil
}

func mountRegistry(read, write *gin.RouterGroup, path string, reg h.RegistryMount) {
	read.GET(path, reg.List)
	read.GET(path+"/:id", reg.Get)
	write.POST(path, reg.Create)
	write.PUT(path+"/:id", reg.Update)
	write.DELETE(path+"/:id", reg.Delete)
	write.POST(path+"/:id/activate", reg.Activate)
}
