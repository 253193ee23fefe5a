package transport

import (
	v2controllers "github.com/accounter/ledgerhub.go/controllers_v2"
	"github.com/accounter/ledgerhub.go/lib/service"
	"github.com/labstack/echo/v4"
)

func RegisterV2Endpoints(svc *service.LedgerhubService, e *echo.Echo, strictRateLimitMiddleware echo.MiddlewareFunc, adminMw echo.MiddlewareFunc, logMw echo.MiddlewareFunc) {
	ledgerCtrl := v2controllers.NewLedgerController(svc)

	charges := e.Group("/v2/charges", RequestCacheMiddleware, logMw)
	charges.GET("/:id/ledger", ledgerCtrl.PreviewLedger)
	charges.POST("/:id/ledger", ledgerCtrl.GenerateLedger, strictRateLimitMiddleware)
	charges.GET("/:id/ledger/records", ledgerCtrl.LedgerRecords)

	//require admin token for the lock endpoints
	if svc.Config.AdminToken != "" {
		admin := e.Group("/v2/admin/charges", adminMw, strictRateLimitMiddleware, RequestCacheMiddleware, logMw)
		admin.POST("/:id/unlock", ledgerCtrl.UnlockLedger)
		admin.POST("/:id/lock", ledgerCtrl.LockLedger)
	}

	e.GET("/health", v2controllers.NewHealthController().Check)
}
