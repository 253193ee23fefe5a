package v2controllers

import (
	"net/http"

	"github.com/accounter/ledgerhub.go/db/models"
	"github.com/accounter/ledgerhub.go/lib/responses"
	"github.com/accounter/ledgerhub.go/lib/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// LedgerController : LedgerController struct
type LedgerController struct {
	svc *service.LedgerhubService
}

func NewLedgerController(svc *service.LedgerhubService) *LedgerController {
	return &LedgerController{svc: svc}
}

type GenerateLedgerRequestBody struct {
	InsertIfNotExists bool `json:"insert_if_not_exists"`
}

type LedgerRecordsResponse struct {
	ChargeID uuid.UUID             `json:"charge_id"`
	Records  []models.LedgerRecord `json:"records"`
}

// PreviewLedger godoc
// @Summary      Preview the ledger of a charge
// @Description  Generates the ledger records of a charge without storing them. Validation failures are returned as a CommonError.
// @Accept       json
// @Produce      json
// @Tags         Ledger
// @Param        id   path      string  true  "Charge id"
// @Success      200  {object}  service.GeneratedLedger
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v2/charges/{id}/ledger [get]
func (controller *LedgerController) PreviewLedger(c echo.Context) error {
	chargeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Logger().Errorf("Invalid charge id %q: %v", c.Param("id"), err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	result, err := controller.svc.GenerateLedgerForCharge(c.Request().Context(), chargeID, service.GenerateOptions{})
	if err != nil {
		return err
	}
	return respond(c, result)
}

// GenerateLedger godoc
// @Summary      Generate the ledger of a charge
// @Description  Generates the ledger records of a charge. With insert_if_not_exists a balanced ledger is stored once, later calls return the stored records.
// @Accept       json
// @Produce      json
// @Tags         Ledger
// @Param        id    path      string                     true  "Charge id"
// @Param        body  body      GenerateLedgerRequestBody  false  "Generation options"
// @Success      200   {object}  service.GeneratedLedger
// @Failure      400   {object}  responses.ErrorResponse
// @Failure      500   {object}  responses.ErrorResponse
// @Router       /v2/charges/{id}/ledger [post]
func (controller *LedgerController) GenerateLedger(c echo.Context) error {
	chargeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Logger().Errorf("Invalid charge id %q: %v", c.Param("id"), err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	var body GenerateLedgerRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load generate ledger request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid generate ledger request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	result, err := controller.svc.GenerateLedgerForCharge(c.Request().Context(), chargeID, service.GenerateOptions{
		InsertIfNotExists: body.InsertIfNotExists,
	})
	if err != nil {
		return err
	}
	return respond(c, result)
}

// LedgerRecords godoc
// @Summary      Stored ledger records of a charge
// @Produce      json
// @Tags         Ledger
// @Param        id   path      string  true  "Charge id"
// @Success      200  {object}  LedgerRecordsResponse
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v2/charges/{id}/ledger/records [get]
func (controller *LedgerController) LedgerRecords(c echo.Context) error {
	chargeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Logger().Errorf("Invalid charge id %q: %v", c.Param("id"), err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	records, commonErr, err := controller.svc.RecordsForCharge(c.Request().Context(), chargeID)
	if err != nil {
		return err
	}
	if commonErr != nil {
		return c.JSON(http.StatusNotFound, responses.ChargeNotFoundError)
	}
	if records == nil {
		records = []models.LedgerRecord{}
	}
	return c.JSON(http.StatusOK, &LedgerRecordsResponse{ChargeID: chargeID, Records: records})
}

// UnlockLedger godoc
// @Summary      Unlock and regenerate the ledger of a charge
// @Description  Drops the stored records and the explicit lock of a charge and stores a freshly generated ledger. Charges in a closed period stay locked.
// @Produce      json
// @Tags         Admin
// @Param        id   path      string  true  "Charge id"
// @Success      200  {object}  service.GeneratedLedger
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      401  {object}  responses.ErrorResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v2/admin/charges/{id}/unlock [post]
// @Security     ApiKeyAuth
func (controller *LedgerController) UnlockLedger(c echo.Context) error {
	chargeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Logger().Errorf("Invalid charge id %q: %v", c.Param("id"), err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	result, err := controller.svc.UnlockAndRegenerate(c.Request().Context(), chargeID)
	if err != nil {
		return err
	}
	return respond(c, result)
}

// LockLedger godoc
// @Summary      Lock the ledger of a charge
// @Produce      json
// @Tags         Admin
// @Param        id   path      string  true  "Charge id"
// @Success      200  {object}  service.GeneratedLedger
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      401  {object}  responses.ErrorResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v2/admin/charges/{id}/lock [post]
// @Security     ApiKeyAuth
func (controller *LedgerController) LockLedger(c echo.Context) error {
	chargeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Logger().Errorf("Invalid charge id %q: %v", c.Param("id"), err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	result, err := controller.svc.LockCharge(c.Request().Context(), chargeID)
	if err != nil {
		return err
	}
	return respond(c, result)
}

// a CommonError is an expected outcome and is answered with 200
func respond(c echo.Context, result *service.GenerateResult) error {
	if result.CommonError != nil {
		return c.JSON(http.StatusOK, result.CommonError)
	}
	return c.JSON(http.StatusOK, result.Ledger)
}
