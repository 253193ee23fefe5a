package v2controllers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/accounter/ledgerhub.go/db/models"
	"github.com/accounter/ledgerhub.go/lib/ledger"
	"github.com/accounter/ledgerhub.go/lib/service"
	"github.com/accounter/ledgerhub.go/lib/store/inmemory"
	"github.com/accounter/ledgerhub.go/lib/tokens"
	"github.com/accounter/ledgerhub.go/lib/transport"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/ziflex/lecho/v3"
)

const adminToken = "admin-secret"

type LedgerControllerTestSuite struct {
	suite.Suite
	echo   *echo.Echo
	store  *inmemory.Store
	charge models.Charge
}

func (suite *LedgerControllerTestSuite) SetupTest() {
	config := &service.Config{
		RatesBaseCurrency: "ILS",
		AdminToken:        adminToken,
		DefaultRateLimit:  1000,
		StrictRateLimit:   1000,
		BurstRateLimit:    1000,
	}
	logger := lecho.New(io.Discard)
	suite.store = inmemory.NewStore("ILS")
	svc := service.NewLedgerhubService(config, suite.store, logger)
	svc.Now = func() time.Time { return time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC) }

	owner := uuid.New()
	settings := models.OwnerSettings{OwnerID: owner, LocalCurrency: "ILS", DefaultTaxCategoryID: uuid.New()}
	suite.store.PutOwnerSettings(settings)
	suite.charge = models.Charge{
		ID:            uuid.New(),
		OwnerID:       owner,
		Type:          models.ChargeTypeBalance,
		TaxCategoryID: uuid.NullUUID{UUID: settings.DefaultTaxCategoryID, Valid: true},
	}
	suite.store.AddCharge(suite.charge)
	suite.store.AddTransactions(models.Transaction{
		ID:         uuid.New(),
		ChargeID:   suite.charge.ID,
		OwnerID:    owner,
		Amount:     decimal.NewFromInt(250),
		Currency:   "ILS",
		BusinessID: uuid.NullUUID{UUID: uuid.New(), Valid: true},
		EventDate:  time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC),
	})

	suite.echo = transport.InitEcho(config, logger)
	transport.RegisterV2Endpoints(svc, suite.echo,
		transport.CreateRateLimitMiddleware(config.StrictRateLimit, config.BurstRateLimit),
		tokens.AdminTokenMiddleware(config.AdminToken),
		transport.CreateLoggingMiddleware(logger),
	)
}

func (suite *LedgerControllerTestSuite) do(method, path, body string, headers map[string]string) (*httptest.ResponseRecorder, map[string]interface{}) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	suite.echo.ServeHTTP(rec, req)

	payload := map[string]interface{}{}
	if strings.HasPrefix(rec.Body.String(), "{") {
		suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &payload))
	}
	return rec, payload
}

func (suite *LedgerControllerTestSuite) ledgerPath(suffix string) string {
	return "/v2/charges/" + suite.charge.ID.String() + "/ledger" + suffix
}

func (suite *LedgerControllerTestSuite) TestPreviewDoesNotStore() {
	rec, payload := suite.do(http.MethodGet, suite.ledgerPath(""), "", nil)
	suite.Equal(http.StatusOK, rec.Code)
	suite.Len(payload["records"], 1)
	suite.Equal(false, payload["persisted"])
	suite.Equal("balance", payload["generator_kind"])

	rec, payload = suite.do(http.MethodGet, suite.ledgerPath("/records"), "", nil)
	suite.Equal(http.StatusOK, rec.Code)
	suite.Empty(payload["records"])
}

func (suite *LedgerControllerTestSuite) TestGenerateWithInsertStoresOnce() {
	rec, payload := suite.do(http.MethodPost, suite.ledgerPath(""), `{"insert_if_not_exists":true}`, nil)
	suite.Equal(http.StatusOK, rec.Code)
	suite.Equal(true, payload["persisted"])
	suite.Len(payload["records"], 1)

	rec, _ = suite.do(http.MethodPost, suite.ledgerPath(""), `{"insert_if_not_exists":true}`, nil)
	suite.Equal(http.StatusOK, rec.Code)

	rec, payload = suite.do(http.MethodGet, suite.ledgerPath("/records"), "", nil)
	suite.Equal(http.StatusOK, rec.Code)
	suite.Len(payload["records"], 1)
}

func (suite *LedgerControllerTestSuite) TestGenerateWithoutBodyPreviews() {
	rec, payload := suite.do(http.MethodPost, suite.ledgerPath(""), "", nil)
	suite.Equal(http.StatusOK, rec.Code)
	suite.Equal(false, payload["persisted"])
}

func (suite *LedgerControllerTestSuite) TestUnknownChargeIsACommonError() {
	rec, payload := suite.do(http.MethodGet, "/v2/charges/"+uuid.NewString()+"/ledger", "", nil)
	suite.Equal(http.StatusOK, rec.Code)
	suite.Equal(ledger.CommonErrorKind, payload["__kind"])
	suite.Contains(payload["message"], "not found")

	rec, _ = suite.do(http.MethodGet, "/v2/charges/"+uuid.NewString()+"/ledger/records", "", nil)
	suite.Equal(http.StatusNotFound, rec.Code)
}

func (suite *LedgerControllerTestSuite) TestInvalidChargeID() {
	rec, payload := suite.do(http.MethodGet, "/v2/charges/not-a-uuid/ledger", "", nil)
	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.Equal(true, payload["error"])

	rec, _ = suite.do(http.MethodPost, suite.ledgerPath(""), `{"insert_if_not_exists":`, nil)
	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *LedgerControllerTestSuite) TestAdminEndpointsRequireToken() {
	rec, _ := suite.do(http.MethodPost, "/v2/admin/charges/"+suite.charge.ID.String()+"/lock", "", nil)
	suite.Equal(http.StatusBadRequest, rec.Code)

	rec, _ = suite.do(http.MethodPost, "/v2/admin/charges/"+suite.charge.ID.String()+"/lock", "", map[string]string{
		echo.HeaderAuthorization: "Bearer wrong",
	})
	suite.Equal(http.StatusUnauthorized, rec.Code)
}

func (suite *LedgerControllerTestSuite) TestLockThenUnlock() {
	auth := map[string]string{echo.HeaderAuthorization: "Bearer " + adminToken}
	rec, payload := suite.do(http.MethodPost, "/v2/admin/charges/"+suite.charge.ID.String()+"/lock", "", auth)
	suite.Equal(http.StatusOK, rec.Code)
	suite.Equal(true, payload["charge"].(map[string]interface{})["locked"])

	rec, payload = suite.do(http.MethodPost, suite.ledgerPath(""), `{"insert_if_not_exists":true}`, nil)
	suite.Equal(http.StatusOK, rec.Code)
	suite.Equal(ledger.CommonErrorKind, payload["__kind"])

	rec, payload = suite.do(http.MethodPost, "/v2/admin/charges/"+suite.charge.ID.String()+"/unlock", "", auth)
	suite.Equal(http.StatusOK, rec.Code)
	suite.Equal(true, payload["persisted"])
	suite.Len(payload["records"], 1)
}

func (suite *LedgerControllerTestSuite) TestHealth() {
	rec, payload := suite.do(http.MethodGet, "/health", "", nil)
	suite.Equal(http.StatusOK, rec.Code)
	suite.Equal("OK", payload["result"])
}

func TestLedgerControllerTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerControllerTestSuite))
}
