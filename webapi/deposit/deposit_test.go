package deposit_test

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/amirasaad/usdtgate/pkg/deposit"
	"github.com/amirasaad/usdtgate/webapi/common"
	"github.com/amirasaad/usdtgate/webapi/testutils"
	"github.com/stretchr/testify/suite"
)

const validForm = `{"amount":"500","email":"buyer@example.com","wallet_address":"TMJCNQRMWaR7EG4jENd7xK1nkmHDSnqQaH"}`

type DepositTestSuite struct {
	testutils.APITestSuite
	mu  sync.Mutex
	now time.Time
}

func (s *DepositTestSuite) SetupTest() {
	s.now = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.Setup(
		deposit.WithSleep(testutils.NoSleep),
		deposit.WithClock(s.clock),
	)
}

func (s *DepositTestSuite) clock() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *DepositTestSuite) advance(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = s.now.Add(d)
}

func (s *DepositTestSuite) decodeData(resp *http.Response) map[string]any {
	var body common.Response
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	data, ok := body.Data.(map[string]any)
	s.Require().True(ok, "Expected 'data' to be an object")
	return data
}

func (s *DepositTestSuite) decodeProblem(resp *http.Response) common.ProblemDetails {
	var pd common.ProblemDetails
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&pd))
	return pd
}

func (s *DepositTestSuite) start() string {
	resp := s.MakeRequest("POST", "/api/deposits", validForm)
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	id, ok := s.decodeData(resp)["id"].(string)
	s.Require().True(ok)
	return id
}

func (s *DepositTestSuite) TestPreview() {
	resp := s.MakeRequest("POST", "/api/deposits/preview", validForm)
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	data := s.decodeData(resp)
	s.Equal("500.00 USDT", data["amount"])
	s.Equal("20.00 TRX", data["original_fee"])
	s.Equal("-1.00 TRX", data["discount"])
	s.Equal("19.00 TRX", data["total_to_pay"])
	s.Equal("TMJCNQRMWa...", data["recipient"])
}

func (s *DepositTestSuite) TestPreview_TagValidation() {
	resp := s.MakeRequest("POST", "/api/deposits/preview",
		`{"amount":"500","email":"a@b","wallet_address":"T0MJCNQRMWaR7EG4jENd7xK1nkmHDSnqQ"}`)
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(http.StatusUnprocessableEntity, resp.StatusCode)

	errs, ok := s.decodeProblem(resp).Errors.(map[string]any)
	s.Require().True(ok)
	s.Equal("simple_email", errs["email"])
	s.Equal("trc20", errs["wallet_address"])
}

func (s *DepositTestSuite) TestPreview_AmountOutOfRange() {
	resp := s.MakeRequest("POST", "/api/deposits/preview",
		`{"amount":"100","email":"a@b.co","wallet_address":"TMJCNQRMWaR7EG4jENd7xK1nkmHDSnqQaH"}`)
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(http.StatusUnprocessableEntity, resp.StatusCode)

	errs, ok := s.decodeProblem(resp).Errors.(map[string]any)
	s.Require().True(ok)
	s.Equal("Minimum amount is 500 USDT", errs["amount"])
}

func (s *DepositTestSuite) TestStart() {
	resp := s.MakeRequest("POST", "/api/deposits", validForm)
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	data := s.decodeData(resp)
	s.Equal("pending", data["status"])
	s.Equal(map[string]any{"amount": "19", "currency": "TRX"}, data["deposit_amount"])
	s.Equal(deposit.DefaultDepositAddress, data["deposit_address"])
	s.Equal("30:00", data["countdown"])
	s.Equal(float64(1800), data["remaining_seconds"])
	s.Equal("ok", data["urgency"])
}

func (s *DepositTestSuite) TestStart_InvalidForm() {
	resp := s.MakeRequest("POST", "/api/deposits", `{"amount":"600000","email":"","wallet_address":"abc"}`)
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(http.StatusUnprocessableEntity, resp.StatusCode)

	pd := s.decodeProblem(resp)
	errs, ok := pd.Errors.(map[string]any)
	s.Require().True(ok)
	s.Equal("Maximum amount is 500,000 USDT", errs["amount"])
	s.Equal("Email is required", errs["email"])
	s.Equal("Invalid TRC20 address format", errs["wallet_address"])
}

func (s *DepositTestSuite) TestStart_Fiat() {
	resp := s.MakeRequest("POST", "/api/deposits",
		`{"amount":"500","email":"a@b.co","wallet_address":"TMJCNQRMWaR7EG4jENd7xK1nkmHDSnqQaH","method":"fiat"}`)
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(http.StatusNotImplemented, resp.StatusCode)
	s.Equal(deposit.MsgFiatUnavailable, s.decodeProblem(resp).Detail)
}

func (s *DepositTestSuite) TestStart_UnknownMethod() {
	resp := s.MakeRequest("POST", "/api/deposits",
		`{"amount":"500","email":"a@b.co","wallet_address":"TMJCNQRMWaR7EG4jENd7xK1nkmHDSnqQaH","method":"paypal"}`)
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
}

func (s *DepositTestSuite) TestGet() {
	id := s.start()
	s.advance(20*time.Minute + 30*time.Second)

	resp := s.MakeRequest("GET", "/api/deposits/"+id, "")
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	data := s.decodeData(resp)
	s.Equal("09:30", data["countdown"])
	s.Equal("warning", data["urgency"])
}

func (s *DepositTestSuite) TestGet_NotFound() {
	resp := s.MakeRequest("GET", "/api/deposits/missing", "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *DepositTestSuite) TestCheck() {
	id := s.start()

	resp := s.MakeRequest("POST", "/api/deposits/"+id+"/check", "")
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	data := s.decodeData(resp)
	s.Equal("completed", data["status"])
	s.Regexp(`^TX[0-9A-Z]{9}$`, data["transaction_id"])
	s.Contains(data["summary"], "500.00 USDT")

	again := s.MakeRequest("POST", "/api/deposits/"+id+"/check", "")
	defer again.Body.Close() //nolint: errcheck
	s.Equal(http.StatusConflict, again.StatusCode)
}

func (s *DepositTestSuite) TestCheck_Expired() {
	id := s.start()
	s.advance(31 * time.Minute)

	resp := s.MakeRequest("POST", "/api/deposits/"+id+"/check", "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(http.StatusGone, resp.StatusCode)

	get := s.MakeRequest("GET", "/api/deposits/"+id, "")
	defer get.Body.Close() //nolint: errcheck
	data := s.decodeData(get)
	s.Equal("expired", data["status"])
	s.Equal(deposit.MsgTimeout, data["message"])
}

func (s *DepositTestSuite) TestCancel() {
	id := s.start()

	resp := s.MakeRequest("POST", "/api/deposits/"+id+"/cancel", "")
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Equal("canceled", s.decodeData(resp)["status"])

	check := s.MakeRequest("POST", "/api/deposits/"+id+"/check", "")
	defer check.Body.Close() //nolint: errcheck
	s.Equal(http.StatusConflict, check.StatusCode)
}

func (s *DepositTestSuite) TestMetricsRecordSessions() {
	id := s.start()
	resp := s.MakeRequest("POST", "/api/deposits/"+id+"/check", "")
	resp.Body.Close() //nolint: errcheck

	metrics := s.MakeRequest("GET", "/metrics", "")
	defer metrics.Body.Close() //nolint: errcheck
	body, err := io.ReadAll(metrics.Body)
	s.Require().NoError(err)
	s.Contains(string(body), `usdtgate_deposit_sessions_total{status="pending"} 1`)
	s.Contains(string(body), `usdtgate_deposit_sessions_total{status="completed"} 1`)
	s.Contains(string(body), "usdtgate_payment_check_duration_seconds_count 1")
}

func TestDepositTestSuite(t *testing.T) {
	suite.Run(t, new(DepositTestSuite))
}
