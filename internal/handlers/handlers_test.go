package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/bountychain/report-vault/internal/clock"
	"github.com/bountychain/report-vault/internal/database"
	"github.com/bountychain/report-vault/internal/database/dbtest"
	"github.com/bountychain/report-vault/internal/dto"
	"github.com/bountychain/report-vault/internal/hybrid"
	"github.com/bountychain/report-vault/internal/middleware"
	"github.com/bountychain/report-vault/internal/models"
	"github.com/bountychain/report-vault/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testServiceSecret = "test-service-secret"

var (
	keysOnce sync.Once
	keys     *hybrid.KeyPair
	keysErr  error
)

type testServer struct {
	app   *fiber.App
	clock *clock.Fake
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	keysOnce.Do(func() { keys, keysErr = hybrid.GenerateKeyPair() })
	require.NoError(t, keysErr)

	db := dbtest.Open(t)
	clk := clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	reports := NewReportHandler(services.NewReportService(db, services.ReportServiceConfig{Clock: clk}))
	bounties := NewBountyHandler(services.NewBountyService(db, clk))
	payouts := NewPayoutHandler(services.NewPayoutService(db, clk))

	app := fiber.New()
	api := app.Group("/api")
	api.Post("/bounties", bounties.Create)
	api.Get("/bounties", bounties.List)
	api.Get("/bounties/:id", bounties.Get)
	api.Post("/bounties/:id/payment", bounties.RecordPayment)
	api.Post("/reports", reports.Submit)
	api.Get("/reports/bounty/:bountyId", reports.ListByBounty)
	api.Get("/reports/hacker/:wallet", reports.ListBySubmitter)
	api.Get("/reports/:id", reports.Get)
	api.Post("/reports/:id/status", reports.SetStatus)
	protected := api.Group("/payouts", middleware.ServiceProtected(testServiceSecret, middleware.PayoutRole)...)
	protected.Get("/", payouts.List)
	protected.Post("/:id/settle", payouts.Settle)

	return &testServer{app: app, clock: clk}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers ...string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func (s *testServer) createBounty(t *testing.T, id string) {
	t.Helper()
	status, raw := s.do(t, http.MethodPost, "/api/bounties", dto.CreateBountyRequest{
		ID:             id,
		Title:          "Audit " + id,
		RewardAmount:   2.5,
		OwnerWallet:    "0xOwner",
		OwnerPublicKey: keys.PublicKeyPEM,
		BountyObjectID: "0xESCROW",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
}

func (s *testServer) submitReport(t *testing.T, bountyID string) dto.SubmitReportResponse {
	t.Helper()
	status, raw := s.do(t, http.MethodPost, "/api/reports", dto.SubmitReportRequest{
		BountyID: bountyID, HackerWallet: "0xHacker", ReportText: "IDOR on /api/users/:id",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	return decode[dto.SubmitReportResponse](t, raw)
}

func TestSubmitAndFetchReport(t *testing.T) {
	s := newTestServer(t)
	s.createBounty(t, "b-1")

	submitted := s.submitReport(t, "b-1")
	assert.Equal(t, models.ReportStatusPending, submitted.Status)
	assert.Equal(t, 7*24*time.Hour, submitted.AutoResolveAt.Sub(submitted.CreatedAt))

	status, raw := s.do(t, http.MethodGet, "/api/reports/"+submitted.ReportID.String(), nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, string(raw), "IDOR")

	report := decode[dto.ReportResponse](t, raw)
	assert.Equal(t, "b-1", report.BountyID)
	assert.Equal(t, "0xHacker", report.HackerWallet)
	assert.EqualValues(t, 2_500_000_000, report.RewardAmount)

	priv, err := hybrid.ParsePrivateKeyPEM(keys.PrivateKeyPEM)
	require.NoError(t, err)
	plaintext, err := hybrid.Decrypt(report.EncryptedPayload, report.EncryptedKey, priv)
	require.NoError(t, err)
	assert.Equal(t, "IDOR on /api/users/:id", string(plaintext))
}

func TestSubmitReportErrors(t *testing.T) {
	s := newTestServer(t)

	status, raw := s.do(t, http.MethodPost, "/api/reports", dto.SubmitReportRequest{
		BountyID: "missing", HackerWallet: "0xHacker", ReportText: "x",
	})
	assert.Equal(t, http.StatusNotFound, status)
	body := decode[dto.ErrorResponse](t, raw)
	assert.True(t, body.Error)
	assert.Equal(t, "BOUNTY_NOT_FOUND", body.Code)

	status, _ = s.do(t, http.MethodPost, "/api/reports", dto.SubmitReportRequest{})
	assert.Equal(t, http.StatusBadRequest, status)

	req := httptest.NewRequest(http.MethodPost, "/api/reports", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListReportsOmitCiphertext(t *testing.T) {
	s := newTestServer(t)
	s.createBounty(t, "b-1")
	s.submitReport(t, "b-1")
	s.submitReport(t, "b-1")

	status, raw := s.do(t, http.MethodGet, "/api/reports/bounty/b-1", nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, string(raw), "encrypted")
	list := decode[dto.BountyReportsResponse](t, raw)
	assert.Equal(t, 2, list.Count)

	status, raw = s.do(t, http.MethodGet, "/api/reports/hacker/0xhacker", nil)
	require.Equal(t, http.StatusOK, status)
	byHacker := decode[dto.HackerReportsResponse](t, raw)
	require.Equal(t, 2, byHacker.Count)
	assert.Equal(t, "Audit b-1", byHacker.Reports[0].BountyTitle)
}

func TestSetReportStatus(t *testing.T) {
	s := newTestServer(t)
	s.createBounty(t, "b-1")
	submitted := s.submitReport(t, "b-1")
	path := "/api/reports/" + submitted.ReportID.String() + "/status"

	status, raw := s.do(t, http.MethodPost, path, dto.SetReportStatusRequest{Status: "approved", WalletAddress: "0xSomeoneElse"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "UNAUTHORIZED", decode[dto.ErrorResponse](t, raw).Code)

	status, raw = s.do(t, http.MethodPost, path, dto.SetReportStatusRequest{Status: "paid", WalletAddress: "0xOwner"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_STATUS", decode[dto.ErrorResponse](t, raw).Code)

	status, _ = s.do(t, http.MethodPost, path, dto.SetReportStatusRequest{Status: "approved"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, raw = s.do(t, http.MethodPost, path, dto.SetReportStatusRequest{Status: "approved", WalletAddress: "0XOWNER"})
	require.Equal(t, http.StatusOK, status, string(raw))
	resp := decode[dto.SetReportStatusResponse](t, raw)
	assert.Equal(t, models.ReportStatusApproved, resp.Status)
	require.NotNil(t, resp.PayoutIntent)
	assert.EqualValues(t, 2_500_000_000, resp.PayoutIntent.Amount)
	assert.Equal(t, "0xHacker", resp.PayoutIntent.HackerWallet)
	assert.True(t, resp.PayoutIntent.Complete)

	status, raw = s.do(t, http.MethodPost, path, dto.SetReportStatusRequest{Status: "rejected", WalletAddress: "0xOwner"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_TRANSITION", decode[dto.ErrorResponse](t, raw).Code)

	status, _ = s.do(t, http.MethodPost, "/api/reports/not-a-uuid/status", dto.SetReportStatusRequest{Status: "approved", WalletAddress: "0xOwner"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, raw = s.do(t, http.MethodPost, "/api/reports/"+uuid.NewString()+"/status", dto.SetReportStatusRequest{Status: "approved", WalletAddress: "0xOwner"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "REPORT_NOT_FOUND", decode[dto.ErrorResponse](t, raw).Code)
}

func TestBountyEndpoints(t *testing.T) {
	s := newTestServer(t)

	status, raw := s.do(t, http.MethodPost, "/api/bounties", dto.CreateBountyRequest{
		ID: "demo", Title: "Demo", RewardAmount: 1, OwnerWallet: "0xOwner",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	created := decode[dto.CreateBountyResponse](t, raw)
	require.NotNil(t, created.Demo)
	assert.Contains(t, created.Demo.PrivateKeyPEM, "PRIVATE KEY")
	assert.Equal(t, created.Demo.PublicKeyPEM, created.Bounty.OwnerPublicKey)

	status, raw = s.do(t, http.MethodPost, "/api/bounties", dto.CreateBountyRequest{
		ID: "demo", Title: "Demo", RewardAmount: 1, OwnerWallet: "0xOwner", OwnerPublicKey: keys.PublicKeyPEM,
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "BOUNTY_EXISTS", decode[dto.ErrorResponse](t, raw).Code)

	status, raw = s.do(t, http.MethodGet, "/api/bounties", nil)
	require.Equal(t, http.StatusOK, status)
	list := decode[dto.BountyListResponse](t, raw)
	require.Equal(t, 1, list.Count)
	assert.Empty(t, list.Bounties[0].OwnerPublicKey)

	status, _ = s.do(t, http.MethodGet, "/api/bounties/nope", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, raw = s.do(t, http.MethodPost, "/api/bounties/demo/payment", dto.RecordPaymentRequest{TransactionHash: "0xTX", Amount: 1})
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.True(t, decode[dto.BountyResponse](t, raw).PaymentConfirmed)
}

func TestPayoutEndpointsRequireServiceToken(t *testing.T) {
	s := newTestServer(t)
	s.createBounty(t, "b-1")
	submitted := s.submitReport(t, "b-1")
	status, _ := s.do(t, http.MethodPost, "/api/reports/"+submitted.ReportID.String()+"/status",
		dto.SetReportStatusRequest{Status: "approved", WalletAddress: "0xOwner"})
	require.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodGet, "/api/payouts", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	wrongRole, err := middleware.IssueServiceToken(testServiceSecret, "frontend", "viewer", time.Minute)
	require.NoError(t, err)
	status, _ = s.do(t, http.MethodGet, "/api/payouts", nil, "Authorization", "Bearer "+wrongRole)
	assert.Equal(t, http.StatusForbidden, status)

	token, err := middleware.IssueServiceToken(testServiceSecret, "payments", middleware.PayoutRole, time.Minute)
	require.NoError(t, err)
	auth := []string{"Authorization", "Bearer " + token}

	status, raw := s.do(t, http.MethodGet, "/api/payouts", nil, auth...)
	require.Equal(t, http.StatusOK, status, string(raw))
	list := decode[dto.PayoutListResponse](t, raw)
	require.Equal(t, 1, list.Count)
	payout := list.Payouts[0]
	assert.Equal(t, submitted.ReportID, payout.ReportID)
	assert.Equal(t, models.TransitionSourceOwner, payout.Source)

	settlePath := fmt.Sprintf("/api/payouts/%s/settle", payout.ID)
	status, raw = s.do(t, http.MethodPost, settlePath, dto.SettlePayoutRequest{TransactionHash: "0xPAID"}, auth...)
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, models.PayoutStatusSettled, decode[dto.PayoutResponse](t, raw).Status)

	status, raw = s.do(t, http.MethodPost, settlePath, dto.SettlePayoutRequest{TransactionHash: "0xPAID"}, auth...)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "PAYOUT_SETTLED", decode[dto.ErrorResponse](t, raw).Code)
}

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
		msg    string
	}{
		{hybrid.ErrIntegrity, http.StatusUnprocessableEntity, "DECRYPTION_FAILED", "decryption failed"},
		{hybrid.ErrUnwrap, http.StatusUnprocessableEntity, "DECRYPTION_FAILED", "decryption failed"},
		{fmt.Errorf("load: %w", services.ErrReportNotFound), http.StatusNotFound, "REPORT_NOT_FOUND", "Report not found"},
		{services.ErrBountyInactive, http.StatusBadRequest, "BOUNTY_INACTIVE", "Bounty is not active"},
		{services.ErrMissingEncryptionKey, http.StatusInternalServerError, "SERVER_MISCONFIGURED", "Bounty encryption is not configured"},
		{errors.New("pq: connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return writeError(c, "test", tt.err) })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, tt.status, resp.StatusCode)
			body := decode[dto.ErrorResponse](t, raw)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.msg, body.Message)
		})
	}
}

func TestHealth(t *testing.T) {
	prev := database.DB
	t.Cleanup(func() { database.DB = prev })
	database.DB = dbtest.Open(t)

	app := fiber.New()
	app.Get("/api/health", NewHealthHandler().Check)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body dto.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "ok", body.DB)
	assert.Equal(t, "report-vault", body.Service)
}
