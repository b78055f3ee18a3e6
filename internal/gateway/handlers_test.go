package gateway

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amprfi/block-kit-sdk/internal/blocks"
	"github.com/amprfi/block-kit-sdk/internal/compliance"
	"github.com/amprfi/block-kit-sdk/internal/controls"
	"github.com/amprfi/block-kit-sdk/internal/usage"
)

func testManifest() blocks.Manifest {
	return blocks.Manifest{
		Name:        "momentum-scanner",
		Version:     "1.0.0",
		Publisher:   "acme-labs",
		Description: "Scans for momentum entries on majors",
		BlockType:   blocks.TypeAction,
	}
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ledger := usage.New(usage.NewMemoryStore())
	ctrl := controls.NewManager(controls.NewMemoryStore(), ledger)
	eval := compliance.NewEvaluator(ctrl, ledger)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gw := New(ctrl, eval, nil, logger)

	r := gin.New()
	NewHandler(gw, ctrl, ledger, testManifest()).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetManifest(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/manifest", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var m blocks.Manifest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, "momentum-scanner", m.Name)
	assert.Equal(t, blocks.TypeAction, m.BlockType)
}

func TestActivateControls(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/blocks/blk_1/controls", controls.ControlSettings{
		AssetID:                "BTC",
		AuthorizedDurationDays: 30,
		MaxPerTransaction:      "100",
		CumulativeMax:          "250",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var ses controls.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ses))
	assert.Equal(t, "blk_1", ses.BlockID)
	assert.NotEmpty(t, ses.ID)

	// The session is now retrievable by block.
	w = doJSON(t, r, http.MethodGet, "/api/v1/blocks/blk_1/controls", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestActivateControls_Invalid(t *testing.T) {
	r := newTestRouter(t)

	cases := []struct {
		name     string
		settings controls.ControlSettings
	}{
		{"missing asset", controls.ControlSettings{AuthorizedDurationDays: 30, MaxPerTransaction: "1", CumulativeMax: "2"}},
		{"zero duration", controls.ControlSettings{AssetID: "BTC", MaxPerTransaction: "1", CumulativeMax: "2"}},
		{"per-tx above cumulative", controls.ControlSettings{AssetID: "BTC", AuthorizedDurationDays: 30, MaxPerTransaction: "10", CumulativeMax: "5"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/v1/blocks/blk_1/controls", tc.settings)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "invalid_settings", resp["error"])
		})
	}
}

func TestActivateControls_DefaultsApplied(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ledger := usage.New(usage.NewMemoryStore())
	ctrl := controls.NewManager(controls.NewMemoryStore(), ledger)
	eval := compliance.NewEvaluator(ctrl, ledger)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gw := New(ctrl, eval, nil, logger)

	r := gin.New()
	NewHandler(gw, ctrl, ledger, testManifest()).
		WithDefaults(controls.ControlSettings{
			AssetID:                "BTC",
			AuthorizedDurationDays: 30,
			MaxPerTransaction:      "100",
			CumulativeMax:          "1000",
		}).
		RegisterRoutes(r.Group("/api/v1"))

	// An empty activation takes the configured envelope wholesale.
	w := doJSON(t, r, http.MethodPost, "/api/v1/blocks/blk_1/controls", map[string]string{})
	require.Equal(t, http.StatusCreated, w.Code)
	var ses controls.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ses))
	assert.Equal(t, "BTC", ses.Settings.AssetID)
	assert.Equal(t, 30, ses.Settings.AuthorizedDurationDays)
	assert.Equal(t, "100", ses.Settings.MaxPerTransaction)
	assert.Equal(t, "1000", ses.Settings.CumulativeMax)

	// Explicit fields win over the defaults.
	w = doJSON(t, r, http.MethodPost, "/api/v1/blocks/blk_1/controls", map[string]string{
		"maxAmountPerTransaction": "50",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ses))
	assert.Equal(t, "50", ses.Settings.MaxPerTransaction)
	assert.Equal(t, "BTC", ses.Settings.AssetID)

	// The merged settings still go through validation.
	w = doJSON(t, r, http.MethodPost, "/api/v1/blocks/blk_1/controls", map[string]string{
		"maxAmountPerTransaction": "5000",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_settings", resp["error"])
}

func TestGetActiveControls_None(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/blocks/blk_missing/controls", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "no_active_authorization", resp["error"])
}

func TestExpireSession(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/blocks/blk_1/controls", controls.ControlSettings{
		AssetID:                "BTC",
		AuthorizedDurationDays: 30,
		MaxPerTransaction:      "100",
		CumulativeMax:          "250",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var ses controls.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ses))

	w = doJSON(t, r, http.MethodDelete, "/api/v1/sessions/"+ses.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// After teardown the block has no active authorization.
	w = doJSON(t, r, http.MethodGet, "/api/v1/blocks/blk_1/controls", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/v1/sessions/ses_missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitProposal_EndToEnd(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/blocks/blk_1/controls", controls.ControlSettings{
		AssetID:                "BTC",
		AuthorizedDurationDays: 30,
		MaxPerTransaction:      "100",
		CumulativeMax:          "250",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var ses controls.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ses))

	submit := func(amt string) submitResponse {
		w := doJSON(t, r, http.MethodPost, "/api/v1/proposals", blocks.TransactionProposal{
			BlockID:    "blk_1",
			ActionType: "buy",
			AssetID:    "BTC",
			Amount:     amt,
			Currency:   "USDC",
		})
		require.Equal(t, http.StatusOK, w.Code)
		var resp submitResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp
	}

	assert.Equal(t, compliance.StatusAccepted, submit("80").Status)
	assert.Equal(t, compliance.StatusAccepted, submit("80").Status)

	// Per-transaction limit applies before the cumulative check.
	over := submit("150")
	assert.Equal(t, compliance.StatusRejected, over.Status)
	assert.Equal(t, compliance.ReasonExceedsPerTxLimit, over.Reason)

	// 160 spent; 100 more would breach the 250 cumulative cap.
	cum := submit("100")
	assert.Equal(t, compliance.StatusRejected, cum.Status)
	assert.Equal(t, compliance.ReasonExceedsCumulative, cum.Reason)

	w = doJSON(t, r, http.MethodGet, "/api/v1/sessions/"+ses.ID+"/usage", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rec usage.UsageRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, "160.00000000", rec.CumulativeSpent)
	assert.Equal(t, 2, rec.TransactionCount)
}

func TestSubmitProposal_Malformed(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/proposals", blocks.TransactionProposal{
		ActionType: "buy",
		AssetID:    "BTC",
		Amount:     "1",
		Currency:   "USDC",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp submitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, compliance.StatusRejected, resp.Status)
	assert.Equal(t, compliance.ReasonMalformedProposal, resp.Reason)
}
