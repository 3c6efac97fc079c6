package jsonrpc_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/LeJamon/goPresale/internal/core/ledger/service"
	"github.com/LeJamon/goPresale/internal/core/presale"
	"github.com/LeJamon/goPresale/internal/core/tx/escrow"
	"github.com/LeJamon/goPresale/internal/server/api/jsonrpc"
	jtx "github.com/LeJamon/goPresale/internal/testing"
	"github.com/LeJamon/goPresale/internal/testing/builders"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcResponse struct {
	JsonRpc string            `json:"jsonrpc"`
	Result  json.RawMessage   `json:"result"`
	Error   *jsonrpc.RpcError `json:"error"`
	ID      json.RawMessage   `json:"id"`
}

type fixture struct {
	env    *jtx.TestEnv
	server *httptest.Server
	sale   presale.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	env := jtx.NewTestEnv(t)
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	start := env.Now() + 10
	id := env.CreatePresale(builders.Presale(env.Account("owner"), jtx.NewAsset("TKN"), jtx.NewAsset("USD"), presale.ModeFcfs, start).Build())
	env.SetTime(start)

	svc := service.New(env.Engine(), env.Clock(), log)
	srv := httptest.NewServer(jsonrpc.NewServer(svc, log, jsonrpc.Options{Version: "test", Backend: "memory", MaxBodyBytes: 4096}))
	t.Cleanup(srv.Close)
	return &fixture{env: env, server: srv, sale: id}
}

func (f *fixture) post(t *testing.T, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(f.server.URL, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func (f *fixture) call(t *testing.T, method string, params interface{}) rpcResponse {
	t.Helper()
	req := map[string]interface{}{"jsonrpc": "2.0", "method": method, "id": 1}
	if params != nil {
		req["params"] = params
	}
	data, err := json.Marshal(req)
	require.NoError(t, err)
	resp, body := f.post(t, string(data))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, err = uuid.Parse(resp.Header.Get(jsonrpc.RequestIDHeader))
	require.NoError(t, err)

	var out rpcResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.Equal(t, "2.0", out.JsonRpc)
	return out
}

func TestServer_Protocol(t *testing.T) {
	f := newFixture(t)

	resp := f.call(t, "ping", nil)
	require.Nil(t, resp.Error)
	assert.JSONEq(t, `{}`, string(resp.Result))
	assert.Equal(t, "1", string(resp.ID))

	resp = f.call(t, "no_such_method", nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, jsonrpc.RpcMETHOD_NOT_FOUND, resp.Error.Code)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"BadJSON", `{"jsonrpc":`, jsonrpc.RpcPARSE_ERROR},
		{"WrongVersion", `{"jsonrpc":"1.0","method":"ping","id":1}`, jsonrpc.RpcINVALID_REQUEST},
		{"NoMethod", `{"jsonrpc":"2.0","id":1}`, jsonrpc.RpcINVALID_REQUEST},
		{"EmptyBatch", `[]`, jsonrpc.RpcINVALID_REQUEST},
		{"TooLarge", `{"jsonrpc":"2.0","method":"ping","params":"` + strings.Repeat("x", 5000) + `"}`, jsonrpc.RpcBODY_TOO_LARGE},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, body := f.post(t, tt.body)
			var out rpcResponse
			require.NoError(t, json.Unmarshal(body, &out))
			require.NotNil(t, out.Error)
			assert.Equal(t, tt.code, out.Error.Code)
		})
	}

	t.Run("Notification", func(t *testing.T) {
		resp, body := f.post(t, `{"jsonrpc":"2.0","method":"ping"}`)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Empty(t, body)
	})

	t.Run("Batch", func(t *testing.T) {
		_, body := f.post(t, `[{"jsonrpc":"2.0","method":"ping","id":"a"},{"jsonrpc":"2.0","method":"ping"},{"jsonrpc":"2.0","method":"nope","id":"b"}]`)
		var out []rpcResponse
		require.NoError(t, json.Unmarshal(body, &out))
		require.Len(t, out, 2)
		assert.Equal(t, `"a"`, string(out[0].ID))
		assert.Nil(t, out[0].Error)
		assert.Equal(t, `"b"`, string(out[1].ID))
		assert.Equal(t, jsonrpc.RpcMETHOD_NOT_FOUND, out[1].Error.Code)
	})

	t.Run("GetRejected", func(t *testing.T) {
		resp, err := http.Get(f.server.URL)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestServer_SubmitAndQuery(t *testing.T) {
	f := newFixture(t)
	alice := f.env.Account("alice")
	f.env.Fund(jtx.NewAsset("USD"), 1000, alice)

	submit := func(op interface{}) (jsonrpc.SubmitResult, string) {
		t.Helper()
		resp := f.call(t, "submit", map[string]interface{}{"operation": op})
		require.Nil(t, resp.Error)
		var out jsonrpc.SubmitResult
		require.NoError(t, json.Unmarshal(resp.Result, &out))
		return out, out.Result.String()
	}

	// A generated nonce is handed back to the caller
	res, code := submit(escrow.NewCreatePermissionlessEscrow(alice.ID, f.sale, 0))
	assert.Equal(t, "tesSUCCESS", code)
	_, err := uuid.Parse(res.Nonce)
	require.NoError(t, err)

	deposit := escrow.NewDeposit(alice.ID, f.sale, 0, 300)
	deposit.Nonce = "dep-1"
	res, code = submit(deposit)
	assert.Equal(t, "tesSUCCESS", code)
	assert.Equal(t, "dep-1", res.Nonce)
	assert.False(t, res.Replayed)

	res, code = submit(deposit)
	assert.Equal(t, "tesSUCCESS", code)
	assert.True(t, res.Replayed)
	jtx.RequireBalance(t, f.env, alice, jtx.NewAsset("USD"), 700)

	_, code = submit(map[string]interface{}{"transaction_type": "Mint"})
	assert.Equal(t, "temUNKNOWN", code)

	resp := f.call(t, "escrow_info", map[string]interface{}{"presale": f.sale, "owner": alice.ID, "tranche": 0})
	require.Nil(t, resp.Error)
	var info service.EscrowInfo
	require.NoError(t, json.Unmarshal(resp.Result, &info))
	assert.Equal(t, uint64(300), info.TotalDeposit)

	resp = f.call(t, "presale_info", map[string]interface{}{"presale": f.sale})
	require.Nil(t, resp.Error)
	var sale struct {
		Mode         string `json:"mode"`
		Progress     string `json:"progress"`
		TotalDeposit uint64 `json:"total_deposit"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &sale))
	assert.Equal(t, "fcfs", sale.Mode)
	assert.Equal(t, "ongoing", sale.Progress)
	assert.Equal(t, uint64(300), sale.TotalDeposit)

	resp = f.call(t, "escrows", map[string]interface{}{"presale": f.sale})
	require.Nil(t, resp.Error)
	assert.Contains(t, string(resp.Result), alice.ID.String())
}

func TestServer_QueryErrors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		method string
		params interface{}
		code   int
	}{
		{"MissingParams", "presale_info", nil, jsonrpc.RpcINVALID_PARAMS},
		{"BadHex", "presale_info", map[string]string{"presale": "zz"}, jsonrpc.RpcINVALID_PARAMS},
		{"UnknownField", "presale_info", map[string]string{"sale": f.sale.String()}, jsonrpc.RpcINVALID_PARAMS},
		{"UnknownSale", "presale_info", map[string]interface{}{"presale": presale.ID{7}}, jsonrpc.RpcNOT_FOUND},
		{"UnknownEscrow", "escrow_info", map[string]interface{}{"presale": f.sale, "owner": presale.AccountID{1}}, jsonrpc.RpcNOT_FOUND},
		{"UnknownOperator", "operator_info", map[string]interface{}{"presale": f.sale, "operator": presale.AccountID{1}}, jsonrpc.RpcNOT_FOUND},
		{"NoOperation", "submit", map[string]interface{}{}, jsonrpc.RpcINVALID_PARAMS},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.call(t, tt.method, tt.params)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestServer_Info(t *testing.T) {
	f := newFixture(t)

	resp := f.call(t, "server_info", nil)
	require.Nil(t, resp.Error)
	var out struct {
		Info struct {
			BuildVersion   string `json:"build_version"`
			StorageBackend string `json:"storage_backend"`
			Time           uint64 `json:"time"`
		} `json:"info"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &out))
	assert.Equal(t, "test", out.Info.BuildVersion)
	assert.Equal(t, "memory", out.Info.StorageBackend)
	assert.Equal(t, f.env.Now(), out.Info.Time)

	resp = f.call(t, "operation_types", nil)
	require.Nil(t, resp.Error)
	var types struct {
		Types []string `json:"types"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &types))
	assert.Contains(t, types.Types, "Deposit")
	assert.Contains(t, types.Types, "Batch")

	resp = f.call(t, "merkle_roots", map[string]interface{}{"presale": f.sale})
	require.Nil(t, resp.Error)
	assert.JSONEq(t, `{"roots":[]}`, string(resp.Result))
}
