package grpc_test

import (
	"context"
	"encoding/json"
	"net"
	"testing"

	"github.com/LeJamon/goPresale/internal/core/ledger/service"
	"github.com/LeJamon/goPresale/internal/core/presale"
	"github.com/LeJamon/goPresale/internal/core/tx"
	"github.com/LeJamon/goPresale/internal/core/tx/escrow"
	presalegrpc "github.com/LeJamon/goPresale/internal/grpc"
	jtx "github.com/LeJamon/goPresale/internal/testing"
	"github.com/LeJamon/goPresale/internal/testing/builders"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func newClient(t *testing.T) (*jtx.TestEnv, *presalegrpc.Client, presale.ID) {
	t.Helper()
	env := jtx.NewTestEnv(t)
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	start := env.Now() + 10
	id := env.CreatePresale(builders.Presale(env.Account("owner"), jtx.NewAsset("TKN"), jtx.NewAsset("USD"), presale.ModeFcfs, start).Build())
	env.SetTime(start)

	srv, err := presalegrpc.NewServer(nil, service.New(env.Engine(), env.Clock(), log), log)
	require.NoError(t, err)
	lis := bufconn.Listen(1 << 20)
	done := make(chan error, 1)
	go func() { done <- srv.Serve(lis) }()
	t.Cleanup(func() {
		srv.Stop()
		require.NoError(t, <-done)
	})

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return env, presalegrpc.NewClient(conn), id
}

func TestServer_SubmitAndQuery(t *testing.T) {
	env, client, id := newClient(t)
	ctx := context.Background()
	alice := env.Account("alice")
	env.Fund(jtx.NewAsset("USD"), 1000, alice)

	submit := func(op tx.Transaction) *presalegrpc.SubmitResponse {
		t.Helper()
		data, err := json.Marshal(op)
		require.NoError(t, err)
		resp, err := client.Submit(ctx, &presalegrpc.SubmitRequest{Operation: data})
		require.NoError(t, err)
		return resp
	}

	resp := submit(escrow.NewCreatePermissionlessEscrow(alice.ID, id, 0))
	require.Equal(t, tx.TesSUCCESS, resp.Result, resp.Message)
	assert.NotEmpty(t, resp.Nonce)

	resp = submit(escrow.NewDeposit(alice.ID, id, 0, 250))
	require.Equal(t, tx.TesSUCCESS, resp.Result, resp.Message)
	assert.Equal(t, uint64(250), resp.Metadata.Delivered["net"])

	info, err := client.GetPresale(ctx, &presalegrpc.PresaleRequest{Presale: id})
	require.NoError(t, err)
	assert.Equal(t, "fcfs", info.Mode)
	assert.Equal(t, uint64(250), info.TotalDeposit)

	e, err := client.GetEscrow(ctx, &presalegrpc.EscrowRequest{Presale: id, Owner: alice.ID})
	require.NoError(t, err)
	assert.Equal(t, uint64(250), e.TotalDeposit)

	list, err := client.ListPresales(ctx, &presalegrpc.ListPresalesRequest{})
	require.NoError(t, err)
	require.Len(t, list.Presales, 1)

	escrows, err := client.ListEscrows(ctx, &presalegrpc.PresaleRequest{Presale: id})
	require.NoError(t, err)
	require.Len(t, escrows.Escrows, 1)
	assert.Equal(t, alice.ID, escrows.Escrows[0].Owner)

	roots, err := client.GetMerkleRoots(ctx, &presalegrpc.PresaleRequest{Presale: id})
	require.NoError(t, err)
	assert.Empty(t, roots.Roots)
}

func TestServer_Errors(t *testing.T) {
	env, client, id := newClient(t)
	ctx := context.Background()

	_, err := client.GetPresale(ctx, &presalegrpc.PresaleRequest{Presale: presale.ID{3}})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.GetEscrow(ctx, &presalegrpc.EscrowRequest{Presale: id, Owner: env.Account("bob").ID})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.GetOperator(ctx, &presalegrpc.OperatorRequest{Presale: id, Operator: env.Account("bob").ID})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.Submit(ctx, &presalegrpc.SubmitRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	// Outcomes are results, not transport errors
	resp, err := client.Submit(ctx, &presalegrpc.SubmitRequest{Operation: json.RawMessage(`{"transaction_type":"Nope"}`)})
	require.NoError(t, err)
	assert.Equal(t, tx.TemUNKNOWN, resp.Result)
}

func TestServerConfig(t *testing.T) {
	cfg := presalegrpc.DefaultServerConfig()
	require.NoError(t, cfg.Validate())

	tests := []struct {
		name   string
		mutate func(*presalegrpc.ServerConfig)
	}{
		{"NoAddress", func(c *presalegrpc.ServerConfig) { c.Address = "" }},
		{"NoPort", func(c *presalegrpc.ServerConfig) { c.Address = "localhost" }},
		{"NoHost", func(c *presalegrpc.ServerConfig) { c.Address = ":50051" }},
		{"RecvSize", func(c *presalegrpc.ServerConfig) { c.MaxRecvMsgSize = 0 }},
		{"SendSize", func(c *presalegrpc.ServerConfig) { c.MaxSendMsgSize = -1 }},
		{"Streams", func(c *presalegrpc.ServerConfig) { c.MaxConcurrentStreams = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := presalegrpc.DefaultServerConfig()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
