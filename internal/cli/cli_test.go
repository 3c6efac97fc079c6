package cli

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LeJamon/goPresale/internal/core/ledger/service"
	"github.com/LeJamon/goPresale/internal/core/presale"
	"github.com/LeJamon/goPresale/internal/server/api/jsonrpc"
	jtx "github.com/LeJamon/goPresale/internal/testing"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with args and returns its output
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configFile, debug, quiet = "", false, false
	rpcURL, forceInit, inspectTranche = "", false, 0
	leavesFile, verifyRoot, verifyOwner, verifyHashes = "", "", "", ""
	verifyIndex, verifyCap = 0, 0

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func memoryConfig(t *testing.T) string {
	return writeFile(t, "presaled.toml", `
[storage]
backend = "memory"

[log]
level = "error"
`)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "presaled version "+Version)
	assert.Contains(t, out, "Go version")
}

func TestProofCommands(t *testing.T) {
	var leaves []LeafEntry
	for i, depositCap := range []uint64{100, 200, 300} {
		leaves = append(leaves, LeafEntry{Owner: presale.AccountID{byte(i + 1)}, Tranche: 0, DepositCap: depositCap})
	}
	data, err := json.Marshal(leaves)
	require.NoError(t, err)
	path := writeFile(t, "leaves.json", string(data))

	out, err := run(t, "proof", "build", "--leaves", path)
	require.NoError(t, err)
	var set ProofSet
	require.NoError(t, json.Unmarshal([]byte(out), &set))
	require.Len(t, set.Proofs, 3)
	assert.Len(t, set.Root, 64)

	for _, p := range set.Proofs {
		out, err = run(t, "proof", "verify",
			"--root", set.Root,
			"--owner", p.Owner.String(),
			"--tranche", "0",
			"--cap", jsonNumber(p.DepositCap),
			"--proof", strings.Join(p.Proof, ","))
		require.NoError(t, err)
		assert.Equal(t, "valid\n", out)
	}

	// A different cap is a different leaf
	p := set.Proofs[1]
	_, err = run(t, "proof", "verify", "--root", set.Root, "--owner", p.Owner.String(), "--cap", "999", "--proof", strings.Join(p.Proof, ","))
	require.ErrorIs(t, err, ErrInvalidProof)

	_, err = run(t, "proof", "verify", "--root", "abcd", "--owner", p.Owner.String())
	require.Error(t, err)

	_, err = run(t, "proof", "build", "--leaves", writeFile(t, "empty.json", "[]"))
	require.Error(t, err)
}

func jsonNumber(v uint64) string {
	data, _ := json.Marshal(v)
	return string(data)
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presaled.toml")

	out, err := run(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	_, err = run(t, "config", "init", path)
	require.Error(t, err)
	_, err = run(t, "config", "init", path, "--force")
	require.NoError(t, err)

	out, err = run(t, "config", "check", "--conf", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok (storage pebble, rpc 127.0.0.1:5005)")

	_, err = run(t, "config", "check", "--conf", filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestInspectCommands(t *testing.T) {
	conf := memoryConfig(t)

	out, err := run(t, "inspect", "presales", "--conf", conf)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)

	_, err = run(t, "inspect", "presale", presale.ID{1}.String(), "--conf", conf)
	require.ErrorIs(t, err, service.ErrPresaleNotFound)

	_, err = run(t, "inspect", "presale", "not-hex", "--conf", conf)
	require.Error(t, err)

	_, err = run(t, "inspect", "escrow", presale.ID{1}.String(), presale.AccountID{2}.String(), "--conf", conf)
	require.ErrorIs(t, err, service.ErrPresaleNotFound)
}

func TestRPCCommand(t *testing.T) {
	env := jtx.NewTestEnv(t)
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	srv := httptest.NewServer(jsonrpc.NewServer(service.New(env.Engine(), env.Clock(), log), log, jsonrpc.Options{}))
	defer srv.Close()

	out, err := run(t, "rpc", "--url", srv.URL, "ping")
	require.NoError(t, err)
	assert.Equal(t, "{}\n", out)

	out, err = run(t, "rpc", "--url", srv.URL, "presales")
	require.NoError(t, err)
	assert.JSONEq(t, `{"presales":[]}`, out)

	_, err = run(t, "rpc", "--url", srv.URL, "presale_info", `{"presale":"`+presale.ID{5}.String()+`"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not found")

	_, err = run(t, "rpc", "--url", srv.URL, "ping", "{bad")
	require.Error(t, err)
}
