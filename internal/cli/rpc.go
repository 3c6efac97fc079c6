package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/LeJamon/goPresale/internal/server/api/jsonrpc"
	"github.com/spf13/cobra"
)

var (
	rpcURL     string
	rpcTimeout time.Duration
)

// rpcCmd represents the rpc command
var rpcCmd = &cobra.Command{
	Use:   "rpc <method> [params-json]",
	Short: "Call a method on a running server",
	Long: `Send one JSON-RPC 2.0 request to a running presaled and print the result.
The URL defaults to the [server] address of the configuration.`,
	Example: `  presaled rpc ping
  presaled rpc presale_info '{"presale":"<hex id>"}'
  presaled rpc submit '{"operation":{"transaction_type":"Claim", ...}}'`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := rpcURL
		if url == "" {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			url = "http://" + cfg.Server.ListenAddress() + "/"
		}

		req := jsonrpc.Request{JsonRpc: jsonrpc.Version, Method: args[0], ID: json.RawMessage("1")}
		if len(args) == 2 {
			if !json.Valid([]byte(args[1])) {
				return fmt.Errorf("params are not valid JSON")
			}
			req.Params = json.RawMessage(args[1])
		}
		result, err := callRPC(cmd.Context(), url, &req)
		if err != nil {
			return err
		}

		var out bytes.Buffer
		if err := json.Indent(&out, result, "", "  "); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rpcCmd)
	rpcCmd.Flags().StringVar(&rpcURL, "url", "", "server URL")
	rpcCmd.Flags().DurationVar(&rpcTimeout, "timeout", 30*time.Second, "request timeout")
}

// callRPC posts req and returns the result member, or the error member as
// an error
func callRPC(ctx context.Context, url string, req *jsonrpc.Request) (json.RawMessage, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: rpcTimeout}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %s", resp.Status)
	}

	var out struct {
		Result json.RawMessage   `json:"result"`
		Error  *jsonrpc.RpcError `json:"error"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if out.Error != nil {
		if out.Error.Data != nil {
			return nil, fmt.Errorf("%s (%d): %v", out.Error.Message, out.Error.Code, out.Error.Data)
		}
		return nil, fmt.Errorf("%s (%d)", out.Error.Message, out.Error.Code)
	}
	return out.Result, nil
}
