package cli

import (
	"encoding/json"
	"fmt"

	"github.com/LeJamon/goPresale/internal/core/presale"
	"github.com/spf13/cobra"
)

var inspectTranche uint8

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print ledger entries from the configured storage",
	Long: `Inspect opens the configured storage directly and prints entries as JSON.
Embedded backends hold a file lock, so stop the server first.`,
}

var inspectPresaleCmd = &cobra.Command{
	Use:   "presale <id>",
	Short: "Print one sale",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := presale.ParseID(args[0])
		if err != nil {
			return fmt.Errorf("presale id: %w", err)
		}
		return withNode(cmd, func(n *node) (interface{}, error) {
			return n.service.Presale(cmd.Context(), id)
		})
	},
}

var inspectPresalesCmd = &cobra.Command{
	Use:   "presales",
	Short: "Print every sale",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withNode(cmd, func(n *node) (interface{}, error) {
			return n.service.Presales(cmd.Context())
		})
	},
}

var inspectEscrowCmd = &cobra.Command{
	Use:   "escrow <presale> <owner>",
	Short: "Print one escrow",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := presale.ParseID(args[0])
		if err != nil {
			return fmt.Errorf("presale id: %w", err)
		}
		owner, err := presale.ParseAccountID(args[1])
		if err != nil {
			return fmt.Errorf("owner: %w", err)
		}
		return withNode(cmd, func(n *node) (interface{}, error) {
			return n.service.Escrow(cmd.Context(), id, owner, inspectTranche)
		})
	},
}

var inspectEscrowsCmd = &cobra.Command{
	Use:   "escrows <presale>",
	Short: "Print every escrow of a sale",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := presale.ParseID(args[0])
		if err != nil {
			return fmt.Errorf("presale id: %w", err)
		}
		return withNode(cmd, func(n *node) (interface{}, error) {
			return n.service.Escrows(cmd.Context(), id)
		})
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.AddCommand(inspectPresaleCmd, inspectPresalesCmd, inspectEscrowCmd, inspectEscrowsCmd)
	inspectEscrowCmd.Flags().Uint8Var(&inspectTranche, "tranche", 0, "tranche index")
}

// withNode opens the configured node, runs query and prints its result
func withNode(cmd *cobra.Command, query func(*node) (interface{}, error)) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	n, err := openNode(cmd.Context(), cfg, nil)
	if err != nil {
		return err
	}
	defer n.Close()

	v, err := query(n)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
