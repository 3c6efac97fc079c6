package cli

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/LeJamon/goPresale/internal/core/merkle"
	"github.com/LeJamon/goPresale/internal/core/presale"
	"github.com/spf13/cobra"
)

// ErrInvalidProof is returned by proof verify when the proof does not match
var ErrInvalidProof = errors.New("proof does not match root")

// LeafEntry is one whitelist entry of a leaves file
type LeafEntry struct {
	Owner      presale.AccountID `json:"owner"`
	Tranche    uint8             `json:"tranche"`
	DepositCap uint64            `json:"deposit_cap"`
}

// ProofEntry is a leaf with its sibling path
type ProofEntry struct {
	LeafEntry
	Proof []string `json:"proof"`
}

// ProofSet is the output of proof build
type ProofSet struct {
	Root   string       `json:"root"`
	Proofs []ProofEntry `json:"proofs"`
}

var (
	leavesFile   string
	verifyRoot   string
	verifyOwner  string
	verifyIndex  uint8
	verifyCap    uint64
	verifyHashes string
)

var proofCmd = &cobra.Command{
	Use:   "proof",
	Short: "Build and check whitelist Merkle proofs",
}

var proofBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the whitelist root and one proof per leaf",
	Long: `Build reads a JSON array of {"owner", "tranche", "deposit_cap"} entries
and prints the root to register with CreateMerkleRootConfig together with
the proof each owner submits with CreatePermissionedEscrowWithProof.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, err := os.ReadFile(leavesFile)
		if err != nil {
			return err
		}
		var leaves []LeafEntry
		if err := json.Unmarshal(data, &leaves); err != nil {
			return fmt.Errorf("parse %s: %w", leavesFile, err)
		}
		set, err := BuildProofs(leaves)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(set)
	},
}

var proofVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check a proof against a root",
	RunE: func(cmd *cobra.Command, _ []string) error {
		root, err := parseHash(verifyRoot)
		if err != nil {
			return fmt.Errorf("root: %w", err)
		}
		owner, err := presale.ParseAccountID(verifyOwner)
		if err != nil {
			return fmt.Errorf("owner: %w", err)
		}
		var proof []merkle.Hash
		if verifyHashes != "" {
			for _, s := range strings.Split(verifyHashes, ",") {
				h, err := parseHash(s)
				if err != nil {
					return fmt.Errorf("proof: %w", err)
				}
				proof = append(proof, h)
			}
		}

		leaf := merkle.Leaf{Owner: owner, TrancheIndex: verifyIndex, DepositCap: verifyCap}
		if !merkle.VerifyLeaf(proof, root, leaf) {
			return ErrInvalidProof
		}
		fmt.Fprintln(cmd.OutOrStdout(), "valid")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(proofCmd)
	proofCmd.AddCommand(proofBuildCmd, proofVerifyCmd)

	proofBuildCmd.Flags().StringVar(&leavesFile, "leaves", "", "JSON file of whitelist entries")
	_ = proofBuildCmd.MarkFlagRequired("leaves")

	proofVerifyCmd.Flags().StringVar(&verifyRoot, "root", "", "hex root")
	proofVerifyCmd.Flags().StringVar(&verifyOwner, "owner", "", "hex owner account")
	proofVerifyCmd.Flags().Uint8Var(&verifyIndex, "tranche", 0, "tranche index")
	proofVerifyCmd.Flags().Uint64Var(&verifyCap, "cap", 0, "deposit cap")
	proofVerifyCmd.Flags().StringVar(&verifyHashes, "proof", "", "comma separated hex proof hashes")
	_ = proofVerifyCmd.MarkFlagRequired("root")
	_ = proofVerifyCmd.MarkFlagRequired("owner")
}

// BuildProofs builds the tree over leaves in file order
func BuildProofs(leaves []LeafEntry) (*ProofSet, error) {
	mleaves := make([]merkle.Leaf, len(leaves))
	for i, l := range leaves {
		mleaves[i] = merkle.Leaf{Owner: l.Owner, TrancheIndex: l.Tranche, DepositCap: l.DepositCap}
	}
	tree, err := merkle.NewTree(mleaves)
	if err != nil {
		return nil, err
	}

	root := tree.Root()
	set := &ProofSet{Root: hex.EncodeToString(root[:]), Proofs: make([]ProofEntry, len(leaves))}
	for i, l := range leaves {
		path, err := tree.Proof(i)
		if err != nil {
			return nil, err
		}
		hashes := make([]string, len(path))
		for j, h := range path {
			hashes[j] = hex.EncodeToString(h[:])
		}
		set.Proofs[i] = ProofEntry{LeafEntry: l, Proof: hashes}
	}
	return set, nil
}

func parseHash(s string) (merkle.Hash, error) {
	var h merkle.Hash
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return h, err
	}
	if len(raw) != len(h) {
		return h, fmt.Errorf("expected %d bytes, got %d", len(h), len(raw))
	}
	copy(h[:], raw)
	return h, nil
}
