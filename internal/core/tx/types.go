package tx

import "fmt"

// Type identifies an operation.
type Type uint16

const (
	TypeInvalid Type = 0xFFFF

	// Owner side
	TypeInitializePresale       Type = 1
	TypeCreateMerkleRootConfig  Type = 2
	TypeCloseMerkleRootConfig   Type = 3
	TypeCreateOperator          Type = 4
	TypeRevokeOperator          Type = 5
	TypeCreatorWithdraw         Type = 6
	TypeCollectFee              Type = 7
	TypePerformUnsoldBaseAction Type = 8

	// Participant side
	TypeCreatePermissionlessEscrow           Type = 20
	TypeCreatePermissionedEscrowWithProof    Type = 21
	TypeCreatePermissionedEscrowWithOperator Type = 22
	TypeDeposit                              Type = 23
	TypeWithdraw                             Type = 24
	TypeWithdrawRemainingQuote               Type = 25
	TypeRefreshEscrow                        Type = 26
	TypeClaim                                Type = 27
	TypeCloseEscrow                          Type = 28

	TypeBatch Type = 40
)

var typeNames = map[Type]string{
	TypeInitializePresale:                    "InitializePresale",
	TypeCreateMerkleRootConfig:               "CreateMerkleRootConfig",
	TypeCloseMerkleRootConfig:                "CloseMerkleRootConfig",
	TypeCreateOperator:                       "CreateOperator",
	TypeRevokeOperator:                       "RevokeOperator",
	TypeCreatorWithdraw:                      "CreatorWithdraw",
	TypeCollectFee:                           "CollectFee",
	TypePerformUnsoldBaseAction:              "PerformUnsoldBaseAction",
	TypeCreatePermissionlessEscrow:           "CreatePermissionlessEscrow",
	TypeCreatePermissionedEscrowWithProof:    "CreatePermissionedEscrowWithProof",
	TypeCreatePermissionedEscrowWithOperator: "CreatePermissionedEscrowWithOperator",
	TypeDeposit:                              "Deposit",
	TypeWithdraw:                             "Withdraw",
	TypeWithdrawRemainingQuote:               "WithdrawRemainingQuote",
	TypeRefreshEscrow:                        "RefreshEscrow",
	TypeClaim:                                "Claim",
	TypeCloseEscrow:                          "CloseEscrow",
	TypeBatch:                                "Batch",
}

var typesByName = func() map[string]Type {
	m := make(map[string]Type, len(typeNames))
	for t, name := range typeNames {
		m[name] = t
	}
	return m
}()

// String returns the operation name.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", uint16(t))
}

// TypeFromName returns the Type for an operation name.
func TypeFromName(name string) (Type, bool) {
	t, ok := typesByName[name]
	return t, ok
}

// Types returns every known operation type.
func Types() []Type {
	out := make([]Type, 0, len(typeNames))
	for t := range typeNames {
		out = append(out, t)
	}
	return out
}
