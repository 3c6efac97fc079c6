package tx

import "fmt"

// Result is an operation result code. Codes are grouped by category:
// tes success, tec precondition failure, tef fatal, tem malformed.
type Result int

const (
	// tesSUCCESS (0)
	TesSUCCESS Result = 0

	// tec codes (100-199): well formed but the sale state rejects it
	TecNO_ENTRY                 Result = 100
	TecDUPLICATE                Result = 101
	TecNO_PERMISSION            Result = 102
	TecWRONG_PROGRESS           Result = 103
	TecWHITELIST_MODE           Result = 104
	TecBAD_PROOF                Result = 105
	TecNO_TRANCHE               Result = 106
	TecBAD_DEPOSIT_CAP          Result = 107
	TecQUOTA_EXHAUSTED          Result = 108
	TecBELOW_MIN_DEPOSIT        Result = 109
	TecZERO_AMOUNT              Result = 110
	TecZERO_TOKEN_AMOUNT        Result = 111
	TecWITHDRAW_DISABLED        Result = 112
	TecWITHDRAW_EXCEEDS_DEPOSIT Result = 113
	TecREMAINING_BELOW_MIN      Result = 114
	TecNOT_REFRESHED            Result = 115
	TecNOTHING_TO_CLAIM         Result = 116
	TecNOTHING_TO_WITHDRAW      Result = 117
	TecALREADY_WITHDRAWN        Result = 118
	TecALREADY_PERFORMED        Result = 119
	TecHAS_OBLIGATIONS          Result = 120
	TecSALE_MISMATCH            Result = 121

	// tef codes (-199 to -100): the operation could not be carried out
	TefFAILURE           Result = -199
	TefINTERNAL          Result = -198
	TefBAD_LEDGER        Result = -197
	TefARITHMETIC        Result = -196
	TefSTORAGE           Result = -195
	TefTRANSFER          Result = -194
	TefTRANSFER_MISMATCH Result = -193
	TefNONCE_REUSED      Result = -192

	// tem codes (-299 to -200): malformed operation or sale configuration
	TemMALFORMED           Result = -299
	TemUNKNOWN             Result = -298
	TemBAD_NONCE           Result = -297
	TemBAD_ACCOUNT         Result = -296
	TemBAD_PRESALE         Result = -295
	TemBAD_AMOUNT          Result = -294
	TemBAD_MODE            Result = -293
	TemBAD_WHITELIST       Result = -292
	TemBAD_UNSOLD_ACTION   Result = -291
	TemBAD_CAPS            Result = -290
	TemBAD_TIMES           Result = -289
	TemBAD_DURATION        Result = -288
	TemBAD_PRICE           Result = -287
	TemBAD_TRANCHE         Result = -286
	TemTOO_MANY_TRANCHES   Result = -285
	TemINSUFFICIENT_SUPPLY Result = -284
	TemBAD_RELEASE         Result = -283
	TemBAD_ROOT            Result = -282
	TemBAD_PROOF           Result = -281
	TemARRAY_EMPTY         Result = -280
	TemARRAY_TOO_LARGE     Result = -279
)

var resultNames = map[Result]string{
	TesSUCCESS: "tesSUCCESS",

	TecNO_ENTRY:                 "tecNO_ENTRY",
	TecDUPLICATE:                "tecDUPLICATE",
	TecNO_PERMISSION:            "tecNO_PERMISSION",
	TecWRONG_PROGRESS:           "tecWRONG_PROGRESS",
	TecWHITELIST_MODE:           "tecWHITELIST_MODE",
	TecBAD_PROOF:                "tecBAD_PROOF",
	TecNO_TRANCHE:               "tecNO_TRANCHE",
	TecBAD_DEPOSIT_CAP:          "tecBAD_DEPOSIT_CAP",
	TecQUOTA_EXHAUSTED:          "tecQUOTA_EXHAUSTED",
	TecBELOW_MIN_DEPOSIT:        "tecBELOW_MIN_DEPOSIT",
	TecZERO_AMOUNT:              "tecZERO_AMOUNT",
	TecZERO_TOKEN_AMOUNT:        "tecZERO_TOKEN_AMOUNT",
	TecWITHDRAW_DISABLED:        "tecWITHDRAW_DISABLED",
	TecWITHDRAW_EXCEEDS_DEPOSIT: "tecWITHDRAW_EXCEEDS_DEPOSIT",
	TecREMAINING_BELOW_MIN:      "tecREMAINING_BELOW_MIN",
	TecNOT_REFRESHED:            "tecNOT_REFRESHED",
	TecNOTHING_TO_CLAIM:         "tecNOTHING_TO_CLAIM",
	TecNOTHING_TO_WITHDRAW:      "tecNOTHING_TO_WITHDRAW",
	TecALREADY_WITHDRAWN:        "tecALREADY_WITHDRAWN",
	TecALREADY_PERFORMED:        "tecALREADY_PERFORMED",
	TecHAS_OBLIGATIONS:          "tecHAS_OBLIGATIONS",
	TecSALE_MISMATCH:            "tecSALE_MISMATCH",

	TefFAILURE:           "tefFAILURE",
	TefINTERNAL:          "tefINTERNAL",
	TefBAD_LEDGER:        "tefBAD_LEDGER",
	TefARITHMETIC:        "tefARITHMETIC",
	TefSTORAGE:           "tefSTORAGE",
	TefTRANSFER:          "tefTRANSFER",
	TefTRANSFER_MISMATCH: "tefTRANSFER_MISMATCH",
	TefNONCE_REUSED:      "tefNONCE_REUSED",

	TemMALFORMED:           "temMALFORMED",
	TemUNKNOWN:             "temUNKNOWN",
	TemBAD_NONCE:           "temBAD_NONCE",
	TemBAD_ACCOUNT:         "temBAD_ACCOUNT",
	TemBAD_PRESALE:         "temBAD_PRESALE",
	TemBAD_AMOUNT:          "temBAD_AMOUNT",
	TemBAD_MODE:            "temBAD_MODE",
	TemBAD_WHITELIST:       "temBAD_WHITELIST",
	TemBAD_UNSOLD_ACTION:   "temBAD_UNSOLD_ACTION",
	TemBAD_CAPS:            "temBAD_CAPS",
	TemBAD_TIMES:           "temBAD_TIMES",
	TemBAD_DURATION:        "temBAD_DURATION",
	TemBAD_PRICE:           "temBAD_PRICE",
	TemBAD_TRANCHE:         "temBAD_TRANCHE",
	TemTOO_MANY_TRANCHES:   "temTOO_MANY_TRANCHES",
	TemINSUFFICIENT_SUPPLY: "temINSUFFICIENT_SUPPLY",
	TemBAD_RELEASE:         "temBAD_RELEASE",
	TemBAD_ROOT:            "temBAD_ROOT",
	TemBAD_PROOF:           "temBAD_PROOF",
	TemARRAY_EMPTY:         "temARRAY_EMPTY",
	TemARRAY_TOO_LARGE:     "temARRAY_TOO_LARGE",
}

var resultsByName = func() map[string]Result {
	m := make(map[string]Result, len(resultNames))
	for r, name := range resultNames {
		m[name] = r
	}
	return m
}()

// String returns the string representation of the result code
func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Result(%d)", int(r))
}

// Error lets a Result travel as an error so Validate can return it wrapped.
func (r Result) Error() string {
	return r.String() + ": " + r.Message()
}

func (r Result) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Result) UnmarshalText(b []byte) error {
	v, ok := resultsByName[string(b)]
	if !ok {
		return fmt.Errorf("unknown result code %q", b)
	}
	*r = v
	return nil
}

// IsSuccess returns true if the result is tesSUCCESS
func (r Result) IsSuccess() bool {
	return r == TesSUCCESS
}

// IsTec returns true if this is a tec (precondition) code
func (r Result) IsTec() bool {
	return r >= 100 && r < 200
}

// IsTef returns true if this is a tef (failure) code
func (r Result) IsTef() bool {
	return r >= -199 && r <= -100
}

// IsTem returns true if this is a tem (malformed) code
func (r Result) IsTem() bool {
	return r >= -299 && r <= -200
}

// Message returns a human-readable message for the result
func (r Result) Message() string {
	switch r {
	case TesSUCCESS:
		return "The operation was applied."
	case TecNO_ENTRY:
		return "No matching presale entry."
	case TecDUPLICATE:
		return "The entry already exists."
	case TecNO_PERMISSION:
		return "Account is not permitted to perform this operation."
	case TecWRONG_PROGRESS:
		return "Operation not allowed at the current sale progress."
	case TecWHITELIST_MODE:
		return "Operation not allowed by the sale whitelist mode."
	case TecBAD_PROOF:
		return "Merkle proof does not match the whitelist root."
	case TecNO_TRANCHE:
		return "Tranche does not exist."
	case TecBAD_DEPOSIT_CAP:
		return "Personal deposit cap below the tranche minimum."
	case TecQUOTA_EXHAUSTED:
		return "No deposit quota left."
	case TecBELOW_MIN_DEPOSIT:
		return "Deposit below the tranche minimum."
	case TecZERO_AMOUNT:
		return "Nothing to deposit."
	case TecZERO_TOKEN_AMOUNT:
		return "Deposit too small to buy any base."
	case TecWITHDRAW_DISABLED:
		return "Withdraw is disabled for this sale."
	case TecWITHDRAW_EXCEEDS_DEPOSIT:
		return "Withdraw exceeds the escrow deposit."
	case TecREMAINING_BELOW_MIN:
		return "Remaining deposit would fall below the tranche minimum."
	case TecNOT_REFRESHED:
		return "Escrow must be refreshed in the same second before claiming."
	case TecNOTHING_TO_CLAIM:
		return "Nothing to claim."
	case TecNOTHING_TO_WITHDRAW:
		return "Nothing to withdraw."
	case TecALREADY_WITHDRAWN:
		return "Remaining quote already withdrawn."
	case TecALREADY_PERFORMED:
		return "Action already performed."
	case TecHAS_OBLIGATIONS:
		return "Escrow still has unsettled obligations."
	case TecSALE_MISMATCH:
		return "Entry belongs to another presale."
	case TefFAILURE:
		return "Failed to apply."
	case TefINTERNAL:
		return "Internal error."
	case TefBAD_LEDGER:
		return "Stored entry could not be decoded."
	case TefARITHMETIC:
		return "Arithmetic overflow, underflow or division by zero."
	case TefSTORAGE:
		return "Storage commit failed."
	case TefTRANSFER:
		return "Value transfer failed."
	case TefTRANSFER_MISMATCH:
		return "Value transfer delivered an unexpected amount."
	case TefNONCE_REUSED:
		return "Nonce already used by a different operation payload."
	case TemMALFORMED:
		return "Malformed operation."
	case TemUNKNOWN:
		return "Unknown operation type."
	case TemBAD_NONCE:
		return "Nonce is required."
	case TemBAD_ACCOUNT:
		return "Malformed account."
	case TemBAD_PRESALE:
		return "Malformed presale id."
	case TemBAD_AMOUNT:
		return "Malformed amount."
	case TemBAD_MODE:
		return "Unknown sale mode."
	case TemBAD_WHITELIST:
		return "Unknown whitelist mode."
	case TemBAD_UNSOLD_ACTION:
		return "Unknown unsold base action."
	case TemBAD_CAPS:
		return "Invalid minimum or maximum cap."
	case TemBAD_TIMES:
		return "Invalid sale window."
	case TemBAD_DURATION:
		return "Duration out of range."
	case TemBAD_PRICE:
		return "Invalid fixed price."
	case TemBAD_TRANCHE:
		return "Invalid tranche configuration."
	case TemTOO_MANY_TRANCHES:
		return "Too many tranches."
	case TemINSUFFICIENT_SUPPLY:
		return "Tranche supply below the base sellable at maximum cap."
	case TemBAD_RELEASE:
		return "Invalid immediate release configuration."
	case TemBAD_ROOT:
		return "Malformed whitelist root."
	case TemBAD_PROOF:
		return "Malformed merkle proof."
	case TemARRAY_EMPTY:
		return "Batch holds no operations."
	case TemARRAY_TOO_LARGE:
		return "Batch holds too many operations."
	}
	return "Unknown result."
}
