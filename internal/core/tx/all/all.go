// Package all registers every operation type with the tx registry.
package all

import (
	_ "github.com/LeJamon/goPresale/internal/core/tx/escrow"
	_ "github.com/LeJamon/goPresale/internal/core/tx/sale"
)
