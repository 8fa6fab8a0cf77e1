package conductor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/standardbeagle/transpile-pipeline/internal/unit"
)

// Oracle converts one C atomic unit into candidate target-language source.
// It is the injectable intelligence behind the conductor's dispatch loop;
// the pipeline only assumes it eventually returns source text or an error.
type Oracle interface {
	Transpile(ctx context.Context, u unit.AtomicUnit) (string, error)
}

// mockOracleDelay simulates the latency of a real transpilation call so the
// dispatch loop's concurrency behaves realistically under test.
const mockOracleDelay = 500 * time.Millisecond

// MockOracle is a placeholder Oracle that emits a stub function named after
// the unit, preceded by comments listing the unit's id and dependencies; the
// unit's C source is not included in the output.
type MockOracle struct{}

// Transpile returns a placeholder translation after a simulated delay,
// honoring ctx cancellation during the wait.
func (MockOracle) Transpile(ctx context.Context, u unit.AtomicUnit) (string, error) {
	select {
	case <-time.After(mockOracleDelay):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// Transpiled from C function: %s\n", u.ID)
	fmt.Fprintf(&b, "// Dependencies: %v\n\n", u.Dependencies)
	fmt.Fprintf(&b, "fn %s() {\n    println!(\"Simulated translation of %s\");\n}\n", u.ID, u.ID)
	return b.String(), nil
}
