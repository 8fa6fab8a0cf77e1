package conductor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Verifier checks candidate translated source for correctness by handing it
// to an external compiler command. The default command ("true") is a no-op
// suitable for the mock oracle's placeholder output; a real target-language
// compiler is substituted via configuration once an Oracle produces
// buildable code.
type Verifier struct {
	Command []string
}

// NewVerifier constructs a Verifier from a configured command line. An empty
// command defaults to a no-op verifier that always succeeds.
func NewVerifier(command []string) *Verifier {
	if len(command) == 0 {
		command = []string{"true"}
	}
	return &Verifier{Command: command}
}

// Verify writes code to a temp file named after unitID and runs the
// configured command against it, returning the command's stderr on failure.
func (v *Verifier) Verify(ctx context.Context, unitID, code string) error {
	path := filepath.Join(os.TempDir(), unitID+v.sourceExt())
	if err := os.WriteFile(path, []byte(code), 0644); err != nil {
		return fmt.Errorf("writing temp file %s: %w", path, err)
	}
	defer os.Remove(path)

	args := append(append([]string(nil), v.Command[1:]...), path)
	cmd := exec.CommandContext(ctx, v.Command[0], args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("verification failed for %s: %s", unitID, stderr.String())
	}
	return nil
}

// sourceExt is the temp file extension; ".txt" is a harmless default since
// the no-op "true" command never inspects the file's contents.
func (v *Verifier) sourceExt() string {
	return ".txt"
}
