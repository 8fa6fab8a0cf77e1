package conductor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_SucceedingCommandReturnsNoError(t *testing.T) {
	v := NewVerifier([]string{"true"})
	err := v.Verify(context.Background(), "unit1", "fn unit1() {}")
	assert.NoError(t, err)
}

func TestVerifier_FailingCommandReturnsError(t *testing.T) {
	v := NewVerifier([]string{"false"})
	err := v.Verify(context.Background(), "unit1", "fn unit1() {}")
	require.Error(t, err)
}

func TestVerifier_EmptyCommandDefaultsToNoOp(t *testing.T) {
	v := NewVerifier(nil)
	assert.Equal(t, []string{"true"}, v.Command)
}

func TestVerifier_RespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v := NewVerifier([]string{"sleep", "5"})
	err := v.Verify(ctx, "unit1", "fn unit1() {}")
	require.Error(t, err)
}
