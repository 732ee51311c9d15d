package qr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTerminalRenders(t *testing.T) {
	out, err := Terminal("wc:8a5e5bdc-a0e4-4702-ba63-8f1a5655744f@1?bridge=https%3A%2F%2Fbridge.walletconnect.org&key=41791102999c339c844880b23950704cc43aa840f3739e365323cda4dfa89e7a")
	require.NoError(t, err)
	require.NotEmpty(t, out)
}

func TestPNGRenders(t *testing.T) {
	out, err := PNG("wc:8a5e5bdc-a0e4-4702-ba63-8f1a5655744f@1?bridge=https%3A%2F%2Fbridge.walletconnect.org&key=41791102999c339c844880b23950704cc43aa840f3739e365323cda4dfa89e7a", 256)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	require.Equal(t, byte(0x89), out[0], "PNG magic byte")
}
