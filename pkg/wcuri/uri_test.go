package wcuri

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/walletconnect-go/connector/pkg/protocol"
	"github.com/walletconnect-go/connector/pkg/wcrypto"
)

// TestParseKnownVector exercises S3 from the testable properties.
func TestParseKnownVector(t *testing.T) {
	raw := "wc:8a5e5bdc-a0e4-4702-ba63-8f1a5655744f@1?bridge=https%3A%2F%2Fbridge.walletconnect.org&key=41791102999c339c844880b23950704cc43aa840f3739e365323cda4dfa89e7a"

	u, err := Parse(raw)
	require.NoError(t, err)
	require.Equal(t, protocol.Topic("8a5e5bdc-a0e4-4702-ba63-8f1a5655744f"), u.HandshakeTopic)
	require.Equal(t, "https://bridge.walletconnect.org", u.Bridge)
	require.Equal(t, "41791102999c339c844880b23950704cc43aa840f3739e365323cda4dfa89e7a", u.Key.String())
}

func TestParseRejectsWrongScheme(t *testing.T) {
	_, err := Parse("http://8a5e5bdc-a0e4-4702-ba63-8f1a5655744f@1?bridge=https%3A%2F%2Fx&key=41791102999c339c844880b23950704cc43aa840f3739e365323cda4dfa89e7a")
	require.ErrorIs(t, err, ErrInvalidSessionURI)
}

func TestParseRejectsWrongVersion(t *testing.T) {
	_, err := Parse("wc:8a5e5bdc-a0e4-4702-ba63-8f1a5655744f@2?bridge=https%3A%2F%2Fbridge.walletconnect.org&key=41791102999c339c844880b23950704cc43aa840f3739e365323cda4dfa89e7a")
	require.ErrorIs(t, err, ErrInvalidSessionURI)
}

func TestParseRejectsExtraQueryParam(t *testing.T) {
	_, err := Parse("wc:8a5e5bdc-a0e4-4702-ba63-8f1a5655744f@1?bridge=https%3A%2F%2Fbridge.walletconnect.org&key=41791102999c339c844880b23950704cc43aa840f3739e365323cda4dfa89e7a&extra=1")
	require.ErrorIs(t, err, ErrInvalidSessionURI)
}

func TestRoundTrip(t *testing.T) {
	key, err := wcrypto.Random()
	require.NoError(t, err)

	original := URI{
		HandshakeTopic: protocol.NewTopic(),
		Bridge:         "https://bridge.walletconnect.org",
		Key:            key,
	}

	parsed, err := Parse(original.String())
	require.NoError(t, err)
	require.Equal(t, original.HandshakeTopic, parsed.HandshakeTopic)
	require.Equal(t, original.Bridge, parsed.Bridge)
	require.Equal(t, original.Key.String(), parsed.Key.String())
}
