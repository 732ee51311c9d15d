package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTopicIsRandom(t *testing.T) {
	require.NotEqual(t, NewTopic(), NewTopic())
}

func TestZeroTopic(t *testing.T) {
	b, err := json.Marshal(ZeroTopic())
	require.NoError(t, err)
	require.JSONEq(t, `"00000000-0000-0000-0000-000000000000"`, string(b))
}

func TestTopicSerializationRoundTrip(t *testing.T) {
	topic := NewTopic()

	b, err := json.Marshal(topic)
	require.NoError(t, err)

	var decoded Topic
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Equal(t, topic, decoded)
}
