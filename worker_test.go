package spectre

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWorkerMessageRoundTripsToUserKey(t *testing.T) {
	userKey, err := DeriveUserKey("name", "secretsecret", AlgorithmCurrent)
	require.NoError(t, err)
	defer userKey.Zero()

	msg := newKeyResult(userKey)
	restored, err := msg.ToUserKey()
	require.NoError(t, err)
	require.Equal(t, userKey.KeyID, restored.KeyID)
	require.Equal(t, userKey.Bytes(), restored.Bytes())
}

func TestWorkerMessageKeyErrorPropagates(t *testing.T) {
	msg := newKeyError(ErrKeyDerivationFailed)
	_, err := msg.ToUserKey()
	require.Error(t, err)
}

func TestWorkerMessageToUserKeyRejectsMalformedLengths(t *testing.T) {
	msg := WorkerMessage{Type: workerMsgKeyResult, KeyID: []byte{1, 2, 3}, KeyData: make([]byte, 64)}
	_, err := msg.ToUserKey()
	require.Error(t, err)
}

func TestGoroutineWorkerComputesKey(t *testing.T) {
	worker := NewGoroutineWorker()
	resp, err := worker(NewGenerateKeyRequest("name", "secretsecret"))
	require.NoError(t, err)

	key, err := resp.ToUserKey()
	require.NoError(t, err)
	require.NotNil(t, key)
}
