package spectre

// WorkerMessage is the textual envelope exchanged with the background
// compute context (spec.md §6.4). The Type field tags which variant a
// message is; the other fields are populated according to that tag.
type WorkerMessage struct {
	Type string `json:"type"`

	// generate_key
	Name   string `json:"name,omitempty"`
	Secret string `json:"secret,omitempty"`

	// key_result
	KeyID     []byte `json:"key_id,omitempty"`
	KeyData   []byte `json:"key_data,omitempty"`
	Algorithm uint32 `json:"algorithm,omitempty"`

	// key_error
	Error string `json:"error,omitempty"`
}

const (
	workerMsgGenerateKey = "generate_key"
	workerMsgKeyResult   = "key_result"
	workerMsgKeyError    = "key_error"
)

// NewGenerateKeyRequest builds a generate_key request envelope.
func NewGenerateKeyRequest(name, secret string) WorkerMessage {
	return WorkerMessage{Type: workerMsgGenerateKey, Name: name, Secret: secret}
}

// newKeyResult builds a key_result response envelope from a derived key.
func newKeyResult(key *UserKey) WorkerMessage {
	return WorkerMessage{
		Type:      workerMsgKeyResult,
		KeyID:     append([]byte(nil), key.KeyID[:]...),
		KeyData:   append([]byte(nil), key.bytes...),
		Algorithm: uint32(key.Algorithm),
	}
}

// newKeyError builds a key_error response envelope.
func newKeyError(err error) WorkerMessage {
	return WorkerMessage{Type: workerMsgKeyError, Error: err.Error()}
}

// ToUserKey converts a key_result envelope back into a UserKey. Invalid
// field lengths are treated as a worker error (spec.md §6.4).
func (m WorkerMessage) ToUserKey() (*UserKey, error) {
	switch m.Type {
	case workerMsgKeyResult:
		if len(m.KeyID) != 32 || len(m.KeyData) != 64 {
			return nil, wrapError("key_derivation_failed", "worker returned malformed key_result", nil)
		}
		key := &UserKey{Algorithm: Algorithm(m.Algorithm), bytes: append([]byte(nil), m.KeyData...)}
		copy(key.KeyID[:], m.KeyID)
		return key, nil
	case workerMsgKeyError:
		return nil, wrapError("key_derivation_failed", m.Error, nil)
	default:
		return nil, wrapError("key_derivation_failed", "unexpected worker message type: "+m.Type, nil)
	}
}
