package session

import (
	"encoding/json"
	"errors"
	"fmt"
)

// schemaVersion is bumped whenever the persisted layout changes
// incompatibly. Decode rejects blobs from other versions instead of
// guessing.
const schemaVersion = 1

var errSchemaVersion = errors.New("session: unsupported schema version")

type envelope struct {
	Version int     `json:"v"`
	Session Session `json:"session"`
}

// Encode serializes a session for persistence.
func Encode(s Session) ([]byte, error) {
	return json.Marshal(envelope{Version: schemaVersion, Session: s})
}

// Decode parses a blob produced by [Encode].
func Decode(data []byte) (Session, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Session{}, fmt.Errorf("session: decode: %w", err)
	}
	if env.Version != schemaVersion {
		return Session{}, errSchemaVersion
	}
	if env.Session.Phase > PhaseAuthenticated {
		return Session{}, errors.New("session: invalid phase")
	}
	return env.Session, nil
}
