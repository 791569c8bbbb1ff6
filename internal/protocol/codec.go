package protocol

import (
	"encoding/json"
	"fmt"
)

// Envelope is the flat frame layout: a type tag plus an opaque body.
type Envelope struct {
	Type Type            `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Encode wraps a payload in its envelope and renders the frame.
func Encode(p Payload) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("encode nil payload")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", p.MessageType(), err)
	}
	return json.Marshal(Envelope{Type: p.MessageType(), Data: data})
}

// Decode parses a frame into its typed payload. The type switch is
// exhaustive over the enum; an unlisted tag is an error rather than a
// silently accepted unknown.
func Decode(raw []byte) (Payload, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	switch env.Type {
	case TypeJoin:
		return decodeBody[Join](env)
	case TypeInput:
		return decodeBody[Input](env)
	case TypeLeave:
		return decodeBody[Leave](env)
	case TypeWelcome:
		return decodeBody[Welcome](env)
	case TypeLobbyUpdate:
		return decodeBody[LobbyUpdate](env)
	case TypeGameStart:
		return decodeBody[GameStart](env)
	case TypeGameState:
		return decodeBody[Snapshot](env)
	case TypeCoinCollected:
		return decodeBody[CoinCollected](env)
	case TypeGameOver:
		return decodeBody[GameOver](env)
	default:
		return nil, fmt.Errorf("unknown message type %q", env.Type)
	}
}

func decodeBody[T Payload](env Envelope) (Payload, error) {
	var body T
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &body); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
	}
	return body, nil
}
