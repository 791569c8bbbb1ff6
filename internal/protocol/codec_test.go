package protocol

import (
	"reflect"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	payloads := []Payload{
		Join{Name: "SwiftFox"},
		Input{Directions: []Direction{DirUp, DirRight}, Sequence: 42},
		Leave{},
		Welcome{PlayerID: "ab12cd34", ColorIndex: 2},
		LobbyUpdate{PlayerCount: 1, Required: 2, PlayerNames: []string{"SwiftFox"}},
		GameStart{Countdown: 3},
		Snapshot{
			Timestamp:  1700000000.25,
			ServerTime: 1700000000.25,
			Players: []PlayerState{
				{ID: "ab12cd34", Position: Vec2{X: 200, Y: 150}, Score: 3, ColorIndex: 0, Name: "SwiftFox"},
			},
			Coins:             []CoinState{{ID: "c1", Position: Vec2{X: 100, Y: 100}}},
			GameTimeRemaining: 90.5,
			GameStarted:       true,
		},
		CoinCollected{CoinID: "c1", CollectorID: "ab12cd34", NewScore: 4},
		GameOver{WinnerID: "ab12cd34", WinnerName: "SwiftFox", FinalScores: map[string]int{"ab12cd34": 4}},
	}

	for _, payload := range payloads {
		raw, err := Encode(payload)
		if err != nil {
			t.Fatalf("encode %s: %v", payload.MessageType(), err)
		}
		decoded, err := Decode(raw)
		if err != nil {
			t.Fatalf("decode %s: %v", payload.MessageType(), err)
		}
		if decoded.MessageType() != payload.MessageType() {
			t.Fatalf("type changed in transit: sent %s, got %s", payload.MessageType(), decoded.MessageType())
		}
		if !reflect.DeepEqual(decoded, payload) {
			t.Fatalf("%s payload changed in transit:\nsent %#v\ngot  %#v", payload.MessageType(), payload, decoded)
		}
	}
}

func TestDecodeRejectsUnknownType(t *testing.T) {
	if _, err := Decode([]byte(`{"type":"teleport","data":{}}`)); err == nil {
		t.Fatalf("expected error for unknown message type")
	}
}

func TestDecodeRejectsMalformedFrame(t *testing.T) {
	if _, err := Decode([]byte(`{"type":"input","data":`)); err == nil {
		t.Fatalf("expected error for truncated frame")
	}
	if _, err := Decode([]byte(`{"type":"input","data":{"sequence":"nope"}}`)); err == nil {
		t.Fatalf("expected error for mistyped field")
	}
}

func TestDirectionSetRoundTrip(t *testing.T) {
	set := NewDirectionSet([]Direction{DirRight, DirUp, DirRight, "warp"})
	if !set.Up || !set.Right || set.Down || set.Left {
		t.Fatalf("unexpected set: %+v", set)
	}
	list := set.List()
	if !reflect.DeepEqual(list, []Direction{DirUp, DirRight}) {
		t.Fatalf("unexpected list order: %v", list)
	}
	if NewDirectionSet(nil).Empty() != true {
		t.Fatalf("empty list should produce empty set")
	}
}
