package nakama

import (
	"testing"

	"github.com/goccy/go-json"

	"runfast/internal/app"
	"runfast/internal/domain"
)

func TestCardsFromWire(t *testing.T) {
	tests := []struct {
		name    string
		in      []wireCard
		want    string
		wantErr bool
	}{
		{name: "Plain", in: []wireCard{{Rank: "10", Suit: "S"}, {Rank: "a", Suit: "h"}}, want: "10S AH"},
		{name: "JokerSuitImplied", in: []wireCard{{Rank: "BJ"}, {Rank: "RJ", Suit: "S"}}, want: "BJ RJ"},
		{name: "UnknownRank", in: []wireCard{{Rank: "1", Suit: "S"}}, wantErr: true},
		{name: "UnknownSuit", in: []wireCard{{Rank: "3", Suit: "X"}}, wantErr: true},
		{name: "MissingSuit", in: []wireCard{{Rank: "3"}}, wantErr: true},
		{name: "RepeatedCard", in: []wireCard{{Rank: "3", Suit: "S"}, {Rank: "4", Suit: "S"}, {Rank: "3", Suit: "s"}}, wantErr: true},
		{name: "RepeatedJoker", in: []wireCard{{Rank: "BJ"}, {Rank: "BJ", Suit: "H"}}, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := cardsFromWire(test.in)
			if test.wantErr {
				if err == nil {
					t.Fatalf("cardsFromWire() = %v, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("cardsFromWire() error: %v", err)
			}
			want, _ := domain.ParseCards(test.want)
			if len(got) != len(want) {
				t.Fatalf("cardsFromWire() = %v, want %v", got, want)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("card %d = %v, want %v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestCardsWireRoundTrip(t *testing.T) {
	deck := domain.NewDeck(true)
	back, err := cardsFromWire(cardsToWire(deck))
	if err != nil {
		t.Fatalf("round trip error: %v", err)
	}
	for i := range deck {
		if back[i] != deck[i] {
			t.Fatalf("card %d = %v, want %v", i, back[i], deck[i])
		}
	}
}

func TestEventMessage(t *testing.T) {
	cards, _ := domain.ParseCards("5S 5H")
	op, fields, err := eventMessage(app.Event{
		Kind: app.EventComboPlayed,
		Payload: app.ComboPlayedPayload{
			Seat: 1, Cards: cards, Type: domain.Pair, Lead: 5, CardsLeft: 21, NextTurn: 0,
		},
	})
	if err != nil {
		t.Fatalf("eventMessage() error: %v", err)
	}
	if op != OpComboPlayed {
		t.Fatalf("op = %d, want %d", op, OpComboPlayed)
	}

	data, err := encodeMessage(fields)
	if err != nil {
		t.Fatalf("encodeMessage() error: %v", err)
	}
	var decoded struct {
		Seat      int        `json:"seat"`
		Type      string     `json:"type"`
		Lead      int        `json:"lead"`
		CardsLeft int        `json:"cards_left"`
		Cards     []wireCard `json:"cards"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Seat != 1 || decoded.Type != "PAIR" || decoded.Lead != 5 || decoded.CardsLeft != 21 {
		t.Fatalf("decoded = %+v", decoded)
	}
	if len(decoded.Cards) != 2 || decoded.Cards[0] != (wireCard{Rank: "5", Suit: "S"}) {
		t.Fatalf("cards = %+v", decoded.Cards)
	}
}

func TestEventMessageOpCodes(t *testing.T) {
	tests := []struct {
		payload interface{}
		want    int64
	}{
		{app.FightStartedPayload{FightID: "f", Banned: [2][]domain.ComboType{nil, {domain.Straight}}}, OpFightStarted},
		{app.HandDealtPayload{Seat: 0}, OpHandDealt},
		{app.TurnPassedPayload{Seat: 0, NextTurn: 1}, OpTurnPassed},
		{app.TrickClearedPayload{Leader: 1}, OpTrickCleared},
		{app.DamageDealtPayload{Attacker: domain.NoSeat, Target: 0, Amount: 1, HP: 4}, OpDamage},
		{app.FightEndedPayload{FightID: "f", Winner: 0, HP: [2]int{3, 0}}, OpFightEnded},
	}
	for _, test := range tests {
		op, fields, err := eventMessage(app.Event{Payload: test.payload})
		if err != nil {
			t.Fatalf("eventMessage(%T) error: %v", test.payload, err)
		}
		if op != test.want {
			t.Errorf("eventMessage(%T) op = %d, want %d", test.payload, op, test.want)
		}
		if _, err := encodeMessage(fields); err != nil {
			t.Errorf("encodeMessage(%T) error: %v", test.payload, err)
		}
	}

	if _, _, err := eventMessage(app.Event{Kind: "mystery", Payload: 42}); err == nil {
		t.Fatal("expected error for unknown payload")
	}
}

func TestLabelString(t *testing.T) {
	tests := []struct {
		name  string
		label domain.LabelPayload
	}{
		{name: "Lobby", label: domain.LabelPayload{Open: true, Game: "runfast", Phase: "lobby"}},
		{name: "Playing", label: domain.LabelPayload{Open: false, Game: "runfast", Phase: "playing"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s, err := labelString(test.label)
			if err != nil {
				t.Fatalf("labelString() error: %v", err)
			}
			var got domain.LabelPayload
			if err := json.Unmarshal([]byte(s), &got); err != nil {
				t.Fatalf("unmarshal label %s: %v", s, err)
			}
			if got != test.label {
				t.Fatalf("label = %+v, want %+v", got, test.label)
			}
		})
	}
}
