package nakama

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"runfast/internal/app"
	"runfast/internal/domain"
)

// wireCard is the client form of a card: {"rank":"10","suit":"S"}.
type wireCard struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

// wireCombo describes a classified play.
type wireCombo struct {
	Type      string     `json:"type"`
	Lead      int        `json:"lead"`
	RunLength int        `json:"run_length"`
	Cards     []wireCard `json:"cards"`
}

func cardsToWire(cards []domain.Card) []wireCard {
	out := make([]wireCard, 0, len(cards))
	for _, c := range cards {
		out = append(out, wireCard{Rank: c.Rank.String(), Suit: c.Suit.Code()})
	}
	return out
}

// cardsFromWire validates client cards. Joker suits are implied by rank.
// A deck holds each card once, so repeats are rejected.
func cardsFromWire(cards []wireCard) ([]domain.Card, error) {
	out := make([]domain.Card, 0, len(cards))
	seen := make(map[domain.Card]bool, len(cards))
	for _, w := range cards {
		c, err := cardFromWire(w)
		if err != nil {
			return nil, err
		}
		if seen[c] {
			return nil, fmt.Errorf("duplicate card %s", c)
		}
		seen[c] = true
		out = append(out, c)
	}
	return out, nil
}

func cardFromWire(w wireCard) (domain.Card, error) {
	r, err := domain.ParseRank(w.Rank)
	if err != nil {
		return domain.Card{}, err
	}
	if r.IsJoker() {
		return domain.Joker(r), nil
	}
	s, err := domain.ParseSuit(w.Suit)
	if err != nil {
		return domain.Card{}, err
	}
	return domain.NewCard(r, s)
}

func comboToWire(c *domain.Combo) wireCombo {
	return wireCombo{
		Type:      c.Type().String(),
		Lead:      c.LeadValue(),
		RunLength: c.RunLength(),
		Cards:     cardsToWire(c.Cards()),
	}
}

// cardValues is the structpb-compatible form of cards.
func cardValues(cards []domain.Card) []interface{} {
	out := make([]interface{}, 0, len(cards))
	for _, c := range cards {
		out = append(out, map[string]interface{}{"rank": c.Rank.String(), "suit": c.Suit.Code()})
	}
	return out
}

func typeValues(types []domain.ComboType) []interface{} {
	out := make([]interface{}, 0, len(types))
	for _, t := range types {
		out = append(out, t.String())
	}
	return out
}

// eventMessage maps an app event to its op code and message fields.
func eventMessage(ev app.Event) (int64, map[string]interface{}, error) {
	switch p := ev.Payload.(type) {
	case app.FightStartedPayload:
		sides := make([]interface{}, 0, len(p.Sides))
		banned := make([]interface{}, 0, len(p.Banned))
		for seat, s := range p.Sides {
			sides = append(sides, map[string]interface{}{
				"name":   s.Name,
				"hp":     s.HP,
				"max_hp": s.MaxHP,
				"cards":  s.Cards,
			})
			banned = append(banned, typeValues(p.Banned[seat]))
		}
		return OpFightStarted, map[string]interface{}{
			"fight_id":   p.FightID,
			"first_turn": p.FirstTurn,
			"sides":      sides,
			"banned":     banned,
		}, nil
	case app.HandDealtPayload:
		return OpHandDealt, map[string]interface{}{
			"seat": p.Seat,
			"hand": cardValues(p.Hand),
		}, nil
	case app.ComboPlayedPayload:
		return OpComboPlayed, map[string]interface{}{
			"seat":       p.Seat,
			"cards":      cardValues(p.Cards),
			"type":       p.Type.String(),
			"lead":       p.Lead,
			"cards_left": p.CardsLeft,
			"next_turn":  p.NextTurn,
		}, nil
	case app.TurnPassedPayload:
		return OpTurnPassed, map[string]interface{}{
			"seat":      p.Seat,
			"next_turn": p.NextTurn,
		}, nil
	case app.TrickClearedPayload:
		return OpTrickCleared, map[string]interface{}{"leader": p.Leader}, nil
	case app.DamageDealtPayload:
		return OpDamage, map[string]interface{}{
			"attacker": p.Attacker,
			"target":   p.Target,
			"amount":   p.Amount,
			"hp":       p.HP,
		}, nil
	case app.FightEndedPayload:
		return OpFightEnded, map[string]interface{}{
			"fight_id": p.FightID,
			"winner":   p.Winner,
			"turns":    p.Turns,
			"hp":       []interface{}{p.HP[0], p.HP[1]},
		}, nil
	default:
		return 0, nil, fmt.Errorf("unknown event kind %q", ev.Kind)
	}
}

func stateMessage(st app.StatePayload) map[string]interface{} {
	return map[string]interface{}{
		"fight_id":       st.FightID,
		"phase":          string(st.Phase),
		"seat":           st.Seat,
		"turn":           st.Turn,
		"hand":           cardValues(st.Hand),
		"opponent_cards": st.OpponentCards,
		"reference":      cardValues(st.Reference),
		"hp":             []interface{}{st.HP[0], st.HP[1]},
		"banned":         typeValues(st.Banned),
	}
}

// encodeMessage renders fields as protojson of a structpb.Struct.
func encodeMessage(fields map[string]interface{}) ([]byte, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	return (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(s)
}

func labelString(label domain.LabelPayload) (string, error) {
	b, err := encodeMessage(map[string]interface{}{
		"open":  label.Open,
		"game":  label.Game,
		"phase": label.Phase,
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
