package nakama

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/goccy/go-json"
	"github.com/heroiclabs/nakama-common/runtime"

	"runfast/internal/app"
	"runfast/internal/bot"
	"runfast/internal/config"
	"runfast/internal/domain"
)

// gRPC status codes used by runtime.NewError.
const (
	codeInvalidArgument    = 3
	codeNotFound           = 5
	codeFailedPrecondition = 9
	codeInternal           = 13
)

// receiptService verifies receipts for the verify RPC. Set by InitModule.
var receiptService *app.ReceiptService

type classifyRequest struct {
	Cards []wireCard `json:"cards"`
}

type classifyResponse struct {
	Valid bool       `json:"valid"`
	Combo *wireCombo `json:"combo,omitempty"`
}

type validPlaysRequest struct {
	Hand          []wireCard `json:"hand"`
	Reference     []wireCard `json:"reference"`
	Banned        []string   `json:"banned"`
	AttachmentCap int        `json:"attachment_cap"`
}

type validPlaysResponse struct {
	Plays []wireCombo `json:"plays"`
}

type choosePlayRequest struct {
	Hand          []wireCard `json:"hand"`
	Reference     []wireCard `json:"reference"`
	OpponentCards int        `json:"opponent_cards"`
	HP            int        `json:"hp"`
	OpponentHP    int        `json:"opponent_hp"`
	Discard       []wireCard `json:"discard"`
	Banned        []string   `json:"banned"`
	Level         string     `json:"level"`
}

type choosePlayResponse struct {
	Pass bool       `json:"pass"`
	Play *wireCombo `json:"play,omitempty"`
}

// QuickFightRequest optionally names an enemy id or an enemy type.
type QuickFightRequest struct {
	Enemy string `json:"enemy"`
	Type  string `json:"type"`
}

// QuickFightResponse is the payload returned to clients after creating a fight match.
type QuickFightResponse struct {
	MatchID string `json:"match_id"`
	Enemy   string `json:"enemy"`
}

type verifyReceiptRequest struct {
	Receipt string `json:"receipt"`
}

type verifyReceiptResponse struct {
	FightID string `json:"fight_id"`
	UserID  string `json:"user_id"`
	Enemy   string `json:"enemy"`
	Winner  int    `json:"winner"`
	Turns   int    `json:"turns"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	rpcs := map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error){
		RpcClassify:      rpcClassify,
		RpcValidPlays:    rpcValidPlays,
		RpcChoosePlay:    rpcChoosePlay,
		RpcQuickFight:    rpcQuickFight,
		RpcVerifyReceipt: rpcVerifyReceipt,
	}
	for id, fn := range rpcs {
		if err := initializer.RegisterRpc(id, fn); err != nil {
			return fmt.Errorf("register rpc %s: %w", id, err)
		}
	}
	return nil
}

func decodePayload(payload string, out interface{}) error {
	if payload == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return runtime.NewError("Invalid payload", codeInvalidArgument)
	}
	return nil
}

func encodeResponse(logger runtime.Logger, v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		logger.Error("Failed to marshal response: %v", err)
		return "", runtime.NewError("Internal error", codeInternal)
	}
	return string(b), nil
}

// parseReference reads an optional reference play. No cards means an open trick.
func parseReference(cards []wireCard) (*domain.Combo, error) {
	if len(cards) == 0 {
		return nil, nil
	}
	ref, err := cardsFromWire(cards)
	if err != nil {
		return nil, runtime.NewError("Invalid reference: "+err.Error(), codeInvalidArgument)
	}
	combo := domain.Classify(ref)
	if combo == nil {
		return nil, runtime.NewError("Reference is not a combo", codeInvalidArgument)
	}
	return combo, nil
}

func parseHand(cards []wireCard) (domain.Hand, error) {
	if len(cards) == 0 {
		return nil, runtime.NewError("Hand required", codeInvalidArgument)
	}
	parsed, err := cardsFromWire(cards)
	if err != nil {
		return nil, runtime.NewError("Invalid hand: "+err.Error(), codeInvalidArgument)
	}
	return domain.NewHand(parsed...), nil
}

func parseBanned(names []string) ([]domain.ComboType, error) {
	out := make([]domain.ComboType, 0, len(names))
	for _, n := range names {
		t, err := domain.ParseComboType(n)
		if err != nil {
			return nil, runtime.NewError("Invalid banned type: "+n, codeInvalidArgument)
		}
		out = append(out, t)
	}
	return out, nil
}

// rpcClassify reports the combo formed by a set of cards.
// Payload: {"cards":[{"rank":"3","suit":"S"}, ...]}
func rpcClassify(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req classifyRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	cards, err := cardsFromWire(req.Cards)
	if err != nil {
		return "", runtime.NewError("Invalid cards: "+err.Error(), codeInvalidArgument)
	}

	resp := classifyResponse{}
	if combo := domain.Classify(cards); combo != nil {
		w := comboToWire(combo)
		resp.Valid = true
		resp.Combo = &w
	}
	return encodeResponse(logger, resp)
}

// rpcValidPlays lists every play from hand that answers reference.
// Payload: {"hand":[...], "reference":[...], "banned":["STRAIGHT"], "attachment_cap":64}
func rpcValidPlays(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req validPlaysRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	hand, err := parseHand(req.Hand)
	if err != nil {
		return "", err
	}
	ref, err := parseReference(req.Reference)
	if err != nil {
		return "", err
	}
	banned, err := parseBanned(req.Banned)
	if err != nil {
		return "", err
	}

	attachmentCap := req.AttachmentCap
	if attachmentCap <= 0 {
		attachmentCap = config.GetGameConfig().AI.AttachmentCap
	}
	plays := domain.FindValidPlays(hand, ref, domain.WithBanned(banned...), domain.WithAttachmentCap(attachmentCap))

	resp := validPlaysResponse{Plays: make([]wireCombo, 0, len(plays))}
	for _, p := range plays {
		resp.Plays = append(resp.Plays, comboToWire(p))
	}
	return encodeResponse(logger, resp)
}

// rpcChoosePlay asks an AI level for its move.
// Payload: {"hand":[...], "reference":[...], "opponent_cards":12, "discard":[...], "level":"minimax"}
func rpcChoosePlay(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req choosePlayRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	hand, err := parseHand(req.Hand)
	if err != nil {
		return "", err
	}
	ref, err := parseReference(req.Reference)
	if err != nil {
		return "", err
	}
	banned, err := parseBanned(req.Banned)
	if err != nil {
		return "", err
	}
	discard, err := cardsFromWire(req.Discard)
	if err != nil {
		return "", runtime.NewError("Invalid discard: "+err.Error(), codeInvalidArgument)
	}

	cfg := config.GetGameConfig()
	level := req.Level
	if level == "" {
		level = cfg.AI.Level
	}
	selector, err := bot.NewSelector(level, cfg.AI.Tuning())
	if err != nil {
		return "", runtime.NewError(err.Error(), codeInvalidArgument)
	}

	move := selector.ChoosePlay(hand, ref, bot.OpponentInfo{
		CardsRemaining: req.OpponentCards,
		HP:             req.HP,
		OpponentHP:     req.OpponentHP,
		Discard:        discard,
		Banned:         banned,
	})
	logger.Debug("rpcChoosePlay: level=%s hand=%d move=%s", level, hand.Len(), move)

	resp := choosePlayResponse{Pass: move.Pass}
	if !move.Pass {
		w := comboToWire(move.Combo)
		resp.Play = &w
	}
	return encodeResponse(logger, resp)
}

// pickEnemy resolves the requested enemy by id, then by type, then at random.
func pickEnemy(roster *bot.Roster, req QuickFightRequest, rng *rand.Rand) (bot.Enemy, error) {
	if req.Enemy != "" {
		e, ok := roster.Get(req.Enemy)
		if !ok {
			return bot.Enemy{}, runtime.NewError("Unknown enemy: "+req.Enemy, codeNotFound)
		}
		return e, nil
	}
	e, ok := roster.Random(rng, bot.EnemyType(req.Type))
	if !ok {
		return bot.Enemy{}, runtime.NewError("No enemy of type: "+req.Type, codeNotFound)
	}
	return e, nil
}

// rpcQuickFight creates a fight match against an enemy from the roster.
// Payload: (optional) {"enemy":"goblin_grunt"} or {"type":"elite"}
func rpcQuickFight(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	var req QuickFightRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	roster, err := config.GetGameConfig().Roster()
	if err != nil {
		logger.Error("rpcQuickFight [User:%s]: Failed to load roster: %v", userID, err)
		return "", runtime.NewError("Internal error", codeInternal)
	}
	enemy, err := pickEnemy(roster, req, rand.New(rand.NewSource(time.Now().UnixNano())))
	if err != nil {
		return "", err
	}

	// Seat assignment happens in MatchJoin (server-authoritative).
	matchID, err := nk.MatchCreate(ctx, MatchNameRunFast, map[string]interface{}{"enemy": enemy.ID})
	if err != nil {
		logger.Error("rpcQuickFight [User:%s]: Failed to create match: %v", userID, err)
		return "", err
	}
	logger.Info("rpcQuickFight [User:%s]: Created match %s against %s", userID, matchID, enemy.ID)

	return encodeResponse(logger, QuickFightResponse{MatchID: matchID, Enemy: enemy.ID})
}

// rpcVerifyReceipt checks a fight receipt issued by this server.
// Payload: {"receipt":"<jwt>"}
func rpcVerifyReceipt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req verifyReceiptRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	if req.Receipt == "" {
		return "", runtime.NewError("Receipt required", codeInvalidArgument)
	}
	if !receiptService.Enabled() {
		return "", runtime.NewError("Receipts disabled", codeFailedPrecondition)
	}
	r, err := receiptService.Verify(req.Receipt)
	if err != nil {
		logger.Warn("rpcVerifyReceipt: %v", err)
		return "", runtime.NewError("Invalid receipt", codeInvalidArgument)
	}
	return encodeResponse(logger, verifyReceiptResponse{
		FightID: r.FightID,
		UserID:  r.UserID,
		Enemy:   r.Enemy,
		Winner:  r.Winner,
		Turns:   r.Turns,
	})
}
