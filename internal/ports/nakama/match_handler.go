package nakama

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"time"

	"github.com/goccy/go-json"
	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/spf13/cast"

	"runfast/internal/app"
	"runfast/internal/bot"
	"runfast/internal/config"
	"runfast/internal/domain"
	"runfast/internal/ports"
)

// MatchState is one human fighting one AI enemy.
type MatchState struct {
	// UserID owns the match: the first human to join.
	UserID   string
	Presence runtime.Presence

	Enemy    bot.Enemy
	Selector bot.MoveSelector
	Agent    *bot.Agent
	Fight    *domain.Fight

	App      *app.Service
	Config   *config.GameConfig
	Receipts *app.ReceiptService
	Results  ports.ResultPort

	Rand         *rand.Rand
	BotMinDelay  int
	BotMaxDelay  int
	BotWaitUntil int64
	Tick         int64
}

// phase is the lobby until the first fight starts.
func (s *MatchState) phase() domain.Phase {
	if s.Fight == nil {
		return domain.PhaseLobby
	}
	return s.Fight.Phase
}

func (s *MatchState) label() domain.LabelPayload {
	if s.Fight == nil {
		return domain.LabelPayload{Open: s.UserID == "", Game: "runfast", Phase: string(domain.PhaseLobby)}
	}
	return domain.ComputeLabel(s.Fight)
}

type playCardsRequest struct {
	Cards []wireCard `json:"cards"`
}

type matchHandler struct{}

func newMatchHandler() *matchHandler {
	return &matchHandler{}
}

// MatchInit picks the enemy named in params (or a random one) and reads bot pacing from the runtime env.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	cfg := config.GetGameConfig()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	roster, err := cfg.Roster()
	if err != nil {
		logger.Error("MatchInit: Failed to load enemy roster: %v", err)
		return nil, 0, ""
	}
	enemy, err := pickEnemy(roster, QuickFightRequest{Enemy: cast.ToString(params["enemy"])}, rng)
	if err != nil {
		logger.Error("MatchInit: %v", err)
		return nil, 0, ""
	}
	selector, err := enemy.Selector(cfg.AI.Tuning())
	if err != nil {
		logger.Error("MatchInit: Failed to build selector for %s: %v", enemy.ID, err)
		return nil, 0, ""
	}

	state := &MatchState{
		Enemy:       enemy,
		Selector:    selector,
		App:         app.NewService(rng, cfg.Fight.Deal()),
		Config:      cfg,
		Receipts:    app.NewReceiptService(cfg.Receipt.Secret, cfg.Receipt.Issuer, cfg.Receipt.TTL),
		Rand:        rng,
		BotMinDelay: defaultBotMinDelay,
		BotMaxDelay: defaultBotMaxDelay,
	}
	if nk != nil {
		state.Results = NewNakamaResultAdapter(nk)
	}

	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		state.BotMinDelay, state.BotMaxDelay = botDelays(env)
	}

	label, err := labelString(state.label())
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	logger.Info("MatchInit: Fight match against %s (%s), bot delay %d-%d ticks", enemy.Name, enemy.ID, state.BotMinDelay, state.BotMaxDelay)
	return state, tickRate, label
}

// botDelays reads the bot pacing from env, keeping min <= max.
func botDelays(env map[string]string) (int, int) {
	minDelay, maxDelay := defaultBotMinDelay, defaultBotMaxDelay
	if v, ok := env[envBotMinDelay]; ok {
		if n, err := cast.ToIntE(v); err == nil && n >= 0 {
			minDelay = n
		}
	}
	if v, ok := env[envBotMaxDelay]; ok {
		if n, err := cast.ToIntE(v); err == nil && n >= 0 {
			maxDelay = n
		}
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return minDelay, maxDelay
}

// MatchJoinAttempt admits the owner, or anyone while the match is unclaimed.
func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoinAttempt: state not found")
		return state, false, "State not found"
	}

	if matchState.UserID != "" && matchState.UserID != presence.GetUserId() {
		return state, false, "Match full"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		if matchState.UserID == "" {
			matchState.UserID = p.GetUserId()
			logger.Debug("MatchJoin: User %s owns the match.", p.GetUserId())
		}
		if p.GetUserId() != matchState.UserID {
			logger.Warn("MatchJoin: User %s joined but the match belongs to %s.", p.GetUserId(), matchState.UserID)
			continue
		}
		matchState.Presence = p
	}

	mh.updateLabel(matchState, dispatcher, logger)
	// A rejoining player needs the table as it stands.
	if matchState.Fight != nil {
		mh.sendState(matchState, dispatcher, logger)
	}
	return matchState
}

// MatchLeave ends the match when its owner leaves.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		if p.GetUserId() == matchState.UserID {
			matchState.Presence = nil
		}
	}
	if matchState.Presence == nil {
		logger.Info("MatchLeave: Terminating match, owner %s left.", matchState.UserID)
		return nil
	}
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartFight:
			mh.handleStartFight(ctx, matchState, dispatcher, logger, msg)
		case OpPlayCards:
			mh.handlePlayCards(ctx, matchState, dispatcher, logger, msg)
		case OpPassTurn:
			mh.handlePassTurn(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	mh.processBot(ctx, matchState, dispatcher, logger)
	return matchState
}

// processBot lets the enemy act once its random delay has elapsed.
func (mh *matchHandler) processBot(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	f := state.Fight
	if f == nil || f.Phase != domain.PhasePlaying || f.Turn != domain.SeatEnemy {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		delay := state.BotMinDelay
		if state.BotMaxDelay > state.BotMinDelay {
			delay += state.Rand.Intn(state.BotMaxDelay - state.BotMinDelay + 1)
		}
		state.BotWaitUntil = state.Tick + int64(delay)
		logger.Debug("processBot: %s will act at tick %d (current %d)", state.Enemy.Name, state.BotWaitUntil, state.Tick)
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	events, err := state.App.TakeAITurn(f, state.Agent)
	if err != nil {
		logger.Error("processBot: %s failed to move: %v", state.Enemy.Name, err)
		return
	}
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handleStartFight(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	logger.Info("StartFight: Request received from %s (phase=%s)", senderID, state.phase())

	if senderID != state.UserID {
		logger.Warn("StartFight: User %s tried to start a fight they do not own.", senderID)
		return
	}
	if state.phase() == domain.PhasePlaying {
		mh.sendError(state, dispatcher, logger, 409, "fight already in progress")
		return
	}

	name := senderID
	if state.Presence != nil && state.Presence.GetUsername() != "" {
		name = state.Presence.GetUsername()
	}
	player := domain.NewCombatant(name, state.Config.Fight.PlayerHP)
	enemy, err := state.Enemy.Combatant()
	if err != nil {
		logger.Error("StartFight: %v", err)
		mh.sendError(state, dispatcher, logger, 500, "enemy unavailable")
		return
	}

	fight, events, err := state.App.StartFight(player, enemy)
	if err != nil {
		logger.Error("StartFight: Failed to start fight: %v", err)
		mh.sendError(state, dispatcher, logger, 500, err.Error())
		return
	}
	state.Fight = fight
	state.Agent = bot.NewAgent(state.Enemy.Name, domain.SeatEnemy, state.Selector, state.Config.Fight.WithJokers)
	state.BotWaitUntil = 0

	mh.updateLabel(state, dispatcher, logger)
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
	logger.Info("StartFight: Fight %s started against %s.", fight.ID, state.Enemy.ID)
}

func (mh *matchHandler) handlePlayCards(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if senderID != state.UserID {
		return
	}
	if state.Fight == nil {
		logger.Warn("handlePlayCards: Fight not started.")
		mh.sendError(state, dispatcher, logger, 409, app.ErrNotPlaying.Error())
		return
	}

	var request playCardsRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Warn("handlePlayCards: Failed to unmarshal request from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, 400, "invalid payload")
		return
	}
	cards, err := cardsFromWire(request.Cards)
	if err != nil {
		mh.sendError(state, dispatcher, logger, 400, err.Error())
		return
	}

	events, err := state.App.PlayCards(state.Fight, domain.SeatPlayer, cards)
	if err != nil {
		logger.Warn("handlePlayCards: User %s failed to play %s: %v. Hand: %s", senderID, domain.FormatCards(cards), err, domain.FormatCards(state.Fight.Sides[domain.SeatPlayer].Hand))
		mh.sendError(state, dispatcher, logger, errorCode(err), err.Error())
		return
	}
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handlePassTurn(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if senderID != state.UserID {
		return
	}
	if state.Fight == nil {
		logger.Warn("handlePassTurn: Fight not started.")
		mh.sendError(state, dispatcher, logger, 409, app.ErrNotPlaying.Error())
		return
	}

	events, err := state.App.Pass(state.Fight, domain.SeatPlayer)
	if err != nil {
		logger.Warn("handlePassTurn: User %s failed to pass: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, errorCode(err), err.Error())
		return
	}
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
}

// errorCode maps fight errors to the code sent with fight_error.
func errorCode(err error) int {
	switch {
	case errors.Is(err, app.ErrNotPlaying), errors.Is(err, app.ErrNotYourTurn):
		return 409
	case errors.Is(err, app.ErrComboBanned):
		return 403
	default:
		return 400
	}
}

// dispatchEvents feeds the enemy's memory, then relays the events to the player.
func (mh *matchHandler) dispatchEvents(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	app.NotifyAgents(events, state.Agent)
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	opCode, fields, err := eventMessage(ev)
	if err != nil {
		logger.Warn("broadcastEvent: %v", err)
		return
	}

	if p, ok := ev.Payload.(app.FightEndedPayload); ok {
		if receipt := mh.finishFight(ctx, state, logger, p); receipt != "" {
			fields["receipt"] = receipt
		}
		mh.updateLabel(state, dispatcher, logger)
	}

	// Private events go to their seat only; the enemy seat has no presence.
	if len(ev.Recipients) > 0 {
		private := false
		for _, seat := range ev.Recipients {
			if seat == domain.SeatPlayer {
				private = true
			}
		}
		if !private {
			return
		}
	}
	if state.Presence == nil {
		return
	}

	data, err := encodeMessage(fields)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}
	if err := dispatcher.BroadcastMessage(opCode, data, []runtime.Presence{state.Presence}, nil, true); err != nil {
		logger.Error("Failed to send event %v: %v", ev.Kind, err)
	}
}

// finishFight signs and stores the result. It returns the receipt, if any.
func (mh *matchHandler) finishFight(ctx context.Context, state *MatchState, logger runtime.Logger, p app.FightEndedPayload) string {
	var receipt string
	if state.Receipts.Enabled() {
		r, err := state.Receipts.Issue(state.UserID, state.Enemy.ID, p)
		if err != nil {
			logger.Error("FightEnded: Failed to issue receipt for %s: %v", p.FightID, err)
		} else {
			receipt = r
		}
	}

	if state.Results != nil {
		rec := ports.FightRecord{
			FightID: p.FightID,
			UserID:  state.UserID,
			Enemy:   state.Enemy.ID,
			Won:     p.Winner == domain.SeatPlayer,
			Turns:   p.Turns,
			HP:      p.HP[domain.SeatPlayer],
			Receipt: receipt,
		}
		if err := state.Results.RecordResult(ctx, rec); err != nil {
			logger.Error("FightEnded: Failed to record result for %s: %v", p.FightID, err)
		}
	}

	logger.Info("FightEnded: Fight %s won by seat %d after %d turns.", p.FightID, p.Winner, p.Turns)
	return receipt
}

func (mh *matchHandler) sendState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Presence == nil || state.Fight == nil {
		return
	}
	data, err := encodeMessage(stateMessage(app.Snapshot(state.Fight, domain.SeatPlayer)))
	if err != nil {
		logger.Error("sendState: Failed to marshal state: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpState, data, []runtime.Presence{state.Presence}, nil, true)
}

// sendError sends a fight_error message to the player.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, code int, message string) {
	if state.Presence == nil {
		logger.Warn("Cannot send error to %s: Presence not found", state.UserID)
		return
	}
	data, err := encodeMessage(map[string]interface{}{"code": code, "message": message})
	if err != nil {
		logger.Error("Failed to marshal fight error: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpFightError, data, []runtime.Presence{state.Presence}, nil, true)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := labelString(state.label())
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated with %d grace seconds", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
