package nakama

const (
	// RPC ids registered with Nakama.
	RpcClassify      = "runfast_classify"
	RpcValidPlays    = "runfast_valid_plays"
	RpcChoosePlay    = "runfast_choose_play"
	RpcQuickFight    = "runfast_quick_fight"
	RpcVerifyReceipt = "runfast_verify_receipt"

	// MatchNameRunFast is the authoritative match handler name registered with Nakama.
	MatchNameRunFast = "runfast_fight"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartFight int64 = 1
	OpPlayCards  int64 = 2
	OpPassTurn   int64 = 3

	// Server -> Client events
	OpFightStarted int64 = 101
	OpHandDealt    int64 = 102 // sent privately
	OpComboPlayed  int64 = 103
	OpTurnPassed   int64 = 104
	OpTrickCleared int64 = 105
	OpDamage       int64 = 106
	OpFightEnded   int64 = 107
	OpFightError   int64 = 108
	OpState        int64 = 109
)

// Runtime env keys and their defaults, in ticks.
const (
	envBotMinDelay = "runfast_bot_min_delay_sec"
	envBotMaxDelay = "runfast_bot_max_delay_sec"

	defaultBotMinDelay = 1
	defaultBotMaxDelay = 3

	tickRate = 1
)
