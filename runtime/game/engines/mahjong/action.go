package mahjong

import (
	"errors"
	"fmt"
	"strings"
)

type TurnKind int

const (
	TurnTsumo     TurnKind = iota // 自摸
	TurnNineTiles                 // 九种九牌
	TurnAnkan                     // 暗杠
	TurnKakan                     // 加杠
	TurnDiscard                   // 打牌（可带立直宣言）
)

func (k TurnKind) String() string {
	switch k {
	case TurnTsumo:
		return "TSUMO"
	case TurnNineTiles:
		return "NINE_TILES"
	case TurnAnkan:
		return "ANKAN"
	case TurnKakan:
		return "KAKAN"
	case TurnDiscard:
		return "DISCARD"
	default:
		return "UNKNOWN"
	}
}

// TurnAction 摸牌后的行动。Ankan 的 Tile 为四张中的任意一张，Kakan 的 Tile 为加上去的那张
type TurnAction struct {
	Kind   TurnKind
	Tile   Tile
	Riichi bool
}

func (a TurnAction) Equal(o TurnAction) bool {
	if a.Kind != o.Kind || a.Riichi != o.Riichi {
		return false
	}
	switch a.Kind {
	case TurnTsumo, TurnNineTiles:
		return true
	default:
		return a.Tile.Identical(o.Tile)
	}
}

func (a TurnAction) String() string {
	switch a.Kind {
	case TurnTsumo, TurnNineTiles:
		return a.Kind.String()
	default:
		if a.Riichi {
			return fmt.Sprintf("%s(%s,立直)", a.Kind, a.Tile)
		}
		return fmt.Sprintf("%s(%s)", a.Kind, a.Tile)
	}
}

type CallKind int

const (
	CallPass CallKind = iota
	CallChi
	CallPeng
	CallGang
	CallRon
)

func (k CallKind) String() string {
	switch k {
	case CallPass:
		return "PASS"
	case CallChi:
		return "CHI"
	case CallPeng:
		return "PENG"
	case CallGang:
		return "GANG"
	case CallRon:
		return "RON"
	default:
		return "UNKNOWN"
	}
}

// Rank 优先级 Pass < Chi < Peng = Gang < Ron
func (k CallKind) Rank() int {
	switch k {
	case CallChi:
		return 1
	case CallPeng, CallGang:
		return 2
	case CallRon:
		return 3
	default:
		return 0
	}
}

// CallAction 对他家打出（或杠出）的牌的响应，Tiles 为从自己手里拿出的牌
type CallAction struct {
	Kind  CallKind
	Tiles []Tile
}

var (
	PassAction = CallAction{Kind: CallPass}
	RonAction  = CallAction{Kind: CallRon}
)

func (a CallAction) Equal(o CallAction) bool {
	if a.Kind != o.Kind || len(a.Tiles) != len(o.Tiles) {
		return false
	}
	for i := range a.Tiles {
		if !a.Tiles[i].Identical(o.Tiles[i]) {
			return false
		}
	}
	return true
}

func (a CallAction) String() string {
	if len(a.Tiles) == 0 {
		return a.Kind.String()
	}
	return fmt.Sprintf("%s%v", a.Kind, a.Tiles)
}

type SignedCallAction struct {
	Wind   Wind
	Action CallAction
}

type ResultKind int

const (
	ResultWinning ResultKind = iota
	ResultDraw
)

type EndKind string

const (
	RoundEndTsumo          EndKind = "TSUMO"
	RoundEndRon            EndKind = "RON"
	RoundEndDrawExhaustive EndKind = "DRAW_EXHAUSTIVE"
	RoundEndDrawNagashi    EndKind = "DRAW_NAGASHI"
	RoundEndDraw3Ron       EndKind = "DRAW_3RON"
	RoundEndDraw4Kan       EndKind = "DRAW_4KAN"
	RoundEndDraw4Wind      EndKind = "DRAW_4WIND"
	RoundEndDraw4Riichi    EndKind = "DRAW_4RIICHI"
	RoundEndDraw9Terminals EndKind = "DRAW_9TERMINALS"
)

// IsAbortive 途中流局
func (k EndKind) IsAbortive() bool {
	switch k {
	case RoundEndDraw3Ron, RoundEndDraw4Kan, RoundEndDraw4Wind, RoundEndDraw4Riichi, RoundEndDraw9Terminals:
		return true
	default:
		return false
	}
}

// RoundResult 和了时 Winners 按结算顺序排列；流局时 Advantaged 为听牌的家（流局满贯的家记在 RoundOutcome.Wins），Deposits 为留下的供托
type RoundResult struct {
	Kind       ResultKind
	EndKind    EndKind
	Winners    []Wind
	Advantaged []Wind
	Deposits   int
}

func winningResult(end EndKind, winners ...Wind) RoundResult {
	return RoundResult{Kind: ResultWinning, EndKind: end, Winners: winners}
}

func drawResult(end EndKind, deposits int, advantaged ...Wind) RoundResult {
	return RoundResult{Kind: ResultDraw, EndKind: end, Advantaged: advantaged, Deposits: deposits}
}

func (r RoundResult) IsDraw() bool {
	return r.Kind == ResultDraw
}

func (r RoundResult) String() string {
	winds := func(ws []Wind) string {
		names := make([]string, 0, len(ws))
		for _, w := range ws {
			names = append(names, w.String())
		}
		return strings.Join(names, ",")
	}
	if r.Kind == ResultWinning {
		return fmt.Sprintf("%s[%s]", r.EndKind, winds(r.Winners))
	}
	return fmt.Sprintf("%s[%s] 供托:%d", r.EndKind, winds(r.Advantaged), r.Deposits)
}

// InvariantError 状态机或集成方违反约定，整局立即中止
type InvariantError struct {
	Msg string
}

func NewInvariantError(format string, args ...any) *InvariantError {
	return &InvariantError{Msg: fmt.Sprintf(format, args...)}
}

func (e *InvariantError) Error() string {
	return "违反不变量: " + e.Msg
}

// IsInvariantError err 链上是否有 InvariantError
func IsInvariantError(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}

var ErrNotWinningHand = errors.New("不是和牌")
