package mahjong

type TurnState int

const (
	DrawTurn TurnState = iota // 从牌山摸牌
	QuadTurn                  // 杠后从岭上摸牌
	CallTurn                  // 鸣牌后直接出牌，不摸牌
)

func (s TurnState) String() string {
	switch s {
	case DrawTurn:
		return "DrawTurn"
	case QuadTurn:
		return "QuadTurn"
	case CallTurn:
		return "CallTurn"
	default:
		return "Unknown"
	}
}

// TurnManager 轮到谁、处于什么阶段，以及第一巡的追踪
type TurnManager struct {
	Pointer Wind      // 当前行动的风位
	State   TurnState // 当前回合状态

	firstAround   bool     // 第一巡未被鸣牌或杠打断
	firstDiscards int      // 第一巡无人鸣的打牌数
	windRun       bool     // 第一巡打出的是否都是同一种风牌
	windFace      TileType // 第一张打出的风牌
}

// NewTurnManager 庄家（东）摸牌开局
func NewTurnManager() *TurnManager {
	return &TurnManager{
		Pointer:     WindEast,
		State:       DrawTurn,
		firstAround: true,
		windRun:     true,
	}
}

// NextTurn 下家摸牌
func (tm *TurnManager) NextTurn() Wind {
	tm.Pointer = tm.Pointer.Next()
	tm.State = DrawTurn
	return tm.Pointer
}

// Appoint 鸣牌或杠后指定行动者和阶段
func (tm *TurnManager) Appoint(w Wind, state TurnState) {
	tm.Pointer = w
	tm.State = state
}

func (tm *TurnManager) FirstAround() bool {
	return tm.firstAround
}

// Interrupt 鸣牌或杠打断第一巡
func (tm *TurnManager) Interrupt() {
	tm.firstAround = false
}

// RecordUncalledDiscard 第一巡无人鸣的打牌，返回是否构成四风连打
func (tm *TurnManager) RecordUncalledDiscard(t TileType) bool {
	if !tm.firstAround {
		return false
	}
	tm.firstDiscards++
	if tm.firstDiscards == 1 {
		tm.windFace = t
		tm.windRun = t.IsWind()
	} else {
		tm.windRun = tm.windRun && t == tm.windFace
	}
	if tm.firstDiscards < 4 {
		return false
	}
	tm.firstAround = false
	return tm.windRun
}
