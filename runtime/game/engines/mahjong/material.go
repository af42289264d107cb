package mahjong

import "fmt"

type Wind int

const (
	WindEast  Wind = iota // 东风
	WindSouth             // 南风
	WindWest              // 西风
	WindNorth             // 北风
)

// Winds 固定的通知顺序 东→南→西→北
var Winds = [4]Wind{WindEast, WindSouth, WindWest, WindNorth}

func (w Wind) String() string {
	switch w {
	case WindEast:
		return "东"
	case WindSouth:
		return "南"
	case WindWest:
		return "西"
	case WindNorth:
		return "北"
	default:
		return "未知"
	}
}

func (w Wind) Next() Wind {
	return (w + 1) % 4
}

func (w Wind) Prev() Wind {
	return (w + 3) % 4
}

// SideOf other 相对于 w 的方位
func (w Wind) SideOf(other Wind) Side {
	return Side((other - w + 4) % 4)
}

// Of w 视角下 side 方位的风
func (w Wind) Of(side Side) Wind {
	return (w + Wind(side)) % 4
}

// TileType 风牌对应的字牌
func (w Wind) TileType() TileType {
	return East + TileType(w)
}

// Side 相对方位：自家、下家、对家、上家
type Side int

const (
	SideSelf   Side = iota // 自家
	SideRight              // 下家
	SideAcross             // 对家
	SideLeft               // 上家
)

func (s Side) String() string {
	switch s {
	case SideSelf:
		return "自家"
	case SideRight:
		return "下家"
	case SideAcross:
		return "对家"
	case SideLeft:
		return "上家"
	default:
		return "未知"
	}
}

// Compose 方位叠加：s 方位的人看过去的 o 方位
func (s Side) Compose(o Side) Side {
	return (s + o) % 4
}

// Inverse 对方看自己的方位
func (s Side) Inverse() Side {
	return (4 - s) % 4
}

type TileType int

const (
	// 万子 (0-8)
	Man1 TileType = iota
	Man2
	Man3
	Man4
	Man5
	Man6
	Man7
	Man8
	Man9

	// 筒子 (9-17)
	Pin1
	Pin2
	Pin3
	Pin4
	Pin5
	Pin6
	Pin7
	Pin8
	Pin9

	// 索子 (18-26)
	So1
	So2
	So3
	So4
	So5
	So6
	So7
	So8
	So9

	// 字牌 (27-33)
	East
	South
	West
	North
	White
	Green
	Red
)

const (
	TileKinds = 34
	TileLimit = 136
)

func (t TileType) IsNumbered() bool {
	return t >= Man1 && t <= So9
}

func (t TileType) IsHonor() bool {
	return t >= East && t <= Red
}

func (t TileType) IsWind() bool {
	return t >= East && t <= North
}

func (t TileType) IsDragon() bool {
	return t >= White && t <= Red
}

// IsTerminal 老头牌：数牌 1、9
func (t TileType) IsTerminal() bool {
	return t.IsNumbered() && (t.Number() == 1 || t.Number() == 9)
}

// IsOrphan 幺九牌：老头牌和字牌
func (t TileType) IsOrphan() bool {
	return t.IsTerminal() || t.IsHonor()
}

func (t TileType) IsFive() bool {
	return t == Man5 || t == Pin5 || t == So5
}

// Suit 花色 0 万 1 筒 2 索，字牌 -1
func (t TileType) Suit() int {
	if !t.IsNumbered() {
		return -1
	}
	return int(t) / 9
}

// Number 数牌的数字 1-9，字牌 0
func (t TileType) Number() int {
	if !t.IsNumbered() {
		return 0
	}
	return int(t)%9 + 1
}

// Shift 同花色内平移，越界返回 false
func (t TileType) Shift(n int) (TileType, bool) {
	if !t.IsNumbered() {
		return t, false
	}
	num := t.Number() + n
	if num < 1 || num > 9 {
		return t, false
	}
	return TileType(t.Suit()*9 + num - 1), true
}

// DoraOf 指示牌对应的宝牌
func (t TileType) DoraOf() TileType {
	switch {
	case t.IsNumbered():
		if t.Number() == 9 {
			return TileType(t.Suit() * 9)
		}
		return t + 1
	case t.IsWind():
		if t == North {
			return East
		}
		return t + 1
	default:
		if t == Red {
			return White
		}
		return t + 1
	}
}

var tileTypeNames = [TileKinds]string{
	"1m", "2m", "3m", "4m", "5m", "6m", "7m", "8m", "9m",
	"1p", "2p", "3p", "4p", "5p", "6p", "7p", "8p", "9p",
	"1s", "2s", "3s", "4s", "5s", "6s", "7s", "8s", "9s",
	"E", "S", "W", "N", "P", "F", "C",
}

func (t TileType) String() string {
	if t < 0 || int(t) >= TileKinds {
		return fmt.Sprintf("TileType(%d)", int(t))
	}
	return tileTypeNames[t]
}

type Tile struct {
	Type TileType
	ID   int  // 用于区分相同的牌（0-3）
	Red  bool // 赤宝牌
}

// Same 只比较牌面，不区分赤牌
func (t Tile) Same(o Tile) bool {
	return t.Type == o.Type
}

// Identical 同一张实体牌
func (t Tile) Identical(o Tile) bool {
	return t.Type == o.Type && t.ID == o.ID
}

func (t Tile) String() string {
	if t.Red {
		return "0" + t.Type.String()[1:]
	}
	return t.Type.String()
}

type MeldType int

const (
	MeldChi   MeldType = iota // 吃
	MeldPeng                  // 碰
	MeldGang                  // 明杠（大明杠）
	MeldAnkan                 // 暗杠
	MeldKakan                 // 加杠
)

func (m MeldType) String() string {
	switch m {
	case MeldChi:
		return "Chi"
	case MeldPeng:
		return "Peng"
	case MeldGang:
		return "Gang"
	case MeldAnkan:
		return "Ankan"
	case MeldKakan:
		return "Kakan"
	default:
		return "Unknown"
	}
}

type Meld struct {
	Type   MeldType
	Tiles  []Tile
	From   Side // 从哪个方位获得，暗杠为 SideSelf
	Called Tile // 鸣到的那张牌，暗杠无意义
}

func (m Meld) IsQuad() bool {
	return m.Type == MeldGang || m.Type == MeldAnkan || m.Type == MeldKakan
}

// IsConcealed 只有暗杠算门清
func (m Meld) IsConcealed() bool {
	return m.Type == MeldAnkan
}

func (m Meld) IsTriplet() bool {
	return m.Type == MeldPeng || m.IsQuad()
}

func (m Meld) String() string {
	return fmt.Sprintf("%s%v", m.Type, m.Tiles)
}
