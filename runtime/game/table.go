package game

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"gomahjong/common/config"
	"gomahjong/common/log"
	"gomahjong/core/domain/entity"
	"gomahjong/core/domain/repository"
	"gomahjong/core/infrastructure/message"
	"gomahjong/runtime/game/engines/mahjong"

	"github.com/google/uuid"
)

const (
	GameTypeRiichi4p = "riichi_mahjong_4p"

	LengthEast  = "east"  // 东风战
	LengthSouth = "south" // 半庄战

	saveGameTimeout = 5 * time.Second
)

// ErrPointsNotConserved 点数加供托不守恒，对局作废
var ErrPointsNotConserved = errors.New("点数不守恒")

// TableConfig 一场对局，Players/Agents 按起家座位（0 为起家）索引
type TableConfig struct {
	GameID    string
	Players   [4]string
	Agents    [4]mahjong.Agent
	Rule      config.RuleConf
	Scorer    mahjong.ScoringEngine
	Searcher  *mahjong.Searcher
	Repo      repository.GameRecordRepository // 可选
	Publisher message.Publisher               // 可选
	Subject   string
	Observers []mahjong.Observer
	// NewWall 每局的牌山，nil 时按规则洗牌
	NewWall func(round int) mahjong.TileSource
}

// TableResult 终局结果，按起家座位索引
type TableResult struct {
	GameID   string
	Points   [4]int
	Ranks    [4]int
	Deposits int // 终局时交给第一名之前的供托
	Rounds   []*mahjong.RoundOutcome
}

// Table 连续打多局：连庄、本场、供托、终局判定
type Table struct {
	cfg      TableConfig
	initial  int
	mediator *mahjong.CallMediator

	points      [4]int // 按起家座位
	dealer      int    // 当前庄家的起家座位
	roundWind   mahjong.Wind
	roundNumber int
	honba       int
	deposits    int
	rounds      []*mahjong.RoundOutcome
}

func NewTable(cfg TableConfig) (*Table, error) {
	for i, a := range cfg.Agents {
		if a == nil {
			return nil, fmt.Errorf("座位 %d 没有 Agent", i)
		}
	}
	if cfg.Scorer == nil {
		return nil, errors.New("缺少 ScoringEngine")
	}
	switch cfg.Rule.Length {
	case "":
		cfg.Rule.Length = LengthSouth
	case LengthEast, LengthSouth:
	default:
		return nil, fmt.Errorf("未知的对局长度: %s", cfg.Rule.Length)
	}
	if cfg.GameID == "" {
		cfg.GameID = uuid.NewString()
	}
	initial := cfg.Rule.InitialPoint
	if initial <= 0 {
		initial = config.DefaultInitialPoint
	}

	t := &Table{
		cfg:         cfg,
		initial:     initial,
		mediator:    mahjong.NewCallMediator(cfg.Rule.CallTimeout()),
		roundWind:   mahjong.WindEast,
		roundNumber: 1,
	}
	for i := range t.points {
		t.points[i] = initial
	}
	return t, nil
}

func (t *Table) GameID() string {
	return t.cfg.GameID
}

// playerAt 风位 w 上坐的起家座位
func (t *Table) playerAt(w mahjong.Wind) int {
	return (t.dealer + int(w)) % 4
}

// Run 打到终局，违反不变量或点数不守恒时返回错误
func (t *Table) Run(ctx context.Context) (*TableResult, error) {
	record := entity.NewGameRecord(t.cfg.GameID, GameTypeRiichi4p, t.cfg.Rule.Length, t.playerInfos())
	log.Info("对局 %s 开始, 长度:%s 初始点数:%d", t.cfg.GameID, t.cfg.Rule.Length, t.initial)

	for {
		outcome, err := t.playRound(ctx)
		if err != nil {
			record.AbortGame(len(t.rounds), err.Error())
			t.saveGameRecord(record)
			return nil, err
		}
		t.rounds = append(t.rounds, outcome)

		if err := t.checkConservation(); err != nil {
			record.AbortGame(len(t.rounds), err.Error())
			t.saveGameRecord(record)
			return nil, err
		}
		if t.advance(outcome.Result) {
			break
		}
	}

	result := t.finish()
	record.CompleteGame(len(t.rounds), t.finalResult(result))
	t.saveGameRecord(record)
	log.Info("对局 %s 结束, 共 %d 局, 点数 %v 顺位 %v", t.cfg.GameID, len(t.rounds), result.Points, result.Ranks)
	return result, nil
}

func (t *Table) playRound(ctx context.Context) (*mahjong.RoundOutcome, error) {
	roundID := uuid.NewString()
	situation := mahjong.Situation{
		RoundWind:   t.roundWind,
		RoundNumber: t.roundNumber,
		Honba:       t.honba,
		Deposits:    t.deposits,
	}

	var (
		points [4]int
		agents [4]mahjong.Agent
	)
	for _, w := range mahjong.Winds {
		p := t.playerAt(w)
		points[w] = t.points[p]
		agents[w] = t.cfg.Agents[p]
	}

	observers := append([]mahjong.Observer{mahjong.LogObserver{}}, t.cfg.Observers...)
	var recorder *mahjong.RoundRecorder
	if t.cfg.Repo != nil {
		recorder = mahjong.NewRoundRecorder(t.cfg.Repo, t.cfg.GameID, roundID)
		observers = append(observers, recorder)
	}
	if t.cfg.Publisher != nil {
		observers = append(observers, NewPublishObserver(t.cfg.Publisher, t.cfg.Subject, t.cfg.GameID))
	}

	rd := mahjong.NewRound(mahjong.RoundConfig{
		Situation: situation,
		Points:    points,
		Agents:    agents,
		Wall:      t.wallFor(len(t.rounds)),
		Scorer:    t.cfg.Scorer,
		Mediator:  t.mediator,
		Searcher:  t.cfg.Searcher,
		Observers: observers,
	})
	outcome, err := rd.Play(ctx)
	if recorder != nil {
		if werr := recorder.Wait(); werr != nil {
			log.Warn("对局 %s 局记录 %s 保存失败: %v", t.cfg.GameID, roundID, werr)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%s%d局 %d本场: %w", t.roundWind, t.roundNumber, t.honba, err)
	}

	for _, w := range mahjong.Winds {
		t.points[t.playerAt(w)] = outcome.After.Points[w]
	}
	t.deposits = outcome.After.Deposits
	return outcome, nil
}

func (t *Table) wallFor(round int) mahjong.TileSource {
	if t.cfg.NewWall != nil {
		return t.cfg.NewWall(round)
	}
	var seed int64
	if t.cfg.Rule.Seed != 0 {
		seed = t.cfg.Rule.Seed + int64(round)
	}
	return mahjong.NewWall(t.cfg.Rule.UseRedFive, seed)
}

// checkConservation 四家点数 + 供托 == 4 × 初始点数
func (t *Table) checkConservation() error {
	sum := 1000 * t.deposits
	for _, p := range t.points {
		sum += p
	}
	if sum != 4*t.initial {
		log.Error("对局 %s 点数不守恒: %v 供托 %d", t.cfg.GameID, t.points, t.deposits)
		return fmt.Errorf("对局 %s: 合计 %d, 应为 %d: %w", t.cfg.GameID, sum, 4*t.initial, ErrPointsNotConserved)
	}
	return nil
}

// advance 推进场况，返回是否终局
func (t *Table) advance(result mahjong.RoundResult) bool {
	var renchan bool
	switch {
	case result.Kind == mahjong.ResultWinning:
		renchan = slices.Contains(result.Winners, mahjong.WindEast)
	case result.EndKind.IsAbortive():
		renchan = true
	default:
		renchan = slices.Contains(result.Advantaged, mahjong.WindEast)
	}

	if result.Kind == mahjong.ResultWinning && !renchan {
		t.honba = 0
	} else {
		t.honba++
	}

	for _, p := range t.points {
		if p < 0 {
			log.Info("对局 %s 有人被飞, 终局", t.cfg.GameID)
			return true
		}
	}
	if renchan {
		return false
	}

	t.dealer = (t.dealer + 1) % 4
	t.roundNumber++
	if t.roundNumber > 4 {
		t.roundNumber = 1
		t.roundWind = t.roundWind.Next()
	}
	last := mahjong.WindSouth
	if t.cfg.Rule.Length == LengthEast {
		last = mahjong.WindEast
	}
	return t.roundWind > last
}

// finish 剩余供托归第一名
func (t *Table) finish() *TableResult {
	result := &TableResult{
		GameID:   t.cfg.GameID,
		Deposits: t.deposits,
		Rounds:   t.rounds,
	}
	result.Ranks = rankSeats(t.points)
	for i, r := range result.Ranks {
		if r == 1 {
			t.points[i] += 1000 * t.deposits
		}
	}
	t.deposits = 0
	result.Points = t.points
	return result
}

// rankSeats 同点按起家座位先后
func rankSeats(points [4]int) [4]int {
	order := []int{0, 1, 2, 3}
	slices.SortStableFunc(order, func(a, b int) int {
		return points[b] - points[a]
	})
	var ranks [4]int
	for i, seat := range order {
		ranks[seat] = i + 1
	}
	return ranks
}

func (t *Table) playerInfos() []entity.PlayerInfo {
	infos := make([]entity.PlayerInfo, 0, 4)
	for i, id := range t.cfg.Players {
		infos = append(infos, entity.PlayerInfo{UserID: id, SeatIndex: i})
	}
	return infos
}

func (t *Table) finalResult(result *TableResult) *entity.GameFinalResult {
	final := &entity.GameFinalResult{Points: result.Points, Deposits: result.Deposits}
	for i, id := range t.cfg.Players {
		final.Rankings = append(final.Rankings, entity.PlayerRanking{
			SeatIndex: i,
			UserID:    id,
			Points:    result.Points[i],
			Rank:      result.Ranks[i],
		})
	}
	slices.SortFunc(final.Rankings, func(a, b entity.PlayerRanking) int {
		return a.Rank - b.Rank
	})
	return final
}

func (t *Table) saveGameRecord(record *entity.GameRecord) {
	if t.cfg.Repo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveGameTimeout)
	defer cancel()
	if err := t.cfg.Repo.SaveGameRecord(ctx, record); err != nil {
		log.Error("对局 %s 保存对局记录失败: %v", t.cfg.GameID, err)
	}
}
