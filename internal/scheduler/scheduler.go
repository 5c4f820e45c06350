package scheduler

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/fairway-league/golfer/backend/internal/domain"
)

// Scheduler 使用 Monte Carlo 探测 + 局部搜索为赛事的每个比赛日分组
//
// 单次采样容易陷入局部最优，因此使用多次较小的随机探测：
// 每次探测在连续 CleanCount/ProbeCount 次采样都没有改进后结束，然后反复做局部搜索直到收敛；
// 连续 ProbeCount 次探测都没有得到更好的结果时整个过程结束。
//
// Schedule 只能在一个 goroutine 中运行，Progress 可以在其他 goroutine 中调用。
type Scheduler struct {
	parameters Parameters
	logger     *slog.Logger
	eventID    int64
	players    []domain.Player // 全局球员列表，去重
	rounds     []round
	days       []float64 // [player] 出场天数
	evaluator  *Evaluator
	rng        *rand.Rand

	best        Matrix // 当前探测中的最优排列
	work        Matrix // 正在评价的候选排列
	cleanProbe  int64  // 每次探测所需的无改进采样次数
	logInterval int64
	iteration   int64

	probeCount atomic.Int64 // 连续没有改进的探测次数
	cleanCount atomic.Int64 // 当前探测中连续没有改进的采样次数
}

// Result 分组结果
type Result struct {
	Teams        []domain.EventTeam
	Cost         float64
	Diagnostics  Diagnostics
	Iterations   int64
	Improvements []float64 // 依次采用的最优代价，第一个为未打乱排列的代价
}

// New 创建 Scheduler
// roster 为 nil 时，按照球员在比赛日中第一次出现的顺序生成全局球员列表
func New(parameters *Parameters, roster []domain.Player, dates []*domain.EventDate) (*Scheduler, error) {
	p := parameters.withDefaults()

	if len(dates) == 0 {
		return nil, ErrNoDates
	}

	s := &Scheduler{
		parameters: p,
		logger:     p.Logger,
		eventID:    dates[0].EventID,
		players:    make([]domain.Player, 0, len(roster)),
		rounds:     make([]round, 0, len(dates)),
	}

	index := make(map[int64]int)
	for _, player := range roster {
		if _, exists := index[player.ID]; exists {
			return nil, fmt.Errorf("%w: 名单中的球员 %d (%s)", ErrDuplicatePlayer, player.ID, player.Nickname)
		}
		index[player.ID] = len(s.players)
		s.players = append(s.players, player)
	}

	for _, date := range dates {
		if len(date.Times) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoTimeSlots, date.Date)
		}
		if len(date.Players) < len(date.Times) {
			return nil, fmt.Errorf("%w: %s 有 %d 名球员，%d 个开球时间", ErrUnderfilledDate, date.Date, len(date.Players), len(date.Times))
		}

		r := round{
			date:    date.Date,
			times:   date.Times,
			players: make([]int, 0, len(date.Players)),
		}

		seen := make(map[int64]bool, len(date.Players))
		for _, player := range date.Players {
			if seen[player.ID] {
				return nil, fmt.Errorf("%w: %s 的球员 %d (%s)", ErrDuplicatePlayer, date.Date, player.ID, player.Nickname)
			}
			seen[player.ID] = true

			ix, exists := index[player.ID]
			if !exists {
				if roster != nil {
					return nil, fmt.Errorf("%w: %s 的球员 %d (%s)", ErrUnknownPlayer, date.Date, player.ID, player.Nickname)
				}
				ix = len(s.players)
				index[player.ID] = ix
				s.players = append(s.players, player)
			}
			r.players = append(r.players, ix)
		}

		s.rounds = append(s.rounds, r)
	}

	s.days = make([]float64, len(s.players))
	for _, r := range s.rounds {
		for _, ix := range r.players {
			s.days[ix]++
		}
	}
	for ix, d := range s.days {
		if d == 0 {
			return nil, fmt.Errorf("%w: %d (%s)", ErrPlayerNeverPlays, s.players[ix].ID, s.players[ix].Nickname)
		}
	}

	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s.rng = rand.New(rand.NewSource(seed))
	s.evaluator = newEvaluator(s.rounds, s.days, p.Weights)

	s.cleanProbe = max(int64(p.CleanCount/p.ProbeCount), 1)
	s.logInterval = max(int64(p.CleanCount/100), 1)

	s.logger.Debug("创建分组器",
		"cleanCount", p.CleanCount,
		"probeCount", p.ProbeCount,
		"seed", seed,
		"players", len(s.players),
		"dates", len(s.rounds),
	)

	return s, nil
}

// Evaluator 返回内部使用的评价器，不能在 Schedule 运行期间使用
func (s *Scheduler) Evaluator() *Evaluator {
	return s.evaluator
}

// Players 返回全局球员列表，下标即 Matrix 中的值
func (s *Scheduler) Players() []domain.Player {
	return s.players
}

// Schedule 运行完整的探测过程并返回最优的分组
func (s *Scheduler) Schedule() (*Result, error) {
	s.best = s.initMatrix()
	s.work = s.initMatrix()

	// 第一个"探测"是未打乱的排列
	bestProbe := s.initMatrix()
	bestCost := s.evaluator.Evaluate(bestProbe)
	improvements := []float64{bestCost}

	s.iteration = 0
	s.probeCount.Store(0)
	s.cleanCount.Store(0)

	limit := int64(s.parameters.ProbeCount)
	for s.probeCount.Load() < limit {
		probeCost := s.probe()
		s.logger.Info("探测结果", "priorBest", bestCost, "thisProbe", probeCost)

		if probeCost < bestCost {
			s.probeCount.Store(0)
			bestCost = probeCost
			bestProbe.CopyFrom(s.best)
			improvements = append(improvements, bestCost)

			s.evaluator.Evaluate(bestProbe)
			diag := newDiagnostics(s.parameters.Weights, s.evaluator.Metrics(), bestCost)
			s.logger.Info("找到更优的分组", diag.LogAttrs()...)
		} else {
			s.probeCount.Add(1)
		}
	}

	s.best.CopyFrom(bestProbe)
	cost := s.evaluator.Evaluate(s.best)
	diag := newDiagnostics(s.parameters.Weights, s.evaluator.Metrics(), cost)
	s.logger.Info("分组完成", append(diag.LogAttrs(), "iterations", s.iteration)...)

	teams, err := s.teams(s.best)
	if err != nil {
		return nil, err
	}

	return &Result{
		Teams:        teams,
		Cost:         cost,
		Diagnostics:  diag,
		Iterations:   s.iteration,
		Improvements: improvements,
	}, nil
}

// Progress 返回 [0, 1] 之间的进度估计，可以在其他 goroutine 中调用
func (s *Scheduler) Progress() float64 {
	factor := 1.0 / float64(s.parameters.ProbeCount)
	result := factor * float64(s.probeCount.Load())
	result += factor * float64(s.cleanCount.Load()) / float64(s.cleanProbe)
	return min(max(result, 0), 1)
}

// teams 将排列转换为每个 (比赛日, 开球时间) 一条的队伍记录
func (s *Scheduler) teams(m Matrix) ([]domain.EventTeam, error) {
	count := 0
	for _, r := range s.rounds {
		count += len(r.times)
	}

	result := make([]domain.EventTeam, 0, count)
	for d, r := range s.rounds {
		for t, team := range Teams(m[d], len(r.times)) {
			players := make([]domain.Player, len(team))
			for i, ix := range team {
				players[i] = s.players[ix]
			}
			result = append(result, domain.EventTeam{
				EventID: s.eventID,
				Date:    r.date,
				Time:    r.times[t],
				Players: players,
			})
		}
	}

	if len(result) != count {
		return nil, fmt.Errorf("队伍数量 %d 与开球时间数量 %d 不一致", len(result), count)
	}

	return result, nil
}
