package scheduler

import (
	"slices"
)

// initMatrix 按输入顺序生成未打乱的排列
func (s *Scheduler) initMatrix() Matrix {
	m := make(Matrix, len(s.rounds))
	for i, r := range s.rounds {
		m[i] = make([]int, len(r.players))
		copy(m[i], r.players)
	}
	return m
}

// sample 对每一天的排列独立地原地洗牌（允许与自身交换）
// 所有采样共用同一个随机数生成器，固定种子时结果可复现
func (s *Scheduler) sample(m Matrix) Matrix {
	for _, row := range m {
		n := len(row)
		for j := range row {
			k := s.rng.Intn(n)
			row[j], row[k] = row[k], row[j]
		}
	}
	return m
}

// sameAttendees 判断两天的参赛球员集合是否相同（忽略顺序）
func sameAttendees(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	sa := slices.Clone(a)
	sb := slices.Clone(b)
	slices.Sort(sa)
	slices.Sort(sb)
	return slices.Equal(sa, sb)
}

// optimize 在 best 的邻域中做确定性的局部搜索
// 找到第一个严格更优的结果后立即写回 best 并返回其代价；没有找到则返回 bestCost
func (s *Scheduler) optimize(best Matrix, bestCost float64) float64 {
	swap := best.Clone()

	// 交换参赛球员相同的两天，可以绕开和比赛日顺序有关的连续性惩罚
	for i := range best {
		for j := i + 1; j < len(best); j++ {
			if !sameAttendees(best[i], best[j]) {
				continue
			}

			copy(swap[i], best[j])
			copy(swap[j], best[i])
			if cost := s.evaluator.Evaluate(swap); cost < bestCost {
				best.CopyFrom(swap)
				return cost
			}
			copy(swap[i], best[i])
			copy(swap[j], best[j])
		}
	}

	// 同一天内尝试交换任意两名球员的位置
	for d, row := range best {
		for i := range row {
			for j := i + 1; j < len(row); j++ {
				swap[d][i], swap[d][j] = row[j], row[i]
				if cost := s.evaluator.Evaluate(swap); cost < bestCost {
					best.CopyFrom(swap)
					return cost
				}
				swap[d][i], swap[d][j] = row[i], row[j]
			}
		}
	}

	// 四人队伍中交换两辆球车，只改变谁是队长所在的球车
	for d, row := range best {
		k := 0
		for _, team := range Teams(row, len(s.rounds[d].times)) {
			if len(team) == 4 {
				swap[d][k+0], swap[d][k+1] = row[k+2], row[k+3]
				swap[d][k+2], swap[d][k+3] = row[k+0], row[k+1]
				if cost := s.evaluator.Evaluate(swap); cost < bestCost {
					best.CopyFrom(swap)
					return cost
				}
				copy(swap[d][k:k+4], row[k:k+4])
			}
			k += len(team)
		}
	}

	return bestCost
}

// optimizeFully 重复 optimize 直到没有任何改进
func (s *Scheduler) optimizeFully(best Matrix, bestCost float64) float64 {
	for {
		cost := s.optimize(best, bestCost)
		if cost >= bestCost {
			return bestCost
		}
		bestCost = cost
	}
}

// probe 一次探测：从新的随机样本出发反复采样，
// 连续 cleanProbe 次没有改进后运行局部搜索直到收敛
func (s *Scheduler) probe() float64 {
	s.cleanCount.Store(0)
	s.sample(s.best) // 每次探测都必须从新的样本开始
	bestCost := s.evaluator.Evaluate(s.best)

	for s.cleanCount.Load() < s.cleanProbe {
		s.iteration++
		if s.iteration%s.logInterval == 0 {
			s.logger.Info("分组采样中", "iteration", s.iteration, "bestCost", bestCost, "progress", s.Progress())
		}

		s.work.CopyFrom(s.best)
		s.sample(s.work)
		cost := s.evaluator.Evaluate(s.work)
		if cost < bestCost {
			s.cleanCount.Store(0)
			s.best.CopyFrom(s.work)
			bestCost = cost
		} else {
			s.cleanCount.Add(1)
		}
	}

	bestCost = s.optimizeFully(s.best, bestCost)
	s.logger.Info("探测完成", "iteration", s.iteration, "bestCost", bestCost, "progress", s.Progress())

	return bestCost
}
