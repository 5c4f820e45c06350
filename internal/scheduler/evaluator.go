package scheduler

// Counts 一次评价过程中累计的计数，每次 Evaluate 开始时清零
type Counts struct {
	// [player]
	Capt []float64 // 担任队长次数
	Cseq []float64 // 连续担任队长次数
	Diff []float64 // 司机次数 - 乘客次数
	Dseq []float64 // 连续担任司机或连续担任乘客次数
	Self []float64 // 独自一车次数
	Sseq []float64 // 连续独自一车次数

	// [player][player]
	Part [][]float64 // 球车搭档次数，对角线为独自一车次数
	Pseq [][]float64 // 连续同一球车搭档次数
	Team [][]float64 // 同队次数，对角线为出场天数
	Tseq [][]float64 // 连续同队次数
}

func newCounts(players int) *Counts {
	square := func() [][]float64 {
		m := make([][]float64, players)
		for i := range m {
			m[i] = make([]float64, players)
		}
		return m
	}

	return &Counts{
		Capt: make([]float64, players),
		Cseq: make([]float64, players),
		Diff: make([]float64, players),
		Dseq: make([]float64, players),
		Self: make([]float64, players),
		Sseq: make([]float64, players),
		Part: square(),
		Pseq: square(),
		Team: square(),
		Tseq: square(),
	}
}

func (c *Counts) reset() {
	for _, v := range [][]float64{c.Capt, c.Cseq, c.Diff, c.Dseq, c.Self, c.Sseq} {
		clear(v)
	}
	for _, m := range [][][]float64{c.Part, c.Pseq, c.Team, c.Tseq} {
		for i := range m {
			clear(m[i])
		}
	}
}

func (c *Counts) clone() *Counts {
	out := newCounts(len(c.Capt))
	copy(out.Capt, c.Capt)
	copy(out.Cseq, c.Cseq)
	copy(out.Diff, c.Diff)
	copy(out.Dseq, c.Dseq)
	copy(out.Self, c.Self)
	copy(out.Sseq, c.Sseq)
	for i := range c.Part {
		copy(out.Part[i], c.Part[i])
		copy(out.Pseq[i], c.Pseq[i])
		copy(out.Team[i], c.Team[i])
		copy(out.Tseq[i], c.Tseq[i])
	}
	return out
}

// Metrics 各项评价结果，越小越好
type Metrics struct {
	Capt float64
	Cseq float64
	Diff float64
	Dseq float64
	Part float64
	Pseq float64
	Self float64
	Sseq float64
	Team float64
	Tseq float64
	Xtra float64
}

// Evaluator 对一个 Matrix 计算加权后的总代价
// 计数数组在多次评价之间复用，因此同一个 Evaluator 不能被并发使用
type Evaluator struct {
	rounds  []round
	days    []float64 // 每名球员的出场天数
	weights Weights

	counts  *Counts
	prev    *dayView
	cur     *dayView
	metrics Metrics
}

func newEvaluator(rounds []round, days []float64, weights Weights) *Evaluator {
	players := len(days)
	return &Evaluator{
		rounds:  rounds,
		days:    days,
		weights: weights,
		counts:  newCounts(players),
		prev:    newDayView(players),
		cur:     newDayView(players),
	}
}

// Metrics 返回最近一次 Evaluate 的各项评价结果
func (e *Evaluator) Metrics() Metrics {
	return e.metrics
}

// Counts 返回最近一次 Evaluate 的计数快照
func (e *Evaluator) Counts() *Counts {
	return e.counts.clone()
}

// Evaluate 评价一个排列，越小越好
func (e *Evaluator) Evaluate(m Matrix) float64 {
	c := e.counts
	c.reset()

	last := len(m) - 1
	for day := range m {
		slots := len(e.rounds[day].times)
		e.prev, e.cur = e.cur, e.prev
		e.cur.fill(m[day], slots)
		prev := e.prev // 仅当 day > 0 时有效

		for _, team := range Teams(m[day], slots) {
			n := len(team)

			// 队长，第一名球员为队长
			capt := team[0]
			c.Capt[capt]++
			if day > 1 {
				// 最后一天的队长通常更有经验，担任队长的代价更低
				if day == last {
					c.Capt[capt] -= 0.25
				}
				if prev.captain[capt] {
					c.Cseq[capt]++
				}
			}

			for p, playIX := range team {
				prevTeam := -1
				if day > 0 {
					prevTeam = prev.team[playIX]
				}

				// 队友计数，对角线即为出场天数
				for _, partIX := range team {
					c.Team[playIX][partIX]++
					if prevTeam >= 0 && playIX != partIX && prevTeam == prev.team[partIX] {
						c.Tseq[playIX][partIX]++
					}
				}

				if p%2 != 0 {
					continue
				}

				// 球车计数，仅在处理司机时统计
				drvr := playIX
				pass := drvr
				if p < n-1 {
					pass = team[p+1]
				}

				c.Part[drvr][pass]++
				c.Diff[drvr]++
				c.Diff[pass]--
				if drvr == pass {
					c.Self[drvr]++
					if day > 0 {
						if prev.cart[drvr] == cartDriver {
							c.Dseq[drvr]++
						}
						if prev.partner[drvr] == drvr {
							c.Sseq[drvr]++
						}
					}
					continue
				}

				c.Part[pass][drvr]++
				if day > 0 {
					if prev.cart[drvr] == cartDriver {
						c.Dseq[drvr]++
					}
					if prev.cart[pass] == cartPassenger {
						c.Dseq[pass]++
					}
					if prev.partner[drvr] == pass {
						c.Pseq[drvr][pass]++
						c.Pseq[pass][drvr]++
					}
				}
			}
		}
	}

	return e.score()
}

func (e *Evaluator) score() float64 {
	c := e.counts
	w := e.weights

	mt := Metrics{
		Capt: equalizer(c.Capt, e.days),
		Cseq: minimizerOf(c.Cseq),
		Diff: minimizerOf(c.Diff),
		Dseq: minimizerOf(c.Dseq),
		Part: deviation(c.Part, false),
		Pseq: minimizer(c.Pseq, false),
		Self: equalizer(c.Self, e.days),
		Sseq: minimizerOf(c.Sseq),
		Team: deviation(c.Team, false),
		Tseq: minimizer(c.Tseq, false),
	}

	// 补丁：队友的不均衡程度不应该比球车搭档的更"好"
	partValue := w.Part * mt.Part
	teamValue := w.Team * mt.Team
	if teamValue < partValue {
		mt.Xtra = partValue - teamValue
	}
	e.metrics = mt

	return mt.Capt*w.Capt +
		mt.Cseq*w.Cseq +
		mt.Diff*w.Diff +
		mt.Dseq*w.Dseq +
		mt.Part*w.Part +
		mt.Pseq*w.Pseq +
		mt.Self*w.Self +
		mt.Sseq*w.Sseq +
		mt.Team*w.Team +
		mt.Tseq*w.Tseq +
		mt.Xtra*w.Xtra
}
