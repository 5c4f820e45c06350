package scheduler

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fairway-league/golfer/backend/internal/domain"
)

func testPlayers(n int) []domain.Player {
	players := make([]domain.Player, n)
	for i := range players {
		players[i] = domain.Player{ID: int64(i + 1), Nickname: fmt.Sprintf("p%d", i+1)}
	}
	return players
}

func testDate(date string, times []string, players ...domain.Player) *domain.EventDate {
	return &domain.EventDate{EventID: 7, Date: date, Times: times, Players: players}
}

func testParameters(clean, probe int32) *Parameters {
	return &Parameters{
		CleanCount: clean,
		ProbeCount: probe,
		Seed:       20240601,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func newTestScheduler(t *testing.T, dates ...*domain.EventDate) *Scheduler {
	t.Helper()
	s, err := New(testParameters(1000, 2), nil, dates)
	require.NoError(t, err)
	return s
}

// TestEvaluateDeterministic: two evaluations of the same matrix agree on cost and metrics.
func TestEvaluateDeterministic(t *testing.T) {
	p := testPlayers(8)
	s := newTestScheduler(t,
		testDate("2024-06-01", []string{"08:00", "08:10"}, p[0], p[1], p[2], p[3], p[4], p[5], p[6]),
		testDate("2024-06-08", []string{"08:00", "08:10"}, p[7], p[6], p[5], p[4], p[3], p[2], p[1], p[0]),
		testDate("2024-06-15", []string{"08:00"}, p[0], p[2], p[4], p[6]),
	)
	m := s.sample(s.initMatrix())
	e := s.Evaluator()

	first := e.Evaluate(m)
	firstMetrics := e.Metrics()
	firstCounts := e.Counts()

	// 中间评价另一个排列，计数数组会被覆盖
	e.Evaluate(s.initMatrix())

	require.Equal(t, first, e.Evaluate(m))
	require.Equal(t, firstMetrics, e.Metrics())
	require.Equal(t, firstCounts, e.Counts())
}

// TestEvaluateSingleTeamSymmetric: one date, one slot, two players; order does not matter.
func TestEvaluateSingleTeamSymmetric(t *testing.T) {
	p := testPlayers(2)
	s := newTestScheduler(t, testDate("2024-06-01", []string{"08:00"}, p[0], p[1]))
	e := s.Evaluator()

	ab := e.Evaluate(Matrix{{0, 1}})
	abMetrics := e.Metrics()
	ba := e.Evaluate(Matrix{{1, 0}})

	require.Equal(t, ab, ba)

	// 只有队长、独自一车和司机/乘客相关的指标可能非零
	require.InDelta(t, 0.5, abMetrics.Capt, 1e-12)
	require.InDelta(t, 1.0, abMetrics.Diff, 1e-12)
	require.Zero(t, abMetrics.Self)
	require.Zero(t, abMetrics.Part)
	require.Zero(t, abMetrics.Team)
	require.Zero(t, abMetrics.Cseq)
	require.Zero(t, abMetrics.Dseq)
	require.Zero(t, abMetrics.Pseq)
	require.Zero(t, abMetrics.Sseq)
	require.Zero(t, abMetrics.Tseq)
	require.Zero(t, abMetrics.Xtra)
}

// TestEvaluateOddTeam: five players in one slot leave one player alone in a cart.
func TestEvaluateOddTeam(t *testing.T) {
	p := testPlayers(5)
	s := newTestScheduler(t, testDate("2024-06-01", []string{"08:00"}, p...))
	e := s.Evaluator()

	e.Evaluate(Matrix{{0, 1, 2, 3, 4}})
	c := e.Counts()

	require.Equal(t, []float64{0, 0, 0, 0, 1}, c.Self)
	require.Equal(t, 1.0, c.Part[4][4], "lone player pairs with self")
	require.Equal(t, 1.0, c.Part[0][1])
	require.Equal(t, 1.0, c.Part[1][0])
	require.Equal(t, 1.0, c.Part[2][3])
	require.Equal(t, 1.0, c.Part[3][2])
	require.Equal(t, []float64{1, -1, 1, -1, 0}, c.Diff)
	require.Equal(t, []float64{1, 0, 0, 0, 0}, c.Capt)
	for i := 0; i < 5; i++ {
		require.Equal(t, 1.0, c.Team[i][i], "diagonal is days played")
	}
}

// TestEvaluateSequentialCounts: the same foursome twice in a row repeats every pairing.
func TestEvaluateSequentialCounts(t *testing.T) {
	p := testPlayers(2)
	s := newTestScheduler(t,
		testDate("2024-06-01", []string{"08:00"}, p[0], p[1]),
		testDate("2024-06-08", []string{"08:00"}, p[0], p[1]),
	)
	e := s.Evaluator()

	e.Evaluate(Matrix{{0, 1}, {0, 1}})
	c := e.Counts()

	require.Equal(t, 1.0, c.Tseq[0][1])
	require.Equal(t, 1.0, c.Tseq[1][0])
	require.Zero(t, c.Tseq[0][0])
	require.Equal(t, 1.0, c.Pseq[0][1])
	require.Equal(t, 1.0, c.Pseq[1][0])
	require.Equal(t, []float64{1, 1}, c.Dseq, "driver drives again, passenger rides again")
	require.Equal(t, []float64{0, 0}, c.Cseq, "sequential captaincy is only counted from the third date")

	// 交换第二天的顺序后，司机和乘客互换，不再连续
	e.Evaluate(Matrix{{0, 1}, {1, 0}})
	c = e.Counts()
	require.Equal(t, []float64{0, 0}, c.Dseq)
	require.Equal(t, 1.0, c.Pseq[0][1], "still the same cart partner")
}

// TestEvaluateLoneRepeat: riding alone on consecutive dates counts as a sequential single.
func TestEvaluateLoneRepeat(t *testing.T) {
	p := testPlayers(3)
	s := newTestScheduler(t,
		testDate("2024-06-01", []string{"08:00"}, p...),
		testDate("2024-06-08", []string{"08:00"}, p...),
	)
	e := s.Evaluator()

	e.Evaluate(Matrix{{0, 1, 2}, {1, 0, 2}})
	c := e.Counts()
	require.Equal(t, []float64{0, 0, 2}, c.Self)
	require.Equal(t, []float64{0, 0, 1}, c.Sseq)
	require.Equal(t, 1.0, c.Dseq[2], "alone counts as driving")
}

// TestEvaluateLastDateCaptain: the last date discounts captaincy by a quarter.
func TestEvaluateLastDateCaptain(t *testing.T) {
	p := testPlayers(2)
	s := newTestScheduler(t,
		testDate("2024-06-01", []string{"08:00"}, p[0], p[1]),
		testDate("2024-06-08", []string{"08:00"}, p[0], p[1]),
		testDate("2024-06-15", []string{"08:00"}, p[0], p[1]),
	)
	e := s.Evaluator()

	e.Evaluate(Matrix{{0, 1}, {0, 1}, {0, 1}})
	c := e.Counts()
	require.Equal(t, []float64{2.75, 0}, c.Capt)
	require.Equal(t, []float64{1, 0}, c.Cseq)
}

// TestEvaluateXtra: the patch term is the shortfall of weighted team vs cart imbalance.
func TestEvaluateXtra(t *testing.T) {
	p := testPlayers(6)
	s := newTestScheduler(t,
		testDate("2024-06-01", []string{"08:00", "08:10"}, p...),
		testDate("2024-06-08", []string{"08:00", "08:10"}, p...),
	)
	e := s.Evaluator()
	w := DefaultWeights()

	e.Evaluate(Matrix{{0, 1, 2, 3, 4, 5}, {0, 3, 1, 4, 2, 5}})
	mt := e.Metrics()

	want := max(w.Part*mt.Part-w.Team*mt.Team, 0)
	require.InDelta(t, want, mt.Xtra, 1e-12)
}
