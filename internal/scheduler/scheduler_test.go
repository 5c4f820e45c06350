package scheduler

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/fairway-league/golfer/backend/internal/domain"
)

type SchedulerSuite struct {
	suite.Suite
	players []domain.Player
	dates   []*domain.EventDate
}

// SetupTest: two dates, two tee times, the same eight players each date.
func (s *SchedulerSuite) SetupTest() {
	s.players = testPlayers(8)
	times := []string{"08:00", "08:10"}
	s.dates = []*domain.EventDate{
		testDate("2024-06-01", times, s.players...),
		testDate("2024-06-08", times, s.players...),
	}
}

func TestSchedulerSuite(t *testing.T) {
	suite.Run(t, new(SchedulerSuite))
}

func (s *SchedulerSuite) newScheduler(clean, probe int32) *Scheduler {
	sch, err := New(testParameters(clean, probe), s.players, s.dates)
	s.Require().NoError(err)
	return sch
}

// TestScheduleProducesTeams: one team per tee time and every attendee plays exactly once per date.
func (s *SchedulerSuite) TestScheduleProducesTeams() {
	sch := s.newScheduler(2000, 4)
	result, err := sch.Schedule()
	s.Require().NoError(err)

	s.Require().Len(result.Teams, 4)

	appearances := make(map[int64]int)
	for _, team := range result.Teams {
		s.Equal(int64(7), team.EventID)
		s.Len(team.Players, 4)
		for _, p := range team.Players {
			appearances[p.ID]++
		}
	}
	s.Len(appearances, 8)
	for id, n := range appearances {
		s.Equal(2, n, "player %d", id)
	}

	// 队伍按照比赛日、开球时间的顺序输出
	s.Equal("2024-06-01", result.Teams[0].Date)
	s.Equal("08:00", result.Teams[0].Time)
	s.Equal("08:10", result.Teams[1].Time)
	s.Equal("2024-06-08", result.Teams[2].Date)
}

// TestScheduleNeverWorseThanIdentity: the final cost does not exceed the unshuffled order.
func (s *SchedulerSuite) TestScheduleNeverWorseThanIdentity() {
	sch := s.newScheduler(2000, 4)
	identity := sch.Evaluator().Evaluate(sch.initMatrix())

	result, err := sch.Schedule()
	s.Require().NoError(err)

	s.LessOrEqual(result.Cost, identity)
	s.Require().NotEmpty(result.Improvements)
	s.Equal(identity, result.Improvements[0])
	s.Equal(result.Cost, result.Improvements[len(result.Improvements)-1])
	for i := 1; i < len(result.Improvements); i++ {
		s.Less(result.Improvements[i], result.Improvements[i-1], "adopted costs strictly decrease")
	}
}

// TestScheduleDiagnostics: the final evaluation is reported as comments in a fixed order.
func (s *SchedulerSuite) TestScheduleDiagnostics() {
	sch := s.newScheduler(1000, 2)
	result, err := sch.Schedule()
	s.Require().NoError(err)

	s.Equal(result.Cost, result.Diagnostics.Cost)
	s.Require().Len(result.Diagnostics.Metrics, 11)

	comments := result.Diagnostics.Comments(7)
	s.Require().Len(comments, 13)
	s.Equal("#########", comments[0].Key)
	s.Equal("captEval:", comments[1].Key)
	s.Equal("xtraEval:", comments[11].Key)
	s.Equal("bestEval:", comments[12].Key)
	for _, c := range comments {
		s.Equal(int64(7), c.EventID)
	}
}

// TestScheduleProgress: progress ends at exactly one.
func (s *SchedulerSuite) TestScheduleProgress() {
	sch := s.newScheduler(1000, 3)
	s.Zero(sch.Progress())

	_, err := sch.Schedule()
	s.Require().NoError(err)
	s.Equal(1.0, sch.Progress())
}

// TestScheduleReproducible: a fixed seed yields the same teams.
func (s *SchedulerSuite) TestScheduleReproducible() {
	a, err := s.newScheduler(1500, 3).Schedule()
	s.Require().NoError(err)
	b, err := s.newScheduler(1500, 3).Schedule()
	s.Require().NoError(err)

	s.Equal(a.Cost, b.Cost)
	s.Equal(a.Teams, b.Teams)
	s.Equal(a.Iterations, b.Iterations)
}

// TestOptimizeFixedPoint: a fully optimized matrix is left unchanged by another pass.
func (s *SchedulerSuite) TestOptimizeFixedPoint() {
	sch := s.newScheduler(1000, 2)
	m := sch.sample(sch.initMatrix())
	cost := sch.optimizeFully(m, sch.Evaluator().Evaluate(m))

	before := m.Clone()
	s.Equal(cost, sch.optimize(m, cost))
	s.Equal(before, m)
	s.InDelta(cost, sch.Evaluator().Evaluate(m), 1e-12)
}

// TestOptimizeDaySwap: swapping two dates with identical attendees is tried first.
func (s *SchedulerSuite) TestOptimizeDaySwap() {
	sch := s.newScheduler(1000, 2)
	m := sch.initMatrix()
	cost := sch.Evaluator().Evaluate(m)

	improved := sch.optimize(m, cost)
	s.LessOrEqual(improved, cost)
	for _, row := range m {
		sorted := slices.Clone(row)
		slices.Sort(sorted)
		s.Equal([]int{0, 1, 2, 3, 4, 5, 6, 7}, sorted, "each date still holds the same attendees")
	}
}

// TestPlayersFromDates: without a roster the global list follows first appearance.
func (s *SchedulerSuite) TestPlayersFromDates() {
	dates := []*domain.EventDate{
		testDate("2024-06-01", []string{"08:00"}, s.players[3], s.players[1]),
		testDate("2024-06-08", []string{"08:00"}, s.players[1], s.players[5]),
	}
	sch, err := New(testParameters(100, 1), nil, dates)
	s.Require().NoError(err)

	ids := make([]int64, 0)
	for _, p := range sch.Players() {
		ids = append(ids, p.ID)
	}
	s.Equal([]int64{4, 2, 6}, ids)
}

func TestNewErrors(t *testing.T) {
	p := testPlayers(4)
	times := []string{"08:00"}

	tests := []struct {
		name   string
		roster []domain.Player
		dates  []*domain.EventDate
		want   error
	}{
		{
			name: "no dates",
			want: ErrNoDates,
		},
		{
			name:  "no tee times",
			dates: []*domain.EventDate{testDate("2024-06-01", nil, p...)},
			want:  ErrNoTimeSlots,
		},
		{
			name:  "more tee times than players",
			dates: []*domain.EventDate{testDate("2024-06-01", []string{"08:00", "08:10", "08:20"}, p[0], p[1])},
			want:  ErrUnderfilledDate,
		},
		{
			name:  "player twice on one date",
			dates: []*domain.EventDate{testDate("2024-06-01", times, p[0], p[1], p[0])},
			want:  ErrDuplicatePlayer,
		},
		{
			name:   "player twice in roster",
			roster: []domain.Player{p[0], p[0]},
			dates:  []*domain.EventDate{testDate("2024-06-01", times, p[0])},
			want:   ErrDuplicatePlayer,
		},
		{
			name:   "roster player never plays",
			roster: p,
			dates:  []*domain.EventDate{testDate("2024-06-01", times, p[0], p[1], p[2])},
			want:   ErrPlayerNeverPlays,
		},
		{
			name:   "date player missing from roster",
			roster: p[:2],
			dates:  []*domain.EventDate{testDate("2024-06-01", times, p[0], p[1], p[2])},
			want:   ErrUnknownPlayer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(testParameters(100, 1), tt.roster, tt.dates)
			require.Error(t, err)
			require.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

// TestParametersDefaults: zero values fall back to the documented defaults.
func TestParametersDefaults(t *testing.T) {
	var nilParams *Parameters
	p := nilParams.withDefaults()
	require.Equal(t, DefaultCleanCount, p.CleanCount)
	require.Equal(t, DefaultProbeCount, p.ProbeCount)
	require.Equal(t, DefaultWeights(), p.Weights)
	require.NotNil(t, p.Logger)

	custom := Weights{Part: 1}
	p = (&Parameters{CleanCount: 10, ProbeCount: 20, Weights: custom}).withDefaults()
	require.Equal(t, int32(10), p.CleanCount)
	require.Equal(t, int32(20), p.ProbeCount)
	require.Equal(t, custom, p.Weights)
}
