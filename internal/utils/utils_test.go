package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fairway-league/golfer/backend/internal/domain"
)

func players(n int) []domain.Player {
	out := make([]domain.Player, n)
	for i := range out {
		out[i] = domain.Player{ID: int64(i + 1), Nickname: string(rune('a' + i))}
	}
	return out
}

func TestValidateGolfDateAndTeeTime(t *testing.T) {
	require.NoError(t, ValidateGolfDate("2024-06-01"))
	require.Error(t, ValidateGolfDate("2024-6-1"))
	require.Error(t, ValidateGolfDate("2024-02-30"))
	require.Error(t, ValidateGolfDate(""))

	require.NoError(t, ValidateTeeTime("08:10"))
	require.Error(t, ValidateTeeTime("8:10am"))
	require.Error(t, ValidateTeeTime("25:00"))
}

// TestValidateEventDate: each rejected date names its defect.
func TestValidateEventDate(t *testing.T) {
	p := players(4)

	ok := &domain.EventDate{Date: "2024-06-01", Times: []string{"08:00", "08:10"}, Players: p}
	require.NoError(t, ValidateEventDate(ok))

	noTimes := &domain.EventDate{Date: "2024-06-01", Players: p}
	require.ErrorContains(t, ValidateEventDate(noTimes), "没有开球时间")

	dupTime := &domain.EventDate{Date: "2024-06-01", Times: []string{"08:00", "08:00"}, Players: p}
	require.ErrorContains(t, ValidateEventDate(dupTime), "重复")

	dupPlayer := &domain.EventDate{Date: "2024-06-01", Times: []string{"08:00"}, Players: []domain.Player{p[0], p[0]}}
	require.ErrorContains(t, ValidateEventDate(dupPlayer), "重复")

	underfilled := &domain.EventDate{Date: "2024-06-01", Times: []string{"08:00", "08:10", "08:20"}, Players: p[:2]}
	require.ErrorContains(t, ValidateEventDate(underfilled), "不足")

	require.Error(t, ValidateEventDates(nil))
	require.ErrorContains(t, ValidateEventDates([]*domain.EventDate{ok, ok}), "重复")
}

func TestValidateEventTeams(t *testing.T) {
	p := players(5)
	dates := []*domain.EventDate{
		{Date: "2024-06-01", Times: []string{"08:00", "08:10"}, Players: p},
	}

	valid := []domain.EventTeam{
		{Date: "2024-06-01", Time: "08:00", Players: []domain.Player{p[0], p[1], p[2]}},
		{Date: "2024-06-01", Time: "08:10", Players: []domain.Player{p[3], p[4]}},
	}
	require.NoError(t, ValidateEventTeams(valid, dates))

	missing := []domain.EventTeam{
		{Date: "2024-06-01", Time: "08:00", Players: []domain.Player{p[0], p[1], p[2]}},
		{Date: "2024-06-01", Time: "08:10", Players: []domain.Player{p[3]}},
	}
	require.ErrorContains(t, ValidateEventTeams(missing, dates), "没有被分组")

	twice := []domain.EventTeam{
		{Date: "2024-06-01", Time: "08:00", Players: []domain.Player{p[0], p[1], p[2]}},
		{Date: "2024-06-01", Time: "08:10", Players: []domain.Player{p[3], p[4], p[0]}},
	}
	require.ErrorContains(t, ValidateEventTeams(twice, dates), "多支队伍")

	unbalanced := []domain.EventTeam{
		{Date: "2024-06-01", Time: "08:00", Players: []domain.Player{p[0], p[1], p[2], p[3]}},
		{Date: "2024-06-01", Time: "08:10", Players: []domain.Player{p[4]}},
	}
	require.ErrorContains(t, ValidateEventTeams(unbalanced, dates), "不均衡")

	noSlot := valid[:1]
	require.ErrorContains(t, ValidateEventTeams(noSlot, dates), "没有队伍")
}

func TestNicknameFromName(t *testing.T) {
	require.Equal(t, "wangxm", NicknameFromName("王小明"))
	require.Equal(t, "li", NicknameFromName("李"))
	require.Equal(t, "tomw", NicknameFromName("Tom Watson"))
	require.Equal(t, "", NicknameFromName("   "))

	nickname := GenerateRandomNickname("王小明")
	require.Regexp(t, `^wangxm[0-9]{1,3}$`, nickname)
}

// TestGenerateRandomEventDates: weekly dates, every date has enough players for its tee times.
func TestGenerateRandomEventDates(t *testing.T) {
	pool := make([]*domain.Player, 12)
	for i := range pool {
		pool[i] = &domain.Player{ID: int64(i + 1), Nickname: GenerateRandomID(3, 2)}
	}
	times := []string{"08:00", "08:10", "08:20"}
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	dates := GenerateRandomEventDates(9, pool, 4, times, start)
	require.Len(t, dates, 4)
	require.Equal(t, "2024-06-01", dates[0].Date)
	require.Equal(t, "2024-06-22", dates[3].Date)
	require.NoError(t, ValidateEventDates(dates))
	for _, ed := range dates {
		require.Equal(t, int64(9), ed.EventID)
		require.GreaterOrEqual(t, len(ed.Players), 6)
	}
}
