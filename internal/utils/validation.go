package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/fairway-league/golfer/backend/internal/domain"
)

const (
	DateLayout    = "2006-01-02"
	TeeTimeLayout = "15:04"
)

func ValidateGolfDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("日期 %q 格式错误，应为 YYYY-MM-DD", date)
	}
	return nil
}

func ValidateTeeTime(teeTime string) error {
	if _, err := time.Parse(TeeTimeLayout, teeTime); err != nil {
		return fmt.Errorf("开球时间 %q 格式错误，应为 HH:MM", teeTime)
	}
	return nil
}

// ValidateEventDate 检查一个比赛日能否交给优化器：
// 至少一个开球时间，开球时间不重复，球员不重复，且每个开球时间至少有一名球员
func ValidateEventDate(ed *domain.EventDate) error {
	if err := ValidateGolfDate(ed.Date); err != nil {
		return err
	}

	if len(ed.Times) == 0 {
		return fmt.Errorf("比赛日 %s 没有开球时间", ed.Date)
	}

	seenTimes := make(map[string]bool, len(ed.Times))
	for _, teeTime := range ed.Times {
		if err := ValidateTeeTime(teeTime); err != nil {
			return err
		}
		if seenTimes[teeTime] {
			return fmt.Errorf("比赛日 %s 的开球时间 %s 重复", ed.Date, teeTime)
		}
		seenTimes[teeTime] = true
	}

	seenPlayers := make(map[int64]bool, len(ed.Players))
	for _, player := range ed.Players {
		if seenPlayers[player.ID] {
			return fmt.Errorf("比赛日 %s 的球员 %s 重复", ed.Date, player.Nickname)
		}
		seenPlayers[player.ID] = true
	}

	if len(ed.Players) < len(ed.Times) {
		return fmt.Errorf("比赛日 %s 只有 %d 名球员，不足 %d 个开球时间", ed.Date, len(ed.Players), len(ed.Times))
	}

	return nil
}

func ValidateEventDates(dates []*domain.EventDate) error {
	if len(dates) == 0 {
		return errors.New("赛事没有任何比赛日")
	}

	seen := make(map[string]bool, len(dates))
	for _, ed := range dates {
		if seen[ed.Date] {
			return fmt.Errorf("比赛日 %s 重复", ed.Date)
		}
		seen[ed.Date] = true

		if err := ValidateEventDate(ed); err != nil {
			return err
		}
	}

	return nil
}

// ValidateEventTeams 检查分组结果是否与比赛日一致：
// 每个开球时间恰好一支队伍，每名球员在其参加的比赛日中恰好出现一次，同一天的队伍人数最多相差 1
func ValidateEventTeams(teams []domain.EventTeam, dates []*domain.EventDate) error {
	type slot struct {
		date    string
		teeTime string
	}

	teamsBySlot := make(map[slot]domain.EventTeam, len(teams))
	for _, team := range teams {
		key := slot{team.Date, team.Time}
		if _, exists := teamsBySlot[key]; exists {
			return fmt.Errorf("比赛日 %s 的开球时间 %s 有多支队伍", team.Date, team.Time)
		}
		teamsBySlot[key] = team
	}

	expected := 0
	for _, ed := range dates {
		expected += len(ed.Times)

		attending := make(map[int64]bool, len(ed.Players))
		for _, player := range ed.Players {
			attending[player.ID] = true
		}

		placed := make(map[int64]bool, len(ed.Players))
		smallest, largest := len(ed.Players), 0
		for _, teeTime := range ed.Times {
			team, exists := teamsBySlot[slot{ed.Date, teeTime}]
			if !exists {
				return fmt.Errorf("比赛日 %s 的开球时间 %s 没有队伍", ed.Date, teeTime)
			}
			if len(team.Players) == 0 {
				return fmt.Errorf("比赛日 %s 的开球时间 %s 的队伍为空", ed.Date, teeTime)
			}

			smallest = min(smallest, len(team.Players))
			largest = max(largest, len(team.Players))

			for _, player := range team.Players {
				if !attending[player.ID] {
					return fmt.Errorf("球员 %s 没有报名比赛日 %s", player.Nickname, ed.Date)
				}
				if placed[player.ID] {
					return fmt.Errorf("球员 %s 在比赛日 %s 被分到了多支队伍", player.Nickname, ed.Date)
				}
				placed[player.ID] = true
			}
		}

		if len(placed) != len(attending) {
			return fmt.Errorf("比赛日 %s 有 %d 名球员没有被分组", ed.Date, len(attending)-len(placed))
		}
		if largest-smallest > 1 {
			return fmt.Errorf("比赛日 %s 的队伍人数不均衡", ed.Date)
		}
	}

	if len(teams) != expected {
		return fmt.Errorf("队伍数量 %d 与开球时间数量 %d 不一致", len(teams), expected)
	}

	return nil
}
