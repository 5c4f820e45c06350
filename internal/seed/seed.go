package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fairway-league/golfer/backend/internal/domain"
	"github.com/fairway-league/golfer/backend/internal/utils"
)

// 名单 CSV 的固定列，之后的每一列表头都是一个比赛日 (YYYY-MM-DD)
var infoHeaders = []string{"Nickname", "FullName", "Email"}

type RosterEntry struct {
	Player domain.Player
	Dates  []string // 报名的比赛日
}

type Roster struct {
	Dates   []string
	Entries []RosterEntry
}

// ParseRoster 解析名单 CSV，比赛日列中的 Y 表示报名该比赛日
func ParseRoster(r io.Reader) (*Roster, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	// 读取表头
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("读取表头失败: %w", err)
	}
	if len(headers) <= len(infoHeaders) {
		return nil, errors.New("没有找到比赛日列")
	}
	for i, header := range infoHeaders {
		if !strings.EqualFold(strings.TrimSpace(headers[i]), header) {
			return nil, fmt.Errorf("第 %d 列应为 %s", i+1, header)
		}
	}

	roster := &Roster{}
	seenDates := make(map[string]bool)
	for _, header := range headers[len(infoHeaders):] {
		date := strings.TrimSpace(header)
		if err := utils.ValidateGolfDate(date); err != nil {
			return nil, err
		}
		if seenDates[date] {
			return nil, fmt.Errorf("比赛日 %s 重复", date)
		}
		seenDates[date] = true
		roster.Dates = append(roster.Dates, date)
	}

	// 读取数据
	seenNicknames := make(map[string]bool)
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("读取第 %d 行失败: %w", line, err)
		}

		entry := RosterEntry{
			Player: domain.Player{
				Nickname: strings.TrimSpace(row[0]),
				FullName: strings.TrimSpace(row[1]),
				Email:    strings.TrimSpace(row[2]),
			},
		}
		if entry.Player.FullName == "" {
			return nil, fmt.Errorf("第 %d 行缺少姓名", line)
		}
		if entry.Player.Nickname == "" {
			entry.Player.Nickname = utils.NicknameFromName(entry.Player.FullName)
		}
		if seenNicknames[entry.Player.Nickname] {
			return nil, fmt.Errorf("第 %d 行的昵称 %s 重复", line, entry.Player.Nickname)
		}
		seenNicknames[entry.Player.Nickname] = true

		for i, date := range roster.Dates {
			if strings.EqualFold(strings.TrimSpace(row[len(infoHeaders)+i]), "Y") {
				entry.Dates = append(entry.Dates, date)
			}
		}

		roster.Entries = append(roster.Entries, entry)
	}

	return roster, nil
}

type Store interface {
	GetPlayersByNicknames(nicknames []string) (map[string]*domain.Player, error)
	CreatePlayer(player *domain.Player) error
	CreateEvent(event *domain.Event) error
	CreateEventDate(ed *domain.EventDate) error
}

// ImportRoster 创建名单中还不存在的球员，然后创建赛事及其比赛日
// 每个比赛日使用相同的开球时间，球员按名单中的顺序排列
func ImportRoster(s Store, roster *Roster, event *domain.Event, times []string) error {
	nicknames := make([]string, len(roster.Entries))
	for i, entry := range roster.Entries {
		nicknames[i] = entry.Player.Nickname
	}

	existing, err := s.GetPlayersByNicknames(nicknames)
	if err != nil {
		return err
	}

	players := make(map[string]domain.Player, len(roster.Entries))
	created := 0
	for _, entry := range roster.Entries {
		if player, exists := existing[entry.Player.Nickname]; exists {
			players[player.Nickname] = *player
			continue
		}

		player := entry.Player
		if err := s.CreatePlayer(&player); err != nil {
			return fmt.Errorf("插入球员 %s 失败: %w", player.Nickname, err)
		}
		players[player.Nickname] = player
		created++
	}
	slog.Info("插入球员完成", "created", created, "existing", len(roster.Entries)-created)

	dates := make([]*domain.EventDate, 0, len(roster.Dates))
	for _, date := range roster.Dates {
		ed := &domain.EventDate{
			Date:    date,
			Times:   append([]string{}, times...),
			Players: make([]domain.Player, 0),
		}
		for _, entry := range roster.Entries {
			for _, d := range entry.Dates {
				if d == date {
					ed.Players = append(ed.Players, players[entry.Player.Nickname])
					break
				}
			}
		}
		dates = append(dates, ed)
	}

	if err := utils.ValidateEventDates(dates); err != nil {
		return err
	}

	if err := s.CreateEvent(event); err != nil {
		return fmt.Errorf("插入赛事失败: %w", err)
	}

	for _, ed := range dates {
		ed.EventID = event.ID
		if err := s.CreateEventDate(ed); err != nil {
			return fmt.Errorf("插入比赛日 %s 失败: %w", ed.Date, err)
		}
	}

	slog.Info("插入赛事完成", "event", event.Nickname, "dates", len(dates))
	return nil
}
