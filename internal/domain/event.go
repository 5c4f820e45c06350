package domain

import "time"

type Event struct {
	ID          int64     `json:"id"`
	Nickname    string    `json:"nickname"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	Version     int32     `json:"-"`
}

// EventDate 赛事中的一个比赛日
// 每个开球时间对应一支队伍，球员人数不必是开球时间数量的整数倍
type EventDate struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"eventID"`
	Date      string    `json:"date"`  // YYYY-MM-DD
	Times     []string  `json:"times"` // HH:MM
	Players   []Player  `json:"players"`
	CreatedAt time.Time `json:"createdAt"`
}
