package domain

import "time"

// EventTeam 某个比赛日某个开球时间的一支队伍
// Players[0] 为队长，(0,1)、(2,3)... 为同一辆球车
type EventTeam struct {
	EventID int64    `json:"eventID"`
	Date    string   `json:"date"`
	Time    string   `json:"time"`
	Players []Player `json:"players"`
}

// EventComment 自动分组后保存的诊断信息
type EventComment struct {
	EventID   int64     `json:"eventID"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"createdAt"`
}
