package domain

import "time"

type PairingStatus string

const (
	PairingStatusQueued  PairingStatus = "queued"
	PairingStatusRunning PairingStatus = "running"
	PairingStatusDone    PairingStatus = "done"
	PairingStatusFailed  PairingStatus = "failed"
)

// PairingJob 通过消息队列发送给分组 worker 的任务
type PairingJob struct {
	ID          string    `json:"id"`
	EventID     int64     `json:"eventID"`
	RequestedBy int64     `json:"requestedBy"`
	CleanCount  int32     `json:"cleanCount"` // 0 表示使用默认值
	ProbeCount  int32     `json:"probeCount"` // 0 表示使用默认值
	Seed        int64     `json:"seed"`       // 0 表示随机
	CreatedAt   time.Time `json:"createdAt"`
}

// PairingProgress 分组任务的进度，保存在 redis 中
type PairingProgress struct {
	JobID    string        `json:"jobID"`
	Status   PairingStatus `json:"status"`
	Progress float64       `json:"progress"`
	Message  string        `json:"message,omitempty"`
}
