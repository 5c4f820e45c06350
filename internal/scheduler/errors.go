package scheduler

import "errors"

// 以下错误均表示调用方传入的数据有缺陷，不可恢复
var (
	ErrNoDates          = errors.New("赛事没有任何比赛日")
	ErrNoTimeSlots      = errors.New("比赛日没有开球时间")
	ErrUnderfilledDate  = errors.New("比赛日的球员人数少于开球时间数量")
	ErrDuplicatePlayer  = errors.New("球员在同一比赛日中重复出现")
	ErrPlayerNeverPlays = errors.New("球员没有参加任何比赛日")
	ErrUnknownPlayer    = errors.New("球员不在名单中")
)
