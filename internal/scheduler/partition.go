package scheduler

// teamSizes 将 players 名球员分成 slots 支队伍
// 基础人数为 players/slots，多出的 players%slots 名球员依次分给靠前的队伍
func teamSizes(players, slots int) []int {
	sizes := make([]int, slots)
	base := players / slots
	extra := players - base*slots
	for i := range sizes {
		sizes[i] = base
		if extra > 0 {
			sizes[i]++
			extra--
		}
	}
	return sizes
}

// Teams 根据某一天的排列切分出各支队伍，返回的切片与 row 共享底层数组
// 每支队伍的第一名球员为队长，(0,1)、(2,3)... 为同一辆球车，落单的球员独自一车
func Teams(row []int, slots int) [][]int {
	sizes := teamSizes(len(row), slots)
	teams := make([][]int, slots)

	lo := 0
	for i, n := range sizes {
		teams[i] = row[lo : lo+n]
		lo += n
	}
	return teams
}

// 球车状态
const (
	cartAbsent    = 0  // 当天没有参加
	cartDriver    = 1  // 司机或独自一车
	cartPassenger = -1 // 乘客
)

// dayView 某一天每名球员的分组情况，按全局球员下标索引
type dayView struct {
	team    []int  // 所在队伍，-1 表示当天没有参加
	cart    []int  // cartDriver / cartPassenger / cartAbsent
	partner []int  // 球车搭档，独自一车时为自己，-1 表示当天没有参加
	captain []bool // 是否为队长
}

func newDayView(players int) *dayView {
	return &dayView{
		team:    make([]int, players),
		cart:    make([]int, players),
		partner: make([]int, players),
		captain: make([]bool, players),
	}
}

// fill 从排列重新推导当天的分组情况，不依赖之前的任何状态
func (v *dayView) fill(row []int, slots int) {
	for i := range v.team {
		v.team[i] = -1
		v.cart[i] = cartAbsent
		v.partner[i] = -1
		v.captain[i] = false
	}

	for t, team := range Teams(row, slots) {
		v.captain[team[0]] = true
		for p := 0; p < len(team); p += 2 {
			drvr := team[p]
			pass := drvr
			if p < len(team)-1 {
				pass = team[p+1]
			}

			v.team[drvr] = t
			v.team[pass] = t
			v.partner[drvr] = pass
			v.partner[pass] = drvr
			v.cart[pass] = cartPassenger
			v.cart[drvr] = cartDriver // 独自一车时按司机计算
		}
	}
}
