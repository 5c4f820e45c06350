package utils

import (
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/mozillazg/go-pinyin"

	"github.com/fairway-league/golfer/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "庆",
	"建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣", "球",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

// NicknameFromName 由姓名生成昵称：姓的完整拼音加上名的首字母，例如 "王小明" -> "wangxm"
// 不含汉字的姓名按空格拆分，第一段完整保留，其余取首字母，例如 "Tom Watson" -> "tomw"
func NicknameFromName(fullName string) string {
	parts := pinyin.LazyConvert(fullName, nil)
	if len(parts) == 0 {
		parts = strings.Fields(strings.ToLower(fullName))
	}
	if len(parts) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(parts[0])
	for _, part := range parts[1:] {
		for _, c := range part {
			if unicode.IsLetter(c) || unicode.IsDigit(c) {
				b.WriteRune(c)
				break
			}
		}
	}
	return b.String()
}

var digits = "0123456789"

// GenerateRandomNickname 在 NicknameFromName 的基础上追加随机数字，用于批量生成时避免重复
func GenerateRandomNickname(fullName string) string {
	nickname := NicknameFromName(fullName)

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		nickname += string(digits[rand.Intn(len(digits))])
	}

	return nickname
}

func GenerateRandomPlayer(emailDomainName string) *domain.Player {
	fullName := GenerateRandomChineseName()
	nickname := GenerateRandomNickname(fullName)

	return &domain.Player{
		Nickname: nickname,
		FullName: fullName,
		Email:    nickname + "@" + emailDomainName,
	}
}

var letters = []rune("abcdefghijklmnopqrstuvwxyz")

func GenerateRandomID(letterLength int, digitLength int) string {
	random_id := make([]rune, letterLength+digitLength)
	for i := range random_id {
		if i < letterLength {
			random_id[i] = letters[rand.Intn(len(letters))]
		} else {
			random_id[i] = rune(digits[rand.Intn(len(digits))])
		}
	}
	return string(random_id)
}

func GenerateRandomEvent() *domain.Event {
	id := GenerateRandomID(3, 3)
	return &domain.Event{
		Nickname:    id,
		Name:        "周末联赛" + id,
		Description: "自动生成的赛事",
	}
}

// 使用 Fisher-Yates 洗牌算法来生成一个至少包含 least 名球员的随机子集
func GenerateRandomAttendees(players []*domain.Player, least int) []domain.Player {
	shuffled := append([]*domain.Player{}, players...) // 复制数组，避免修改原数组

	for i := 0; i < len(shuffled)-1; i++ {
		j := rand.Intn(len(shuffled)-i) + i
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	least = min(max(least, 1), len(shuffled))
	n := least + rand.Intn(len(shuffled)-least+1)

	attendees := make([]domain.Player, n)
	for i := range attendees {
		attendees[i] = *shuffled[i]
	}
	return attendees
}

// GenerateRandomEventDates 从 start 开始每周一个比赛日，每个比赛日随机选择参赛球员
// 参赛人数不少于开球时间数量的两倍，使每支队伍至少有一辆坐满的球车
func GenerateRandomEventDates(eventID int64, players []*domain.Player, count int, times []string, start time.Time) []*domain.EventDate {
	dates := make([]*domain.EventDate, count)
	for i := range dates {
		dates[i] = &domain.EventDate{
			EventID: eventID,
			Date:    start.AddDate(0, 0, 7*i).Format(DateLayout),
			Times:   append([]string{}, times...),
			Players: GenerateRandomAttendees(players, 2*len(times)),
		}
	}
	return dates
}
