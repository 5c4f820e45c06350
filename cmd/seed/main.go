package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fairway-league/golfer/backend/internal/config"
	"github.com/fairway-league/golfer/backend/internal/domain"
	"github.com/fairway-league/golfer/backend/internal/repository"
	"github.com/fairway-league/golfer/backend/internal/seed"
	"github.com/fairway-league/golfer/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var file string
	var times string
	var eventNickname string
	var eventName string
	var emailDomain string
	var start string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机球员, 2: 插入随机赛事及比赛日, 3: 从名单 CSV 导入赛事)")
	flag.IntVar(&n, "n", 0, "要插入的记录数量，为 0 时使用配置中的数量")
	flag.StringVar(&file, "file", "", "名单 CSV 文件路径")
	flag.StringVar(&times, "times", "", "开球时间，以逗号分隔，为空时使用配置中的开球时间")
	flag.StringVar(&eventNickname, "event", "", "导入赛事的昵称")
	flag.StringVar(&eventName, "event-name", "", "导入赛事的名称")
	flag.StringVar(&emailDomain, "email-domain", "example.com", "随机球员的邮箱域名")
	flag.StringVar(&start, "start", "", "随机赛事的第一个比赛日 (YYYY-MM-DD)，为空时使用今天")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	teeTimes := cfg.Seed.Event.Times
	if times != "" {
		teeTimes = strings.Split(times, ",")
	}
	for i := range teeTimes {
		teeTimes[i] = strings.TrimSpace(teeTimes[i])
		if err := utils.ValidateTeeTime(teeTimes[i]); err != nil {
			logger.Error("开球时间非法", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n == 0 {
			n = cfg.Seed.Player.Count
		}
		if n < 0 {
			slog.Error("请输入合法的球员数量")
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			player := utils.GenerateRandomPlayer(emailDomain)
			if err := repo.CreatePlayer(player); err != nil {
				slog.Error("无法插入球员", slog.String("nickname", player.Nickname), slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入球员成功", slog.Int("count", cnt))
	case 2:
		if n == 0 {
			n = cfg.Seed.Event.Dates
		}
		if n < 0 {
			slog.Error("请输入合法的比赛日数量")
			return
		}

		firstDate := time.Now()
		if start != "" {
			firstDate, err = time.Parse(utils.DateLayout, start)
			if err != nil {
				slog.Error("第一个比赛日格式错误", slog.String("error", err.Error()))
				return
			}
		}

		players, err := repo.GetAllPlayers()
		if err != nil {
			slog.Error("无法获取所有球员", slog.String("error", err.Error()))
			return
		}
		if len(players) < len(teeTimes) {
			slog.Error("球员数量不足，请先插入随机球员", slog.Int("players", len(players)), slog.Int("times", len(teeTimes)))
			return
		}

		event := utils.GenerateRandomEvent()
		if err := repo.CreateEvent(event); err != nil {
			slog.Error("无法插入赛事", slog.String("error", err.Error()))
			return
		}

		cnt := 0
		for _, ed := range utils.GenerateRandomEventDates(event.ID, players, n, teeTimes, firstDate) {
			if err := repo.CreateEventDate(ed); err != nil {
				slog.Error("无法插入比赛日", slog.String("date", ed.Date), slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入赛事成功", slog.Int64("event_id", event.ID), slog.String("nickname", event.Nickname), slog.Int("dates", cnt))
	case 3:
		if file == "" || eventNickname == "" {
			slog.Error("请指定名单文件和赛事昵称")
			return
		}

		f, err := os.Open(file)
		if err != nil {
			slog.Error("无法打开名单文件", slog.String("error", err.Error()))
			return
		}
		defer f.Close()

		roster, err := seed.ParseRoster(f)
		if err != nil {
			slog.Error("无法解析名单文件", slog.String("error", err.Error()))
			return
		}

		if eventName == "" {
			eventName = eventNickname
		}
		event := &domain.Event{
			Nickname: eventNickname,
			Name:     eventName,
		}
		if err := seed.ImportRoster(repo, roster, event, teeTimes); err != nil {
			slog.Error("导入名单失败", slog.String("error", err.Error()))
			return
		}
	default:
		slog.Error("指定的操作非法")
	}
}
