package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/fairway-league/golfer/backend/internal/config"
	"github.com/fairway-league/golfer/backend/internal/domain"
	"github.com/fairway-league/golfer/backend/internal/pairing"
	"github.com/fairway-league/golfer/backend/internal/progress"
	"github.com/fairway-league/golfer/backend/internal/repository"
)

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 读取配置文件
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * 连接数据库
	 **********************************************/
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	pingCtx, pingCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer pingCancel()

	if err := dbpool.PingContext(pingCtx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	/**********************************************
	 * 连接 redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password:    cfg.Redis.Password,
		DB:          0,
		DialTimeout: time.Duration(cfg.Redis.ConnectTimeout) * time.Second,
	})
	defer rdb.Close()

	store := progress.NewStore(
		rdb,
		time.Duration(cfg.Redis.OperationExpiration)*time.Second,
		time.Duration(cfg.Pairing.StatusExpiration)*time.Second,
	)

	/**********************************************
	 * 连接 RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 RabbitMQ", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	// 消费和发布使用不同的通道
	consumeCh, err := conn.Channel()
	if err != nil {
		logger.Error("无法创建通道", slog.String("error", err.Error()))
		return
	}
	defer consumeCh.Close()

	publishCh, err := conn.Channel()
	if err != nil {
		logger.Error("无法创建通道", slog.String("error", err.Error()))
		return
	}
	defer publishCh.Close()

	for _, name := range []string{cfg.Pairing.Queue, pairing.EmailQueue} {
		if _, err := consumeCh.QueueDeclare(name, true, false, false, false, nil); err != nil {
			logger.Error("无法声明队列", slog.String("queue", name), slog.String("error", err.Error()))
			return
		}
	}

	// 分组任务非常耗 CPU，每个 worker 同时只处理一个任务
	if err := consumeCh.Qos(1, 0, false); err != nil {
		logger.Error("无法设置 QoS", slog.String("error", err.Error()))
		return
	}

	msgs, err := consumeCh.Consume(cfg.Pairing.Queue, "", false, false, false, false, nil)
	if err != nil {
		logger.Error("无法消费消息", slog.String("error", err.Error()))
		return
	}

	worker := pairing.NewWorker(
		repo,
		store,
		pairing.NewAMQPMailer(publishCh, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second),
		pairing.Options{
			CleanCount:       cfg.Pairing.CleanCount,
			ProbeCount:       cfg.Pairing.ProbeCount,
			ProgressInterval: time.Duration(cfg.Pairing.ProgressInterval) * time.Second,
		},
		logger,
	)

	// 监听 CTRL+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// 用于关闭 goroutine 的上下文
	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Error("消息通道已关闭")
					return
				}

				job := &domain.PairingJob{}
				if err := json.Unmarshal(msg.Body, job); err != nil {
					logger.Error("分组任务反序列化失败", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				logger.Info("收到分组任务", "jobID", job.ID, "eventID", job.EventID)

				// 失败的任务已经通知了发起人，不重新入队
				if err := worker.Process(job); err != nil {
					if !errors.Is(err, pairing.ErrInvalidJob) {
						logger.Error("分组任务执行失败", "jobID", job.ID, "error", err)
					}
					_ = msg.Nack(false, false)
					continue
				}

				_ = msg.Ack(false)
			}
		}
	}()

	logger.Info("等待分组任务...（按 CTRL+C 退出）")
	<-sigChan

	// 正在运行的分组任务会先完成，再退出
	logger.Info("正在关闭 pairing worker...")
	cancel()
	wg.Wait()
	logger.Info("pairing worker 已成功关闭")
}
