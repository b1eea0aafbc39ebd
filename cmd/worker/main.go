package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/codearena/backend/conf"
	"github.com/codearena/backend/contest"
	"github.com/codearena/backend/judge"
	"github.com/codearena/backend/subm/pgrepo"
	"github.com/codearena/backend/submqueue"
	"github.com/codearena/backend/worker"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		panic("Error loading .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, conf.GetPgConnStrFromEnv())
	if err != nil {
		slog.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     conf.GetRedisAddrFromEnv(),
		Password: conf.GetRedisPwFromEnv(),
	})

	sqsClient, err := submqueue.NewSqsClient(ctx)
	if err != nil {
		slog.Error("failed to create sqs client", "error", err)
		os.Exit(1)
	}

	contests := contest.NewPgRepo(pool)
	attempts := pgrepo.NewPgAttemptRepo(pool)
	judgeClient := judge.NewHttpClient(conf.GetJudgeUrlFromEnv())
	locks := worker.NewRedisLocker(rdb)

	consumer := worker.NewConsumer(contests, attempts, judgeClient, locks)
	runner := worker.NewRunner(
		consumer,
		submqueue.NewConsumer(sqsClient, conf.GetCmdSqsUrlFromEnv()),
		submqueue.NewPublisher(sqsClient, conf.GetResSqsUrlFromEnv()),
		submqueue.NewPublisher(sqsClient, conf.GetDeadLetterSqsUrlFromEnv()),
		conf.GetMaxDeliveriesFromEnv(),
		8,
	)

	if err := runner.Run(ctx); err != nil {
		slog.Error("worker stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("worker shut down")
}
