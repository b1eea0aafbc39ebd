package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/codearena/backend/conf"
	"github.com/codearena/backend/contest"
	httpserver "github.com/codearena/backend/http"
	"github.com/codearena/backend/invitetoken"
	"github.com/codearena/backend/relay"
	"github.com/codearena/backend/subm"
	"github.com/codearena/backend/subm/pgrepo"
	"github.com/codearena/backend/submqueue"
	"github.com/codearena/backend/wshub"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		panic("Error loading .env file")
	}

	ctx := context.Background()

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
	cmdQueue := submqueue.NewPublisher(sqsClient, conf.GetCmdSqsUrlFromEnv())
	submSrvc := subm.NewSubmissionSrvc(contests, attempts, cmdQueue)

	hub := wshub.NewHub()
	results := submqueue.NewConsumer(sqsClient, conf.GetResSqsUrlFromEnv())
	resultRelay := relay.NewRelay(results, hub)
	go func() {
		if err := resultRelay.Run(ctx); err != nil {
			slog.Error("result relay stopped", "error", err)
		}
	}()

	invites := invitetoken.NewStore(rdb, conf.GetInviteTTLFromEnv())

	server := httpserver.NewHttpServer(submSrvc, invites, hub, conf.GetJwtKeyFromEnv())

	address := ":8080"
	log.Printf("Starting server on %s", address)
	err = server.Start(address)
	log.Printf("Server stopped with error: %v", err)
}
