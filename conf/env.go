package conf

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

func GetCmdSqsUrlFromEnv() string {
	return mustGetenv("SUBM_CMD_SQS_URL")
}

func GetResSqsUrlFromEnv() string {
	return mustGetenv("SUBM_RES_SQS_URL")
}

func GetDeadLetterSqsUrlFromEnv() string {
	return mustGetenv("SUBM_DLQ_SQS_URL")
}

func GetRedisAddrFromEnv() string {
	return mustGetenv("REDIS_ADDR")
}

func GetRedisPwFromEnv() string {
	return os.Getenv("REDIS_PW")
}

func GetJudgeUrlFromEnv() string {
	return mustGetenv("JUDGE_URL")
}

func GetJwtKeyFromEnv() []byte {
	return []byte(mustGetenv("JWT_KEY"))
}

// GetMaxDeliveriesFromEnv bounds transport redelivery of a submission
// command before it is dead-lettered. Defaults to 3.
func GetMaxDeliveriesFromEnv() int {
	v := os.Getenv("SUBM_CMD_MAX_DELIVERIES")
	if v == "" {
		return 3
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		panic(fmt.Sprintf("invalid SUBM_CMD_MAX_DELIVERIES: %q", v))
	}
	return n
}

// GetInviteTTLFromEnv returns the lifetime of teacher invite tokens.
// Defaults to 48h.
func GetInviteTTLFromEnv() time.Duration {
	v := os.Getenv("INVITE_TOKEN_TTL")
	if v == "" {
		return 48 * time.Hour
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Sprintf("invalid INVITE_TOKEN_TTL: %q", v))
	}
	return d
}

func mustGetenv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("%s not set in environment", key))
	}
	return v
}
