package conf

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// GetPgConnStrFromEnv assembles the postgres connection string. POSTGRES_PW
// is used directly when set (local development); otherwise the password is
// fetched from the AWS Secrets Manager secret named by
// POSTGRES_PW_SECRET_NAME.
func GetPgConnStrFromEnv() string {
	pw := os.Getenv("POSTGRES_PW")
	if pw == "" {
		var err error
		pw, err = pgPasswordFromSecret(mustGetenv("POSTGRES_PW_SECRET_NAME"))
		if err != nil {
			panic(fmt.Sprintf("failed to resolve postgres password: %v", err))
		}
	}

	ssl := os.Getenv("POSTGRES_SSLMODE")
	if ssl == "" {
		ssl = "disable"
	}

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		mustGetenv("POSTGRES_HOST"),
		mustGetenv("POSTGRES_PORT"),
		mustGetenv("POSTGRES_USER"),
		pw,
		mustGetenv("POSTGRES_DB"),
		ssl,
	)
}

// pgPasswordFromSecret reads the {"password": "..."} secret the deployment
// keeps for the database user.
func pgPasswordFromSecret(secretName string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	out, err := secretsmanager.NewFromConfig(cfg).GetSecretValue(ctx,
		&secretsmanager.GetSecretValueInput{SecretId: aws.String(secretName)})
	if err != nil {
		return "", fmt.Errorf("failed to get secret %s: %w", secretName, err)
	}

	var secret struct {
		Password string `json:"password"`
	}
	if err := json.Unmarshal([]byte(aws.ToString(out.SecretString)), &secret); err != nil {
		return "", fmt.Errorf("failed to parse secret %s: %w", secretName, err)
	}
	if secret.Password == "" {
		return "", fmt.Errorf("secret %s has no password field", secretName)
	}
	return secret.Password, nil
}
