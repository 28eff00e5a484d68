package cmdutil

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/GersonESantos/EsqJSCRUDProjeto/internal/api"
	"github.com/GersonESantos/EsqJSCRUDProjeto/internal/timeutil"
)

type Environment string

const (
	AWSEnvironment   Environment = "AWS"
	LocalEnvironment Environment = "LOCAL"
)

func (e Environment) IsAWS() bool {
	return strings.Contains(string(e), "AWS")
}

func (e Environment) IsLocal() bool {
	return strings.Contains(string(e), "LOCAL")
}

// LoadDotEnv loads variables from a .env file in the working directory, if
// there is one. Variables already set in the environment win.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("could not load .env file: %w", err)
	}
	return nil
}

func AWSConfig(ctx context.Context, env Environment, localEndpoint string) (*aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load aws config, %w", err)
	}

	if env.IsLocal() {
		cfg.BaseEndpoint = aws.String(localEndpoint)
		cfg.Credentials = credentials.NewStaticCredentialsProvider("test", "test", "")
	}
	return &cfg, nil
}

// DBFromSecret connects to the database described by a secrets manager secret
// in the RDS JSON format.
func DBFromSecret(ctx context.Context, sm *secretsmanager.Client, secretName string) (*gorm.DB, error) {
	type dbSecret struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Host     string `json:"host"`
		Port     int    `json:"port"`
		DBName   string `json:"dbname"`
		Engine   string `json:"engine"`
		SSLMode  string `json:"sslmode"`
	}

	slog.Info("retrieving database credentials from secrets manager")
	resp, err := sm.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: &secretName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get secret: %w", err)
	}
	slog.Info("retrieved database credentials from secrets manager")

	var secret dbSecret
	if err := json.Unmarshal([]byte(aws.ToString(resp.SecretString)), &secret); err != nil {
		return nil, fmt.Errorf("failed to parse secret JSON: %w", err)
	}

	if secret.SSLMode == "" {
		secret.SSLMode = "require"
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s connect_timeout=5",
		secret.Host, secret.Port, secret.Username, secret.Password, secret.DBName, secret.SSLMode)
	return DB(ctx, dsn)
}

// DB opens a postgres connection pool and makes sure the database answers.
func DB(ctx context.Context, dsn string) (*gorm.DB, error) {
	slog.Info("connecting to database")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		NowFunc:        timeutil.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from gorm DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("successfully connected to database")
	return db, nil
}

func TLSCertFromSSM(ctx context.Context, ssmClient *ssm.Client, certParamName, keyParamName string) (tls.Certificate, error) {
	withDecryption := true

	certOut, err := ssmClient.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(certParamName),
		WithDecryption: &withDecryption,
	})
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("could not fetch cert from SSM (%s): %w", certParamName, err)
	}

	keyOut, err := ssmClient.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(keyParamName),
		WithDecryption: &withDecryption,
	})
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("could not fetch key from SSM (%s): %w", keyParamName, err)
	}

	tlsCert, err := tls.X509KeyPair([]byte(aws.ToString(certOut.Parameter.Value)), []byte(aws.ToString(keyOut.Parameter.Value)))
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("could not parse TLS certificate: %w", err)
	}

	return tlsCert, nil
}

// Logger returns a JSON logger writing to stdout. Unknown levels fall back to
// info.
func Logger(level string) *slog.Logger {
	return newLogger(os.Stdout, level)
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	return slog.New(&logCtxHandler{
		Handler: slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: lvl,
			// Make sure time is logged in UTC.
			ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
				if attr.Key == slog.TimeKey {
					return slog.Attr{Key: slog.TimeKey, Value: slog.TimeValue(attr.Value.Time().UTC())}
				}
				return attr
			},
		}),
	})
}

type logCtxHandler struct {
	slog.Handler
}

func (h *logCtxHandler) Handle(ctx context.Context, r slog.Record) error {
	if requestID, ok := ctx.Value(api.CtxKeyRequestID).(string); ok {
		r.AddAttrs(slog.String("request_id", requestID))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *logCtxHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &logCtxHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *logCtxHandler) WithGroup(name string) slog.Handler {
	return &logCtxHandler{Handler: h.Handler.WithGroup(name)}
}

// EnvValue retrieves an environment variable or returns a fallback value if not found.
func EnvValue[T ~string](key string, fallback T) T {
	if value, exists := os.LookupEnv(key); exists {
		return T(value)
	}
	return fallback
}

// EnvList splits a comma separated environment variable, dropping empty items.
func EnvList(key string, fallback ...string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
