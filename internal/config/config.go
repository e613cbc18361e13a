package config

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"
	"github.com/poofware/estate-service/internal/utils"
)

type Config struct {
	OrganizationName string
	AppName          string
	AppPort          string
	AppUrl           string
	UniqueRunNumber  string
	UniqueRunnerID   string

	// Database
	DBUrl string

	// Auth
	RSAPublicKey *rsa.PublicKey

	// LaunchDarkly flags
	LDFlag_UsingIsolatedSchema bool
	LDFlag_CORSHighSecurity    bool
	LDFlag_SeedDbWithTestData  bool
}

const (
	OrganizationName    = utils.OrganizationName
	LDConnectionTimeout = 5 * time.Second
)

// build-time overrides
var (
	AppName             string
	UniqueRunNumber     string
	UniqueRunnerID      string
	LDServerContextKey  string
	LDServerContextKind string
)

func LoadConfig() *Config {
	// A local .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		utils.Logger.WithError(err).Warn("Failed to read .env file")
	}

	if AppName == "" {
		utils.Logger.Fatal("AppName ldflag missing")
	}
	if UniqueRunNumber == "" {
		utils.Logger.Fatal("UniqueRunNumber ldflag missing")
	}
	if UniqueRunnerID == "" {
		utils.Logger.Fatal("UniqueRunnerID ldflag missing")
	}
	if LDServerContextKey == "" || LDServerContextKind == "" {
		utils.Logger.Fatal("LD context ldflags missing")
	}

	utils.Logger.Info("Loading config for app: ", AppName)

	env := os.Getenv("ENV")
	if env == "" {
		utils.Logger.Fatal("ENV env var is missing")
	}
	appUrl := os.Getenv("APP_URL_FROM_ANYWHERE")
	if appUrl == "" {
		utils.Logger.Fatal("APP_URL_FROM_ANYWHERE env var is missing")
	}
	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		utils.Logger.Fatal("APP_PORT env var is missing")
	}

	secrets, err := utils.NewSecretSource()
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to initialize secret source")
	}
	defer secrets.Close()

	appSecretsName := fmt.Sprintf("%s-%s", AppName, env)
	appSecrets, err := secrets.GetSecrets(appSecretsName)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to fetch app secrets")
	}
	sharedSecretsName := fmt.Sprintf("shared-%s", env)
	sharedSecrets, err := secrets.GetSecrets(sharedSecretsName)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to fetch shared secrets")
	}

	pubKey, err := ParseRSAPublicKey(sharedSecrets["RSA_PUBLIC_KEY_BASE64"])
	if err != nil {
		utils.Logger.WithError(err).Fatalf("RSA_PUBLIC_KEY_BASE64 invalid (%s)", sharedSecretsName)
	}

	dbURL, ok := appSecrets["DB_URL"]
	if !ok || dbURL == "" {
		utils.Logger.Fatalf("DB_URL not found in secrets (%s)", appSecretsName)
	}

	ldClient := newLDClient(appSecrets["LD_SDK_KEY"])
	defer ldClient.Close()

	ctx := ldcontext.NewWithKind(ldcontext.Kind(LDServerContextKind), LDServerContextKey)
	boolFlag := func(key string) bool {
		v, err := ldClient.BoolVariation(key, ctx, false)
		if err != nil {
			utils.Logger.WithError(err).Fatalf("Error retrieving %s flag", key)
		}
		utils.Logger.Debugf("%s flag: %t", key, v)
		return v
	}

	return &Config{
		OrganizationName:           OrganizationName,
		AppName:                    AppName,
		AppPort:                    appPort,
		AppUrl:                     appUrl,
		UniqueRunNumber:            UniqueRunNumber,
		UniqueRunnerID:             UniqueRunnerID,
		DBUrl:                      dbURL,
		RSAPublicKey:               pubKey,
		LDFlag_UsingIsolatedSchema: boolFlag("using_isolated_schema"),
		LDFlag_CORSHighSecurity:    boolFlag("cors_high_security"),
		LDFlag_SeedDbWithTestData:  boolFlag("seed_db_with_test_data"),
	}
}

func (c *Config) Close() {}

// newLDClient connects to LaunchDarkly, or runs offline (every flag at its
// default) when no SDK key is configured.
func newLDClient(sdkKey string) *ld.LDClient {
	if sdkKey == "" {
		utils.Logger.Warn("LD_SDK_KEY not set; LaunchDarkly running offline with default flag values")
		client, err := ld.MakeCustomClient("", ld.Config{Offline: true}, 0)
		if err != nil {
			utils.Logger.WithError(err).Fatal("Failed to create offline LaunchDarkly client")
		}
		return client
	}

	client, err := ld.MakeClient(sdkKey, LDConnectionTimeout)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to create LaunchDarkly client")
	}
	if !client.Initialized() {
		client.Close()
		utils.Logger.Fatal("LaunchDarkly client failed to initialize")
	}
	return client
}

// ParseRSAPublicKey decodes a base64-wrapped PEM public key.
func ParseRSAPublicKey(b64 string) (*rsa.PublicKey, error) {
	if b64 == "" {
		return nil, errors.New("public key is empty")
	}
	pubPEM, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("decoding base64: %w", err)
	}
	if block, _ := pem.Decode(pubPEM); block == nil {
		return nil, errors.New("failed to decode PEM block for public key")
	}
	return jwt.ParseRSAPublicKeyFromPEM(pubPEM)
}
