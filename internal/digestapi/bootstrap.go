package digestapi

import (
	"os"
	"strings"

	"worker_server/config"
	"worker_server/infra/database"
	"worker_server/infra/middleware"
	digestcache "worker_server/internal/cache"
	"worker_server/internal/digest"
	"worker_server/internal/digest/section"
	"worker_server/internal/geolocation"
	"worker_server/internal/llm"
	"worker_server/internal/store"
	"worker_server/internal/stream"
	"worker_server/internal/synth"
	"worker_server/internal/weather"
	"worker_server/pkg/cache"
	"worker_server/pkg/logger"
	"worker_server/pkg/metrics"
	"worker_server/pkg/ratelimit"
	"worker_server/pkg/snowflake"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// New builds the fiber app that serves the digest pipeline: Redis and
// Postgres connect with a warn-and-degrade fallback rather than a hard
// failure, then the LLM, weather, and geolocation collaborators are wired
// against whatever came up.
func New(cfg *config.Config) (*fiber.App, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	var redisClient *redis.Client
	var redisCache *cache.RedisCache
	if cfg.RedisURL != "" {
		client, err := database.NewRedis(cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis connection failed, weather cache/rate limiting/event stream disabled: %v", err)
		} else {
			redisClient = client
			redisCache = cache.NewRedisCache(redisClient)
			cleanups = append(cleanups, func() { redisClient.Close() })
		}
	}

	var sqlDB *sqlx.DB
	if cfg.DatabaseURL != "" {
		sqlxURL := cfg.DatabaseURL
		if strings.Contains(sqlxURL, "?") {
			sqlxURL += "&default_query_exec_mode=simple_protocol"
		} else {
			sqlxURL += "?default_query_exec_mode=simple_protocol"
		}
		db, err := sqlx.Connect("pgx", sqlxURL)
		if err != nil {
			logger.Warn("sqlx connection failed, preferences reader disabled: %v", err)
		} else {
			sqlDB = db
			metrics.RegisterPool("digest.preferences", db.DB)
			cleanups = append(cleanups, func() { db.Close() })
		}
	}
	var preferences *store.PreferencesStore
	if sqlDB != nil {
		preferences = store.New(sqlDB)
	}

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	zlog.Info().Msg("digest api: wiring collaborators")

	weatherCache := digestcache.NewWeatherCache(redisCache)
	geoCache := digestcache.NewGeoCache(redisCache)

	generator := llm.New(cfg.OpenAIAPIKey, cfg.LLMModel)
	embedder := llm.NewEmbedder(cfg.OpenAIAPIKey)
	weatherProvider := weather.New(cfg.OpenWeatherAPIKey, weatherCache)
	geolocator := geolocation.New(geoCache)

	deps := digest.Deps{
		Generator:        generator,
		Embedder:         embedder,
		WeatherProvider:  weatherProvider,
		Geolocator:       geolocator,
		EntityLLMEnabled: true,
		NoiseElevation:   section.DefaultNoiseElevationConfig(),
		Synthesis: synth.Config{
			LLMSynthesisEnabled: cfg.DigestLLMSynthesis,
			RawDigestEnabled:    cfg.DigestRawDigest,
			SynthesisPrompt:     synth.PromptVersion(cfg.DigestSynthesisPrompt),
		},
	}
	if preferences != nil {
		deps.Preferences = preferences
	}

	core, err := digest.New(deps)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	idGen, err := snowflake.NewGenerator(int64(os.Getpid() % 1024))
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	protector := ratelimit.NewAPIProtector(redisClient, ratelimit.DefaultConfig())

	var producer *stream.Producer
	if redisClient != nil {
		producer = stream.NewProducer(stream.NewRedisStream(redisClient))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(),
		DisableStartupMessage: cfg.IsProduction(),
	})
	app.Use(middleware.RequestID())
	app.Use(middleware.Recover())
	app.Use(middleware.RequestLogger())
	app.Use(compress.New())
	app.Use(cors.New())

	NewHandler(core, idGen, protector, producer, redisClient).Register(app)

	return app, cleanup, nil
}
