package infra

import (
	"context"
	"errors"
	"log"

	"github.com/tnqbao/gau-craft-catalog/config"
	"github.com/tnqbao/gau-craft-catalog/infra/produce"
)

type Infra struct {
	Telemetry     *Telemetry
	Logger        *LoggerClient
	Metrics       *CraftMetrics
	Postgres      *PostgresClient // nil unless STORE_BACKEND=postgres
	Redis         *RedisClient    // nil unless LOCK_BACKEND=redis
	RabbitMQ      *RabbitMQClient // nil unless RABBITMQ_HOST is set
	Minio         *MinioClient    // nil unless IMAGE_STORAGE=minio
	Locker        Locker
	ImageStorage  ImageStorage
	UploadService *UploadService
	Produce       *produce.Produce
}

var infraInstance *Infra

func InitInfra(cfg *config.Config) *Infra {
	if infraInstance != nil {
		return infraInstance
	}

	env := cfg.EnvConfig
	if err := env.Validate(); err != nil {
		panic("Invalid configuration: " + err.Error())
	}

	telemetry, err := InitTelemetry(context.Background(), env)
	if err != nil {
		panic("Failed to initialize Telemetry: " + err.Error())
	}

	logger := InitLoggerClient(env, telemetry.LoggerProvider)
	if logger == nil {
		panic("Failed to initialize Logger service")
	}

	metrics, err := NewCraftMetrics(telemetry.MeterProvider)
	if err != nil {
		panic("Failed to initialize Metrics: " + err.Error())
	}

	var postgres *PostgresClient
	if env.Store.Backend == config.StoreBackendPostgres {
		postgres = InitPostgresClient(env)
		if postgres == nil {
			panic("Failed to initialize Postgres service")
		}
	}

	var redis *RedisClient
	var locker Locker
	switch env.Store.Lock {
	case config.LockBackendRedis:
		redis = InitRedisClient(env)
		if redis == nil {
			panic("Failed to initialize Redis service")
		}
		locker = NewRedisLocker(redis)
	case config.LockBackendNone:
		log.Println("Warning: LOCK_BACKEND=none, concurrent craft writes may lose updates")
		locker = NoopLocker{}
	default:
		locker = NewLocalLocker()
	}

	var rabbitMQ *RabbitMQClient
	if env.RabbitMQ.Host != "" {
		rabbitMQ = InitRabbitMQClient(env)
		if rabbitMQ == nil {
			log.Println("Warning: RabbitMQ unavailable, craft events will not be published")
		}
	}
	var produceService *produce.Produce
	if rabbitMQ != nil {
		produceService = produce.InitProduce(rabbitMQ.Channel)
	} else {
		produceService = produce.InitProduce(nil)
	}

	var minio *MinioClient
	var storage ImageStorage
	if env.Upload.Storage == config.ImageStorageMinio {
		minio = InitMinioClient(env)
		if minio == nil {
			panic("Failed to initialize MinIO service")
		}
		storage = NewMinioImageStorage(minio)
	} else {
		storage = NewDiskImageStorage(env.Upload.ImageDir)
	}

	uploadService := InitUploadService(env, storage, logger)
	if uploadService == nil {
		panic("Failed to initialize Upload service")
	}

	infraInstance = &Infra{
		Telemetry:     telemetry,
		Logger:        logger,
		Metrics:       metrics,
		Postgres:      postgres,
		Redis:         redis,
		RabbitMQ:      rabbitMQ,
		Minio:         minio,
		Locker:        locker,
		ImageStorage:  storage,
		UploadService: uploadService,
		Produce:       produceService,
	}

	return infraInstance
}

// Close releases connections and flushes telemetry.
func (i *Infra) Close(ctx context.Context) error {
	var errs []error
	if i.RabbitMQ != nil {
		errs = append(errs, i.RabbitMQ.Close())
	}
	if i.Redis != nil {
		errs = append(errs, i.Redis.Close())
	}
	if i.Postgres != nil {
		errs = append(errs, i.Postgres.Close())
	}
	if i.Telemetry != nil {
		errs = append(errs, i.Telemetry.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
