package connection

import (
	"context"
	"errors"
	"fmt"
	"homework-wall/biz/infrastructure/config"
	"homework-wall/biz/infrastructure/consts"
	"homework-wall/biz/infrastructure/redis"
	"homework-wall/biz/infrastructure/repository/homework"
	"homework-wall/biz/infrastructure/storage"
	"homework-wall/biz/infrastructure/util/log"
)

// Backend 一份连接配置对应的记录存储与文件存储
type Backend struct {
	Connection *Connection
	Mapper     homework.IHomeworkMapper
	Blob       storage.IBlobStore
}

// TestReachability 先测记录存储再测文件存储，返回第一个错误
func (b *Backend) TestReachability(ctx context.Context) error {
	if err := b.Mapper.TestReachability(ctx); err != nil {
		return err
	}
	return b.Blob.TestReachability(ctx)
}

func (b *Backend) Close(ctx context.Context) error {
	var errs []error
	if b.Mapper != nil {
		errs = append(errs, b.Mapper.Close(ctx))
	}
	if b.Blob != nil {
		errs = append(errs, b.Blob.Close())
	}
	return errors.Join(errs...)
}

type IBuilder interface {
	Build(ctx context.Context, conn *Connection) (*Backend, error)
}

type Builder struct {
	Config *config.Config
}

func NewBuilder(config *config.Config) *Builder {
	return &Builder{Config: config}
}

// Build 按驱动构造后端，配置了 Redis 时给记录存储加一层列表缓存
func (b *Builder) Build(ctx context.Context, conn *Connection) (*Backend, error) {
	mapper, err := b.buildMapper(conn)
	if err != nil {
		return nil, err
	}
	blob, err := b.buildBlob(ctx, conn)
	if err != nil {
		_ = mapper.Close(ctx)
		return nil, err
	}
	log.Info("backend built, project: %s, database: %s, storage: %s", conn.ProjectID, conn.DatabaseDriver, conn.StorageDriver)
	return &Backend{Connection: conn, Mapper: mapper, Blob: blob}, nil
}

func (b *Builder) buildMapper(conn *Connection) (homework.IHomeworkMapper, error) {
	var (
		mapper homework.IHomeworkMapper
		err    error
	)
	switch conn.DatabaseDriver {
	case consts.DriverMongo:
		mapper, err = homework.NewMongoMapper(conn.DatabaseURL, conn.DatabaseName)
	case consts.DriverMySQL:
		mapper, err = homework.NewMySQLMapper(conn.DatabaseURL)
	case consts.DriverMemory:
		mapper = homework.NewMemoryMapper()
	default:
		err = fmt.Errorf("%w: 不支持的 databaseDriver: %s", consts.ErrInvalidConfig, conn.DatabaseDriver)
	}
	if err != nil {
		return nil, err
	}
	if rds := redis.GetRedis(b.Config); rds != nil {
		mapper = homework.NewCachedMapper(mapper, rds, conn.ProjectID, b.Config.ListCacheSeconds)
	}
	return mapper, nil
}

func (b *Builder) buildBlob(ctx context.Context, conn *Connection) (storage.IBlobStore, error) {
	switch conn.StorageDriver {
	case consts.DriverGCS:
		return storage.NewGCSStore(ctx, storage.GCSOptions{
			Bucket:          conn.StorageBucket,
			CredentialsJSON: conn.StorageCredentials,
			APIKey:          conn.APIKey,
			EmulatorHost:    conn.StorageEmulatorHost,
			PublicBaseURL:   conn.StoragePublicURL,
		})
	case consts.DriverS3:
		return storage.NewS3Store(storage.S3Options{
			Endpoint:      conn.StorageEndpoint,
			Region:        conn.StorageRegion,
			Bucket:        conn.StorageBucket,
			AccessKey:     conn.StorageAccessKey,
			SecretKey:     conn.StorageSecret,
			PublicBaseURL: conn.StoragePublicURL,
		})
	default:
		return nil, fmt.Errorf("%w: 不支持的 storageDriver: %s", consts.ErrInvalidConfig, conn.StorageDriver)
	}
}
