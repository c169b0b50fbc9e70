package repository

import (
	"context"
	"time"

	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/config"
	"github.com/mbeoliero/kit/log"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Repositories holds all repositories
type Repositories struct {
	DB          *gorm.DB
	MongoClient *mongo.Client
	MongoDB     *mongo.Database
	Redis       *redis.Client

	User         *UserRepo
	Listing      *ListingRepo
	Booking      *BookingRepo
	Rating       *RatingRepo
	Conversation *ConversationRepo
	Overview     *OverviewRepo
}

// NewRepositories creates all repositories
func NewRepositories(cfg *config.Config) (*Repositories, error) {
	db, err := initMySQL(cfg)
	if err != nil {
		return nil, err
	}

	mc, err := initMongo(cfg)
	if err != nil {
		return nil, err
	}

	rdb := initRedis(cfg)

	repos := &Repositories{
		DB:          db,
		MongoClient: mc,
		MongoDB:     mc.Database(cfg.Mongo.Database),
		Redis:       rdb,
	}

	repos.User = NewUserRepo(db)
	repos.Listing = NewListingRepo(db)
	repos.Booking = NewBookingRepo(db)
	repos.Rating = NewRatingRepo(db)
	repos.Conversation = NewConversationRepo(repos.MongoDB, rdb)
	repos.Overview = NewOverviewRepo(repos.MongoDB, rdb)

	return repos, nil
}

// initMySQL initializes the MySQL connection for marketplace data
func initMySQL(cfg *config.Config) (*gorm.DB, error) {
	var logLevel logger.LogLevel
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	} else {
		logLevel = logger.Warn
	}

	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// initMongo initializes the document store holding chat data
func initMongo(cfg *config.Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	return client, nil
}

// initRedis initializes the Redis connection
func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// Close closes all connections
func (r *Repositories) Close() error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Close(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.MongoClient.Disconnect(ctx); err != nil {
		return err
	}

	return r.Redis.Close()
}

// CheckConnection checks if all backing stores are alive
func (r *Repositories) CheckConnection(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		log.CtxError(ctx, "mysql ping failed: %v", err)
		return err
	}

	if err := r.MongoClient.Ping(ctx, nil); err != nil {
		log.CtxError(ctx, "mongo ping failed: %v", err)
		return err
	}

	if err := r.Redis.Ping(ctx).Err(); err != nil {
		log.CtxError(ctx, "redis ping failed: %v", err)
		return err
	}

	return nil
}
