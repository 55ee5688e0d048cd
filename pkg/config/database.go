package config

import (
	"fmt"
)

// PostgresConfig holds PostgreSQL configuration for the postgres partner store
type PostgresConfig struct {
	Host     string `env:"GRIEVANCE_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"GRIEVANCE_PG_PORT" env-default:"5432"`
	Database string `env:"GRIEVANCE_PG_DATABASE" env-default:"grievance_db"`
	User     string `env:"GRIEVANCE_PG_USER" env-default:"grievance"`
	Password string `env:"GRIEVANCE_PG_PASSWORD" env-default:"pwd"`
	Schema   string `env:"GRIEVANCE_PG_SCHEMA" env-default:"public"`
}

// ToDatabaseURL converts the config to a PostgreSQL connection URL
func (d PostgresConfig) ToDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable&search_path=%s,public",
		d.User, d.Password, d.Host, d.Port, d.Database, d.Schema)
}

// MongoConfig holds MongoDB configuration for the mongo partner store
type MongoConfig struct {
	URI        string `env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	Database   string `env:"MONGO_DATABASE" env-default:"grievance"`
	Collection string `env:"MONGO_COLLECTION" env-default:"verifiedPartners"`
}

// PartnerStoreConfig selects and configures the verified-partner store
type PartnerStoreConfig struct {
	Type     string `env:"PARTNER_STORE" env-default:"file"` // memory, file, postgres or mongo
	DataDir  string `env:"PARTNER_STORE_DATA_DIR" env-default:"./data"`
	CacheOn  bool   `env:"PARTNER_STORE_CACHE" env-default:"true"`
	Postgres PostgresConfig
	Mongo    MongoConfig
}

// RedisConfig holds Redis configuration for the redis token store
type RedisConfig struct {
	URL       string `env:"REDIS_URL" env-default:"redis://localhost:6379/0"`
	Password  string `env:"REDIS_PASSWORD"`
	KeyPrefix string `env:"REDIS_KEY_PREFIX" env-default:"grievance:verification:"`
}

// TokenStoreConfig selects and configures the outstanding verification token store
type TokenStoreConfig struct {
	Type          string `env:"TOKEN_STORE" env-default:"memory"` // memory or redis
	TTL           string `env:"TOKEN_TTL" env-default:"24h"`
	SweepSchedule string `env:"TOKEN_SWEEP_SCHEDULE" env-default:"@every 10m"`
	Redis         RedisConfig
}
