package config

type StorageConfig interface {
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetRedisPrefix() string
}

type Storage struct{}

var _ StorageConfig = Storage{}

// GetRedisAddr selects the Redis local storage backend when non-empty
func (Storage) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "")
}

func (Storage) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}

func (Storage) GetRedisDB() int {
	return GetEnvInt("REDIS_DB", 0)
}

func (Storage) GetRedisPrefix() string {
	return GetEnv("REDIS_PREFIX", "crm:local:")
}
