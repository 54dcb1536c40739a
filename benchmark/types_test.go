package benchmark

import "github.com/danpasecinic/aquinas"

type Config struct {
	Host string
	Port int
}

type Logger struct {
	Level string
}

type Database struct {
	Config *Config
	Logger *Logger
}

type Cache struct {
	Logger *Logger
}

type Repository struct {
	DB    *Database
	Cache *Cache
}

type Service struct {
	Repo   *Repository
	Logger *Logger
}

var (
	ConfigRef     = aquinas.NewReference[*Config]("Config")
	LoggerRef     = aquinas.NewReference[*Logger]("Logger")
	DatabaseRef   = aquinas.NewReference[*Database]("Database")
	CacheRef      = aquinas.NewReference[*Cache]("Cache")
	RepositoryRef = aquinas.NewReference[*Repository]("Repository")
	ServiceRef    = aquinas.NewReference[*Service]("Service")
)

// chain returns the injectables of the Config -> Service graph shared by
// every chain benchmark.
func chain() []aquinas.Bindable {
	return []aquinas.Bindable{
		aquinas.Value(ConfigRef, &Config{Host: "localhost", Port: 8080}),
		aquinas.Value(LoggerRef, &Logger{Level: "info"}),
		aquinas.NewInjectable(DatabaseRef).
			Deps(aquinas.Refs{"config": ConfigRef, "logger": LoggerRef}).
			Implements(
				func(env *aquinas.Env) (*Database, error) {
					return &Database{
						Config: aquinas.MustDep[*Config](env, "config"),
						Logger: aquinas.MustDep[*Logger](env, "logger"),
					}, nil
				},
			),
		aquinas.NewInjectable(CacheRef).
			Dep("logger", LoggerRef).
			Implements(
				func(env *aquinas.Env) (*Cache, error) {
					return &Cache{Logger: aquinas.MustDep[*Logger](env, "logger")}, nil
				},
			),
		aquinas.NewInjectable(RepositoryRef).
			Deps(aquinas.Refs{"db": DatabaseRef, "cache": CacheRef}).
			Implements(
				func(env *aquinas.Env) (*Repository, error) {
					return &Repository{
						DB:    aquinas.MustDep[*Database](env, "db"),
						Cache: aquinas.MustDep[*Cache](env, "cache"),
					}, nil
				},
			),
		aquinas.NewInjectable(ServiceRef).
			Deps(aquinas.Refs{"repo": RepositoryRef, "logger": LoggerRef}).
			Implements(
				func(env *aquinas.Env) (*Service, error) {
					return &Service{
						Repo:   aquinas.MustDep[*Repository](env, "repo"),
						Logger: aquinas.MustDep[*Logger](env, "logger"),
					}, nil
				},
			),
	}
}

func newDatabase(cfg *Config, log *Logger) *Database {
	return &Database{Config: cfg, Logger: log}
}

func newCache(log *Logger) *Cache {
	return &Cache{Logger: log}
}

func newRepository(db *Database, cache *Cache) *Repository {
	return &Repository{DB: db, Cache: cache}
}

func newService(repo *Repository, log *Logger) *Service {
	return &Service{Repo: repo, Logger: log}
}
