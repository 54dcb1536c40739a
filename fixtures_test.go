package aquinas_test

import (
	"context"
	"sync"

	"github.com/danpasecinic/aquinas"
)

type Config struct {
	Port int
	Host string
}

type User struct {
	ID   string
	Name string
}

type UserRepository interface {
	Save(u User) error
	Find(id string) (User, bool)
}

type memoryRepo struct {
	mu    sync.Mutex
	users map[string]User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[string]User)}
}

func (r *memoryRepo) Save(u User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *memoryRepo) Find(id string) (User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	return u, ok
}

type UserService struct {
	Repo   UserRepository
	Config *Config
}

func (s *UserService) Register(u User) error {
	return s.Repo.Save(u)
}

var (
	ConfigRef  = aquinas.NewReference[*Config]("Config")
	RepoRef    = aquinas.NewReference[UserRepository]("UserRepository")
	ServiceRef = aquinas.NewReference[*UserService]("UserService")
	CacheRef   = aquinas.NewReference[map[string]User]("Cache")
)

func configInjectable(port int) *aquinas.Injectable[*Config] {
	return aquinas.Bind(
		ConfigRef, func(ctx context.Context, d *aquinas.Dock) (*Config, error) {
			return &Config{Port: port, Host: "localhost"}, nil
		},
	)
}

var repoInjectable = aquinas.Bind(
	RepoRef, func(ctx context.Context, d *aquinas.Dock) (UserRepository, error) {
		return newMemoryRepo(), nil
	},
)

var serviceInjectable = aquinas.NewInjectable(ServiceRef).
	Deps(aquinas.Refs{"repo": RepoRef, "config": ConfigRef}).
	Implements(
		func(env *aquinas.Env) (*UserService, error) {
			return &UserService{
				Repo:   aquinas.MustDep[UserRepository](env, "repo"),
				Config: aquinas.MustDep[*Config](env, "config"),
			}, nil
		},
	)
