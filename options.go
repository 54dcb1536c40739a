package aquinas

import "log/slog"

type Option func(*dockConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *dockConfig) {
		cfg.logger = logger
	}
}

func WithResolveObserver(hook ResolveHook) Option {
	return func(cfg *dockConfig) {
		cfg.onResolve = append(cfg.onResolve, hook)
	}
}

func WithRegisterObserver(hook RegisterHook) Option {
	return func(cfg *dockConfig) {
		cfg.onRegister = append(cfg.onRegister, hook)
	}
}
