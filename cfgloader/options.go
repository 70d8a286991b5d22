package cfgloader

type Options struct {
	// Silent skips printing the loaded config.
	Silent bool
	// Dir holds the <environment>.yaml files. Defaults to ./config.
	Dir string
	// Environment overrides the ENVIRONMENT variable.
	Environment string
}

type Option func(*Options)

func WithSilent() Option {
	return func(o *Options) {
		o.Silent = true
	}
}

func WithDir(dir string) Option {
	return func(o *Options) {
		o.Dir = dir
	}
}

func WithEnvironment(env string) Option {
	return func(o *Options) {
		o.Environment = env
	}
}
