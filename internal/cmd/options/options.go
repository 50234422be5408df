package options

import (
	"github.com/hashicorp/go-hclog"

	"github.com/devstrap/devstrap/internal/config"
	"github.com/devstrap/devstrap/internal/mirror"
	"github.com/devstrap/devstrap/internal/provider"
	"github.com/devstrap/devstrap/internal/secrets"
)

type CmdOption func(*CmdOptions) error

// ClientBuilder constructs a provider connectivity client.
// Injected so tests can substitute a stub for the real HTTP clients.
type ClientBuilder func(logger hclog.Logger, name provider.Name, creds provider.Credentials) (provider.Client, error)

type CmdOptions struct {
	ConfigLoader      config.Loader
	ConfigInitializer config.Initializer
	SecretsLoader     secrets.Loader
	Prompter          secrets.Prompter
	ClientBuilder     ClientBuilder

	// ServiceManager may be nil, in which case commands construct the
	// systemd-backed default with their own logger.
	ServiceManager mirror.ServiceManager
}

func defaultOptions() CmdOptions {
	configLoader := &config.DefaultLoader{}
	return CmdOptions{
		ConfigLoader:      configLoader,
		ConfigInitializer: configLoader,
		SecretsLoader:     &secrets.DefaultLoader{},
		Prompter:          &secrets.TerminalPrompter{},
		ClientBuilder:     provider.NewClient,
	}
}

func NewOptions(opt ...CmdOption) (CmdOptions, error) {
	opts := defaultOptions()

	for _, o := range opt {
		if o == nil {
			continue
		}
		if err := o(&opts); err != nil {
			return CmdOptions{}, err
		}
	}
	return opts, nil
}

func WithConfigLoader(l config.Loader) CmdOption {
	return func(o *CmdOptions) error {
		o.ConfigLoader = l
		return nil
	}
}

func WithConfigInitializer(i config.Initializer) CmdOption {
	return func(o *CmdOptions) error {
		o.ConfigInitializer = i
		return nil
	}
}

func WithSecretsLoader(l secrets.Loader) CmdOption {
	return func(o *CmdOptions) error {
		o.SecretsLoader = l
		return nil
	}
}

func WithPrompter(p secrets.Prompter) CmdOption {
	return func(o *CmdOptions) error {
		o.Prompter = p
		return nil
	}
}

func WithClientBuilder(b ClientBuilder) CmdOption {
	return func(o *CmdOptions) error {
		o.ClientBuilder = b
		return nil
	}
}

func WithServiceManager(m mirror.ServiceManager) CmdOption {
	return func(o *CmdOptions) error {
		o.ServiceManager = m
		return nil
	}
}
