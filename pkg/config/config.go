package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bacalhau-project/convergence/pkg/models"
	"github.com/bacalhau-project/convergence/pkg/providers/aws"
	"github.com/bacalhau-project/convergence/pkg/providers/azure"
	"github.com/bacalhau-project/convergence/pkg/providers/gcp"
	"github.com/bacalhau-project/convergence/pkg/providers/sdc"
	"github.com/bacalhau-project/convergence/pkg/sshutils"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "CONVERGENCE"
	ConfigFileName = ".convergence"
)

type GeneralConfig struct {
	LogLevel          string `mapstructure:"log_level"            validate:"omitempty,oneof=debug info warn error"`
	LogPath           string `mapstructure:"log_path"`
	DefaultProvider   string `mapstructure:"default_provider"     validate:"omitempty,oneof=aws azure gcp sdc"`
	SSHUser           string `mapstructure:"ssh_user"`
	SSHPrivateKeyPath string `mapstructure:"ssh_private_key_path"`
	SSHPort           int    `mapstructure:"ssh_port"             validate:"min=1,max=65535"`
}

type ProvidersConfig struct {
	AWS   aws.Config   `mapstructure:"aws"`
	Azure azure.Config `mapstructure:"azure"`
	GCP   gcp.Config   `mapstructure:"gcp"`
	SDC   sdc.Config   `mapstructure:"sdc"`
}

type Config struct {
	General   GeneralConfig      `mapstructure:"general"`
	Profiles  map[string]Profile `mapstructure:"profiles" validate:"dive"`
	Providers ProvidersConfig    `mapstructure:"providers"`
}

var ErrUnknownProfile = errors.New("unknown poll profile")

var (
	validatorOnce sync.Once
	validate      *validator.Validate
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Init points the global viper instance at cfgFile, or ~/.convergence.yaml
// when empty, and layers .env and CONVERGENCE_* variables on top. A missing
// default config file is not an error.
func Init(cfgFile string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	if cfgFile != "" {
		expanded, err := homedir.Expand(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to expand config path: %w", err)
		}
		viper.SetConfigFile(expanded)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return fmt.Errorf("failed to find home directory: %w", err)
		}
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(ConfigFileName)
	}

	SetDefaults(viper.GetViper())
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// SetDefaults registers the built-in profiles and logging settings on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("general.log_level", "info")
	v.SetDefault("general.ssh_port", sshutils.DefaultSSHPort)
	for name, p := range DefaultProfiles() {
		v.SetDefault("profiles."+name+".max_wait", p.MaxWait)
		v.SetDefault("profiles."+name+".period", p.Period)
		v.SetDefault("profiles."+name+".initial_delay", p.InitialDelay)
	}
}

// Load decodes and validates v. Profiles named in the file override the
// matching built-in profile field by field.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	for _, path := range []*string{&cfg.Providers.SDC.PrivateKeyPath, &cfg.General.SSHPrivateKeyPath} {
		if *path == "" {
			continue
		}
		expanded, err := homedir.Expand(*path)
		if err != nil {
			return nil, fmt.Errorf("failed to expand private key path: %w", err)
		}
		*path = filepath.Clean(expanded)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid field, one per line.
func Validate(cfg *Config) error {
	err := getValidator().Struct(cfg)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		msgs = append(msgs, fmt.Sprintf("%s: failed %s %s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
	}
	return fmt.Errorf("config validation errors:\n  %s", strings.Join(msgs, "\n  "))
}

// Profile returns the named poll profile.
func (c *Config) Profile(name string) (Profile, error) {
	p, ok := c.Profiles[strings.ToLower(name)]
	if !ok {
		return Profile{}, fmt.Errorf("%w %q (have %s)", ErrUnknownProfile, name, strings.Join(c.ProfileNames(), ", "))
	}
	return p, nil
}

func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultProvider falls back to SDC when general.default_provider is unset.
func (c *Config) DefaultProvider() models.Provider {
	if c.General.DefaultProvider == "" {
		return models.ProviderSDC
	}
	p, err := models.ParseProvider(c.General.DefaultProvider)
	if err != nil {
		return models.ProviderSDC
	}
	return p
}
