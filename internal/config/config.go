package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Container IDs a page can provide. Each visualization renders into exactly one.
const (
	ContainerPUETimeline   = "viz-pue-timeline"
	ContainerPUEStats      = "viz-pue-stats"
	ContainerPUERegions    = "viz-pue-regions"
	ContainerPUESites      = "viz-pue-sites"
	ContainerServerScatter = "viz-server-scatter"
	ContainerServerTrend   = "viz-server-trend"
	ContainerChipCloud     = "viz-chip-cloud"
)

// AllContainers is the default page layout.
var AllContainers = []string{
	ContainerPUETimeline,
	ContainerPUEStats,
	ContainerPUERegions,
	ContainerPUESites,
	ContainerServerScatter,
	ContainerServerTrend,
	ContainerChipCloud,
}

// DataSources locates the three input CSVs. Values are file paths or http(s) URLs.
type DataSources struct {
	PUE     string `mapstructure:"pue" yaml:"pue"`
	Servers string `mapstructure:"servers" yaml:"servers"`
	Chips   string `mapstructure:"chips" yaml:"chips"`
}

// Layout lists the containers present in the rendered page.
type Layout struct {
	Containers []string `mapstructure:"containers" yaml:"containers"`
}

// Has reports whether the layout provides the container id.
func (l Layout) Has(id string) bool {
	for _, c := range l.Containers {
		if c == id {
			return true
		}
	}
	return false
}

// Global configuration structure.
type Global struct {
	Data       DataSources `mapstructure:"data" yaml:"data"`
	OutputDir  string      `mapstructure:"output_dir" yaml:"output_dir"`
	ListenAddr string      `mapstructure:"listen_addr" yaml:"listen_addr"`
	Layout     Layout      `mapstructure:"layout" yaml:"layout"`

	// Chart pipeline
	GlobalSite         string  `mapstructure:"global_site" yaml:"global_site"`
	RecentYears        int     `mapstructure:"recent_years" yaml:"recent_years"`
	IndustryAveragePUE float64 `mapstructure:"industry_average_pue" yaml:"industry_average_pue"`

	// Point-cloud pipeline
	DefaultView string `mapstructure:"default_view" yaml:"default_view"`

	// HTTP fetch of remote CSVs
	HTTPTimeoutSec int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`

	// Headless snapshots
	ChromePath     string `mapstructure:"chrome_path" yaml:"chrome_path"`
	SnapshotWidth  int    `mapstructure:"snapshot_width" yaml:"snapshot_width"`
	SnapshotHeight int    `mapstructure:"snapshot_height" yaml:"snapshot_height"`
}

// DefaultPath returns ~/.dcviz/config.yaml.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".dcviz", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.dcviz/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DCVIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("data.pue", "data/google_datacenter_pue_2011_2025.csv")
	v.SetDefault("data.servers", "data/EfficiencyAnalysis - SpecPower Servers.csv")
	v.SetDefault("data.chips", "data/EfficiencyAnalysis - The CHIP Dataset.csv")
	v.SetDefault("output_dir", "site")
	v.SetDefault("listen_addr", "127.0.0.1:8080")
	v.SetDefault("layout.containers", AllContainers)
	v.SetDefault("global_site", "Parc (Global)")
	v.SetDefault("recent_years", 3)
	v.SetDefault("industry_average_pue", 1.6)
	v.SetDefault("default_view", "transistors")
	v.SetDefault("http_timeout_sec", 30)
	v.SetDefault("chrome_path", "")
	v.SetDefault("snapshot_width", 1280)
	v.SetDefault("snapshot_height", 900)

	if cfgFile != "" {
		expanded, err := homedir.Expand(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("expand config path: %w", err)
		}
		v.SetConfigFile(expanded)
	} else {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(p))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read; an explicitly named file must exist
	if err := v.ReadInConfig(); err != nil && cfgFile != "" {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.expandPaths(); err != nil {
		return nil, err
	}
	if c.RecentYears <= 0 {
		c.RecentYears = 3
	}
	return &c, nil
}

// expandPaths resolves a leading ~ in local paths. URLs are left untouched.
func (c *Global) expandPaths() error {
	for _, p := range []*string{&c.Data.PUE, &c.Data.Servers, &c.Data.Chips, &c.OutputDir} {
		if IsURL(*p) {
			continue
		}
		e, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("expand path %q: %w", *p, err)
		}
		*p = e
	}
	return nil
}

// IsURL reports whether s names an http(s) resource.
func IsURL(s string) bool {
	l := strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}
