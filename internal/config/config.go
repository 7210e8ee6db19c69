package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Fetch struct {
		UserAgent             string  `yaml:"user_agent"`
		BatchSize             int     `yaml:"batch_size"`
		BatchDelayMS          int     `yaml:"batch_delay_ms"`
		CompanyTimeoutSeconds int     `yaml:"company_timeout_seconds"`
		StaleAfterDays        int     `yaml:"stale_after_days"`
		AutoFetchMinutes      int     `yaml:"auto_fetch_minutes"`
		HostReqPerSec         float64 `yaml:"host_req_per_sec"`
		HostBurst             int     `yaml:"host_burst"`
	} `yaml:"fetch"`

	Progress struct {
		Backend      string `yaml:"backend"` // memory | redis
		RedisAddr    string `yaml:"redis_addr"`
		TTLMinutes   int    `yaml:"ttl_minutes"`
		SweepMinutes int    `yaml:"sweep_minutes"`
	} `yaml:"progress"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
