package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v2"

	"github.com/venueup/kassad/pkg/common"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host  string `yaml:"host" json:"host"`
	Port  int    `yaml:"port" json:"port"`
	Debug bool   `yaml:"debug" json:"debug"`
}

type DBConfig struct {
	Type    string `yaml:"type" json:"type"`
	Host    string `yaml:"host" json:"host"`
	Port    int    `yaml:"port" json:"port"`
	Name    string `yaml:"name" json:"name"`
	User    string `yaml:"user" json:"user"`
	Passwd  string `yaml:"passwd" json:"passwd"`
	MaxConn int    `yaml:"max_conn" json:"max_conn"`
	Debug   bool   `yaml:"debug" json:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig `yaml:"system" json:"system"`
	Web      WebConfig `yaml:"web" json:"web"`
	Database DBConfig  `yaml:"database" json:"database"`
	Logger   LogConfig `yaml:"logger" json:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "kassad",
		Location: "Europe/Berlin",
		Workdir:  "/var/kassad",
		Debug:    true,
	},
	Web: WebConfig{
		Host:  "0.0.0.0",
		Port:  3000,
		Debug: true,
	},
	Database: DBConfig{
		Type:    "bolt",
		Host:    "127.0.0.1",
		Port:    5432,
		Name:    "kassad",
		User:    "postgres",
		MaxConn: 50,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/kassad/kassad.log",
	},
}

func setEnvValue(name string, val *string) {
	if v, ok := os.LookupEnv(name); ok {
		*val = v
	}
}

func setEnvBoolValue(name string, val *bool) {
	if v, ok := os.LookupEnv(name); ok {
		*val = v == "true" || v == "1" || v == "on"
	}
}

func setEnvIntValue(name string, val *int) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return
	}
	if i, err := strconv.Atoi(v); err == nil {
		*val = i
	}
}

// LoadConfig reads the yaml configuration file and applies KASSAD_*
// environment overrides. A missing file yields the built-in defaults.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig

	if common.FileExists(cfile) {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	setEnvValue("KASSAD_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvValue("KASSAD_SYSTEM_LOCATION", &cfg.System.Location)
	setEnvBoolValue("KASSAD_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("KASSAD_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("KASSAD_WEB_PORT", &cfg.Web.Port)
	setEnvBoolValue("KASSAD_WEB_DEBUG", &cfg.Web.Debug)

	setEnvValue("KASSAD_DB_TYPE", &cfg.Database.Type)
	setEnvValue("KASSAD_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("KASSAD_DB_PORT", &cfg.Database.Port)
	setEnvValue("KASSAD_DB_NAME", &cfg.Database.Name)
	setEnvValue("KASSAD_DB_USER", &cfg.Database.User)
	setEnvValue("KASSAD_DB_PWD", &cfg.Database.Passwd)

	setEnvValue("KASSAD_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("KASSAD_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvValue("KASSAD_LOGGER_FILENAME", &cfg.Logger.Filename)

	if cfg.Logger.Filename == DefaultAppConfig.Logger.Filename {
		cfg.Logger.Filename = filepath.Join(cfg.System.Workdir, "kassad.log")
	}

	return cfg
}
