package configuration

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"github.com/vulnx/pankha/internal/ui"
)

const (
	configName = "pankha"
	envPrefix  = "PANKHA"
)

// env files are loaded before viper binds the environment, existing variables win
var envFiles = []string{"/etc/pankha/pankha.env", ".env"}

type Configuration struct {
	DbPath string `json:"dbPath"`

	TempSensorPollingRate time.Duration `json:"tempSensorPollingRate"`
	TempRollingWindowSize int           `json:"tempRollingWindowSize"`

	SpeedPollingRate time.Duration `json:"speedPollingRate"`

	Statistics StatisticsConfig `json:"statistics"`
	Api        ApiConfig        `json:"api"`

	Fans    []FanConfig    `json:"fans"`
	Sensors []SensorConfig `json:"sensors"`
	Curves  []CurveConfig  `json:"curves"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName(configName)

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/pankha/")
	}

	loadEnvFiles()
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	setDefaultValues()
}

func loadEnvFiles() {
	for _, path := range envFiles {
		err := godotenv.Load(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			ui.Warning("Unable to load env file %s: %v", path, err)
		}
	}
}

func setDefaultValues() {
	viper.SetDefault("dbPath", "/etc/pankha/pankha.db")

	viper.SetDefault("tempSensorPollingRate", 1*time.Second)
	viper.SetDefault("tempRollingWindowSize", 10)
	viper.SetDefault("speedPollingRate", 1*time.Second)

	viper.SetDefault("statistics.enabled", false)
	viper.SetDefault("statistics.port", 9000)

	viper.SetDefault("api.enabled", false)
	viper.SetDefault("api.host", "localhost")
	viper.SetDefault("api.port", 9001)

	viper.SetDefault("sensors", []SensorConfig{})
	viper.SetDefault("curves", []CurveConfig{})
	viper.SetDefault("fans", []FanConfig{})
}

// DetectAndReadConfigFile reads the config file and returns the path of the file that was used.
// The config file is required, so this fails hard if none is found.
func DetectAndReadConfigFile() string {
	if err := viper.ReadInConfig(); err != nil {
		ui.FatalWithoutStacktrace("Error reading config file, %s", err)
	}
	// this is only populated _after_ ReadInConfig()
	return viper.ConfigFileUsed()
}

// LoadConfig decodes the viper state into CurrentConfig and fills in per-entry defaults
func LoadConfig() {
	err := viper.Unmarshal(&CurrentConfig, viper.DecodeHook(decodeHook()))
	if err != nil {
		ui.FatalWithoutStacktrace("unable to decode into struct, %v", err)
	}
	applyDefaults(&CurrentConfig)
}

func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		CurvePointsHookFunc(),
	)
}

func applyDefaults(config *Configuration) {
	for i := range config.Sensors {
		setSensorDefaults(&config.Sensors[i])
	}
	for i := range config.Fans {
		setFanDefaults(&config.Fans[i])
	}
}
