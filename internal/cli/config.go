package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"orgnav-cli/internal/navigate"

	"github.com/spf13/viper"
)

func initConfig(app *App) error {
	viper.SetDefault("search_depth", 1)
	viper.SetDefault("refile_depth", 2)
	viper.SetDefault("clock_depth", 2)
	viper.SetDefault("marker", "*")
	viper.SetDefault("recent_picks", 20)

	viper.SetEnvPrefix("ORGNAV")
	viper.AutomaticEnv()

	if app.ConfigFile != "" {
		viper.SetConfigFile(app.ConfigFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			viper.AddConfigPath(filepath.Join(dir, "orgnav"))
		}
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil // config file is optional
		}
		if os.IsNotExist(err) {
			return nil
		}
		// An explicitly named config file must load.
		if app.ConfigFile != "" {
			return err
		}
		return nil
	}
	return nil
}

func configDefaults() navigate.Defaults {
	return navigate.Defaults{
		SearchDepth: viper.GetInt("search_depth"),
		RefileDepth: viper.GetInt("refile_depth"),
		ClockDepth:  viper.GetInt("clock_depth"),
		Marker:      strings.TrimSpace(viper.GetString("marker")),
	}.FillDefaults()
}

func recentPicksKeep() int {
	return viper.GetInt("recent_picks")
}
