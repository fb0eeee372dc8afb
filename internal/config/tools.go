package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Configuration keys. Environment variables use the YTSTUDIO_ prefix,
// e.g. YTSTUDIO_FFMPEG_PATH.
const (
	EnvPrefix              = "YTSTUDIO"
	KeyConfigDir           = "config_dir"
	KeyYTDLPPath           = "ytdlp_path"
	KeyFFmpegPath          = "ffmpeg_path"
	KeyFFprobePath         = "ffprobe_path"
	KeyWhisperPath         = "whisper_path"
	KeyWhisperModel        = "whisper_model"
	KeyWhisperVADModel     = "whisper_vad_model"
	KeyWhisperThreads      = "whisper_threads"
	KeyHistoryDB           = "history_db"
	KeyLogLevel            = "log_level"
	KeyDownloadDirOverride = "download_dir"
	KeyPruneSchedule       = "prune_schedule"
)

// Defaults for tool configuration
const (
	DefaultYTDLPPath     = "yt-dlp"
	DefaultFFmpegPath    = "ffmpeg"
	DefaultFFprobePath   = "ffprobe"
	DefaultWhisperPath   = "whisper-cli"
	DefaultLogLevel      = "info"
	DefaultPruneSchedule = "@every 1m"
	configFileName       = "config"
	configFileType       = "yaml"
	appDirName           = "yt-studio"
	historyFileName      = "history.db"
	modelsDirName        = "models"
	defaultWhisperModel  = "ggml-base.bin"
	defaultVADModel      = "ggml-silero-v5.1.2.bin"
)

// Tools holds external binaries, storage paths and logging options
type Tools struct {
	ConfigDir       string
	YTDLPPath       string
	FFmpegPath      string
	FFprobePath     string
	WhisperPath     string
	WhisperModel    string
	WhisperVADModel string
	WhisperThreads  int
	HistoryDB       string
	LogLevel        string
	// DownloadDir overrides the stored preference when set
	DownloadDir   string
	PruneSchedule string
}

// LoadTools reads tool configuration from the environment and an optional
// config.yaml in the config directory. v is usually viper.New(); flags may be
// bound to it before the call.
func LoadTools(v *viper.Viper) (*Tools, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault(KeyYTDLPPath, DefaultYTDLPPath)
	v.SetDefault(KeyFFmpegPath, DefaultFFmpegPath)
	v.SetDefault(KeyFFprobePath, DefaultFFprobePath)
	v.SetDefault(KeyWhisperPath, DefaultWhisperPath)
	v.SetDefault(KeyWhisperThreads, 0)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyPruneSchedule, DefaultPruneSchedule)

	configDir := v.GetString(KeyConfigDir)
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", appDirName)
	} else {
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for config dir: %w", err)
		}
		configDir = absPath
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetDefault(KeyHistoryDB, filepath.Join(configDir, historyFileName))
	v.SetDefault(KeyWhisperModel, filepath.Join(configDir, modelsDirName, defaultWhisperModel))
	v.SetDefault(KeyWhisperVADModel, filepath.Join(configDir, modelsDirName, defaultVADModel))

	return &Tools{
		ConfigDir:       configDir,
		YTDLPPath:       v.GetString(KeyYTDLPPath),
		FFmpegPath:      v.GetString(KeyFFmpegPath),
		FFprobePath:     v.GetString(KeyFFprobePath),
		WhisperPath:     v.GetString(KeyWhisperPath),
		WhisperModel:    v.GetString(KeyWhisperModel),
		WhisperVADModel: v.GetString(KeyWhisperVADModel),
		WhisperThreads:  v.GetInt(KeyWhisperThreads),
		HistoryDB:       v.GetString(KeyHistoryDB),
		LogLevel:        v.GetString(KeyLogLevel),
		DownloadDir:     v.GetString(KeyDownloadDirOverride),
		PruneSchedule:   v.GetString(KeyPruneSchedule),
	}, nil
}
