package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ytget/yt-studio/internal/config"
	"github.com/ytget/yt-studio/internal/logging"
)

// Application identity
const (
	AppID   = "com.ytget.yt-studio"
	AppName = "YT Studio"
)

// env is shared by all commands once flags and configuration are loaded
type env struct {
	viper  *viper.Viper
	tools  *config.Tools
	logger *logrus.Logger
}

// Execute runs the command line
func Execute(version string) error {
	return NewRootCommand(version).Execute()
}

// NewRootCommand builds the command tree
func NewRootCommand(version string) *cobra.Command {
	e := &env{viper: viper.New()}

	cmd := &cobra.Command{
		Use:           "yt-studio",
		Short:         "Download videos and turn them into audio and transcripts",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			tools, err := config.LoadTools(e.viper)
			if err != nil {
				return err
			}
			e.tools = tools
			e.logger = logging.NewLoggerTo(cmd.ErrOrStderr(), tools.LogLevel)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(e, version)
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config-dir", "", "directory holding config.yaml and the history database")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("dir", "", "download directory, overrides the saved setting")
	_ = e.viper.BindPFlag(config.KeyConfigDir, flags.Lookup("config-dir"))
	_ = e.viper.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = e.viper.BindPFlag(config.KeyDownloadDirOverride, flags.Lookup("dir"))

	cmd.AddCommand(newScanCommand(e), newFetchCommand(e), newHistoryCommand(e))
	return cmd
}
