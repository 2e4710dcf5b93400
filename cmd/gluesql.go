package cmd

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/woojinnn/gluesql/config"
)

var (
	gluesqlCmd = &cobra.Command{
		Use:               "gluesql",
		Short:             "Run SQL queries over tables",
		Long:              "GlueSQL runs SELECT and VALUES queries over tables loaded from a data file.",
		PersistentPreRunE: gluesqlPreRun,
		PersistentPostRun: gluesqlPostRun,
		SilenceUsage:      true,
	}

	logFile   = "gluesql.log"
	logLevel  = "info"
	logStderr = false
	logWriter io.WriteCloser

	configFile = "gluesql.hcl"
	noConfig   = false

	cfg = config.NewConfig()
)

func init() {
	log.SetFormatter(&log.TextFormatter{
		DisableLevelTruncation: true,
	})

	fs := gluesqlCmd.PersistentFlags()

	fs.StringVar(&logFile, "log-file", logFile, "`file` to use for logging")
	cfg.Var(fs, "log-file")

	fs.StringVar(&logLevel, "log-level", logLevel,
		"log level: trace, debug, info, warn, error, fatal, or panic")
	cfg.Var(fs, "log-level")

	fs.BoolVarP(&logStderr, "log-stderr", "s", logStderr, "log to standard error")

	fs.StringVar(&configFile, "config-file", configFile, "`file` to load config from")
	fs.BoolVar(&noConfig, "no-config", noConfig, "don't load config file")

	initStoreFlags()
}

func Execute() error {
	return gluesqlCmd.Execute()
}

func gluesqlPreRun(cmd *cobra.Command, args []string) error {
	cfg.Visit(cmd.Flags())

	if configFile != "" && !noConfig {
		err := cfg.LoadFile(configFile)
		if os.IsNotExist(err) && !cmd.Flags().Changed("config-file") {
			err = nil
		}
		if err != nil {
			return fmt.Errorf("gluesql: %s", err)
		}
	}

	if !logStderr && logFile != "" {
		var err error
		logWriter, err = os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
		if err != nil {
			logWriter = nil
			return fmt.Errorf("gluesql: %s", err)
		}
		log.SetOutput(logWriter)
	}

	ll, err := log.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("gluesql: %s", err)
	}
	log.SetLevel(ll)

	log.WithField("pid", os.Getpid()).Info("gluesql starting")
	return nil
}

func gluesqlPostRun(cmd *cobra.Command, args []string) {
	log.WithField("pid", os.Getpid()).Info("gluesql done")

	if logWriter != nil {
		logWriter.Close()
	}
}
