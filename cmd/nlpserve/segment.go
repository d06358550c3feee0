package main

import (
	"context"

	"github.com/bastiangx/nlpserve/internal/cli"
	"github.com/bastiangx/nlpserve/internal/logger"
	"github.com/bastiangx/nlpserve/pkg/config"
	"github.com/bastiangx/nlpserve/pkg/engine"
	"github.com/bastiangx/nlpserve/pkg/pipeline"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	segmentTasks string
	segmentDict  string
)

// CLI would be mainly used for testing and dbg purposes.
// Any engine change should be tried here before serving it.
var segmentCmd = &cobra.Command{
	Use:   "segment",
	Short: "Run the pipeline on lines typed at the terminal",
	Long: `Read text from stdin and print the result of the selected tasks for every line.
Type :add, :split or :tasks for the dictionary and task commands, :q to quit.`,
	RunE: runSegment,
}

func init() {
	segmentCmd.Flags().StringVar(&segmentTasks, "tasks", "pos", "Comma separated tasks to run (cws is always included)")
	segmentCmd.Flags().StringVar(&segmentDict, "dict", "", "Custom dictionary file (.txt, .dict or .bin)")
	rootCmd.AddCommand(segmentCmd)
}

func runSegment(cmd *cobra.Command, args []string) error {
	tasks, err := pipeline.ParseTaskSet(segmentTasks)
	if err != nil {
		return err
	}
	cfg, _, err := config.LoadWithPriority(configPath)
	if err != nil {
		return err
	}
	if segmentDict != "" {
		cfg.Engine.DictPath = segmentDict
	}
	// Timestamps only clutter the interactive output.
	logger.Setup(cfg.Log.Level, false, false)
	if debugMode {
		log.SetLevel(log.DebugLevel)
	}

	adapter, err := engine.New(cfg)
	if err != nil {
		return err
	}
	if closer, ok := adapter.(pipeline.Closer); ok {
		defer closer.Close()
	}

	sigHandler()
	log.Debug("Input info:", "tasks", tasks, "window", cfg.MaxWindow, "engine", cfg.Engine.Name)
	return cli.NewInputHandler(adapter, tasks, cfg.MaxWindow).Start(context.Background())
}
