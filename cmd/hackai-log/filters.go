package main

import (
	"github.com/helixml/hackai-log/domain/chat"
	"github.com/helixml/hackai-log/internal/config"
	"github.com/spf13/cobra"
)

// filterFlags are the record filters shared by the chat commands.
type filterFlags struct {
	name      string
	composer  string
	since     int64
	until     int64
	minLength int
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Keep records whose name or text contains this string (default: CHAT_NAME_FILTER)")
	cmd.Flags().StringVar(&f.composer, "composer", "", "Keep records from this composer")
	cmd.Flags().Int64Var(&f.since, "since", 0, "Minimum timestamp in milliseconds")
	cmd.Flags().Int64Var(&f.until, "until", 0, "Maximum timestamp in milliseconds")
	cmd.Flags().IntVar(&f.minLength, "min-length", 0, "Minimum text length in characters")
}

// options returns the filters given on the command line. The name filter
// falls back to the configured one.
func (f *filterFlags) options(cmd *cobra.Command, cfg config.AppConfig) []chat.ExtractionOption {
	var opts []chat.ExtractionOption
	flags := cmd.Flags()

	name := cfg.ChatNameFilter()
	if flags.Changed("name") {
		name = f.name
	}
	if name != "" {
		opts = append(opts, chat.WithNameFilter(name))
	}
	if flags.Changed("composer") {
		opts = append(opts, chat.WithComposerID(f.composer))
	}
	if flags.Changed("since") {
		opts = append(opts, chat.WithMinTimestamp(f.since))
	}
	if flags.Changed("until") {
		opts = append(opts, chat.WithMaxTimestamp(f.until))
	}
	if flags.Changed("min-length") {
		opts = append(opts, chat.WithCharacterThreshold(f.minLength))
	}
	return opts
}
