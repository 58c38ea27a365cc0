// Copyright © 2016 Nicholas Ng <nickng@projectfate.org>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/nickng/handoff/logwriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string // Path to config file
	logFile   string // Path to log file
	noLogging bool   // Turn off logging
	noColour  bool   // Turn of colour output
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "handoff",
	Short: "Nested spawn regression for handoff channels",
	Long: `handoff runs the nested spawn regression for handoff channels

main creates a channel and spawns a child holding its send end; the child
spawns a grandchild holding the same send end; the grandchild sends a value
that main receives and checks.

Use "handoff run" to run it, or "handoff [migo|cfsms|dot]" to export the
communication it performed.`,
}

// Execute adds all child commands to the root command sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.handoff.yaml)")
	RootCmd.PersistentFlags().StringVar(&logFile, "log", "", "path to log file (default is stdout)")
	RootCmd.PersistentFlags().BoolVar(&noLogging, "no-logging", false, "disable logging")
	RootCmd.PersistentFlags().BoolVar(&noColour, "no-colour", false, "disable colour output")

	flags := RootCmd.PersistentFlags()
	flags.Int("depth", 2, "levels of spawning between main and the sending task")
	flags.Int("value", 42, "value sent by the deepest task")
	flags.Int("expected", 42, "value main expects to receive")
	flags.Duration("timeout", 0, "bound on main's wait (0 waits forever)")
	flags.Bool("skip-send", false, "fault injection: the deepest task does not send")
	flags.Bool("leak", false, "fault injection: the deepest task keeps its send handle")
	for _, key := range []string{"depth", "value", "expected", "timeout", "skip-send", "leak"} {
		if err := viper.BindPFlag(key, flags.Lookup(key)); err != nil {
			log.Fatal(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" { // enable ability to specify config file via flag
		viper.SetConfigFile(cfgFile)
	}

	viper.SetConfigName(".handoff") // name of config file (without extension)
	viper.AddConfigPath("$HOME")    // adding home directory as first search path
	viper.SetEnvPrefix("handoff")   // HANDOFF_DEPTH, HANDOFF_SKIP_SEND, ...
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// newLogWriter creates the log destination selected by the persistent flags.
func newLogWriter() *logwriter.Writer {
	l := logwriter.NewFile(logFile, !noLogging, !noColour)
	if err := l.Create(); err != nil {
		log.Fatal(err)
	}
	return l
}
