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
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/nickng/handoff/logwriter"
	"github.com/nickng/handoff/scenario"
	"github.com/nickng/handoff/task"
	"github.com/nickng/handoff/trace"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// drainTimeout bounds the wait for spawned tasks after main has returned.
const drainTimeout = 5 * time.Second

var dumpTrace bool // Print the canonical trace after the run

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the nested spawn regression",
	Long: `Run the nested spawn regression

Exits with status 0 if and only if main receives the expected value.`,
	Run: func(cmd *cobra.Command, args []string) {
		l := newLogWriter()
		defer l.Cleanup()
		if err := runRegression(cmd.OutOrStdout(), l); err != nil {
			l.Cleanup()
			log.Fatal(err)
		}
	},
}

func init() {
	runCmd.Flags().BoolVar(&dumpTrace, "trace", false, "print the communication trace")

	RootCmd.AddCommand(runCmd)
}

// scenarioConfig reads the scenario configuration from flags, config file
// and environment.
func scenarioConfig() scenario.Config {
	return scenario.Config{
		Depth:    viper.GetInt("depth"),
		Value:    viper.GetInt("value"),
		Expected: viper.GetInt("expected"),
		SkipSend: viper.GetBool("skip-send"),
		Leak:     viper.GetBool("leak"),
		Timeout:  viper.GetDuration("timeout"),
	}
}

// execute runs the scenario with cfg and waits for every task to finish so
// the returned trace is complete.
func execute(cfg scenario.Config, l *logwriter.Writer) (scenario.Result, *trace.Recorder, error) {
	rec := trace.NewRecorder(l.Logger("trace: "))
	pool := task.New(task.WithLogger(l.Logger("task: ")), task.WithObserver(rec))
	res, err := scenario.Run(context.Background(), pool, rec, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if werr := pool.Wait(ctx); werr != nil {
		l.Logger("handoff: ").Println("tasks did not finish cleanly:", werr)
	}
	return res, rec, err
}

func runRegression(out io.Writer, l *logwriter.Writer) error {
	res, rec, err := execute(scenarioConfig(), l)
	if dumpTrace {
		if _, werr := trace.Write(out, trace.Canonical(rec.Slice())); werr != nil {
			return werr
		}
	}
	if err != nil {
		fmt.Fprintln(out, color.RedString("❌ %v", err))
		return err
	}
	fmt.Fprintln(out, color.GreenString("✓ received %d in %s", res.Value, res.Elapsed))
	var groups []string
	for _, g := range trace.Groups(rec.Slice()) {
		groups = append(groups, "{"+strings.Join(g, " ")+"}")
	}
	fmt.Fprintln(out, "communication groups:", strings.Join(groups, " "))
	return nil
}
