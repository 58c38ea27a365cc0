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
	"io"
	"io/ioutil"
	"log"

	"github.com/nickng/handoff/logwriter"
	"github.com/nickng/handoff/trace"
	"github.com/spf13/cobra"
)

var dotfile string // Path to dot output

// dotCmd represents the dot command
var dotCmd = &cobra.Command{
	Use:   "dot",
	Short: "Export the regression's communication as a Graphviz graph",
	Long: `Export the regression's communication as a Graphviz graph

One cluster per task; dashed edges are spawns, red edges connect a send to
the receive that consumed it.`,
	Run: func(cmd *cobra.Command, args []string) {
		l := newLogWriter()
		defer l.Cleanup()
		if err := exportDot(cmd.OutOrStdout(), l); err != nil {
			l.Cleanup()
			log.Fatal(err)
		}
	},
}

func init() {
	dotCmd.Flags().StringVar(&dotfile, "output", "", "output dot file (default is stdout)")

	RootCmd.AddCommand(dotCmd)
}

func exportDot(out io.Writer, l *logwriter.Writer) error {
	_, rec, err := execute(scenarioConfig(), l)
	if err != nil {
		l.Logger("dot: ").Println("Run failed:", err)
	}
	dot, err := trace.Dot(rec.Slice())
	if err != nil {
		return err
	}
	if dotfile == "" {
		_, err := io.WriteString(out, dot)
		return err
	}
	return ioutil.WriteFile(dotfile, []byte(dot), 0644)
}
