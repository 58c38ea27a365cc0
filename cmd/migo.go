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
	"log"
	"os"

	"github.com/nickng/handoff/logwriter"
	"github.com/nickng/handoff/trace"
	"github.com/nickng/migo/v3/migoutil"
	"github.com/spf13/cobra"
)

var (
	outfile  string // Path to output file
	simplify bool   // Simplify MiGo output
)

// migoCmd represents the migo command
var migoCmd = &cobra.Command{
	Use:   "migo",
	Short: "Export the regression's communication as MiGo types",
	Long: `Export the regression's communication as MiGo types

Each task becomes a MiGo function, channels it receives from its parent
become parameters.`,
	Run: func(cmd *cobra.Command, args []string) {
		l := newLogWriter()
		defer l.Cleanup()
		if err := exportMigo(cmd.OutOrStdout(), l); err != nil {
			l.Cleanup()
			log.Fatal(err)
		}
	},
}

func init() {
	migoCmd.Flags().StringVar(&outfile, "output", "", "output migo file")
	migoCmd.Flags().BoolVar(&simplify, "simplify", false, "simplify the MiGo program")

	RootCmd.AddCommand(migoCmd)
}

func exportMigo(out io.Writer, l *logwriter.Writer) error {
	_, rec, err := execute(scenarioConfig(), l)
	if err != nil {
		l.Logger("migo: ").Println("Run failed:", err)
	}
	prog := trace.MiGo(rec.Slice())
	if simplify {
		migoutil.SimplifyProgram(prog)
	}
	if outfile != "" {
		f, err := os.Create(outfile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	_, err = io.WriteString(out, prog.String())
	return err
}
