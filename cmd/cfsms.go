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
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/nickng/handoff/logwriter"
	"github.com/nickng/handoff/trace"
	"github.com/spf13/cobra"
)

var (
	prefix string // Output files prefix
	outdir string // CFMSs output directory
)

// cfsmsCmd represents the cfsms command
var cfsmsCmd = &cobra.Command{
	Use:   "cfsms",
	Short: "Export the regression's communication as CFSMs",
	Long: `Export the regression's communication as CFSMs

Every task that sends or receives becomes a machine, and so does every
channel. Without --outdir the system is written to stdout.`,
	Run: func(cmd *cobra.Command, args []string) {
		l := newLogWriter()
		defer l.Cleanup()
		if err := exportCFSMs(cmd.OutOrStdout(), l); err != nil {
			l.Cleanup()
			log.Fatal(err)
		}
	},
}

func init() {
	cfsmsCmd.Flags().StringVar(&prefix, "prefix", "output", "Output files prefix")
	cfsmsCmd.Flags().StringVar(&outdir, "outdir", "", "Output directory for CFSMs")

	RootCmd.AddCommand(cfsmsCmd)
}

// exportCFSMs writes the summary to out, and the system to out or to a file
// under outdir.
func exportCFSMs(out io.Writer, l *logwriter.Writer) error {
	_, rec, err := execute(scenarioConfig(), l)
	if err != nil {
		l.Logger("cfsms: ").Println("Run failed:", err)
	}
	sys := trace.NewCFSMs(rec.Slice())
	sys.PrintSummary(out)
	if outdir == "" {
		_, err := sys.WriteTo(out)
		return err
	}
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(outdir, prefix+"_cfsms"))
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := sys.WriteTo(f); err != nil {
		return err
	}
	fmt.Fprintln(out, "CFSMs written to", f.Name())
	return nil
}
