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
	"log"

	"github.com/nickng/handoff/webservice"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server"},
	Short:   "Run an HTTP webservice for demo",
	Long: `Run an HTTP webservice for demo.

Each request runs the regression with the configuration in its JSON body
and replies with the outcome, its trace or its CFSM/MiGo models.`,
	Run: func(cmd *cobra.Command, args []string) {
		Serve()
	},
}

var (
	addr string // Listen interface.
	port string // Listen port.
)

func init() {
	RootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&addr, "bind", "127.0.0.1", "Bind address. Defaults to 127.0.0.1.")
	serveCmd.Flags().StringVar(&port, "port", "6060", "Listen port. Defaults to 6060.")
	serveCmd.Flags().DurationVar(&webservice.MaxWait, "max-wait", webservice.MaxWait, "Longest a request may wait for a value")
}

// Serve starts the HTTP server.
func Serve() {
	server := webservice.NewServer(addr, port)
	defer server.Close()
	if err := server.Start(); err != nil {
		log.Fatal(err)
	}
}
