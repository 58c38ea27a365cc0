package webservice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/nickng/handoff/trace"
)

func indexHandler(w http.ResponseWriter, req *http.Request) {
	if req.URL.Path != "/" {
		http.NotFound(w, req)
		return
	}
	fmt.Fprintln(w, "handoff nested spawn regression")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "POST /run   run and report the received value and trace")
	fmt.Fprintln(w, "POST /cfsm  run and return CFSMs and dot graph")
	fmt.Fprintln(w, "POST /migo  run and return MiGo types")
	fmt.Fprintln(w)
	fmt.Fprintln(w, `body (optional): {"depth":2,"value":42,"expected":42,"skipSend":false,"leak":false,"timeout":"1s"}`)
}

func runHandler(w http.ResponseWriter, req *http.Request) {
	cfg, err := parseConfig(req)
	if err != nil {
		(&ErrBadRequest{cause: err}).Report(w)
		return
	}
	out := execute(req.Context(), cfg)

	buf := new(bytes.Buffer)
	if _, err := trace.Write(buf, trace.Canonical(out.Events)); err != nil {
		NewErrInternal(err, "Cannot write trace").Report(w)
		return
	}
	reply := struct {
		Value int    `json:"value"`
		OK    bool   `json:"ok"`
		Error string `json:"error,omitempty"`
		Trace string `json:"trace"`
		Time  string `json:"time"`
	}{
		Value: out.Result.Value,
		OK:    out.Err == nil,
		Trace: buf.String(),
		Time:  out.Result.Elapsed.String(),
	}
	if out.Err != nil {
		reply.Error = out.Err.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&reply)
}
