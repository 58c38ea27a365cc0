package webservice

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"

	"github.com/nickng/handoff/trace"
)

func cfsmHandler(w http.ResponseWriter, req *http.Request) {
	cfg, err := parseConfig(req)
	if err != nil {
		(&ErrBadRequest{cause: err}).Report(w)
		return
	}
	out := execute(req.Context(), cfg)
	if out.Err != nil {
		log.Println("CFSMs: run failed:", out.Err)
	}

	cfsms := trace.NewCFSMs(out.Events)
	bufCfsm := new(bytes.Buffer)
	cfsms.WriteTo(bufCfsm)
	dot, err := trace.Dot(out.Events)
	if err != nil {
		NewErrInternal(err, "Cannot render dot").Report(w)
		return
	}
	reply := struct {
		CFSM string `json:"CFSM"`
		Dot  string `json:"dot"`
		Time string `json:"time"`
	}{
		CFSM: bufCfsm.String(),
		Dot:  dot,
		Time: out.Result.Elapsed.String(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&reply)
}
