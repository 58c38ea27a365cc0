package webservice

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/nickng/handoff/trace"
	"github.com/nickng/migo/v3/migoutil"
)

func migoHandler(w http.ResponseWriter, req *http.Request) {
	cfg, err := parseConfig(req)
	if err != nil {
		(&ErrBadRequest{cause: err}).Report(w)
		return
	}
	out := execute(req.Context(), cfg)
	if out.Err != nil {
		log.Println("MiGo: run failed:", out.Err)
	}
	prog := trace.MiGo(out.Events)
	if req.URL.Query().Get("simplify") != "" {
		migoutil.SimplifyProgram(prog)
	}

	reply := struct {
		MiGo string `json:"MiGo"`
		Time string `json:"time"`
	}{
		MiGo: prog.String(),
		Time: out.Result.Elapsed.String(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&reply)
}
