package cmd

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nickng/handoff/logwriter"
	"github.com/spf13/viper"
)

func TestExportCFSMs(t *testing.T) {
	var out bytes.Buffer
	if err := exportCFSMs(&out, quietLog(t)); err != nil {
		t.Fatalf("exportCFSMs() = %v", err)
	}
	if !strings.HasPrefix(out.String(), "Total of 3 CFSMs (1 are channels)") {
		t.Errorf("output = %q", out.String())
	}

	outdir = t.TempDir()
	prefix = "issue507"
	defer func() { outdir, prefix = "", "output" }()
	out.Reset()
	if err := exportCFSMs(&out, quietLog(t)); err != nil {
		t.Fatalf("exportCFSMs() = %v", err)
	}
	b, err := ioutil.ReadFile(filepath.Join(outdir, "issue507_cfsms"))
	if err != nil {
		t.Fatal(err)
	}
	if len(b) == 0 {
		t.Error("CFSM file is empty")
	}
}

func TestExportDot(t *testing.T) {
	var out bytes.Buffer
	if err := exportDot(&out, quietLog(t)); err != nil {
		t.Fatalf("exportDot() = %v", err)
	}
	for _, s := range []string{"digraph", "cluster_main", "cluster_grandchild"} {
		if !strings.Contains(out.String(), s) {
			t.Errorf("dot output lacks %q:\n%s", s, out.String())
		}
	}

	dotfile = filepath.Join(t.TempDir(), "issue507.dot")
	defer func() { dotfile = "" }()
	if err := exportDot(ioutil.Discard, quietLog(t)); err != nil {
		t.Fatalf("exportDot() = %v", err)
	}
	if b, err := ioutil.ReadFile(dotfile); err != nil || !bytes.Contains(b, []byte("digraph")) {
		t.Errorf("dot file = %q, err %v", b, err)
	}
}

func TestExportMigo(t *testing.T) {
	var out bytes.Buffer
	if err := exportMigo(&out, quietLog(t)); err != nil {
		t.Fatalf("exportMigo() = %v", err)
	}
	for _, s := range []string{"main", "child", "grandchild"} {
		if !strings.Contains(out.String(), s) {
			t.Errorf("MiGo output lacks %q:\n%s", s, out.String())
		}
	}

	outfile = filepath.Join(t.TempDir(), "issue507.migo")
	simplify = true
	defer func() { outfile, simplify = "", false }()
	if err := exportMigo(ioutil.Discard, quietLog(t)); err != nil {
		t.Fatalf("exportMigo() = %v", err)
	}
	if b, err := ioutil.ReadFile(outfile); err != nil || !bytes.Contains(b, []byte("def ")) {
		t.Errorf("MiGo file = %q, err %v", b, err)
	}
}

func TestExecuteLogFile(t *testing.T) {
	viper.Set("depth", 8)
	defer viper.Set("depth", 2)

	path := filepath.Join(t.TempDir(), "handoff.log")
	l := logwriter.NewFile(path, true, false)
	if err := l.Create(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		if _, _, err := execute(scenarioConfig(), l); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	l.Cleanup()

	b, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, line := range strings.Split(strings.TrimSuffix(string(b), "\n"), "\n") {
		if !strings.HasPrefix(line, "task: ") && !strings.HasPrefix(line, "trace: ") {
			t.Fatalf("interleaved log line %q", line)
		}
	}
}
