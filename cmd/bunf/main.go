// This file is part of BunF.

package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang/glog"
	"github.com/kr/pretty"
	"github.com/pkg/errors"

	"github.com/KittydaCat/BunF/bfasm"
	"github.com/KittydaCat/BunF/lang/bunf"
	"github.com/KittydaCat/BunF/tape"
)

// fileList is a repeatable string flag, following cmd/retro's pattern for
// -with.
type fileList []string

func (f *fileList) String() string     { return "" }
func (f *fileList) Set(s string) error { *f = append(*f, s); return nil }
func (f *fileList) Get() interface{}   { return *f }

var (
	outFileName string
	debug       bool
	run         bool
	dumpShadow  bool
	execStats   bool
	charIn      string
	strIns      fileList
)

func atExit(err error) {
	if err == nil {
		return
	}
	if !debug {
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "\n%+v\n", err)
	os.Exit(1)
}

func main() {
	var err error
	defer func() { atExit(err) }()

	flag.StringVar(&outFileName, "o", "", "write the compiled tape program to `filename` instead of stdout")
	flag.BoolVar(&debug, "debug", false, "enable the compiler's per-operation debug logging")
	flag.BoolVar(&run, "run", false, "run the compiled program on the tape interpreter after compiling")
	flag.BoolVar(&dumpShadow, "dump-shadow", false, "pretty-print the shadow machine's final cell contents")
	flag.BoolVar(&execStats, "stats", false, "print instruction count and cell usage upon exit")
	flag.StringVar(&charIn, "charin", "", "characters fed to successive input_char() calls, in order")
	flag.Var(&strIns, "strin", "string fed to an input_str() call (can be specified multiple times)")
	flag.Parse()

	if flag.NArg() != 1 {
		err = errors.New("usage: bunf [flags] source.bunf")
		return
	}

	src, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		return
	}

	p := bunf.NewParser([]string(strIns), []byte(charIn))
	prog, err := p.Parse(flag.Arg(0), strings.NewReader(string(src)))
	if err != nil {
		return
	}

	ops, scope, err := bunf.Lower(prog)
	if err != nil {
		err = errors.Wrap(err, "lowering")
		return
	}

	m := bfasm.NewMachine(bfasm.WithDebug(debug), bfasm.WithCapacity(scope.Frontier()))
	glog.Infof("compiling %s (%d variables, session %s)", flag.Arg(0), len(scope.Names()), m.SessionID)

	errs, execErr := bfasm.Exec(ops, m)
	if execErr != nil {
		err = errors.Wrap(execErr, "compiling")
		return
	}
	if errs != nil {
		glog.Warningf("%s: %v", flag.Arg(0), errs)
	}

	prog2 := m.Code()
	if outFileName != "" {
		if err = os.WriteFile(outFileName, []byte(prog2.String()), 0644); err != nil {
			return
		}
	} else if !run {
		fmt.Println(prog2.String())
	}

	if dumpShadow {
		fmt.Fprintln(os.Stderr, "shadow cells:")
		if _, err2 := pretty.Println(m.Cells); err2 != nil {
			glog.Warningf("dumping shadow: %v", err2)
		}
	}

	if execStats {
		fmt.Fprintf(os.Stderr, "emitted %s tape instructions, %s logical cells\n",
			humanize.Comma(int64(len(prog2))), humanize.Comma(int64(len(m.Cells))))
	}

	if !run {
		return
	}

	var out bytes.Buffer
	in := tape.New(tape.WithInput(bytes.NewReader(m.ExpectedIn)), tape.WithOutput(&out))
	start := time.Now()
	if err = in.Run(prog2); err != nil {
		err = errors.Wrap(err, "running")
		return
	}
	delta := time.Since(start)
	fmt.Print(out.String())
	if execStats {
		fmt.Fprintf(os.Stderr, "executed %s tape instructions in %v\n",
			humanize.Comma(in.InstructionCount()), delta)
	}
}
