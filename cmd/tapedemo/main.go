// Package main provides a small CLI that records and replays one
// reverse-mode AD tape, to demonstrate the tape and active packages
// end to end.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/born-ml/codirecorder/active"
	"github.com/born-ml/codirecorder/tape"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("codirecorder %s\n", version)
		return
	}

	policy := flag.String("policy", "linear", "index policy to demo: linear or reuse")
	x0 := flag.Float64("x", 3.0, "value to differentiate z = x*x + sin(x) at")
	flag.Parse()

	var recorder tape.Recorder
	switch *policy {
	case "linear":
		recorder = tape.NewLinearTape()
	case "reuse":
		recorder = tape.NewReuseTape()
	default:
		fmt.Fprintf(os.Stderr, "unknown policy %q: want linear or reuse\n", *policy)
		os.Exit(1)
	}

	x := active.New(recorder, *x0)
	x.RegisterInput()

	z := active.Add(active.Mul(x, x), active.Sin(x))
	z.SeedGradient(1)
	recorder.Evaluate()

	fmt.Printf("policy=%s x=%v z=%v dz/dx=%v\n", *policy, *x0, z.Value(), x.Gradient())
}
