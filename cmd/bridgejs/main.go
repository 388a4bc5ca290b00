package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/wudi/ocrbridge/bridge"
	"github.com/wudi/ocrbridge/engine/card"
	"github.com/wudi/ocrbridge/scripting"
)

func main() {
	timeout := flag.Duration("timeout", 30*time.Second, "script execution timeout")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: bridgejs [-timeout 30s] script.js")
		os.Exit(1)
	}
	src, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "read script: %v\n", err)
		os.Exit(1)
	}

	eng := scripting.NewEngine()
	if err := eng.RegisterBridge(bridge.New(card.New)); err != nil {
		fmt.Fprintf(os.Stderr, "register bridge: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	out, err := eng.Execute(ctx, string(src))
	if err != nil {
		fmt.Fprintf(os.Stderr, "execute: %v\n", err)
		os.Exit(1)
	}
	if out != nil {
		fmt.Println(out)
	}
}
