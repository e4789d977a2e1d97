package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/kjhartley/gofat32"
	"github.com/kjhartley/gofat32/engine"
	"github.com/kjhartley/gofat32/geometry"
)

func main() {
	slug := flag.String("geometry", "tiny", "named disk geometry preset to simulate")
	flag.Parse()

	g, err := geometry.GetPreset(*slug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	eng, err := engine.New(g.ClusterBytes, g.ClusterCount, gofat32.SystemClock{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := eng.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("gofat32 simulator — %s (%d x %d bytes). Type 'help' for commands.\n",
		g.Name, g.ClusterCount, g.ClusterBytes)

	shell := NewShell(eng)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(shell.Prompt())
		if !scanner.Scan() {
			return
		}
		if err := shell.Dispatch(scanner.Text()); err != nil {
			if err == errExit {
				return
			}
			fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		}
	}
}
