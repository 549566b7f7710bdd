package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	lanesmcp "github.com/peterkuimelis/lanes/internal/mcp"
)

func main() {
	tick := flag.Duration("tick", 0, "sequencer step used to play out each turn (default 50ms)")
	verbose := flag.Bool("verbose", false, "log diagnostics to stderr")
	flag.Parse()

	diag := zap.NewNop()
	if *verbose {
		var err error
		if diag, err = zap.NewDevelopment(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	defer diag.Sync()

	s := server.NewMCPServer("lanes", "1.0.0")
	lanesmcp.NewTools(lanesmcp.NewSession(*tick, diag)).RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
