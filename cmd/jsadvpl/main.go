package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/reusee/dscope"

	"jsadvpl/pkg/config"
	"jsadvpl/pkg/logs"
	"jsadvpl/pkg/parser"
)

// Exit codes follow sysexits.h.
const (
	exitOK       = 0
	exitUsage    = 64
	exitDataErr  = 65
	exitSoftware = 70
)

type Module struct {
	dscope.Module
	Config config.Module
	Logs   logs.Module
}

func main() {
	exprFlag := flag.String("e", "", "Transpile the given code and print the result")
	outputFlag := flag.String("o", "", "Output file (default: input file with .prw extension, - for stdout); output directory with -dir")
	dirFlag := flag.String("dir", "", "Transpile every .js file under the directory")
	replFlag := flag.Bool("repl", false, "Start an interactive session")
	serveFlag := flag.String("serve", "", "Serve the HTTP API on the given address (\"config\" uses server.addr)")
	tokensFlag := flag.Bool("tokens", false, "Print the token stream instead of transpiling")
	astDumpFlag := flag.Bool("ast", false, "Show AST dump before generation")
	configFlag := flag.String("config", "", "Comma-separated CUE configuration files")
	logLevelFlag := flag.String("log-level", "", "Log level: debug, info, warn or error")
	encodingFlag := flag.String("encoding", "", "Output encoding: utf-8 or windows-1252")
	nameFlag := flag.String("name", "", "Name documented in the Protheus.doc header")

	flag.Parse()

	parser.DumpASTEnabled = *astDumpFlag

	var paths config.Paths
	if *configFlag != "" {
		paths = strings.Split(*configFlag, ",")
	}

	code := exitOK
	dscope.New(new(Module)).Fork(
		func() config.Paths {
			return paths
		},
	).Call(func(
		load config.LoadConfig,
		logger logs.Logger,
	) {
		cfg, err := load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: config: %v\n", err)
			code = exitUsage
			return
		}
		if *logLevelFlag != "" {
			cfg.LogLevel = *logLevelFlag
		}
		if *encodingFlag != "" {
			cfg.Generator.Encoding = *encodingFlag
		}
		if *nameFlag != "" {
			cfg.Generator.Name = *nameFlag
		}
		if err := logs.SetLevel(cfg.LogLevel); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			code = exitUsage
			return
		}

		a, err := newApp(cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			code = exitUsage
			return
		}

		switch {
		case *serveFlag != "":
			code = a.serve(*serveFlag)
		case *tokensFlag:
			code = a.printTokens(*exprFlag, flag.Args())
		case *exprFlag != "":
			code = a.runExpression(*exprFlag)
		case *dirFlag != "":
			code = a.runDir(*dirFlag, *outputFlag)
		case flag.NArg() > 1:
			fmt.Fprintf(os.Stderr, "Usage: jsadvpl [flags] <input.js> or jsadvpl -e \"code\" or jsadvpl -dir <path>\n")
			code = exitUsage
		case flag.NArg() == 1:
			code = a.runFile(flag.Arg(0), *outputFlag)
		case *replFlag || stdinIsTerminal():
			code = a.runRepl()
		default:
			code = a.runStdin()
		}
	})
	os.Exit(code)
}
