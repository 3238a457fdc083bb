package main

import (
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Option defines command line options.
type Option struct {
	Config     string        `short:"c" long:"config" description:"config file path (default: $NETSCOPE_CONFIG, ./netscope.yaml, XDG, /etc)"`
	Output     string        `short:"o" long:"output" description:"output format" choice:"table" choice:"json" choice:"yaml" default:"table"`
	Input      string        `short:"i" long:"input" description:"render a snapshot exported with -o json|yaml instead of collecting"`
	LogLevel   string        `short:"l" long:"log-level" description:"log level override (trace, debug, info, warn, error)"`
	Debug      bool          `short:"d" long:"debug" description:"debug mode"`
	Docker     string        `long:"docker" description:"container runtime transport override" choice:"cli" choice:"api"`
	Probe      bool          `long:"probe" description:"append the nmap loopback probe to the native port chain"`
	NoBridge   bool          `long:"no-bridge" description:"collect the native environment only"`
	Up         bool          `long:"up" description:"interfaces: only those that are up and not loopback"`
	Interval   time.Duration `long:"interval" description:"with 'all': refresh repeatedly at this interval until interrupted"`
	Limit      int           `long:"limit" description:"failures: number of rows to show" default:"50"`
	Cycle      string        `long:"cycle" description:"failures: only those recorded during this refresh cycle id"`
	InitConfig bool          `long:"init-config" description:"write a default config to --config (or the per-user location) and exit"`
	Version    bool          `short:"v" long:"version" description:"display the version and exit"`
	query      string
	queryArg   string
}

var queries = map[string]bool{
	"interfaces": false,
	"ports":      false,
	"networks":   false,
	"containers": true,
	"firewall":   false,
	"routes":     false,
	"ports-for":  true,
	"all":        false,
	"failures":   false,
}

// Parse returns parsed command-line flags in Option struct
func Parse(args []string) (*Option, error) {
	opt := &Option{}
	parser := flags.NewParser(opt, flags.Default)
	parser.Name = "netscope"
	parser.Usage = "[OPTIONS] <interfaces|ports|networks|containers NETWORK|firewall|routes|ports-for INTERFACE|all|failures>"

	rest, err := parser.ParseArgs(args)
	if err != nil {
		return nil, err
	}
	if opt.Version || opt.InitConfig {
		return opt, nil
	}

	if len(rest) == 0 {
		opt.query = "all"
		return opt, nil
	}

	opt.query = rest[0]
	needsArg, ok := queries[opt.query]
	if !ok {
		return nil, fmt.Errorf("unknown query %q", opt.query)
	}
	if needsArg {
		if len(rest) < 2 || rest[1] == "" {
			return nil, fmt.Errorf("query %q needs an argument", opt.query)
		}
		opt.queryArg = rest[1]
	}
	return opt, nil
}

// IsHelp reports whether err is the help request sentinel
func IsHelp(err error) bool {
	return flags.WroteHelp(err)
}
