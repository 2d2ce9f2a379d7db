// Command emailmgr processes an unread inbox with Claude: each message
// is classified and then discarded, archived with a generated summary,
// or kept in place and marked read, with every outcome recorded in a
// local audit database.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/nhle/email-manager/internal/model"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// The bare invocation processes one batch; everything else is an
	// explicit subcommand.
	cmd := "run"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd = args[0]
		args = args[1:]
	}

	switch cmd {
	case "run":
		return cmdRun(args)
	case "setup":
		return cmdSetup(args)
	case "history":
		return cmdHistory(args)
	case "archive":
		return cmdArchive(args)
	case "migrate":
		return cmdMigrate(args)
	case "version":
		fmt.Println("emailmgr " + version)
		return 0
	case "help", "-h", "--help":
		usage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "emailmgr: unknown command %q\n\n", cmd)
		usage()
		return 2
	}
}

func usage() {
	fmt.Print(`emailmgr - AI email manager

Usage:
  emailmgr [run] [flags]    process one batch of unread emails
  emailmgr setup            interactive configuration
  emailmgr history          show the processing audit trail
  emailmgr archive          show archived content
  emailmgr migrate          apply pending database migrations
  emailmgr version          print the version

Run 'emailmgr <command> --help' for the flags of a command.
`)
}

// cmdMigrate opens the store, which applies any pending migrations,
// and reports the resulting schema version.
func cmdMigrate(args []string) int {
	fs := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	configPath := fs.String("config", model.DefaultConfigPath(), "path to the configuration file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "emailmgr: %v\n", err)
		return 1
	}

	st, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "emailmgr: %v\n", err)
		return 1
	}
	defer st.Close()

	v, err := st.SchemaVersion()
	if err != nil {
		fmt.Fprintf(os.Stderr, "emailmgr: %v\n", err)
		return 1
	}

	fmt.Printf("database schema at version %d\n", v)
	return 0
}
