package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/alecthomas/kingpin.v2"
	"gopkg.in/yaml.v3"

	strtables "github.com/goliatone/go-strtables"
)

const appName = "strtables"

// go build -ldflags "-X main.version={version}"
var version = "dev"

type cliConfig struct {
	configPath   string
	baseLocale   string
	defaultTable string
	format       string
	logFormat    string
	concurrency  int
	strict       bool
	verbose      bool
	paths        []string
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		reportError(err)
	}

	failed, err := run(cfg, os.Stdout, os.Stderr)
	if err != nil {
		reportError(err)
	}
	if failed {
		os.Exit(1)
	}
}

func reportError(err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
	os.Exit(1)
}

func newApp(cfg *cliConfig) *kingpin.Application {
	app := kingpin.New(appName, "Unify the format specifiers of .strings and .stringsdict tables into one call signature per key.").
		Version(version)

	app.Flag("config", "YAML config file (paths, base_locale, default_table, concurrency).").Short('c').StringVar(&cfg.configPath)
	app.Flag("base-locale", "Language treated as authoritative when a table has no Base localization.").StringVar(&cfg.baseLocale)
	app.Flag("default-table", "Table looked up without a namespace.").StringVar(&cfg.defaultTable)
	app.Flag("format", "Report format.").Short('f').Default("text").EnumVar(&cfg.format, "text", "yaml", "json")
	app.Flag("log-format", "Log format for warnings on stderr.").Default("text").EnumVar(&cfg.logFormat, "text", "json")
	app.Flag("concurrency", "Maximum number of files parsed at once, 0 for no limit.").Default("0").IntVar(&cfg.concurrency)
	app.Flag("strict", "Exit with status 1 when any warning is reported.").BoolVar(&cfg.strict)
	app.Flag("verbose", "Log every loaded file.").Short('v').BoolVar(&cfg.verbose)
	app.Arg("paths", "Table files or directories holding <locale>.lproj folders.").StringsVar(&cfg.paths)

	return app
}

func parseFlags(args []string) (cliConfig, error) {
	var cfg cliConfig
	if _, err := newApp(&cfg).Parse(args); err != nil {
		return cliConfig{}, err
	}
	return cfg, nil
}

// run analyzes the configured tables and writes the report to stdout. It
// reports failed=true in strict mode when warnings were emitted.
func run(cfg cliConfig, stdout, stderr io.Writer) (bool, error) {
	logger := newLogger(stderr, cfg.logFormat, cfg.verbose)

	var opts []strtables.Option
	if cfg.configPath != "" {
		fileCfg, err := strtables.LoadConfigFile(cfg.configPath)
		if err != nil {
			return false, err
		}
		opts = append(opts, fileCfg.Options()...)
	}

	opts = append(opts,
		strtables.WithPaths(cfg.paths...),
		strtables.WithLogger(logger),
		strtables.WithHooks(strtables.LogHook(logger)),
	)
	if cfg.baseLocale != "" {
		opts = append(opts, strtables.WithBaseLocale(cfg.baseLocale))
	}
	if cfg.defaultTable != "" {
		opts = append(opts, strtables.WithDefaultTable(cfg.defaultTable))
	}
	if cfg.concurrency != 0 {
		opts = append(opts, strtables.WithConcurrency(cfg.concurrency))
	}

	report, err := strtables.Analyze(opts...)
	if err != nil {
		return false, err
	}

	if err := writeReport(stdout, cfg.format, report); err != nil {
		return false, err
	}

	return cfg.strict && len(report.Diagnostics) > 0, nil
}

func writeReport(w io.Writer, format string, report *strtables.Report) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	default:
		return writeText(w, report)
	}
}

func writeText(w io.Writer, report *strtables.Report) error {
	var b strings.Builder
	for _, table := range report.Tables {
		locales := make([]string, 0, len(table.Locales))
		for _, locale := range table.Locales {
			if name := locale.String(); name != "" {
				locales = append(locales, name)
			}
		}
		fmt.Fprintf(&b, "%s (%s)", table.Name, table.Identifier)
		if len(locales) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(locales, ", "))
		}
		b.WriteString("\n")
		for _, sig := range table.Signatures {
			fmt.Fprintf(&b, "  %s\n", sig)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
