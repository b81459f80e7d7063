package strtables

import (
	"log/slog"
)

// TableReport is the unified output for one table.
type TableReport struct {
	Name       string      `json:"name" yaml:"name"`
	Identifier string      `json:"identifier" yaml:"identifier"`
	Namespace  string      `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Locales    []Locale    `json:"locales" yaml:"locales"`
	Signatures []Signature `json:"signatures" yaml:"signatures"`
}

// Signature returns the signature generated for key.
func (t TableReport) Signature(key string) (Signature, bool) {
	for _, sig := range t.Signatures {
		if sig.Key == key {
			return sig, true
		}
	}
	return Signature{}, false
}

// Report is the result of a run: signatures per table plus every warning.
type Report struct {
	Tables      []TableReport `json:"tables" yaml:"tables"`
	Diagnostics Diagnostics   `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// Table returns the report of a table by name.
func (r *Report) Table(name string) (TableReport, bool) {
	if r == nil {
		return TableReport{}, false
	}
	for _, table := range r.Tables {
		if table.Name == name {
			return table, true
		}
	}
	return TableReport{}, false
}

// Analyzer loads table files and unifies every table.
type Analyzer struct {
	loader       Loader
	unifier      *Unifier
	identifier   IdentifierFunc
	defaultTable string
	logger       *slog.Logger
	hooks        []Hook
}

// Analyze is a shortcut for NewConfig followed by BuildAnalyzer and Run.
func Analyze(opts ...Option) (*Report, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	analyzer, err := cfg.BuildAnalyzer()
	if err != nil {
		return nil, err
	}
	return analyzer.Run()
}

// Run performs one pass. Only fatal problems are returned as errors.
func (a *Analyzer) Run() (*Report, error) {
	store, diags, err := NewStaticStoreFromLoader(a.loader)
	if err != nil {
		return nil, err
	}

	names := store.Tables()
	if a.identifier != nil {
		groups := GroupByIdentifier(names, a.identifier)
		diags.Add(identifierDiagnostics("", NoLocale, "", "strings files", "filenames", groups)...)
		names = groups.Uniques
	}

	report := &Report{Tables: make([]TableReport, 0, len(names))}
	signatures := 0
	for _, name := range names {
		sigs, tableDiags := a.unifier.Unify(name, store.Buckets(name))
		diags.Add(tableDiags...)

		table := TableReport{
			Name:       name,
			Identifier: name,
			Locales:    store.Locales(name),
			Signatures: sigs,
		}
		if a.identifier != nil {
			table.Identifier = a.identifier(name)
		}
		if name != a.defaultTable {
			table.Namespace = name
		}
		report.Tables = append(report.Tables, table)
		signatures += len(sigs)
	}

	report.Diagnostics = diags.Sorted()
	for _, diag := range report.Diagnostics {
		for _, hook := range a.hooks {
			hook.OnDiagnostic(diag)
		}
	}

	a.log().Info("unified string tables",
		slog.Int("tables", len(report.Tables)),
		slog.Int("signatures", signatures),
		slog.Int("diagnostics", len(report.Diagnostics)),
	)

	return report, nil
}

func (a *Analyzer) log() *slog.Logger {
	if a.logger == nil {
		return nopLogger
	}
	return a.logger
}
