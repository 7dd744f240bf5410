// Command typemap prints the contract table or reports how one contract
// resolves.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nano-interactive/go-amqp-contracts/contracts"
	"github.com/nano-interactive/go-amqp-contracts/typemap"
)

type row struct {
	Contract string `json:"contract" yaml:"contract"`
	Concrete string `json:"concrete" yaml:"concrete"`
	Kind     string `json:"kind" yaml:"kind"`
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "typemap: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("typemap", flag.ContinueOnError)
	fs.SetOutput(out)

	format := fs.String("format", "yaml", "output format: yaml|json")
	resolve := fs.String("resolve", "", "contract to resolve, e.g. contracts.HostInfo or contracts.Fault[contracts.HostInfo]")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *resolve != "" {
		return report(out, contracts.DefaultFactory, lookup(contracts.Default, *resolve))
	}

	rows := table(contracts.Default)

	switch *format {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return err
		}

		return enc.Close()
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")

		return enc.Encode(rows)
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
}

func table(registry *typemap.Registry) []row {
	rows := make([]row, 0, len(registry.Entries()))

	for _, e := range registry.Entries() {
		rows = append(rows, row{Contract: e.Contract().Key(), Concrete: e.Concrete().Key(), Kind: "exact"})
	}

	for _, e := range registry.OpenEntries() {
		rows = append(rows, row{Contract: e.Contract().Open().Key(), Concrete: e.Concrete().Open().Key(), Kind: "open"})
	}

	for _, e := range registry.Bindings() {
		rows = append(rows, row{Contract: e.Contract().Key(), Concrete: e.Concrete().Key(), Kind: "bound"})
	}

	return rows
}

// report resolves t through the factory and prints the outcome. Types that
// do not resolve print their reason and return the *UnsupportedTypeError.
func report(out io.Writer, factory *typemap.Factory, t typemap.Type) error {
	conv, err := factory.CreateConverter(t, typemap.Options{})
	if err != nil {
		var unsupported *typemap.UnsupportedTypeError
		if errors.As(err, &unsupported) {
			fmt.Fprintf(out, "%s: unsupported (%s)\n", t.Key(), unsupported.Reason)
		}

		return err
	}

	kind := "exact"
	if res, _ := factory.Registry().Resolve(t); res.Deferred {
		kind = "bound"
	}

	_, err = fmt.Fprintf(out, "%s -> %s (%s)\n", t.Key(), typemap.Of(conv.Concrete()).Key(), kind)

	return err
}

// lookup turns a contract name into a Type. Names may use the package name
// or the full import path; generic contracts take their arguments in
// brackets, and a bare or [T] generic name stands for the open definition.
func lookup(registry *typemap.Registry, name string) typemap.Type {
	base, list, generic := strings.Cut(name, "[")

	if !generic {
		for _, e := range registry.Entries() {
			if name == e.Contract().Key() || name == e.Contract().String() {
				return e.Contract()
			}
		}
	}

	for _, e := range registry.OpenEntries() {
		def := e.Contract()
		if base != def.String() && base != path.Base(def.PkgPath)+"."+def.Name {
			continue
		}

		if !generic {
			return def.Open()
		}

		args := splitArgs(strings.TrimSuffix(list, "]"))
		bound := make([]typemap.Type, 0, len(args))
		for _, arg := range args {
			bound = append(bound, argument(registry, arg))
		}

		return def.Bind(bound...)
	}

	return typemap.Named(name)
}

func argument(registry *typemap.Registry, arg string) typemap.Type {
	if arg == "T" {
		return typemap.Param(arg)
	}

	for _, e := range registry.Entries() {
		if arg == e.Contract().String() {
			return typemap.Named(e.Contract().Key())
		}
	}

	return typemap.Named(arg)
}

func splitArgs(list string) []string {
	if list == "" {
		return nil
	}

	args := make([]string, 0, 1)
	depth, start := 0, 0

	for i := 0; i < len(list); i++ {
		switch list[i] {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(list[start:i]))
				start = i + 1
			}
		}
	}

	return append(args, strings.TrimSpace(list[start:]))
}
