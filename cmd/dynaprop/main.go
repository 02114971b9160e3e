package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	j "github.com/goccy/go-json"

	dynaprop "github.com/reoring/dynaprop"
	gen "github.com/reoring/dynaprop/internal/gen"
	"github.com/reoring/dynaprop/jsonschema"
	"github.com/reoring/dynaprop/shape"
	"github.com/reoring/dynaprop/shapefile"
	_ "github.com/reoring/dynaprop/source"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "inspect":
		inspectCmd(os.Args[2:])
	case "eval":
		evalCmd(os.Args[2:])
	case "gen":
		genCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `dynaprop CLI

Usage:
  dynaprop inspect -f shapes.yaml [-iface Name] [-schema]
  dynaprop eval -f shapes.yaml -iface Name [-values doc.json] [-yaml]
  dynaprop gen -f shapes.yaml -pkg name -o out.go

inspect prints the introspected properties of each interface in a
shapefile descriptor (-schema prints JSON Schema instead). eval builds
an instance seeded from a JSON or YAML document and prints its export.
gen renders the interfaces as Go source.`)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "dynaprop:", err)
	os.Exit(1)
}

func loadDefs(file string) ([]shape.Def, *shape.Registry) {
	if file == "" {
		fail(fmt.Errorf("missing -f shapes file"))
	}
	defs, err := shapefile.LoadFile(file)
	if err != nil {
		fail(err)
	}
	reg := shape.NewRegistry()
	if err := shapefile.RegisterAll(reg, defs); err != nil {
		fail(err)
	}
	return defs, reg
}

func pickDef(defs []shape.Def, name string) shape.Def {
	if name == "" {
		return defs[0]
	}
	for _, d := range defs {
		if d.Name == name {
			return d
		}
	}
	fail(fmt.Errorf("interface %s is not declared in the shapes file", name))
	return shape.Def{}
}

func inspectCmd(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	var file, iface string
	var asSchema bool
	fs.StringVar(&file, "f", "", "shapefile descriptor")
	fs.StringVar(&iface, "iface", "", "limit output to one interface")
	fs.BoolVar(&asSchema, "schema", false, "print JSON Schema instead of a property listing")
	_ = fs.Parse(args)

	defs, reg := loadDefs(file)
	for _, def := range defs {
		if iface != "" && def.Name != iface {
			continue
		}
		s, err := reg.Resolve(def)
		if err != nil {
			fail(err)
		}
		if asSchema {
			sch, err := jsonschema.FromShape(s, reg)
			if err != nil {
				fail(err)
			}
			b, err := j.MarshalIndent(sch, "", "  ")
			if err != nil {
				fail(err)
			}
			fmt.Println(string(b))
			continue
		}
		fmt.Println(s.Name())
		for _, p := range s.Props() {
			var caps []string
			if p.Readable {
				caps = append(caps, "r")
			}
			if p.Writable {
				caps = append(caps, "w")
			}
			fmt.Printf("  %-20s %-24s %s\n", p.Name, p.Type, strings.Join(caps, ""))
		}
		for _, b := range s.Behaviors() {
			fmt.Printf("  %-20s behavior\n", b.Name)
		}
	}
}

func evalCmd(args []string) {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	var file, iface, valuesFile string
	var asYAML bool
	fs.StringVar(&file, "f", "", "shapefile descriptor")
	fs.StringVar(&iface, "iface", "", "interface to instantiate")
	fs.StringVar(&valuesFile, "values", "", "JSON or YAML document of initial values")
	fs.BoolVar(&asYAML, "yaml", false, "print YAML instead of JSON")
	_ = fs.Parse(args)

	defs, reg := loadDefs(file)
	def := pickDef(defs, iface)

	var vals *dynaprop.Values
	if valuesFile != "" {
		b, err := os.ReadFile(valuesFile)
		if err != nil {
			fail(err)
		}
		src := dynaprop.JSONBytes(b)
		if strings.HasSuffix(valuesFile, ".yaml") || strings.HasSuffix(valuesFile, ".yml") {
			src = dynaprop.YAMLBytes(b)
		}
		vals, err = dynaprop.ParseValues(src, dynaprop.ParseOpt{
			Strictness: dynaprop.Strictness{OnDuplicateKey: dynaprop.Error},
		})
		if err != nil {
			fail(err)
		}
	}

	inst, err := dynaprop.New(def, dynaprop.Config{Values: vals, Registry: reg})
	if err != nil {
		fail(err)
	}
	var out []byte
	if asYAML {
		out, err = dynaprop.ExportYAML(inst)
	} else {
		out, err = j.MarshalIndent(dynaprop.ExportValues(inst), "", "  ")
	}
	if err != nil {
		fail(err)
	}
	fmt.Println(string(out))
}

func genCmd(args []string) {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	var file, pkg, out string
	fs.StringVar(&file, "f", "", "shapefile descriptor")
	fs.StringVar(&pkg, "pkg", "", "package name for the generated file")
	fs.StringVar(&out, "o", "", "output filename (default stdout)")
	_ = fs.Parse(args)

	defs, _ := loadDefs(file)
	src, err := gen.RenderFile(pkg, defs)
	if err != nil {
		fail(err)
	}
	if out == "" {
		fmt.Print(string(src))
		return
	}
	if err := os.WriteFile(out, src, 0o644); err != nil {
		fail(err)
	}
}
