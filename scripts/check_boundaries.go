package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const modulePath = "moringadesk"

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

// layerRule lists what a layer inside contexts/<ctx>/<svc>/ may import from
// its own service. Stdlib is always allowed. External modules are allowed
// only when allowExternal is set.
type layerRule struct {
	allowedLayers []string
	allowExternal bool
}

var layerRules = map[string]layerRule{
	"domain":      {allowedLayers: []string{"domain"}},
	"ports":       {allowedLayers: []string{"domain"}},
	"application": {allowedLayers: []string{"application", "domain", "ports"}},
	"transport":   {allowedLayers: []string{"transport"}},
}

func main() {
	root := "contexts"
	if len(os.Args) > 1 {
		root = os.Args[1]
	}

	violations, err := collectViolations(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "walk %s: %v\n", root, err)
		os.Exit(2)
	}
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].File != violations[j].File {
			return violations[i].File < violations[j].File
		}
		if violations[i].Line != violations[j].Line {
			return violations[i].Line < violations[j].Line
		}
		return violations[i].Import < violations[j].Import
	})

	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

func collectViolations(root string) ([]violation, error) {
	var violations []violation
	base := filepath.ToSlash(filepath.Clean(root))

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		normalized := filepath.ToSlash(path)
		rel := strings.TrimPrefix(strings.TrimPrefix(normalized, base), "/")
		parts := strings.Split(rel, "/")
		if len(parts) < 3 {
			return nil
		}

		servicePrefix := fmt.Sprintf("%s/contexts/%s/%s", modulePath, parts[0], parts[1])
		layer := ""
		if len(parts) > 3 {
			layer = parts[2]
		}
		violations = append(violations, validateFile(path, normalized, layer, servicePrefix)...)
		return nil
	})
	return violations, err
}

func validateFile(path string, normalizedPath string, layer string, servicePrefix string) []violation {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return []violation{{File: normalizedPath, Line: 1, Rule: "file must parse"}}
	}

	var violations []violation
	for _, imp := range file.Imports {
		importPath := strings.Trim(imp.Path.Value, "\"")
		line := fset.Position(imp.Pos()).Line
		add := func(rule string) {
			violations = append(violations, violation{
				File:   normalizedPath,
				Line:   line,
				Import: importPath,
				Rule:   rule,
			})
		}

		if hasPrefix(importPath, modulePath+"/contexts") && !hasPrefix(importPath, servicePrefix) {
			add("cross-module imports are forbidden")
			continue
		}

		rule, ruled := layerRules[layer]
		if !ruled || isStdlib(importPath) {
			continue
		}
		switch {
		case hasPrefix(importPath, modulePath+"/internal"):
			add(layer + " must not import runtime infrastructure")
		case hasPrefix(importPath, servicePrefix):
			if !isAllowed(importPath, servicePrefix, rule.allowedLayers) {
				add(layer + " import is outside explicit allowlist")
			}
		case !rule.allowExternal:
			add(layer + " must not import external modules")
		}
	}
	return violations
}

func hasPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isAllowed(importPath string, servicePrefix string, layers []string) bool {
	for _, layer := range layers {
		if hasPrefix(importPath, servicePrefix+"/"+layer) {
			return true
		}
	}
	return false
}

// isStdlib treats any import whose first element lacks a dot as stdlib.
func isStdlib(importPath string) bool {
	first, _, _ := strings.Cut(importPath, "/")
	return !strings.Contains(first, ".") && first != modulePath
}
