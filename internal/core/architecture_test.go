package core

import (
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// TestPersistenceBackendsStayBehindCore keeps the concrete saved-game stores
// reachable only through OpenGameStore. Tests of the stores themselves and
// of this package are exempt.
func TestPersistenceBackendsStayBehindCore(t *testing.T) {
	const (
		backendPrefix = "sudokucore/internal/infra/persistence"
		corePkg       = "sudokucore/internal/core"
	)
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports, Tests: false}
	pkgs, err := packages.Load(cfg, "sudokucore/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}
	var violations []string
	for _, pkg := range pkgs {
		if pkg.PkgPath == corePkg || within(pkg.PkgPath, backendPrefix) {
			continue
		}
		for imp := range pkg.Imports {
			if within(imp, backendPrefix) {
				violations = append(violations, pkg.PkgPath+": "+imp)
			}
		}
	}
	sort.Strings(violations)
	for _, v := range violations {
		t.Errorf("direct persistence backend import: %s", v)
	}
}

func within(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
