// Package analyzers contains project-specific static analysis checks.
package analyzers

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
)

// NoExitAnalyzer reports direct os.Exit calls inside main.main. Exiting
// there skips deferred cleanup (database close, logger sync, graceful
// HTTP shutdown), so binaries must return errors to main and let
// log.Fatal handle them instead.
var NoExitAnalyzer = &analysis.Analyzer{
	Name: "noexit",
	Doc:  "reports direct os.Exit calls in main.main",
	Run:  runNoExit,
}

func runNoExit(pass *analysis.Pass) (interface{}, error) {
	if pass.Pkg.Name() != "main" {
		return nil, nil
	}

	for _, f := range pass.Files {
		for _, decl := range f.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Name.Name != "main" || fn.Recv != nil {
				continue
			}
			ast.Inspect(fn.Body, func(n ast.Node) bool {
				if call, ok := n.(*ast.CallExpr); ok && isOsExit(pass, call) {
					pass.Reportf(call.Pos(), "direct call to os.Exit in main.main is forbidden")
				}
				return true
			})
		}
	}
	return nil, nil
}

// isOsExit reports whether the call expression is os.Exit from the
// standard library, not a local identifier that happens to be named os.
func isOsExit(pass *analysis.Pass, call *ast.CallExpr) bool {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "Exit" {
		return false
	}
	ident, ok := sel.X.(*ast.Ident)
	if !ok {
		return false
	}
	pkgName, ok := pass.TypesInfo.Uses[ident].(*types.PkgName)
	return ok && pkgName.Imported().Path() == "os"
}
