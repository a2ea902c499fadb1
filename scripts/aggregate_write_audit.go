// Command aggregate_write_audit scans internal/services and reports every method
// that writes recitation sessions or progress rows through a repo instead of an
// aggregate. With -strict it exits non-zero when any such write is found.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type repoField struct {
	Name     string `json:"name"`
	RepoType string `json:"repo_type"`
	Guarded  bool   `json:"guarded"`
}

type methodStats struct {
	StructName           string   `json:"struct_name"`
	Method               string   `json:"method"`
	File                 string   `json:"file"`
	Line                 int      `json:"line"`
	GuardedRepoWrites    int      `json:"guarded_repo_writes"`
	GuardedFieldsWritten []string `json:"guarded_fields_written"`
	AggregateWrites      int      `json:"aggregate_writes"`
	AggregateMethodsSeen []string `json:"aggregate_methods_seen"`
}

type auditReport struct {
	GuardedRepoWriteCallsites int           `json:"guarded_repo_write_callsites"`
	AggregateWriteCallsites   int           `json:"aggregate_write_callsites"`
	ResidualMethods           []methodStats `json:"residual_methods"`
	AggregateMethods          []methodStats `json:"aggregate_methods"`
	GuardedFieldInventory     []repoField   `json:"guarded_field_inventory"`
}

type structFields struct {
	RepoFields      map[string]repoField
	AggregateFields map[string]string
}

// Session and progress rows are only written inside an aggregate transaction.
var guardedRepos = map[string]bool{
	"SessionRepo":      true,
	"UserProgressRepo": true,
}

var repoWriteMethods = map[string]bool{
	"Create":               true,
	"MarkAnalyzed":         true,
	"Save":                 true,
	"GetOrCreateForUpdate": true,
}

var aggregateWriteMethods = map[string]bool{
	"Record": true,
	"Apply":  true,
	"Refold": true,
}

func main() {
	strict := flag.Bool("strict", false, "exit 1 when a service writes a guarded repo directly")
	flag.Parse()
	root := "."
	if flag.NArg() > 0 {
		root = flag.Arg(0)
	}

	report, err := audit(root)
	if err != nil {
		exitf("%v", err)
	}
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		exitf("marshal report: %v", err)
	}
	fmt.Println(string(out))
	if *strict && report.GuardedRepoWriteCallsites > 0 {
		exitf("%d guarded repo writes outside aggregates", report.GuardedRepoWriteCallsites)
	}
}

func audit(root string) (auditReport, error) {
	servicesDir := filepath.Join(root, "internal", "services")
	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, servicesDir, func(fi fs.FileInfo) bool {
		name := fi.Name()
		return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go")
	}, 0)
	if err != nil {
		return auditReport{}, fmt.Errorf("parse dir: %w", err)
	}
	pkg, ok := pkgs["services"]
	if !ok {
		return auditReport{}, fmt.Errorf("services package not found in %s", servicesDir)
	}

	fieldsByStruct := map[string]structFields{}
	for _, f := range pkg.Files {
		collectStructFields(f, fieldsByStruct)
	}
	var methods []methodStats
	for filePath, f := range pkg.Files {
		rel, err := filepath.Rel(root, filePath)
		if err != nil {
			rel = filePath
		}
		methods = append(methods, collectMethodStats(fset, f, rel, fieldsByStruct)...)
	}
	return buildReport(fieldsByStruct, methods), nil
}

func collectStructFields(file *ast.File, out map[string]structFields) {
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			if !ok || st.Fields == nil {
				continue
			}
			sf := structFields{RepoFields: map[string]repoField{}, AggregateFields: map[string]string{}}
			for _, field := range st.Fields.List {
				sel, ok := field.Type.(*ast.SelectorExpr)
				if !ok || len(field.Names) == 0 {
					continue
				}
				pkgIdent, ok := sel.X.(*ast.Ident)
				if !ok {
					continue
				}
				typeName := sel.Sel.Name
				for _, name := range field.Names {
					switch {
					case pkgIdent.Name == "repos" && strings.HasSuffix(typeName, "Repo"):
						sf.RepoFields[name.Name] = repoField{
							Name:     name.Name,
							RepoType: typeName,
							Guarded:  guardedRepos[typeName],
						}
					case pkgIdent.Name == "aggregates" && strings.HasSuffix(typeName, "Aggregate"):
						sf.AggregateFields[name.Name] = typeName
					}
				}
			}
			if len(sf.RepoFields) > 0 || len(sf.AggregateFields) > 0 {
				out[ts.Name.Name] = sf
			}
		}
	}
}

func collectMethodStats(fset *token.FileSet, file *ast.File, relFile string, fieldsByStruct map[string]structFields) []methodStats {
	var out []methodStats
	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Recv == nil || fd.Body == nil || len(fd.Recv.List) == 0 {
			continue
		}
		recvName, recvType := recvInfo(fd.Recv.List[0])
		sf, ok := fieldsByStruct[recvType]
		if recvName == "" || !ok {
			continue
		}

		stats := methodStats{
			StructName: recvType,
			Method:     fd.Name.Name,
			File:       filepath.ToSlash(relFile),
			Line:       fset.Position(fd.Pos()).Line,
		}
		guardedFields := map[string]bool{}
		aggMethods := map[string]bool{}

		// matches recv.field.Method(...)
		ast.Inspect(fd.Body, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			fnSel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			rcvSel, ok := fnSel.X.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			base, ok := rcvSel.X.(*ast.Ident)
			if !ok || base.Name != recvName {
				return true
			}
			field, method := rcvSel.Sel.Name, fnSel.Sel.Name
			if rf, ok := sf.RepoFields[field]; ok && rf.Guarded && repoWriteMethods[method] {
				stats.GuardedRepoWrites++
				guardedFields[field] = true
			}
			if _, ok := sf.AggregateFields[field]; ok && aggregateWriteMethods[method] {
				stats.AggregateWrites++
				aggMethods[method] = true
			}
			return true
		})
		stats.GuardedFieldsWritten = sortedKeys(guardedFields)
		stats.AggregateMethodsSeen = sortedKeys(aggMethods)
		out = append(out, stats)
	}
	return out
}

func buildReport(fieldsByStruct map[string]structFields, methods []methodStats) auditReport {
	sort.Slice(methods, func(i, j int) bool {
		if methods[i].File == methods[j].File {
			return methods[i].Line < methods[j].Line
		}
		return methods[i].File < methods[j].File
	})

	var report auditReport
	for _, m := range methods {
		if m.GuardedRepoWrites > 0 {
			report.GuardedRepoWriteCallsites += m.GuardedRepoWrites
			report.ResidualMethods = append(report.ResidualMethods, m)
		}
		if m.AggregateWrites > 0 {
			report.AggregateWriteCallsites += m.AggregateWrites
			report.AggregateMethods = append(report.AggregateMethods, m)
		}
	}

	var keys []string
	inventory := map[string]repoField{}
	for structName, sf := range fieldsByStruct {
		for _, rf := range sf.RepoFields {
			if rf.Guarded {
				key := structName + "." + rf.Name
				keys = append(keys, key)
				inventory[key] = rf
			}
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		report.GuardedFieldInventory = append(report.GuardedFieldInventory, inventory[k])
	}
	return report
}

func recvInfo(field *ast.Field) (string, string) {
	if field == nil || len(field.Names) == 0 {
		return "", ""
	}
	recvName := field.Names[0].Name
	switch t := field.Type.(type) {
	case *ast.StarExpr:
		if id, ok := t.X.(*ast.Ident); ok {
			return recvName, id.Name
		}
	case *ast.Ident:
		return recvName, t.Name
	}
	return "", ""
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
