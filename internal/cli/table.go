package cli

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/leekwars/leekc/internal/ast"
	"github.com/leekwars/leekc/internal/position"
)

func location(span position.Span) string {
	return fmt.Sprintf("%d:%d", span.Start.Line, span.Start.Column)
}

// SymbolRows lists the top-level declarations of prog as kind, name,
// signature and location
func SymbolRows(prog *ast.Program) [][]string {
	var rows [][]string
	for _, g := range prog.Globals {
		t := "any"
		if g.Type != nil {
			t = g.Type.String()
		}
		rows = append(rows, []string{"global", g.Name, t, location(g.Span)})
	}
	for _, f := range prog.Functions {
		rows = append(rows, []string{"function", f.Name, f.String(), location(f.Span)})
	}
	for _, c := range prog.Classes {
		rows = append(rows, []string{"class", c.Name, c.String(), location(c.Span)})
		for _, list := range [][]*ast.FieldDecl{c.Fields, c.StaticFields} {
			for _, f := range list {
				rows = append(rows, []string{"field", c.Name + "." + f.Name, f.String(), location(f.Span)})
			}
		}
		for _, list := range [][]*ast.ClassMethodBlock{c.Constructors, c.Methods, c.StaticMethods} {
			for _, m := range list {
				kind := "method"
				if m.Constructor {
					kind = "constructor"
				}
				rows = append(rows, []string{kind, c.Name + "." + m.Name, m.String(), location(m.Span)})
			}
		}
	}
	return rows
}

// PrintSymbols renders the declarations of prog as a table
func PrintSymbols(w io.Writer, prog *ast.Program) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Kind", "Name", "Signature", "Line"})
	table.SetAutoWrapText(false)
	table.AppendBulk(SymbolRows(prog))
	table.Render()
}

// PrintStats renders the parse counters of prog
func PrintStats(w io.Writer, prog *ast.Program) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Instructions", "Functions", "Classes", "Lambdas", "Includes"})
	table.Append([]string{
		fmt.Sprint(prog.Stats.Instructions), fmt.Sprint(prog.Stats.Functions),
		fmt.Sprint(prog.Stats.Classes), fmt.Sprint(prog.Stats.Lambdas), fmt.Sprint(len(prog.Includes)),
	})
	table.Render()
}
