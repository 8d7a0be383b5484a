package main

import (
	"io"

	"github.com/fatih/color"
	"github.com/rodaine/table"

	dup "github.com/mattkeenan/dup/pkg"
)

// printTable renders duplicates sorted by duplicate path
func printTable(w io.Writer, dm *dup.DuplicateMap) {
	tbl := table.New("File", "Duplicate of")
	tbl.WithHeaderFormatter(color.New(color.Italic).Add(color.Underline).SprintfFunc())
	tbl.WithWriter(w)

	dm.ForEach(func(duplicate, original string) bool {
		tbl.AddRow(duplicate, original)
		return true
	})
	tbl.Print()
}
