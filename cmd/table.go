package cmd

import (
	"bytes"

	"github.com/markusressel/fanner/cmd/global"
	"github.com/markusressel/fanner/internal/ui"
	"github.com/mgutz/ansi"
	"github.com/tomlazar/table"
)

func createTableConfig() *table.Config {
	return &table.Config{
		ShowIndex:       false,
		Color:           !global.NoColor,
		AlternateColors: true,
		TitleColorCode:  ansi.ColorCode("white+buf"),
		AltColorCodes: []string{
			ansi.ColorCode("white"),
			ansi.ColorCode("white:236"),
		},
	}
}

// printTables prints the given tables below each other, tables without rows are skipped
func printTables(tables ...table.Table) {
	tableConfig := createTableConfig()
	for idx, t := range tables {
		if t.Rows == nil {
			continue
		}
		var buf bytes.Buffer
		tableErr := t.WriteTable(&buf, tableConfig)
		if tableErr != nil {
			ui.Fatal("Error printing table: %v", tableErr)
		}
		tableString := buf.String()
		if idx < (len(tables) - 1) {
			ui.Printf(tableString)
		} else {
			ui.Printfln(tableString)
		}
	}
}
