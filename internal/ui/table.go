package ui

import (
	"bytes"

	"github.com/mgutz/ansi"
	"github.com/tomlazar/table"
)

// RenderTable renders rows below headers, with alternating row colors if color is true
func RenderTable(headers []string, rows [][]string, color bool) (string, error) {
	tab := table.Table{
		Headers: headers,
		Rows:    rows,
	}
	var buf bytes.Buffer
	err := tab.WriteTable(&buf, &table.Config{
		ShowIndex:       false,
		Color:           color,
		AlternateColors: true,
		TitleColorCode:  ansi.ColorCode("white+buf"),
		AltColorCodes: []string{
			ansi.ColorCode("white"),
			ansi.ColorCode("white:236"),
		},
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PrintTable renders a table and prints it, errors are logged
func PrintTable(headers []string, rows [][]string, color bool) {
	tableString, err := RenderTable(headers, rows, color)
	if err != nil {
		Error("Unable to render table: %v", err)
		return
	}
	Printfln("%s", tableString)
}
