package cmd

import (
	"fmt"

	"github.com/etnz/taxreform"
	"github.com/xuri/excelize/v2"
)

const (
	comparisonSheet = "Comparison"
	exitsSheet      = "Exits"
)

var (
	comparisonHeaders = []string{"File", "Current total", "Reform total", "Reform total with reduction", "Difference", "Percent points", "Classification"}
	exitsHeaders      = []string{"File", "Regime", "Code", "Tax", "Aliquot (%)", "Base", "Debit", "Credit", "Due"}
)

// newWorkbook lays out batch rows in a Comparison and an Exits sheet.
func newWorkbook(rows []batchRow) (*excelize.File, error) {
	f := excelize.NewFile()
	idx, err := f.NewSheet(comparisonSheet)
	if err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(exitsSheet); err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	comparison := [][]any{anyRow(comparisonHeaders)}
	exits := [][]any{anyRow(exitsHeaders)}
	for _, row := range rows {
		r := row.Result
		comparison = append(comparison, []any{
			row.File,
			r.Before.TotalDue.Float64(),
			r.After.TotalDue.Float64(),
			r.After.TotalDueWithReduction.Float64(),
			r.Comparison.Difference.Float64(),
			r.Comparison.DifferencePercentPoints.Float64(),
			r.Comparison.Classification.String(),
		})
		exits = append(exits, exitRows(row.File, "current", r.Before.Exits)...)
		exits = append(exits, exitRows(row.File, "reform", r.After.Exits)...)
	}

	if err := writeSheet(f, comparisonSheet, comparison, header, len(comparisonHeaders)); err != nil {
		return nil, err
	}
	if err := writeSheet(f, exitsSheet, exits, header, len(exitsHeaders)); err != nil {
		return nil, err
	}
	return f, nil
}

func exitRows(file, regime string, exits []taxreform.TaxExit) [][]any {
	var rows [][]any
	for _, e := range exits {
		rows = append(rows, []any{
			file, regime, e.Code.String(), e.Label,
			e.Aliquot.Float64(), e.Base.Float64(), e.Debit.Float64(), e.Credit.Float64(), e.Due.Float64(),
		})
	}
	return rows
}

func anyRow(values []string) []any {
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}

// writeSheet writes rows from A1, the first one styled as a header.
func writeSheet(f *excelize.File, sheet string, rows [][]any, header, columns int) error {
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("%s!%s: %w", sheet, cell, err)
			}
		}
	}
	last, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, header)
}
