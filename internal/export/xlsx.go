package export

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sparetex/leadgen-cli/internal/model"
)

// writeWorkbook writes one workbook: a sheet per validation tier, plus
// Golden and Rejected sheets.
func writeWorkbook(path string, accepted, rejected, golden []model.Lead) error {
	f := xlsx.NewFile()

	byTier := make(map[int][]model.Lead)
	for _, lead := range accepted {
		byTier[lead.Tier] = append(byTier[lead.Tier], lead)
	}

	for tier := 1; tier <= 3; tier++ {
		if err := addSheet(f, fmt.Sprintf("Tier %d", tier), byTier[tier]); err != nil {
			return err
		}
	}
	if err := addSheet(f, "Golden", golden); err != nil {
		return err
	}
	if err := addSheet(f, "Rejected", rejected); err != nil {
		return err
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "export: save workbook")
	}
	return nil
}

func addSheet(f *xlsx.File, name string, leads []model.Lead) error {
	sheet, err := f.AddSheet(name)
	if err != nil {
		return eris.Wrapf(err, "export: add sheet %s", name)
	}

	header := sheet.AddRow()
	for _, col := range rowHeader {
		header.AddCell().SetString(col)
	}

	for _, lead := range leads {
		row := sheet.AddRow()
		for _, cell := range fromLead(lead).cells() {
			row.AddCell().SetString(cell)
		}
	}
	return nil
}
