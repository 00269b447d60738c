// Package hostdata loads tabular host descriptions (CSV, TSV or XLSX) into
// ordered host records.
package hostdata

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ninebynine/netconfig/pkg/models"
)

// Column layout of the host table. Column 0 holds the row label.
const (
	colName  = 1
	colIP    = 2
	colMAC   = 3
	colDescr = 4
	minCols  = 5
)

// Load reads the host description at path; the extension selects the reader.
// Records keep first-appearance order, and a repeated host name replaces the
// earlier record in place.
func Load(path string) ([]models.Host, error) {
	return LoadVisit(path, nil)
}

// LoadVisit is Load with a hook: visit is called for every named row in input
// order, repeated names included, before deduplication.
func LoadVisit(path string, visit func(models.Host)) ([]models.Host, error) {
	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readDelimited(path, ',')
	case ".tsv":
		rows, err = readDelimited(path, '\t')
	case ".xlsx", ".xlsm":
		rows, err = readWorkbook(path)
	default:
		return nil, fmt.Errorf("unrecognized host table %s; must be CSV, TSV or XLSX", path)
	}
	if err != nil {
		return nil, err
	}
	return fromRows(rows, visit), nil
}

func readDelimited(path string, comma rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open host table: %v", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = comma
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read host table %s: %v", path, err)
	}
	return rows, nil
}

func readWorkbook(path string) ([][]string, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %v", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read workbook %s: %v", path, err)
	}
	return rows, nil
}

// fromRows filters raw rows into host records. Rows with fewer than five
// columns or an empty name column are skipped.
func fromRows(rows [][]string, visit func(models.Host)) []models.Host {
	hosts := make([]models.Host, 0, len(rows))
	index := make(map[string]int)
	for _, row := range rows {
		if len(row) < minCols {
			continue
		}
		h := models.Host{
			Name:    strings.TrimSpace(row[colName]),
			IPAddr:  strings.TrimSpace(row[colIP]),
			MACAddr: strings.TrimSpace(row[colMAC]),
			Descr:   strings.TrimSpace(row[colDescr]),
		}
		if h.Name == "" {
			continue
		}
		if visit != nil {
			visit(h)
		}
		if i, ok := index[h.Name]; ok {
			hosts[i] = h
			continue
		}
		index[h.Name] = len(hosts)
		hosts = append(hosts, h)
	}
	return hosts
}
