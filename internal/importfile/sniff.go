package importfile

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	errs "exam-admin-console/pkg/errors"

	"github.com/xuri/excelize/v2"
)

// Sniff checks an import file before it is uploaded and returns the number
// of data rows. The remote service still validates every row; this only
// rejects files that cannot possibly import (wrong format, header only).
func Sniff(filename string, data []byte) (int, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return sniffCSV(data)
	case ".xlsx":
		return sniffXLSX(data)
	default:
		return 0, errs.ErrInvalidFileFormat
	}
}

func sniffCSV(data []byte) (int, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	rows := 0
	for {
		_, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("%w: %v", errs.ErrInvalidFileFormat, err)
		}
		rows++
	}

	if rows < 2 { // header + at least one data row
		return 0, errs.ErrInvalidFileFormat
	}
	return rows - 1, nil
}

func sniffXLSX(data []byte) (int, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errs.ErrInvalidFileFormat, err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return 0, errs.ErrInvalidFileFormat
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return 0, errs.ErrInvalidFileFormat
	}
	return len(rows) - 1, nil
}
