package spreadsheet

import (
	"encoding/csv"
	"os"
)

// csvSource 基于encoding/csv的逐行读取
type csvSource struct {
	file *os.File
	r    *csv.Reader
}

func openCSV(path string) (*csvSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // 允许各行列数不同(短行缺少尾部列)

	return &csvSource{file: f, r: r}, nil
}

func (s *csvSource) next() ([]string, error) {
	return s.r.Read()
}

func (s *csvSource) close() error {
	return s.file.Close()
}
