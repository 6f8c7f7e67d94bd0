// Package spreadsheet 逐行读取导入文件
//
// 支持的格式:
//   - .xlsx / .xlsm:读取第一个工作表(excelize流式读取,不把整个工作表载入内存)
//   - .csv:UTF-8编码,可带BOM
//
// 第一个非空行是表头。表头单元格去掉BOM和首尾空格后转为小写,
// 之后每一行按表头位置转换为 列名 → 单元格 的Row,单元格内容原样保留。
// 全空的行直接跳过。
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Row 一行数据:列名(小写) → 单元格原始值
type Row map[string]string

// RowReader 行读取器
// Next在数据读完时返回io.EOF;其他错误均为*ReadError
type RowReader interface {
	Next() (Row, error)
	Close() error
}

var (
	// ErrUnsupportedFormat 不支持的文件扩展名
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrMissingHeader 文件中没有表头行
	ErrMissingHeader = errors.New("missing header row")

	// ErrMissingColumn 表头缺少必需的列
	ErrMissingColumn = errors.New("missing column")
)

// ReadError 读取导入文件失败
type ReadError struct {
	Path string
	Line int // 出错的行号(从1开始),0表示与具体行无关
	Err  error
}

func (e *ReadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("read %s line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// cellSource 不同格式的底层行迭代器
type cellSource interface {
	next() ([]string, error) // 返回一行单元格,结束时返回io.EOF
	close() error
}

// Supported 判断文件扩展名是否支持
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".csv":
		return true
	}
	return false
}

// Open 打开导入文件并读取表头
// required中的列名(小写)必须全部出现在表头里
func Open(path string, required ...string) (RowReader, error) {
	var (
		src cellSource
		err error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		src, err = openXLSX(path)
	case ".csv":
		src, err = openCSV(path)
	default:
		return nil, &ReadError{Path: path, Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))}
	}
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	r := &reader{src: src, path: path}
	if err := r.readHeader(required); err != nil {
		src.close()
		return nil, err
	}
	return r, nil
}

// reader 表头解析和行映射,与具体格式无关
type reader struct {
	src    cellSource
	path   string
	header []string
	line   int
}

// readHeader 读取第一个非空行作为表头
func (r *reader) readHeader(required []string) error {
	for {
		cells, err := r.nextCells()
		if err == io.EOF {
			return &ReadError{Path: r.path, Err: ErrMissingHeader}
		}
		if err != nil {
			return err
		}
		if isBlank(cells) {
			continue
		}

		r.header = make([]string, len(cells))
		seen := make(map[string]bool, len(cells))
		for i, c := range cells {
			r.header[i] = normalizeHeader(c)
			seen[r.header[i]] = true
		}

		var missing []string
		for _, col := range required {
			if !seen[col] {
				missing = append(missing, col)
			}
		}
		if len(missing) > 0 {
			return &ReadError{
				Path: r.path,
				Line: r.line,
				Err:  fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", ")),
			}
		}
		return nil
	}
}

// Next 返回下一条非空数据行
func (r *reader) Next() (Row, error) {
	for {
		cells, err := r.nextCells()
		if err != nil {
			return nil, err
		}
		if isBlank(cells) {
			continue
		}

		row := make(Row, len(r.header))
		for i, name := range r.header {
			if name == "" || i >= len(cells) {
				continue
			}
			// 列名重复时保留第一列
			if _, ok := row[name]; !ok {
				row[name] = cells[i]
			}
		}
		return row, nil
	}
}

func (r *reader) Close() error {
	return r.src.close()
}

// nextCells 读取一行并维护行号,底层错误统一包装为*ReadError
func (r *reader) nextCells() ([]string, error) {
	cells, err := r.src.next()
	if err == io.EOF {
		return nil, io.EOF
	}
	r.line++
	if err != nil {
		return nil, &ReadError{Path: r.path, Line: r.line, Err: err}
	}
	return cells, nil
}

// normalizeHeader 去掉BOM和首尾空格,转为小写
func normalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.ToLower(strings.TrimSpace(s))
}

// isBlank 所有单元格都是空字符串
// 只含空白字符的行不算空行,按原值导入
func isBlank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
