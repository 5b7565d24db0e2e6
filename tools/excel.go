package tools

import (
	"fmt"
	"reflect"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const excelTimeLayout = "2006-01-02 15:04:05"

type excelColumn struct {
	index  []int
	header string
}

// excelColumns 按 excel 标签收集列，匿名嵌入的结构体会被展开，excel:"-" 跳过
func excelColumns(t reflect.Type, parent []int) []excelColumn {
	var cols []excelColumn
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		idx := append(append([]int(nil), parent...), i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			cols = append(cols, excelColumns(sf.Type, idx)...)
			continue
		}
		if !sf.IsExported() {
			continue
		}
		header := sf.Tag.Get("excel")
		if header == "-" {
			continue
		}
		if header == "" {
			header = sf.Name
		}
		cols = append(cols, excelColumn{index: idx, header: header})
	}
	return cols
}

func excelValue(v reflect.Value) any {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if t, ok := v.Interface().(time.Time); ok {
		if t.IsZero() {
			return ""
		}
		return t.Format(excelTimeLayout)
	}
	return v.Interface()
}

// ExportToExcel 将结构体切片写入指定 sheet，第一行为表头
func ExportToExcel(f *excelize.File, sheet string, data any) error {
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice {
		return fmt.Errorf("data %T 不是切片", data)
	}
	elemType := v.Type().Elem()
	if elemType.Kind() == reflect.Ptr {
		elemType = elemType.Elem()
	}
	if elemType.Kind() != reflect.Struct {
		return fmt.Errorf("data %T 不是结构体切片", data)
	}
	if sheet == "" {
		sheet = "Sheet1"
	}
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}

	cols := excelColumns(elemType, nil)
	for i, col := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col.header); err != nil {
			return err
		}
	}

	row := 2
	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		if elem.Kind() == reflect.Ptr {
			if elem.IsNil() {
				continue
			}
			elem = elem.Elem()
		}
		for j, col := range cols {
			cell, err := excelize.CoordinatesToCellName(j+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, excelValue(elem.FieldByIndex(col.index))); err != nil {
				return err
			}
		}
		row++
	}
	return nil
}

// WriteExcel 生成只有一个 sheet 的工作簿并作为附件返回
func WriteExcel(c *gin.Context, filename, sheet string, data any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := ExportToExcel(f, sheet, data); err != nil {
		return err
	}
	SetAttachmentHeader(c, filename, ExcelContentType)
	return f.Write(c.Writer)
}
