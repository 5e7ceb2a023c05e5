package engine

import (
	"bytes"
	"strings"
	"testing"

	"meta_forms/internal/api/form/models"
)

func exportSchema() *models.FormSchema {
	return &models.FormSchema{
		FormName: "Thành viên",
		Fields: []models.FieldDefinition{
			{Name: "name", Label: "Name", Type: models.FieldTypeText},
			{Name: "note", Label: "Ghi chú, nội bộ", Type: models.FieldTypeTextarea},
		},
		LocationConfig: &models.LocationDropdownConfig{
			District:   true,
			FixedState: "6863a1",
		},
	}
}

func TestExportSubmissionsCSV_BOMAndHeader(t *testing.T) {
	var buf bytes.Buffer
	err := ExportSubmissionsCSV(&buf, exportSchema(), nil)
	if err != nil {
		t.Fatalf("không mong lỗi: %v", err)
	}

	data := buf.Bytes()
	if !bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		t.Fatal("file export phải bắt đầu bằng BOM UTF-8")
	}

	header := strings.Split(strings.TrimRight(string(data[3:]), "\r\n"), "\r\n")[0]
	// Cột địa bàn đang hoạt động (state fixed + district động) đứng
	// trước, theo thứ tự cấp; sau đó các field theo thứ tự khai báo.
	// Label chứa dấu phẩy phải được bọc nháy kép.
	want := `State,District,Name,"Ghi chú, nội bộ"`
	if header != want {
		t.Errorf("header sai:\nmuốn:  %s\nnhận: %s", want, header)
	}
}

func TestExportSubmissionsCSV_RowsInColumnOrder(t *testing.T) {
	submissions := []models.Submission{
		{Data: map[string]any{
			"state":    "Bihar",
			"district": "Patna",
			"name":     "Asha",
			"note":     `có "nháy" và, phẩy`,
		}},
		{Data: map[string]any{
			"name": "Ravi", // thiếu địa bàn và note: ô trống
		}},
	}

	var buf bytes.Buffer
	if err := ExportSubmissionsCSV(&buf, exportSchema(), submissions); err != nil {
		t.Fatalf("không mong lỗi: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String()[3:], "\r\n"), "\r\n")
	if len(lines) != 3 {
		t.Fatalf("muốn 1 header + 2 dòng dữ liệu, nhận %d dòng", len(lines))
	}
	if lines[1] != `Bihar,Patna,Asha,"có ""nháy"" và, phẩy"` {
		t.Errorf("dòng 1 sai: %s", lines[1])
	}
	// Ô thiếu dữ liệu là chuỗi rỗng giữa các dấu phẩy
	if lines[2] != ",,Ravi," {
		t.Errorf("dòng 2 sai: %s", lines[2])
	}
}

func TestExportColumns_BoothOnlyWhenDynamic(t *testing.T) {
	schema := exportSchema()
	schema.LocationConfig.Booth = true

	keys, labels := ExportColumns(schema)
	if len(keys) != 5 {
		t.Fatalf("muốn 5 cột, nhận %d (%v)", len(keys), keys)
	}
	if keys[2] != "booth" || labels[2] != "Booth" {
		t.Errorf("booth phải đứng sau district và trước các field, nhận keys=%v", keys)
	}
}
