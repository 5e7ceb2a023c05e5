package engine

import (
	"encoding/csv"
	"io"

	"meta_forms/internal/api/form/models"
	"meta_forms/internal/utility"
)

// Label hiển thị cho các cột địa bàn trong file export
var locationColumnLabels = map[string]string{
	LocationFieldState:    "State",
	LocationFieldDistrict: "District",
	LocationFieldAssembly: "Legislative Assembly",
	LocationFieldBooth:    "Booth",
}

// utf8BOM để Excel nhận diện đúng UTF-8 (label Devanagari)
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ExportColumns trả về danh sách cột export của một form: các cấp địa bàn
// đang hoạt động theo thứ tự cố định state → district → legislativeAssembly
// → booth, sau đó các field theo thứ tự khai báo. Mỗi cột là (key, label).
func ExportColumns(schema *models.FormSchema) (keys []string, labels []string) {
	if cfg := schema.LocationConfig; cfg != nil {
		type level struct {
			name   string
			active bool
		}
		levels := []level{
			{LocationFieldState, cfg.State || cfg.FixedState != ""},
			{LocationFieldDistrict, cfg.District || cfg.FixedDistrict != ""},
			{LocationFieldAssembly, cfg.LegislativeAssembly || cfg.FixedLegislativeAssembly != ""},
			{LocationFieldBooth, cfg.Booth},
		}
		for _, lv := range levels {
			if lv.active {
				keys = append(keys, lv.name)
				labels = append(labels, locationColumnLabels[lv.name])
			}
		}
	}

	for i := range schema.Fields {
		keys = append(keys, schema.Fields[i].Name)
		labels = append(labels, schema.Fields[i].Label)
	}
	return keys, labels
}

// ExportSubmissionsCSV ghi toàn bộ submission của form ra CSV: BOM UTF-8
// đầu file, ngăn cách bằng dấu phẩy, escape dấu nháy kép theo chuẩn CSV.
// Dòng header là label, không phải name.
func ExportSubmissionsCSV(w io.Writer, schema *models.FormSchema, submissions []models.Submission) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}

	keys, labels := ExportColumns(schema)

	writer := csv.NewWriter(w)
	if err := writer.Write(labels); err != nil {
		return err
	}

	row := make([]string, len(keys))
	for i := range submissions {
		for j, key := range keys {
			row[j] = utility.ToString(submissions[i].Data[key])
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
