package service

import (
	"testing"
)

func TestParseCSV_StripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Name,Mobile No.\nAsha,98\n")...)

	headers, rows, err := parseCSV(data)
	if err != nil {
		t.Fatalf("không mong lỗi: %v", err)
	}
	if len(headers) != 2 || headers[0] != "Name" {
		t.Errorf("BOM phải bị bỏ trước khi parse header, nhận %v", headers)
	}
	if len(rows) != 1 || rows[0]["Name"] != "Asha" {
		t.Errorf("dòng dữ liệu sai: %v", rows)
	}
}

func TestParseCSV_ShortRowsPadded(t *testing.T) {
	data := []byte("Name,Mobile No.\nAsha\n")

	_, rows, err := parseCSV(data)
	if err != nil {
		t.Fatalf("không mong lỗi: %v", err)
	}
	if rows[0]["Mobile No."] != "" {
		t.Errorf("ô thiếu phải coi là rỗng, nhận %q", rows[0]["Mobile No."])
	}
}

func TestParseTabularFile_DefaultsToCSV(t *testing.T) {
	data := []byte("Name\nAsha\n")

	headers, rows, err := parseTabularFile("members.txt", data)
	if err != nil {
		t.Fatalf("đuôi file lạ phải fallback sang CSV: %v", err)
	}
	if headers[0] != "Name" || rows[0]["Name"] != "Asha" {
		t.Errorf("parse sai: headers=%v rows=%v", headers, rows)
	}
}

func TestRecordsToRows_EmptyFile(t *testing.T) {
	if _, _, err := recordsToRows(nil); err == nil {
		t.Fatal("file không có dòng nào phải báo lỗi không có dữ liệu")
	}
}
