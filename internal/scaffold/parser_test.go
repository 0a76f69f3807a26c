package scaffold

import (
	"strings"
	"testing"
)

func TestParseFields(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      int
		wantDiags int
	}{
		{"empty", "", 0, 0},
		{"single string", "sku:string", 1, 0},
		{"three fields none reserved", "sku:string,price:number:currency,active?:boolean", 3, 0},
		{"reserved standard field dropped", "id:string,sku:string", 1, 1},
		{"reserved audit field dropped", "created_at:date,sku:string", 1, 1},
		{"spaces tolerated", " sku:string , price:number ", 2, 0},
		{"trailing comma", "sku:string,", 1, 0},
		{"bare name defaults to string", "notes", 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, diags, err := ParseFields(tt.input, false)
			if err != nil {
				t.Fatalf("ParseFields() error = %v", err)
			}
			if len(fields) != tt.want {
				t.Errorf("ParseFields() got %d fields, want %d", len(fields), tt.want)
			}
			if len(diags) != tt.wantDiags {
				t.Errorf("ParseFields() got %d diagnostics, want %d", len(diags), tt.wantDiags)
			}
		})
	}
}

func TestParseFieldsOptionalMarker(t *testing.T) {
	fields, _, err := ParseFields("sku:string,price:number:currency,active?:boolean", false)
	if err != nil {
		t.Fatalf("ParseFields() error = %v", err)
	}
	if len(fields) != 3 {
		t.Fatalf("got %d fields, want 3", len(fields))
	}
	if !fields[0].Required || !fields[1].Required {
		t.Error("sku and price should be required")
	}
	if fields[2].Required {
		t.Error("active should be optional")
	}
	if fields[1].Format != "currency" {
		t.Errorf("price format = %q, want currency", fields[1].Format)
	}

	// The marker on the type is tolerated and redundant.
	fields, _, err = ParseFields("due_at:date?,note?:string?", false)
	if err != nil {
		t.Fatalf("ParseFields() error = %v", err)
	}
	if fields[0].Required || fields[1].Required {
		t.Error("both fields should be optional")
	}
	if fields[0].Type != "date" || fields[1].Type != "string" {
		t.Errorf("types = %q, %q after marker stripping", fields[0].Type, fields[1].Type)
	}
}

func TestParseFieldsReservedDiagnosticNamesCategory(t *testing.T) {
	_, diags, err := ParseFields("id:string,updated_at:date,sku:string", false)
	if err != nil {
		t.Fatalf("ParseFields() error = %v", err)
	}
	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics, want 2", len(diags))
	}
	if !strings.Contains(diags[0].Message, "id") || !strings.Contains(diags[0].Message, "standard") {
		t.Errorf("expected a diagnostic naming id as a standard field, got %v", diags)
	}
	if !strings.Contains(diags[1].Message, "updated_at") || !strings.Contains(diags[1].Message, "audit") {
		t.Errorf("expected a diagnostic naming updated_at as an audit field, got %v", diags)
	}
}

func TestParseFieldsReservedExclusion(t *testing.T) {
	reserved := []string{"id", "tenant_id", "version", "is_active", "code", "name", "created_at", "updated_at", "deactivated_at"}

	input := strings.Join(reserved, ":string,") + ":string,sku:string"
	fields, _, err := ParseFields(input, false)
	if err != nil {
		t.Fatalf("ParseFields() error = %v", err)
	}

	for _, d := range DescribeFields(fields) {
		for _, r := range reserved {
			if d.Name == r {
				t.Errorf("reserved field %q survived parsing", r)
			}
		}
	}
	if len(fields) != 1 || fields[0].Name != "sku" {
		t.Errorf("got %+v, want only sku", fields)
	}
}

func TestParseFieldsUnknownType(t *testing.T) {
	// Lenient mode falls back to the string family.
	fields, _, err := ParseFields("payload:json", false)
	if err != nil {
		t.Fatalf("ParseFields() error = %v", err)
	}
	if fields[0].Type != "string" {
		t.Errorf("type = %q, want string fallback", fields[0].Type)
	}

	// Strict mode rejects.
	if _, _, err := ParseFields("payload:json", true); err == nil {
		t.Error("strict ParseFields() accepted unknown type, want error")
	}
}

func TestFieldDSLRoundTrip(t *testing.T) {
	specs := []FieldSpec{
		{Name: "sku", Type: "string", Required: true},
		{Name: "unit_price", Type: "number", Format: "currency", Required: true},
		{Name: "active", Type: "boolean", Required: false},
		{Name: "shipped_at", Type: "date", Required: false},
	}

	parsed, diags, err := ParseFields(SerializeFields(specs), false)
	if err != nil {
		t.Fatalf("ParseFields() error = %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(parsed) != len(specs) {
		t.Fatalf("got %d fields, want %d", len(parsed), len(specs))
	}
	for i, want := range specs {
		got := parsed[i]
		if got.Name != want.Name || got.Type != want.Type || got.Required != want.Required {
			t.Errorf("field %d = %+v, want %+v", i, got, want)
		}
	}
}

func TestDescribeFields(t *testing.T) {
	fields, _, err := ParseFields("sku:string,price:number:currency,qty:number,active?:boolean,shipped_at?:date", false)
	if err != nil {
		t.Fatalf("ParseFields() error = %v", err)
	}
	descs := DescribeFields(fields)

	expected := []struct {
		pascal string
		pyType string
		column string
		isStr  bool
		isNum  bool
	}{
		{"Sku", "str", "String", true, false},
		{"Price", "Decimal", "Numeric", false, true},
		{"Qty", "float", "Numeric", false, true},
		{"Active", "bool", "Boolean", false, false},
		{"ShippedAt", "datetime", "DateTime", false, false},
	}

	for i, exp := range expected {
		d := descs[i]
		if d.NamePascal != exp.pascal {
			t.Errorf("descs[%d].NamePascal = %q, want %q", i, d.NamePascal, exp.pascal)
		}
		if d.PyType != exp.pyType {
			t.Errorf("descs[%d].PyType = %q, want %q", i, d.PyType, exp.pyType)
		}
		if d.ColumnType != exp.column {
			t.Errorf("descs[%d].ColumnType = %q, want %q", i, d.ColumnType, exp.column)
		}
		if d.IsString != exp.isStr || d.IsNumber != exp.isNum {
			t.Errorf("descs[%d] classification flags wrong: %+v", i, d)
		}
		if d.PyOptional != "Optional["+exp.pyType+"]" {
			t.Errorf("descs[%d].PyOptional = %q", i, d.PyOptional)
		}
	}
}
