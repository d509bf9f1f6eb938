package form

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestParseData tests YAML and JSON form files
func TestParseData(t *testing.T) {
	want := FormData{
		FirstName: "山田",
		LastName:  "太郎",
		Address:   "東京都渋谷区1-2-3",
		Phone:     "090-1234-5678",
		Agreement: true,
	}

	tests := []struct {
		name    string
		input   string
		want    FormData
		wantErr string
	}{
		{
			name: "yaml",
			input: `firstName: 山田
lastName: 太郎
address: 東京都渋谷区1-2-3
phone: "090-1234-5678"
agreement: true
`,
			want: want,
		},
		{
			name:  "json",
			input: `{"firstName":"山田","lastName":"太郎","address":"東京都渋谷区1-2-3","phone":"090-1234-5678","agreement":true}`,
			want:  want,
		},
		{
			name:  "partial",
			input: "address: 大阪府\n",
			want:  FormData{Address: "大阪府"},
		},
		{
			name:  "empty",
			input: "",
			want:  FormData{},
		},
		{
			name:    "unknown key",
			input:   "fristName: 山田\n",
			wantErr: "fristName",
		},
		{
			name:    "wrong type",
			input:   "agreement: maybe\n",
			wantErr: "failed to parse form data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseData([]byte(tt.input))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("ParseData() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseData() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseData() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestLoadData tests reading a form file from disk
func TestLoadData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.yaml")
	if err := os.WriteFile(path, []byte("firstName: 佐藤\n"), 0600); err != nil {
		t.Fatal(err)
	}

	got, err := LoadData(path)
	if err != nil {
		t.Fatalf("LoadData() error = %v", err)
	}
	if got.FirstName != "佐藤" {
		t.Errorf("FirstName = %q, want 佐藤", got.FirstName)
	}

	if _, err := LoadData(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadData() on missing file succeeded")
	}
}
