package form

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseData reads form values from YAML or JSON. Unknown keys are rejected
// so that a typo does not silently leave a field blank.
func ParseData(raw []byte) (FormData, error) {
	var d FormData

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
		return FormData{}, fmt.Errorf("failed to parse form data: %w", err)
	}
	return d, nil
}

// LoadData reads form values from a file, or from stdin when path is "-"
func LoadData(path string) (FormData, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return FormData{}, fmt.Errorf("failed to read form data: %w", err)
	}
	return ParseData(raw)
}
