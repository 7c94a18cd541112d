package dataset

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// decodeExcel converts an Excel workbook (.xlsx, .xls) to CSV using
// unoconv and parses the result. Only the first sheet survives the
// conversion, which matches how uploaded assessment datasets are laid out.
func decodeExcel(data []byte, format Format) (*Table, error) {
	converted, err := transformExcelToCSV(data, string(format))
	if err != nil {
		return nil, &LoadError{Format: format, Err: err}
	}
	table, err := decodeCSV(converted)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			return nil, &LoadError{Format: format, Err: le.Err}
		}
		return nil, err
	}
	return table, nil
}

func transformExcelToCSV(input []byte, ext string) ([]byte, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("nanoid: %w", err)
	}
	tmpDir := filepath.Join(os.TempDir(), "ethica-xls-"+id)
	if err := os.MkdirAll(tmpDir, 0o700); err != nil {
		return nil, fmt.Errorf("mkdir tmp: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	srcPath := filepath.Join(tmpDir, fmt.Sprintf("input.%s", ext))
	if err := os.WriteFile(srcPath, input, 0o600); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	if _, err := exec.LookPath("unoconv"); err != nil {
		return nil, fmt.Errorf("unoconv not found in PATH: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	csvPath := filepath.Join(tmpDir, "input.csv")
	cmd := exec.CommandContext(ctx, "unoconv", "-f", "csv", "-o", csvPath, srcPath)
	cmd.Dir = tmpDir
	cmd.Env = append(os.Environ(), "LANG=C.UTF-8", "LC_ALL=C.UTF-8")
	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("unoconv timed out")
	}
	if err != nil {
		return nil, fmt.Errorf("unoconv failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	csvBytes, err := os.ReadFile(csvPath)
	if err != nil {
		return nil, fmt.Errorf("read converted csv: %w", err)
	}
	return csvBytes, nil
}
