package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := SetOutput(&buf)
	t.Cleanup(func() { SetOutput(previous) })
	return &buf
}

func TestMoneyUsesTwoDecimals(t *testing.T) {
	if got := Money(decimal.RequireFromString("1100")); got != "1100.00" {
		t.Fatalf("expected 1100.00, got %q", got)
	}
	if got := Money(decimal.RequireFromString("-16.666")); !strings.Contains(got, "-16.67") {
		t.Fatalf("expected -16.67 in output, got %q", got)
	}
}

func TestTableAlignsColumns(t *testing.T) {
	buf := capture(t)

	Table([]string{"HOUSEHOLD", "CASH"}, [][]string{{"Nord", "300.00"}, {"Sued-West", "0.00"}})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), buf.String())
	}
	if strings.Index(lines[1], "300.00") != strings.Index(lines[2], "0.00") {
		t.Fatalf("expected aligned columns, got %q", buf.String())
	}
}

func TestJSONIndents(t *testing.T) {
	buf := capture(t)

	if err := JSON(map[string]string{"status": "ok"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if buf.String() != "{\n  \"status\": \"ok\"\n}\n" {
		t.Fatalf("unexpected json output %q", buf.String())
	}
}

func TestSuccessWritesMessage(t *testing.T) {
	buf := capture(t)

	Success("confirmed %d transactions", 2)

	if !strings.Contains(buf.String(), "confirmed 2 transactions") {
		t.Fatalf("expected message in output, got %q", buf.String())
	}
}
