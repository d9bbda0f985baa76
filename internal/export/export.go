// Package export renders an analytics report as a downloadable file.
package export

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"stocky/internal/analytics"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// Formats lists every supported export format.
var Formats = []Format{FormatXLSX, FormatPDF}

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// FileName is the attachment name for a report generated at t.
func FileName(f Format, t time.Time) string {
	return fmt.Sprintf("stock-report-%s.%s", t.Format("20060102-150405"), f)
}

// Render builds the report document in the requested format.
func Render(f Format, report *analytics.Report) ([]byte, error) {
	switch f {
	case FormatXLSX:
		return BuildXLSX(report)
	case FormatPDF:
		return BuildPDF(report)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
}
