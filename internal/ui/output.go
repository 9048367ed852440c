package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	pkgtypes "github.com/vietdv277/gatecert/pkg/types"
)

// Output formats
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// ValidateOutput checks format names a supported output format
func ValidateOutput(format string) error {
	switch format {
	case OutputTable, OutputJSON, OutputYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (supported: table, json, yaml)", format)
	}
}

// Encode writes v as JSON or YAML
func Encode(w io.Writer, format string, v any) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("cannot encode as %q", format)
	}
}

type errorDocument struct {
	Host     string `json:"host" yaml:"host"`
	Gateway  string `json:"gateway" yaml:"gateway"`
	Provider string `json:"provider" yaml:"provider"`
	Error    string `json:"error" yaml:"error"`
}

type reportDocument struct {
	Today      string             `json:"today" yaml:"today"`
	WindowDays int                `json:"window_days" yaml:"window_days"`
	Gateways   int                `json:"gateways" yaml:"gateways"`
	Renewals   []string           `json:"renewals" yaml:"renewals"`
	Findings   []pkgtypes.Finding `json:"findings" yaml:"findings"`
	Errors     []errorDocument    `json:"errors" yaml:"errors"`
}

// EncodeReport writes report as JSON or YAML, host errors included
func EncodeReport(w io.Writer, format string, report *pkgtypes.Report) error {
	doc := reportDocument{
		Today:      report.Today.Format(time.DateOnly),
		WindowDays: int(report.Window.Hours() / 24),
		Gateways:   report.Gateways,
		Renewals:   report.Renewals,
		Findings:   report.Findings,
		Errors:     []errorDocument{},
	}
	if doc.Renewals == nil {
		doc.Renewals = []string{}
	}
	if doc.Findings == nil {
		doc.Findings = []pkgtypes.Finding{}
	}
	for _, e := range report.Errors {
		doc.Errors = append(doc.Errors, errorDocument{
			Host:     e.Host,
			Gateway:  e.Gateway,
			Provider: e.Provider,
			Error:    e.Err.Error(),
		})
	}
	return Encode(w, format, doc)
}
