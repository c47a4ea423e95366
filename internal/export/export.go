package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/hawkmoth/internal/analysis"
	"github.com/san-kum/hawkmoth/internal/experiment"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatJSON:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown export format: %s", s)
}

type ExportData struct {
	Experiment    string            `json:"experiment"`
	Params        experiment.Params `json:"params"`
	BaselineLabel string            `json:"baseline_label"`
	VariantLabel  string            `json:"variant_label"`
	Steps         int               `json:"steps"`
	Baseline      []float64         `json:"baseline"`
	Variant       []float64         `json:"variant"`
	Divergence    []float64         `json:"divergence"`
	Summary       analysis.Summary  `json:"summary"`
}

func NewExportData(cmp *experiment.Comparison) ExportData {
	return ExportData{
		Experiment:    string(cmp.Kind),
		Params:        cmp.Params,
		BaselineLabel: cmp.BaselineLabel,
		VariantLabel:  cmp.VariantLabel,
		Steps:         len(cmp.Divergence),
		Baseline:      cmp.Baseline,
		Variant:       cmp.Variant,
		Divergence:    cmp.Divergence,
		Summary:       analysis.Summarize(cmp.Divergence, analysis.DefaultHorizonThreshold),
	}
}

func Write(w io.Writer, format Format, cmp *experiment.Comparison) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, cmp)
	case FormatJSON:
		return WriteJSON(w, cmp)
	}
	return fmt.Errorf("unknown export format: %s", format)
}

func WriteJSON(w io.Writer, cmp *experiment.Comparison) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(cmp))
}

// WriteCSV writes one row per step: step, baseline, variant, divergence.
func WriteCSV(w io.Writer, cmp *experiment.Comparison) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"step", "baseline", "variant", "divergence"}); err != nil {
		return err
	}

	for i := range cmp.Divergence {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(cmp.Baseline[i], 'f', -1, 64),
			strconv.FormatFloat(cmp.Variant[i], 'f', -1, 64),
			strconv.FormatFloat(cmp.Divergence[i], 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
