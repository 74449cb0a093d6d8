package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/violayifan/creditrisk/cdserr"
	"github.com/violayifan/creditrisk/config"
	"github.com/violayifan/creditrisk/curve"
	"github.com/violayifan/creditrisk/hazard"
	"github.com/violayifan/creditrisk/marketdata"
	"github.com/violayifan/creditrisk/output"
	"github.com/violayifan/creditrisk/utils"
)

type stripInput struct {
	TaskID    string  `json:"task_id,omitempty"`
	Date      string  `json:"date,omitempty"`
	Ticker    string  `json:"ticker"`
	ShortName string  `json:"short_name,omitempty"`
	Recovery  float64 `json:"recovery"`
	// Frequency overrides solver.frequency when positive.
	Frequency int          `json:"frequency,omitempty"`
	ZeroRates []float64    `json:"zero_rates"`
	Spreads   []spreadJSON `json:"spreads"`
}

// spreadJSON is one quoted tenor; a null spread marks a missing quote.
type spreadJSON struct {
	Tenor  string   `json:"tenor"`
	Spread *float64 `json:"spread"`
}

type segmentJSON struct {
	Tenor  string  `json:"tenor"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Hazard float64 `json:"hazard"`
}

type stripOutput struct {
	TaskID    string             `json:"task_id,omitempty"`
	Date      string             `json:"date,omitempty"`
	Ticker    string             `json:"ticker,omitempty"`
	Hazards   []output.TenorJSON `json:"hazards,omitempty"`
	Segments  []segmentJSON      `json:"segments,omitempty"`
	Survival  float64            `json:"survival,omitempty"`
	ErrorKind string             `json:"error_kind,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// runJSON strips each issuer in the input and prints one JSON result per
// issuer. It returns the process exit code.
func runJSON(path string, cfg config.Config) int {
	path = strings.TrimSpace(path)
	if path == "" {
		if stat, err := os.Stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
			fmt.Fprintln(os.Stderr, "Usage: hazardstrip -json -input <path>")
			return 2
		}
	}

	raw, err := readInput(path)
	if err != nil {
		writeError(fmt.Sprintf("read input: %v", err))
		return 1
	}
	inputs, isArray, err := parseInputs(raw)
	if err != nil {
		writeError(fmt.Sprintf("parse JSON: %v", err))
		return 1
	}

	hadError := false
	outputs := make([]stripOutput, 0, len(inputs))
	for _, in := range inputs {
		out := process(in, cfg)
		if out.Error != "" {
			hadError = true
		}
		outputs = append(outputs, out)
	}

	if isArray {
		b, _ := json.Marshal(outputs)
		fmt.Println(string(b))
	} else {
		b, _ := json.Marshal(outputs[0])
		fmt.Println(string(b))
	}
	if hadError {
		return 1
	}
	return 0
}

func process(in stripInput, cfg config.Config) stripOutput {
	out := stripOutput{TaskID: in.TaskID, Date: in.Date, Ticker: in.Ticker}
	fail := func(err error) stripOutput {
		out.ErrorKind = cdserr.Kind(err)
		out.Error = err.Error()
		return out
	}

	solver := cfg.Solver
	if in.Frequency > 0 {
		solver.Frequency = in.Frequency
	}

	q := hazard.IssuerQuote{Ticker: in.Ticker, ShortName: in.ShortName, Recovery: in.Recovery}
	if in.Date != "" {
		d, err := utils.ParseDate(in.Date)
		if err != nil {
			return fail(&cdserr.ParseError{Field: "date", Value: in.Date, Err: err})
		}
		q.Date = d
	}
	for _, s := range in.Spreads {
		label, m, err := marketdata.ParseTenorLabel(s.Tenor)
		if err != nil {
			return fail(err)
		}
		tq := hazard.TenorQuote{Label: label, Maturity: m}
		if s.Spread != nil {
			tq.Spread = *s.Spread
			tq.Present = true
		}
		q.Tenors = append(q.Tenors, tq)
	}

	dfc, err := curve.BootstrapDiscountFactors(in.ZeroRates, solver.Frequency)
	if err != nil {
		return fail(err)
	}

	res, err := hazard.Strip(q, dfc, solver)
	out.Hazards = output.TenorsJSON(res.Hazards, cfg.Output.Precision)
	for _, seg := range res.Segments {
		out.Segments = append(out.Segments, segmentJSON{Tenor: seg.Tenor, Start: seg.Start, End: seg.End, Hazard: seg.Hazard})
	}
	if n := len(res.Survival); n > 0 {
		out.Survival = res.Survival[n-1]
	}
	if err != nil {
		return fail(err)
	}
	return out
}

func readInput(path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(os.Stdin)
}

func parseInputs(raw []byte) ([]stripInput, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, errors.New("empty input")
	}
	if trimmed[0] == '[' {
		var inputs []stripInput
		if err := json.Unmarshal(trimmed, &inputs); err != nil {
			return nil, true, err
		}
		if len(inputs) == 0 {
			return nil, true, errors.New("empty input array")
		}
		return inputs, true, nil
	}
	var input stripInput
	if err := json.Unmarshal(trimmed, &input); err != nil {
		return nil, false, err
	}
	return []stripInput{input}, false, nil
}

func writeError(msg string) {
	b, _ := json.Marshal(stripOutput{Error: msg})
	fmt.Println(string(b))
}
