package cmd

import (
	"fmt"
	"io"

	"github.com/LumeraProtocol/codegen/internal/config"
	"github.com/LumeraProtocol/codegen/pkg/codeblock"
	"github.com/LumeraProtocol/codegen/pkg/schedule"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// report is everything a renderer may print about a generated schedule.
type report struct {
	Scheme      codeblock.Scheme
	Fingerprint string
	Schedule    *schedule.Schedule
}

type renderer func(w io.Writer, r *report) error

func rendererFor(format string) (renderer, error) {
	switch format {
	case config.FormatText:
		return renderText, nil
	case config.FormatHex:
		return renderHex, nil
	case config.FormatJSON:
		return renderJSON, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want text, hex or json)", format)
	}
}

func renderText(w io.Writer, r *report) error {
	p := r.Schedule.Params
	codes := r.Schedule.Hex()

	fmt.Fprintf(w, "Generating %d code blocks...\n", len(codes))
	fmt.Fprintln(w, "Parameters:")
	fmt.Fprintf(w, "  Seed fingerprint: %s\n", r.Fingerprint)
	fmt.Fprintf(w, "  Derivation scheme: %s\n", r.Scheme)
	fmt.Fprintf(w, "  Epoch length: %d seconds\n", p.EpochLength)
	fmt.Fprintf(w, "  Sub-epoch length: %d seconds\n", p.SubEpochLength)
	fmt.Fprintf(w, "  Block bit length: %d bits\n", p.BitLength)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Generated codes:")
	for i, code := range codes {
		fmt.Fprintf(w, "  code[%d] = %s\n", i, code)
	}

	_, err := fmt.Fprintf(w, "\nConcatenated code: %s\n", r.Schedule.ConcatenatedHex())
	return err
}

// renderHex prints one block per line followed by the concatenation.
func renderHex(w io.Writer, r *report) error {
	for _, code := range r.Schedule.Hex() {
		if _, err := fmt.Fprintln(w, code); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, r.Schedule.ConcatenatedHex())
	return err
}

type scheduleJSON struct {
	Scheme          string   `json:"scheme"`
	SeedFingerprint string   `json:"seed_fingerprint"`
	EpochLength     uint64   `json:"epoch_length"`
	SubEpochLength  uint64   `json:"sub_epoch_length"`
	BlockBitLength  uint32   `json:"block_bit_length"`
	Count           int      `json:"count"`
	Codes           []string `json:"codes"`
	Concatenated    string   `json:"concatenated"`
}

func renderJSON(w io.Writer, r *report) error {
	p := r.Schedule.Params
	data, err := json.MarshalIndent(scheduleJSON{
		Scheme:          r.Scheme.String(),
		SeedFingerprint: r.Fingerprint,
		EpochLength:     p.EpochLength,
		SubEpochLength:  p.SubEpochLength,
		BlockBitLength:  p.BitLength,
		Count:           r.Schedule.Count(),
		Codes:           r.Schedule.Hex(),
		Concatenated:    r.Schedule.ConcatenatedHex(),
	}, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
