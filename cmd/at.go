package cmd

import (
	"fmt"
	"strconv"

	"github.com/LumeraProtocol/codegen/internal/config"
	"github.com/LumeraProtocol/codegen/pkg/codeblock"
	"github.com/LumeraProtocol/codegen/pkg/logtrace"
	"github.com/LumeraProtocol/codegen/pkg/schedule"
	"github.com/LumeraProtocol/codegen/pkg/utils"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newAtCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "at <seed_hex> <epoch_length> <sub_epoch_length> <block_bit_length> <offset_seconds>...",
		Short: "Show the code block live at one or more offsets into the epoch",
		Long: `Resolve which sub-epoch is live at each offset (seconds since epoch start)
and print its index and code block. Offsets past the last full sub-epoch are
rejected. Repeated offsets within one sub-epoch are served from the block cache.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 5 {
				return usageError{fmt.Errorf("%s expects at least 5 arguments, got %d", cmd.Name(), len(args))}
			}
			return nil
		},
		RunE: opts.runAt,
	}
}

type liveCode struct {
	Offset uint64 `json:"offset"`
	Index  uint32 `json:"index"`
	Code   string `json:"code"`
}

func (o *globalOptions) runAt(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	in, err := parseInputs(args[0], args[1], args[2], args[3])
	if err != nil {
		return err
	}
	offsets := make([]uint64, 0, len(args)-4)
	for _, a := range args[4:] {
		off, err := strconv.ParseUint(a, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "error parsing offset %q", a)
		}
		offsets = append(offsets, off)
	}
	if _, err := in.params.Count(); err != nil {
		return err
	}

	scheme, err := codeblock.ParseScheme(o.cfg.Derivation.Scheme)
	if err != nil {
		return err
	}

	fingerprint := utils.SeedFingerprint(in.seed)
	warnShortSeed(ctx, in.seed, fingerprint)

	src := codeblock.NewSource(in.seed, scheme)
	defer src.Close()
	in.wipe()

	deriver, closeCache, err := cacheFor(o.cfg, src)
	if err != nil {
		return err
	}
	defer closeCache()

	codes := make([]liveCode, 0, len(offsets))
	for _, off := range offsets {
		idx, block, err := schedule.BlockAt(deriver, in.params, off)
		if err != nil {
			return err
		}
		codes = append(codes, liveCode{Offset: off, Index: idx, Code: fmt.Sprintf("%x", block)})
	}

	logtrace.Debug(ctx, "Resolved live codes", logtrace.Fields{
		logtrace.FieldSeedFingerprint: fingerprint,
		logtrace.FieldScheme:          scheme.String(),
		logtrace.FieldBlockCount:      len(codes),
	})

	out := cmd.OutOrStdout()
	switch o.cfg.Output.Format {
	case config.FormatJSON:
		data, err := json.MarshalIndent(codes, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case config.FormatHex:
		for _, c := range codes {
			fmt.Fprintln(out, c.Code)
		}
	case config.FormatText:
		for _, c := range codes {
			fmt.Fprintf(out, "offset %ds: code[%d] = %s\n", c.Offset, c.Index, c.Code)
		}
	default:
		return fmt.Errorf("unknown output format %q (want text, hex or json)", o.cfg.Output.Format)
	}
	return nil
}
