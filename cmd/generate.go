package cmd

import (
	"context"
	"strconv"
	"time"

	"github.com/LumeraProtocol/codegen/internal/config"
	"github.com/LumeraProtocol/codegen/pkg/codeblock"
	"github.com/LumeraProtocol/codegen/pkg/logtrace"
	"github.com/LumeraProtocol/codegen/pkg/schedule"
	"github.com/LumeraProtocol/codegen/pkg/sysinfo"
	"github.com/LumeraProtocol/codegen/pkg/utils"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// minSeedBytes is the seed length below which a warning is logged.
const minSeedBytes = 16

// ErrEmptySeed rejects an empty seed: it would make the schedule public.
var ErrEmptySeed = errors.New("seed must not be empty")

// inputs is the parsed form of the four positional arguments.
type inputs struct {
	seed   []byte
	params schedule.Params
}

// parseInputs decodes and validates the positional arguments. All parsing
// happens before validation so the first malformed argument is reported.
func parseInputs(seedHex, epoch, subEpoch, bits string) (*inputs, error) {
	seed, err := utils.ParseHex(seedHex)
	if err != nil && !errors.Is(err, utils.ErrEmptyHex) {
		return nil, errors.Wrap(err, "error parsing seed hex")
	}

	epochLength, err := strconv.ParseUint(epoch, 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, "error parsing epoch_length")
	}
	subEpochLength, err := strconv.ParseUint(subEpoch, 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, "error parsing sub_epoch_length")
	}
	bitLength, err := strconv.ParseUint(bits, 10, 32)
	if err != nil {
		return nil, errors.Wrap(err, "error parsing block_bit_length")
	}

	in := &inputs{
		seed: seed,
		params: schedule.Params{
			EpochLength:    epochLength,
			SubEpochLength: subEpochLength,
			BitLength:      uint32(bitLength),
		},
	}
	if err := in.params.Validate(); err != nil {
		return nil, err
	}
	if len(in.seed) == 0 {
		return nil, ErrEmptySeed
	}
	return in, nil
}

// wipe clears the seed once a Source holds its own copy.
func (in *inputs) wipe() {
	for i := range in.seed {
		in.seed[i] = 0
	}
}

func (o *globalOptions) runGenerate(cmd *cobra.Command, args []string) error {
	in, err := parseInputs(args[0], args[1], args[2], args[3])
	if err != nil {
		return err
	}
	return o.generate(cmd, in)
}

// generate derives and prints the full schedule for in.
func (o *globalOptions) generate(cmd *cobra.Command, in *inputs) error {
	ctx := cmd.Context()

	if _, err := in.params.Count(); err != nil {
		return err
	}
	scheme, err := codeblock.ParseScheme(o.cfg.Derivation.Scheme)
	if err != nil {
		return err
	}
	render, err := rendererFor(o.cfg.Output.Format)
	if err != nil {
		return err
	}

	fingerprint := utils.SeedFingerprint(in.seed)
	warnShortSeed(ctx, in.seed, fingerprint)

	src := codeblock.NewSource(in.seed, scheme)
	defer src.Close()
	in.wipe()

	gen := schedule.NewGenerator(src,
		schedule.WithWorkers(o.workerCount(ctx)),
		schedule.WithBatchSize(o.cfg.Generation.BatchSize),
		schedule.WithMaxBlocks(o.cfg.Generation.MaxBlocks),
	)

	start := time.Now()
	s, err := gen.Generate(ctx, in.params)
	if err != nil {
		return errors.Wrap(err, "generating schedule")
	}

	logtrace.Info(ctx, "Schedule generated", logtrace.Fields{
		logtrace.FieldSeedFingerprint: fingerprint,
		logtrace.FieldScheme:          scheme.String(),
		logtrace.FieldEpochLength:     in.params.EpochLength,
		logtrace.FieldSubEpochLength:  in.params.SubEpochLength,
		logtrace.FieldBitLength:       in.params.BitLength,
		logtrace.FieldBlockCount:      s.Count(),
		logtrace.FieldDurationMS:      time.Since(start).Milliseconds(),
	})

	return render(cmd.OutOrStdout(), &report{
		Scheme:      scheme,
		Fingerprint: fingerprint,
		Schedule:    s,
	})
}

// workerCount resolves the worker pool size: explicit configuration first,
// otherwise one worker per logical CPU.
func (o *globalOptions) workerCount(ctx context.Context) int {
	if o.cfg.Generation.Workers > 0 {
		return o.cfg.Generation.Workers
	}
	return sysinfo.DefaultWorkers(ctx)
}

func warnShortSeed(ctx context.Context, seed []byte, fingerprint string) {
	if len(seed) >= minSeedBytes {
		return
	}
	logtrace.Warn(ctx, "Seed is shorter than 128 bits; schedules may be guessable", logtrace.Fields{
		logtrace.FieldSeedBytes:       len(seed),
		logtrace.FieldSeedFingerprint: fingerprint,
	})
}

// cacheFor wraps src in a CachedDeriver when caching is enabled.
func cacheFor(cfg *config.Config, src codeblock.Deriver) (codeblock.Deriver, func(), error) {
	if cfg.Derivation.CacheSize <= 0 {
		return src, func() {}, nil
	}
	cd, err := codeblock.NewCachedDeriver(src, cfg.Derivation.CacheSize)
	if err != nil {
		return nil, nil, errors.Wrap(err, "creating block cache")
	}
	return cd, cd.Close, nil
}
