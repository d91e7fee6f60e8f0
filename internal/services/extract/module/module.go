// Package module wires the extract service: pack loading, overlay merging,
// config, and collaborator port guardrails
package module

import (
	"scran/internal/core/lexicon"
	"scran/internal/platform/config"
	"scran/internal/platform/logger"
	"scran/internal/services/extract/domain"
	"scran/internal/services/extract/service"
)

// Module owns the extract service and its compiled pack
type Module struct {
	pack      *lexicon.Pack
	extractor domain.ExtractorPort
}

// New constructs the extract module. Collaborator ports may be nil, which
// disables the matching escalation path; the deterministic pipeline always runs
func New(cfg config.Conf, ports domain.Ports, overrides Options) *Module {
	opts := FromConfig(cfg)
	if overrides.ProximityWindow != 0 {
		opts.ProximityWindow = overrides.ProximityWindow
	}
	if overrides.PlausibilityDays != 0 {
		opts.PlausibilityDays = overrides.PlausibilityDays
	}
	if overrides.PastGrace != 0 {
		opts.PastGrace = overrides.PastGrace
	}
	if overrides.MembershipFeeMax != 0 {
		opts.MembershipFeeMax = overrides.MembershipFeeMax
	}
	if overrides.MinSegmentLen != 0 {
		opts.MinSegmentLen = overrides.MinSegmentLen
	}
	if overrides.MaxSegments != 0 {
		opts.MaxSegments = overrides.MaxSegments
	}
	if overrides.LowYieldLen != 0 {
		opts.LowYieldLen = overrides.LowYieldLen
	}
	if overrides.OverlayPath != "" {
		opts.OverlayPath = overrides.OverlayPath
	}

	pack, err := lexicon.Load()
	if err != nil {
		panic(err)
	}
	if opts.OverlayPath != "" {
		if err := pack.MergeOverlayFile(opts.OverlayPath); err != nil {
			panic(err)
		}
		logger.Named("extract").Info().Str("path", opts.OverlayPath).Msg("lexicon overlay merged")
	}

	svc := service.New(pack, ports, service.Config{
		ProximityWindow:  opts.ProximityWindow,
		PlausibilityDays: opts.PlausibilityDays,
		PastGrace:        opts.PastGrace,
		MembershipFeeMax: opts.MembershipFeeMax,
		MinSegmentLen:    opts.MinSegmentLen,
		MaxSegments:      opts.MaxSegments,
		LowYieldLen:      opts.LowYieldLen,
	})

	return &Module{pack: pack, extractor: svc}
}

// Name identifies the module
func (m *Module) Name() string { return "extract" }

// Extractor returns the wired pipeline port
func (m *Module) Extractor() domain.ExtractorPort { return m.extractor }

// Pack exposes the compiled lexicon (packcheck and diagnostics)
func (m *Module) Pack() *lexicon.Pack { return m.pack }
