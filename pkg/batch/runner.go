// Package batch drives a sequence of company numbers through the
// registry client and assembles one output record per input row.
// Failed or blank lookups degrade to sentinel values; a batch never
// aborts because of one bad row.
package batch

import (
	"context"
	"strconv"
	"strings"

	"github.com/OdhranMac/companies-house-api/pkg/registry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Prometheus metrics for batch runs.
var (
	batchRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "batch_rows_total",
		Help: "Batch rows processed by outcome",
	}, []string{"outcome"})
)

// Row outcomes for metrics.
const (
	outcomeResolved = "resolved"
	outcomeBlank    = "blank"
	outcomeNoResult = "no_result"
)

// Client is the subset of the registry client the runner needs.
type Client interface {
	CompanyProfile(ctx context.Context, companyNumber string) *registry.CompanyProfile
	Directors(ctx context.Context, officersLink string) []string
	Charges(ctx context.Context, chargesLink string) []registry.Charge
}

// Options are the independent enrichment toggles.
type Options struct {
	IncludeDirectors  bool
	IncludeCharges    bool
	IncludeInsolvency bool
}

// Progress describes one completed row. It is reported to the progress
// callback as a side effect and not retained.
type Progress struct {
	Index         int // zero-based
	Total         int
	Percent       int
	CompanyNumber string
	CompanyName   string
}

// ProgressFunc observes row completion.
type ProgressFunc func(Progress)

// Runner executes a batch of lookups sequentially.
type Runner struct {
	client     Client
	opts       Options
	logger     zerolog.Logger
	onProgress ProgressFunc
	titler     cases.Caser
}

// NewRunner creates a batch runner. Progress defaults to structured
// log output; override with SetProgressFunc.
func NewRunner(client Client, opts Options) *Runner {
	r := &Runner{
		client: client,
		opts:   opts,
		logger: log.With().Str("component", "batch-runner").Logger(),
		titler: cases.Title(language.English),
	}
	r.onProgress = r.logProgress
	return r
}

// SetProgressFunc overrides the progress callback.
func (r *Runner) SetProgressFunc(fn ProgressFunc) {
	if fn != nil {
		r.onProgress = fn
	}
}

// Run processes every company number in order and returns one record
// per input, blank and unresolvable identifiers included.
func (r *Runner) Run(ctx context.Context, companyNumbers []string) []Record {
	total := len(companyNumbers)
	records := make([]Record, 0, total)

	r.logger.Info().
		Int("total", total).
		Bool("directors", r.opts.IncludeDirectors).
		Bool("charges", r.opts.IncludeCharges).
		Bool("insolvency", r.opts.IncludeInsolvency).
		Msg("Starting batch run")

	for i, companyNumber := range companyNumbers {
		record := r.processRow(ctx, companyNumber)
		records = append(records, record)

		r.onProgress(Progress{
			Index:         i,
			Total:         total,
			Percent:       (i + 1) * 100 / total,
			CompanyNumber: record.CompanyNumber,
			CompanyName:   record.CompanyName,
		})
	}

	r.logger.Info().Int("rows", len(records)).Msg("Batch run complete")
	return records
}

// processRow resolves a single company number into an output record.
func (r *Runner) processRow(ctx context.Context, companyNumber string) Record {
	companyNumber = strings.TrimSpace(companyNumber)

	// Blank identifier: no API call, every field sentinel.
	if companyNumber == "" {
		batchRowsTotal.WithLabelValues(outcomeBlank).Inc()
		return r.sentinelRecord("")
	}

	profile := r.client.CompanyProfile(ctx, companyNumber)
	if profile == nil {
		batchRowsTotal.WithLabelValues(outcomeNoResult).Inc()
		return r.sentinelRecord(companyNumber)
	}

	record := Record{
		CompanyNumber:           companyNumber,
		CompanyName:             profile.CompanyName,
		Jurisdiction:            r.titler.String(profile.Jurisdiction),
		Type:                    strings.ToUpper(profile.Type),
		RegisteredOfficeAddress: profile.Address.OneLine(),
	}

	if r.opts.IncludeDirectors {
		if profile.Links.Officers != "" {
			record.Directors = renderDirectors(r.client.Directors(ctx, profile.Links.Officers))
		} else {
			record.Directors = SentinelNoDirectors
		}
	}

	if r.opts.IncludeCharges {
		if profile.Links.Charges != "" {
			record.Charges = renderCharges(r.client.Charges(ctx, profile.Links.Charges))
		} else {
			record.Charges = SentinelNoCharges
		}
	}

	if r.opts.IncludeInsolvency {
		// Profiles carry no reliable insolvency links entry, so gate on
		// the indicator field itself.
		if profile.HasInsolvencyHistory != nil {
			record.Insolvency = strconv.FormatBool(*profile.HasInsolvencyHistory)
		} else {
			record.Insolvency = SentinelNoInsolvency
		}
	}

	batchRowsTotal.WithLabelValues(outcomeResolved).Inc()
	return record
}

// sentinelRecord fills every resolvable field with its sentinel. The
// enrichment sentinels are set regardless of toggles; disabled columns
// are simply not written downstream.
func (r *Runner) sentinelRecord(companyNumber string) Record {
	return Record{
		CompanyNumber:           companyNumber,
		CompanyName:             SentinelNoResult,
		Jurisdiction:            SentinelNoResult,
		Type:                    SentinelNoResult,
		RegisteredOfficeAddress: SentinelNoResult,
		Directors:               SentinelNoDirectors,
		Charges:                 SentinelNoCharges,
		Insolvency:              SentinelNoInsolvency,
	}
}

// logProgress is the default progress callback.
func (r *Runner) logProgress(p Progress) {
	r.logger.Info().
		Int("row", p.Index+1).
		Int("total", p.Total).
		Int("percent", p.Percent).
		Str("company_number", p.CompanyNumber).
		Str("company_name", p.CompanyName).
		Msg("Row processed")
}
