// Package intake ties the GS1 decoder to product lookup and intake
// history: the workflow glue around the pure decoding core.
package intake

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"medscan/internal/gs1"
	"medscan/internal/store"
)

// Service processes scanned payloads: decode, enrich with product
// master data, persist.
type Service struct {
	store   *store.Store
	logger  *zap.Logger
	workers int
}

// Result is the outcome of processing one payload.
type Result struct {
	// Record is the decoded payload, always present.
	Record gs1.ParsedRecord
	// Product is the master-data match for the GTIN, when known.
	Product *store.Product
	// IntakeID is the persisted row ID, zero when not saved.
	IntakeID int64
}

// NewService creates an intake service. workers bounds the decode
// parallelism used for batch files; values below 1 mean 1.
func NewService(st *store.Store, logger *zap.Logger, workers int) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers < 1 {
		workers = 1
	}
	return &Service{store: st, logger: logger, workers: workers}
}

// Process decodes one payload, looks up the product and records the
// intake. Decoding never fails; an unknown GTIN or a non-GS1 payload
// is still recorded so the operator can complete the fields manually.
func (s *Service) Process(payload string) (Result, error) {
	res := Result{Record: gs1.Decode(payload)}

	if res.Record.GTIN != nil {
		p, found, err := s.store.ProductByGTIN(*res.Record.GTIN)
		if err != nil {
			return res, fmt.Errorf("product lookup failed: %w", err)
		}
		if found {
			res.Product = &p
		} else {
			s.logger.Info("no master data for scanned GTIN",
				zap.String("gtin", *res.Record.GTIN))
		}
	}

	id, err := s.store.InsertIntake(toIntakeRow(res.Record))
	if err != nil {
		return res, fmt.Errorf("failed to record intake: %w", err)
	}
	res.IntakeID = id

	s.logger.Debug("intake recorded",
		zap.Int64("id", id),
		zap.Bool("gs1", res.Record.IsGS1))
	return res, nil
}

// Preview decodes and enriches a payload without persisting it.
func (s *Service) Preview(payload string) (Result, error) {
	res := Result{Record: gs1.Decode(payload)}
	if res.Record.GTIN == nil {
		return res, nil
	}
	p, found, err := s.store.ProductByGTIN(*res.Record.GTIN)
	if err != nil {
		return res, fmt.Errorf("product lookup failed: %w", err)
	}
	if found {
		res.Product = &p
	}
	return res, nil
}

// ProcessFile ingests a scan batch file: one payload per line, blank
// lines and #-comments skipped. Decoding runs on a bounded worker
// pool; results are persisted in line order so the intake history
// matches the file. Returns the number of recorded intakes.
func (s *Service) ProcessFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open scan file: %w", err)
	}
	defer f.Close()

	var payloads []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		payloads = append(payloads, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("failed to read scan file: %w", err)
	}

	records := make([]gs1.ParsedRecord, len(payloads))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, payload := range payloads {
		i, payload := i, payload
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			records[i] = gs1.Decode(payload)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	saved := 0
	for _, rec := range records {
		if _, err := s.store.InsertIntake(toIntakeRow(rec)); err != nil {
			return saved, fmt.Errorf("failed to record intake: %w", err)
		}
		saved++
	}

	s.logger.Info("scan file ingested",
		zap.String("path", path),
		zap.Int("records", saved))
	return saved, nil
}

// toIntakeRow flattens a decoded record into its storage shape.
func toIntakeRow(rec gs1.ParsedRecord) store.Intake {
	row := store.Intake{Raw: rec.Raw}
	if rec.GTIN != nil {
		row.GTIN = *rec.GTIN
	}
	if rec.Expiry != nil {
		row.ExpiryDate = gs1.FormatDate(*rec.Expiry)
	}
	if rec.Batch != nil {
		row.LotNumber = *rec.Batch
	}
	if rec.Serial != nil {
		row.SerialNumber = *rec.Serial
	}
	return row
}
