package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"unicode/utf8"

	"buspulse/internal/models"
	"buspulse/internal/parser"
	"buspulse/internal/repository"
)

// Фатальные для всего батча условия: ничего не сохраняется, пользователь
// видит одно сообщение
var (
	ErrBadEncoding = errors.New("csv must be UTF-8 encoded")
	ErrEmptyFile   = errors.New("csv file is empty")
)

// IngestSummary - итог обработки батча: счетчики плюс описание первой ошибки.
// Остальные ошибки строк молча считаются в Skipped.
type IngestSummary struct {
	RowsRead        int    `json:"rows_read"`
	Observations    int    `json:"observations"`
	CrowdingSamples int    `json:"crowding_samples"`
	EtaSamples      int    `json:"eta_samples"`
	Skipped         int    `json:"skipped"`
	FirstError      string `json:"first_error,omitempty"`
}

// IngestService прогоняет загруженный CSV через конвейер
// разбор -> upsert справочников -> деривация. Отказ одной строки
// не прерывает батч.
type IngestService interface {
	IngestCSV(ctx context.Context, r io.Reader) (*IngestSummary, error)
}

type ingestService struct {
	buses      repository.BusRepository
	stops      repository.StopRepository
	derivation DerivationService
}

func NewIngestService(
	buses repository.BusRepository,
	stops repository.StopRepository,
	derivation DerivationService,
) IngestService {
	return &ingestService{
		buses:      buses,
		stops:      stops,
		derivation: derivation,
	}
}

func (s *ingestService) IngestCSV(ctx context.Context, r io.Reader) (*IngestSummary, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	if !utf8.Valid(data) {
		return nil, ErrBadEncoding
	}
	// Допускаем UTF-8 BOM
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	// Заголовок проверяется один раз до обработки строк
	if err := parser.ValidateHeader(header); err != nil {
		return nil, err
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	summary := &IngestSummary{}
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		summary.RowsRead++
		if err != nil {
			s.fail(summary, summary.RowsRead, &parser.RowError{Kind: parser.KindBadField, Message: err.Error()})
			continue
		}

		record := make(map[string]string, len(columns))
		for i, col := range columns {
			if i < len(fields) {
				record[col] = fields[i]
			}
		}

		s.processRow(ctx, summary, summary.RowsRead, record)
	}

	log.Printf("CSV ingest complete: %d rows, %d observations, %d crowding, %d eta, %d skipped",
		summary.RowsRead, summary.Observations, summary.CrowdingSamples, summary.EtaSamples, summary.Skipped)

	return summary, nil
}

// processRow проводит одну строку через все стадии. Любой сбой переводит
// строку в Failed: счетчик пропусков растет, батч продолжается.
func (s *ingestService) processRow(ctx context.Context, summary *IngestSummary, rowNum int, record map[string]string) {
	row, rerr := parser.ParseRow(record)
	if rerr != nil {
		s.fail(summary, rowNum, rerr)
		return
	}

	bus, err := s.buses.Upsert(ctx, row.BusID, row.Capacity)
	if err != nil {
		s.fail(summary, rowNum, err)
		return
	}

	var stop *models.BusStop
	if row.StopID != "" {
		stop, err = s.stops.Upsert(ctx, row.StopID, row.StopName, row.StopLat, row.StopLon)
		if err != nil {
			s.fail(summary, rowNum, err)
			return
		}
	}

	obs, err := s.derivation.RecordObservation(ctx, bus, row)
	if err != nil {
		s.fail(summary, rowNum, err)
		return
	}
	summary.Observations++

	crowdingSample, err := s.derivation.DeriveCrowding(ctx, obs, bus)
	if err != nil {
		s.fail(summary, rowNum, err)
		return
	}
	if crowdingSample != nil {
		summary.CrowdingSamples++
	}

	if stop != nil {
		if _, err := s.derivation.DeriveEta(ctx, obs, bus, stop); err != nil {
			s.fail(summary, rowNum, err)
			return
		}
		summary.EtaSamples++
	}
}

func (s *ingestService) fail(summary *IngestSummary, rowNum int, err error) {
	summary.Skipped++
	if summary.FirstError == "" {
		summary.FirstError = fmt.Sprintf("row %d: %s", rowNum, err.Error())
	}
}
