// Package export periodically dumps the exchange log to Parquet files, to a
// local directory or to a Google Cloud Storage bucket.
package export

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	config "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/config"
	model "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/domain/model"
	ports "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/ports"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/exception"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/logger"
)

const moduleName = "export"

// exchangeRow is the Parquet schema of one exported exchange.
type exchangeRow struct {
	ID         string `parquet:"name=id,type=BYTE_ARRAY,convertedtype=UTF8"`
	ChannelID  string `parquet:"name=channel_id,type=BYTE_ARRAY,convertedtype=UTF8"`
	ThreadTS   string `parquet:"name=thread_ts,type=BYTE_ARRAY,convertedtype=UTF8"`
	UserID     string `parquet:"name=user_id,type=BYTE_ARRAY,convertedtype=UTF8"`
	Question   string `parquet:"name=question,type=BYTE_ARRAY,convertedtype=UTF8"`
	Topic      string `parquet:"name=topic,type=BYTE_ARRAY,convertedtype=UTF8"`
	SourceFile string `parquet:"name=source_file,type=BYTE_ARRAY,convertedtype=UTF8"`
	Answer     string `parquet:"name=answer,type=BYTE_ARRAY,convertedtype=UTF8"`
	Outcome    string `parquet:"name=outcome,type=BYTE_ARRAY,convertedtype=UTF8"`
	LatencyMS  int64  `parquet:"name=latency_ms,type=INT64"`
	CreatedAt  int64  `parquet:"name=created_at,type=INT64,convertedtype=TIMESTAMP_MILLIS"`
}

func toRow(e model.Exchange) exchangeRow {
	return exchangeRow{
		ID:         e.ID,
		ChannelID:  e.ChannelID,
		ThreadTS:   e.ThreadTS,
		UserID:     e.UserID,
		Question:   e.Question,
		Topic:      e.Topic,
		SourceFile: e.SourceFile,
		Answer:     e.Answer,
		Outcome:    e.Outcome.String(),
		LatencyMS:  e.LatencyMS,
		CreatedAt:  e.CreatedAt.UnixMilli(),
	}
}

// ParquetExporter writes the exchange log as Parquet files partitioned by
// creation date (dt=YYYY-MM-DD).
type ParquetExporter struct {
	repo ports.ExchangeRepository
	sink Sink
	cfg  config.ExportConfig
}

// NewParquetExporter creates a new ParquetExporter.
func NewParquetExporter(repo ports.ExchangeRepository, sink Sink, cfg config.ExportConfig) *ParquetExporter {
	return &ParquetExporter{repo: repo, sink: sink, cfg: cfg}
}

// Export dumps all exchanges to one Parquet file per date partition. A failed
// partition does not abort the remaining ones; errors are aggregated.
func (e *ParquetExporter) Export(ctx context.Context) error {
	exchanges, err := e.repo.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(exchanges) == 0 {
		logger.Debugf("Export skipped, no exchanges recorded yet.")
		return nil
	}

	codec, err := compressionCodec(e.cfg.Compression)
	if err != nil {
		return err
	}

	partitions := make(map[string][]exchangeRow)
	for _, exchange := range exchanges {
		key := fmt.Sprintf("dt=%s", exchange.CreatedAt.Format("2006-01-02"))
		partitions[key] = append(partitions[key], toRow(exchange))
	}

	var multiErr error
	for key, rows := range partitions {
		if err := e.exportPartition(ctx, key, rows, codec); err != nil {
			logger.Errorf("Failed to export partition '%s': %v", key, err)
			multiErr = multierror.Append(multiErr, err)
		}
	}
	if multiErr != nil {
		return multiErr
	}

	logger.Infof("Exported %d exchange(s) across %d partition(s).", len(exchanges), len(partitions))
	return nil
}

// exportPartition serializes one partition into an in-memory buffer and hands
// it to the sink.
func (e *ParquetExporter) exportPartition(ctx context.Context, key string, rows []exchangeRow, codec parquet.CompressionCodec) (err error) {
	buf := new(bytes.Buffer)
	pw, err := writer.NewParquetWriterFromWriter(buf, new(exchangeRow), int64(len(rows)))
	if err != nil {
		return exception.NewBotError(moduleName, "failed to create Parquet writer", err, false)
	}
	pw.CompressionType = codec

	for _, row := range rows {
		if err := pw.Write(row); err != nil {
			return exception.NewBotError(moduleName, "failed to write Parquet row", err, false)
		}
	}

	// WriteStop panics on some malformed schemas, convert that to an error.
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = exception.NewBotError(moduleName, fmt.Sprintf("Parquet writer panicked during WriteStop: %v", r), nil, false)
			}
		}()
		if stopErr := pw.WriteStop(); stopErr != nil {
			err = exception.NewBotError(moduleName, "failed to finalize Parquet file", stopErr, false)
		}
	}()
	if err != nil {
		return err
	}

	fileName := fmt.Sprintf("exchanges_%s.parquet", time.Now().UTC().Format("20060102150405"))
	objectName := filepath.Join(key, fileName)
	return e.sink.Put(ctx, objectName, buf.Bytes())
}

// compressionCodec maps the configured compression name to a Parquet codec.
func compressionCodec(name string) (parquet.CompressionCodec, error) {
	switch name {
	case "SNAPPY", "":
		return parquet.CompressionCodec_SNAPPY, nil
	case "GZIP":
		return parquet.CompressionCodec_GZIP, nil
	case "NONE":
		return parquet.CompressionCodec_UNCOMPRESSED, nil
	default:
		return parquet.CompressionCodec_SNAPPY, exception.NewBotError(moduleName, fmt.Sprintf("unsupported compression type '%s'", name), nil, false)
	}
}
